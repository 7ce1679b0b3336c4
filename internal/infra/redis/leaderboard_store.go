package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"brandquiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	soloKey      = "quiz:scores:solo"
	dailyKey     = "quiz:scores:daily"
	summariesKey = "quiz:games"
)

// LeaderboardStore keeps leaderboard entries in Redis lists (one JSON blob
// per entry), so scores survive a process restart when Redis is configured.
// Ranking happens in-process after an LRANGE; the collections stay small
// enough that this mirrors the in-memory store's behavior exactly.
type LeaderboardStore struct {
	client *redis.Client
}

func NewLeaderboardStore(client *redis.Client) *LeaderboardStore {
	return &LeaderboardStore{client: client}
}

func (s *LeaderboardStore) AddSoloScore(ctx context.Context, score domain.SoloScore) error {
	data, err := json.Marshal(score)
	if err != nil {
		return err
	}
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, soloKey, data)
	pipe.RPush(ctx, dailyKey, data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push solo score: %w", err)
	}
	return nil
}

func (s *LeaderboardStore) TopSolo(ctx context.Context, n int) ([]domain.SoloScore, error) {
	scores, err := s.readScores(ctx, soloKey)
	if err != nil {
		return nil, err
	}
	return topScores(scores, n), nil
}

func (s *LeaderboardStore) TopDaily(ctx context.Context, day time.Time, n int) ([]domain.SoloScore, error) {
	scores, err := s.readScores(ctx, dailyKey)
	if err != nil {
		return nil, err
	}
	y, m, d := day.Date()
	todays := scores[:0]
	for _, score := range scores {
		sy, sm, sd := score.Date.Date()
		if sy == y && sm == m && sd == d {
			todays = append(todays, score)
		}
	}
	return topScores(todays, n), nil
}

func (s *LeaderboardStore) AddGameSummary(ctx context.Context, summary domain.GameSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	if err := s.client.RPush(ctx, summariesKey, data).Err(); err != nil {
		return fmt.Errorf("push game summary: %w", err)
	}
	return nil
}

func (s *LeaderboardStore) GameSummaries(ctx context.Context) ([]domain.GameSummary, error) {
	raw, err := s.client.LRange(ctx, summariesKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read game summaries: %w", err)
	}
	summaries := make([]domain.GameSummary, 0, len(raw))
	for _, item := range raw {
		var summary domain.GameSummary
		if err := json.Unmarshal([]byte(item), &summary); err != nil {
			return nil, fmt.Errorf("decode game summary: %w", err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *LeaderboardStore) DeleteScore(ctx context.Context, kind string, index int) error {
	key, err := keyFor(kind)
	if err != nil {
		return err
	}
	// Lists have no delete-by-index, so mark the element and remove the marker.
	const tombstone = "__deleted__"
	if err := s.client.LSet(ctx, key, int64(index), tombstone).Err(); err != nil {
		return fmt.Errorf("delete score at %d: %w", index, err)
	}
	return s.client.LRem(ctx, key, 1, tombstone).Err()
}

func (s *LeaderboardStore) Clear(ctx context.Context, kind string) error {
	key, err := keyFor(kind)
	if err != nil {
		return err
	}
	return s.client.Del(ctx, key).Err()
}

func (s *LeaderboardStore) readScores(ctx context.Context, key string) ([]domain.SoloScore, error) {
	raw, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read scores: %w", err)
	}
	scores := make([]domain.SoloScore, 0, len(raw))
	for _, item := range raw {
		var score domain.SoloScore
		if err := json.Unmarshal([]byte(item), &score); err != nil {
			return nil, fmt.Errorf("decode score: %w", err)
		}
		scores = append(scores, score)
	}
	return scores, nil
}

func keyFor(kind string) (string, error) {
	switch kind {
	case domain.LeaderboardSolo:
		return soloKey, nil
	case domain.LeaderboardDaily:
		return dailyKey, nil
	case domain.LeaderboardMultiplayer:
		return summariesKey, nil
	default:
		return "", fmt.Errorf("unknown leaderboard kind %q", kind)
	}
}

func topScores(scores []domain.SoloScore, n int) []domain.SoloScore {
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	if n < len(scores) {
		scores = scores[:n]
	}
	return scores
}
