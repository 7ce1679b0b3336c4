package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"brandquiz-service/internal/domain"
)

// LeaderboardStore keeps solo scores, daily solo scores, and multiplayer
// game summaries in process memory. Entries are append-only except for the
// admin delete/clear operations; nothing persists across restarts.
type LeaderboardStore struct {
	mu          sync.RWMutex
	soloScores  []domain.SoloScore
	dailyScores []domain.SoloScore
	summaries   []domain.GameSummary
}

func NewLeaderboardStore() *LeaderboardStore {
	return &LeaderboardStore{}
}

func (s *LeaderboardStore) AddSoloScore(_ context.Context, score domain.SoloScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.soloScores = append(s.soloScores, score)
	s.dailyScores = append(s.dailyScores, score)
	return nil
}

func (s *LeaderboardStore) TopSolo(_ context.Context, n int) ([]domain.SoloScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return topScores(s.soloScores, n), nil
}

// TopDaily filters the daily collection to the given calendar day.
func (s *LeaderboardStore) TopDaily(_ context.Context, day time.Time, n int) ([]domain.SoloScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	y, m, d := day.Date()
	todays := make([]domain.SoloScore, 0, len(s.dailyScores))
	for _, score := range s.dailyScores {
		sy, sm, sd := score.Date.Date()
		if sy == y && sm == m && sd == d {
			todays = append(todays, score)
		}
	}
	return topScores(todays, n), nil
}

func (s *LeaderboardStore) AddGameSummary(_ context.Context, summary domain.GameSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, summary)
	return nil
}

func (s *LeaderboardStore) GameSummaries(_ context.Context) ([]domain.GameSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.GameSummary, len(s.summaries))
	copy(out, s.summaries)
	return out, nil
}

func (s *LeaderboardStore) DeleteScore(_ context.Context, kind string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case domain.LeaderboardSolo:
		s.soloScores = deleteAt(s.soloScores, index)
	case domain.LeaderboardDaily:
		s.dailyScores = deleteAt(s.dailyScores, index)
	case domain.LeaderboardMultiplayer:
		s.summaries = deleteAt(s.summaries, index)
	default:
		return fmt.Errorf("unknown leaderboard kind %q", kind)
	}
	return nil
}

func (s *LeaderboardStore) Clear(_ context.Context, kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case domain.LeaderboardSolo:
		s.soloScores = nil
	case domain.LeaderboardDaily:
		s.dailyScores = nil
	case domain.LeaderboardMultiplayer:
		s.summaries = nil
	default:
		return fmt.Errorf("unknown leaderboard kind %q", kind)
	}
	return nil
}

func topScores(scores []domain.SoloScore, n int) []domain.SoloScore {
	sorted := make([]domain.SoloScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

func deleteAt[T any](s []T, index int) []T {
	if index < 0 || index >= len(s) {
		return s
	}
	return append(s[:index], s[index+1:]...)
}
