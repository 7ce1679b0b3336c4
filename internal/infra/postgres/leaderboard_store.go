package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"brandquiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// LeaderboardStore persists solo scores and game summaries in Postgres.
// Rows are append-only; player rankings inside a summary are stored as JSONB.
// The all-time and daily boards are separate tables so the admin can clear
// one without touching the other.
type LeaderboardStore struct {
	pool *pgxpool.Pool
}

func NewLeaderboardStore(pool *pgxpool.Pool) *LeaderboardStore {
	return &LeaderboardStore{pool: pool}
}

func (s *LeaderboardStore) AddSoloScore(ctx context.Context, score domain.SoloScore) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("insert solo score: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"solo_scores", "daily_scores"} {
		if _, err := tx.Exec(ctx,
			`INSERT INTO `+table+` (nickname, score, avatar, created_at) VALUES ($1, $2, $3, $4)`,
			score.Nickname, score.Score, score.Avatar, score.Date); err != nil {
			return fmt.Errorf("insert solo score: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (s *LeaderboardStore) TopSolo(ctx context.Context, n int) ([]domain.SoloScore, error) {
	return s.queryScores(ctx,
		`SELECT nickname, score, avatar, created_at FROM solo_scores ORDER BY score DESC, id LIMIT $1`, n)
}

func (s *LeaderboardStore) TopDaily(ctx context.Context, day time.Time, n int) ([]domain.SoloScore, error) {
	return s.queryScores(ctx,
		`SELECT nickname, score, avatar, created_at FROM daily_scores
		 WHERE created_at::date = $1::date ORDER BY score DESC, id LIMIT $2`, day, n)
}

func (s *LeaderboardStore) AddGameSummary(ctx context.Context, summary domain.GameSummary) error {
	players, err := json.Marshal(summary.Players)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO game_summaries (id, created_at, winner, question_count, players)
		 VALUES ($1, $2, $3, $4, $5::jsonb)`,
		summary.ID, summary.Date, summary.Winner, summary.QuestionCount, string(players))
	if err != nil {
		return fmt.Errorf("insert game summary: %w", err)
	}
	return nil
}

func (s *LeaderboardStore) GameSummaries(ctx context.Context) ([]domain.GameSummary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, created_at, winner, question_count, players FROM game_summaries ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query game summaries: %w", err)
	}
	defer rows.Close()

	var summaries []domain.GameSummary
	for rows.Next() {
		var summary domain.GameSummary
		var players []byte
		if err := rows.Scan(&summary.ID, &summary.Date, &summary.Winner, &summary.QuestionCount, &players); err != nil {
			return nil, fmt.Errorf("scan game summary: %w", err)
		}
		if err := json.Unmarshal(players, &summary.Players); err != nil {
			return nil, fmt.Errorf("decode summary players: %w", err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// DeleteScore removes the index-th entry of the leaderboard in its display
// order, matching the positional contract of the admin API.
func (s *LeaderboardStore) DeleteScore(ctx context.Context, kind string, index int) error {
	switch kind {
	case domain.LeaderboardSolo:
		_, err := s.pool.Exec(ctx,
			`DELETE FROM solo_scores WHERE id = (
				SELECT id FROM solo_scores ORDER BY score DESC, id OFFSET $1 LIMIT 1)`, index)
		return err
	case domain.LeaderboardDaily:
		// The displayed daily board only shows today, so the offset runs
		// over today's rows.
		_, err := s.pool.Exec(ctx,
			`DELETE FROM daily_scores WHERE id = (
				SELECT id FROM daily_scores WHERE created_at::date = current_date
				ORDER BY score DESC, id OFFSET $1 LIMIT 1)`, index)
		return err
	case domain.LeaderboardMultiplayer:
		_, err := s.pool.Exec(ctx,
			`DELETE FROM game_summaries WHERE id = (
				SELECT id FROM game_summaries ORDER BY created_at OFFSET $1 LIMIT 1)`, index)
		return err
	default:
		return fmt.Errorf("unknown leaderboard kind %q", kind)
	}
}

func (s *LeaderboardStore) Clear(ctx context.Context, kind string) error {
	switch kind {
	case domain.LeaderboardSolo:
		_, err := s.pool.Exec(ctx, `DELETE FROM solo_scores`)
		return err
	case domain.LeaderboardDaily:
		_, err := s.pool.Exec(ctx, `DELETE FROM daily_scores`)
		return err
	case domain.LeaderboardMultiplayer:
		_, err := s.pool.Exec(ctx, `DELETE FROM game_summaries`)
		return err
	default:
		return fmt.Errorf("unknown leaderboard kind %q", kind)
	}
}

func (s *LeaderboardStore) queryScores(ctx context.Context, sql string, args ...any) ([]domain.SoloScore, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var scores []domain.SoloScore
	for rows.Next() {
		var score domain.SoloScore
		if err := rows.Scan(&score.Nickname, &score.Score, &score.Avatar, &score.Date); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}
