package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresProgressStore is the production Postgres-backed implementation.
type PostgresProgressStore struct {
	db *pgxpool.Pool
}

func NewPostgresProgressStore(db *pgxpool.Pool) *PostgresProgressStore {
	return &PostgresProgressStore{db: db}
}

func (s *PostgresProgressStore) Upsert(ctx context.Context, userID, videoID string, lastPosition, duration int) (ProgressRecord, bool, error) {
	pos, completed := normalizeProgress(lastPosition, duration)

	// Whole-row replace, no staleness guard: the last write to arrive wins.
	// The prev CTE captures the completed flag of the same statement's
	// snapshot, so the transition out of it is read with the write.
	q := `
WITH prev AS (
  SELECT completed FROM video_progress WHERE user_id = $1 AND video_id = $2
), up AS (
  INSERT INTO video_progress (user_id, video_id, last_position, duration, completed, updated_at)
  VALUES ($1, $2, $3, $4, $5, $6)
  ON CONFLICT (user_id, video_id)
  DO UPDATE SET
    last_position = EXCLUDED.last_position,
    duration      = EXCLUDED.duration,
    completed     = EXCLUDED.completed,
    updated_at    = GREATEST(video_progress.updated_at, EXCLUDED.updated_at)
  RETURNING last_position, duration, completed, updated_at
)
SELECT up.last_position, up.duration, up.completed, up.updated_at,
       COALESCE((SELECT completed FROM prev), FALSE)
FROM up`

	out := ProgressRecord{UserID: userID, VideoID: videoID}
	var wasCompleted bool
	err := s.db.QueryRow(ctx, q, userID, videoID, pos, duration, completed, time.Now().UTC()).
		Scan(&out.LastPosition, &out.Duration, &out.Completed, &out.UpdatedAt, &wasCompleted)
	if err != nil {
		return ProgressRecord{}, false, fmt.Errorf("progress upsert: %w", err)
	}
	return out, wasCompleted, nil
}

func (s *PostgresProgressStore) Get(ctx context.Context, userID, videoID string) (ProgressRecord, error) {
	q := `SELECT last_position, duration, completed, updated_at
	      FROM video_progress WHERE user_id=$1 AND video_id=$2`
	out := ProgressRecord{UserID: userID, VideoID: videoID}
	err := s.db.QueryRow(ctx, q, userID, videoID).
		Scan(&out.LastPosition, &out.Duration, &out.Completed, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProgressRecord{}, ErrNotFound
		}
		return ProgressRecord{}, fmt.Errorf("progress get: %w", err)
	}
	return out, nil
}

func (s *PostgresProgressStore) GetMany(ctx context.Context, userID string, videoIDs []string) (map[string]ProgressRecord, error) {
	if len(videoIDs) == 0 {
		return map[string]ProgressRecord{}, nil
	}
	rows, err := s.db.Query(ctx, `
SELECT video_id, last_position, duration, completed, updated_at
FROM video_progress WHERE user_id=$1 AND video_id = ANY($2)`, userID, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("progress get many: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ProgressRecord, len(videoIDs))
	for rows.Next() {
		rec := ProgressRecord{UserID: userID}
		if err := rows.Scan(&rec.VideoID, &rec.LastPosition, &rec.Duration, &rec.Completed, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("progress scan: %w", err)
		}
		out[rec.VideoID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("progress get many: %w", err)
	}
	return out, nil
}
