package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/training-portal/internal/domain"
)

// PostgresVideoStore is the production Postgres-backed implementation.
type PostgresVideoStore struct {
	db *pgxpool.Pool
}

func NewPostgresVideoStore(db *pgxpool.Pool) *PostgresVideoStore {
	return &PostgresVideoStore{db: db}
}

func (s *PostgresVideoStore) Create(ctx context.Context, v domain.Video) error {
	q := `
INSERT INTO videos (id, title, description, category, filename, original_name, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	created := v.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx, q, v.ID, v.Title, v.Description, v.Category, v.Filename, v.OriginalName, created)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("video create: %w", err)
	}
	return nil
}

func (s *PostgresVideoStore) List(ctx context.Context) ([]domain.Video, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, title, description, category, filename, original_name, created_at
FROM videos ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("video list: %w", err)
	}
	defer rows.Close()

	var out []domain.Video
	for rows.Next() {
		var v domain.Video
		if err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.Category, &v.Filename, &v.OriginalName, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("video scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("video list: %w", err)
	}
	return out, nil
}

func (s *PostgresVideoStore) Get(ctx context.Context, id string) (domain.Video, error) {
	var v domain.Video
	err := s.db.QueryRow(ctx, `
SELECT id, title, description, category, filename, original_name, created_at
FROM videos WHERE id = $1`, id).
		Scan(&v.ID, &v.Title, &v.Description, &v.Category, &v.Filename, &v.OriginalName, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Video{}, ErrNotFound
		}
		return domain.Video{}, fmt.Errorf("video get: %w", err)
	}
	return v, nil
}

func (s *PostgresVideoStore) Delete(ctx context.Context, id string) (domain.Video, error) {
	var v domain.Video
	err := s.db.QueryRow(ctx, `
DELETE FROM videos WHERE id = $1
RETURNING id, title, description, category, filename, original_name, created_at`, id).
		Scan(&v.ID, &v.Title, &v.Description, &v.Category, &v.Filename, &v.OriginalName, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Video{}, ErrNotFound
		}
		return domain.Video{}, fmt.Errorf("video delete: %w", err)
	}
	return v, nil
}

func (s *PostgresVideoStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM videos WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("video exists: %w", err)
	}
	return exists, nil
}
