package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUserStore is the production Postgres-backed implementation.
type PostgresUserStore struct {
	db *pgxpool.Pool
}

func NewPostgresUserStore(db *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) FindByID(ctx context.Context, id string) (UserRow, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return UserRow{}, ErrNotFound
	}

	q := `SELECT id, role, password_hash, created_at FROM users WHERE id = $1 LIMIT 1`
	var row UserRow
	err := s.db.QueryRow(ctx, q, id).Scan(&row.User.ID, &row.User.Role, &row.PasswordHash, &row.User.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRow{}, ErrNotFound
		}
		return UserRow{}, fmt.Errorf("user find: %w", err)
	}
	return row, nil
}

func (s *PostgresUserStore) SetRole(ctx context.Context, id, role string) error {
	_, err := s.db.Exec(ctx, `UPDATE users SET role = $2 WHERE id = $1`, id, role)
	if err != nil {
		return fmt.Errorf("user set role: %w", err)
	}
	return nil
}
