package store

import (
	"context"

	"github.com/example/training-portal/internal/domain"
)

// UserRow pairs the public user with its credential hash for login checks.
type UserRow struct {
	User         domain.User
	PasswordHash string
}

// UserStore reads provisioned portal accounts. Accounts are created out of
// band (see scripts/schema.sql); the portal itself only authenticates them.
type UserStore interface {
	// FindByID returns ErrNotFound for unknown ids.
	FindByID(ctx context.Context, id string) (UserRow, error)
	SetRole(ctx context.Context, id, role string) error
}
