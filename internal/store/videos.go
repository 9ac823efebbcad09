package store

import (
	"context"

	"github.com/example/training-portal/internal/domain"
)

// VideoStore persists catalogue entries. The video binaries themselves live
// in the blob store; rows only reference them by filename.
type VideoStore interface {
	Create(ctx context.Context, v domain.Video) error
	// List returns all videos newest-first.
	List(ctx context.Context) ([]domain.Video, error)
	// Get returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (domain.Video, error)
	// Delete removes the row and returns the deleted video so the caller
	// can clean up its blob. Progress rows cascade at the schema level.
	Delete(ctx context.Context, id string) (domain.Video, error)
	// Exists is the reconciler's catalogue check for incoming reports.
	Exists(ctx context.Context, id string) (bool, error)
}
