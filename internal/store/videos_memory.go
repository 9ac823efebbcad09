package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/training-portal/internal/domain"
)

// InMemoryVideoStore is a development-only in-memory implementation.
type InMemoryVideoStore struct {
	mu     sync.RWMutex
	videos map[string]domain.Video
}

func NewInMemoryVideoStore() *InMemoryVideoStore {
	return &InMemoryVideoStore{videos: make(map[string]domain.Video)}
}

func (s *InMemoryVideoStore) Create(_ context.Context, v domain.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[v.ID]; ok {
		return ErrConflict
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	s.videos[v.ID] = v
	return nil
}

func (s *InMemoryVideoStore) List(_ context.Context) ([]domain.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Video, 0, len(s.videos))
	for _, v := range s.videos {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *InMemoryVideoStore) Get(_ context.Context, id string) (domain.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.videos[id]
	if !ok {
		return domain.Video{}, ErrNotFound
	}
	return v, nil
}

func (s *InMemoryVideoStore) Delete(_ context.Context, id string) (domain.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.videos[id]
	if !ok {
		return domain.Video{}, ErrNotFound
	}
	delete(s.videos, id)
	return v, nil
}

func (s *InMemoryVideoStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.videos[id]
	return ok, nil
}
