package store

import (
	"context"
	"sync"
)

// InMemoryUserStore is a development-only in-memory implementation.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]UserRow
}

func NewInMemoryUserStore(rows ...UserRow) *InMemoryUserStore {
	s := &InMemoryUserStore{users: make(map[string]UserRow, len(rows))}
	for _, r := range rows {
		s.users[r.User.ID] = r
	}
	return s
}

func (s *InMemoryUserStore) FindByID(_ context.Context, id string) (UserRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.users[id]
	if !ok {
		return UserRow{}, ErrNotFound
	}
	return row, nil
}

func (s *InMemoryUserStore) SetRole(_ context.Context, id, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	row.User.Role = role
	s.users[id] = row
	return nil
}
