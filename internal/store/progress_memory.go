package store

import (
	"context"
	"sync"
	"time"
)

type progressKey struct {
	userID  string
	videoID string
}

// InMemoryProgressStore is a development-only in-memory implementation.
// A single mutex serializes upserts, so concurrent writes for the same key
// apply whole records in arrival order, matching the Postgres behaviour.
type InMemoryProgressStore struct {
	mu      sync.RWMutex
	records map[progressKey]ProgressRecord
}

func NewInMemoryProgressStore() *InMemoryProgressStore {
	return &InMemoryProgressStore{records: make(map[progressKey]ProgressRecord)}
}

func (s *InMemoryProgressStore) Upsert(_ context.Context, userID, videoID string, lastPosition, duration int) (ProgressRecord, bool, error) {
	pos, completed := normalizeProgress(lastPosition, duration)

	s.mu.Lock()
	defer s.mu.Unlock()

	key := progressKey{userID: userID, videoID: videoID}
	now := time.Now().UTC()
	wasCompleted := false
	if prev, ok := s.records[key]; ok {
		wasCompleted = prev.Completed
		if now.Before(prev.UpdatedAt) {
			now = prev.UpdatedAt
		}
	}
	rec := ProgressRecord{
		UserID:       userID,
		VideoID:      videoID,
		LastPosition: pos,
		Duration:     duration,
		Completed:    completed,
		UpdatedAt:    now,
	}
	s.records[key] = rec
	return rec, wasCompleted, nil
}

func (s *InMemoryProgressStore) Get(_ context.Context, userID, videoID string) (ProgressRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[progressKey{userID: userID, videoID: videoID}]
	if !ok {
		return ProgressRecord{}, ErrNotFound
	}
	return rec, nil
}

func (s *InMemoryProgressStore) GetMany(_ context.Context, userID string, videoIDs []string) (map[string]ProgressRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]ProgressRecord, len(videoIDs))
	for _, id := range videoIDs {
		if rec, ok := s.records[progressKey{userID: userID, videoID: id}]; ok {
			out[id] = rec
		}
	}
	return out, nil
}
