package store

import (
	"context"
	"time"
)

// completedThreshold is the watch ratio at which a video counts as completed.
const completedThreshold = 0.90

// ProgressRecord is the stored watch progress for one (user, video) pair.
type ProgressRecord struct {
	UserID       string
	VideoID      string
	LastPosition int
	Duration     int
	Completed    bool
	UpdatedAt    time.Time
}

// ProgressStore persists watch progress keyed by (user_id, video_id).
//
// Upsert replaces the whole record atomically; the most recently applied
// write wins, even when its position is lower than what was stored before
// (a rewind moves the resume point backward on purpose). Position is
// clamped to [0, duration] and completed is derived from the clamped pair,
// so a record can never hold an out-of-range position or a completed flag
// that disagrees with it.
type ProgressStore interface {
	// Upsert also reports whether the record was completed before this
	// write (false when no record existed), read atomically with the
	// write so completion transitions are observed exactly once.
	Upsert(ctx context.Context, userID, videoID string, lastPosition, duration int) (ProgressRecord, bool, error)
	// Get returns ErrNotFound when no progress exists yet; callers treat
	// that as the zero record, not as a failure.
	Get(ctx context.Context, userID, videoID string) (ProgressRecord, error)
	// GetMany returns a record per requested video id that has progress;
	// ids without progress are simply missing from the map.
	GetMany(ctx context.Context, userID string, videoIDs []string) (map[string]ProgressRecord, error)
}

// normalizeProgress clamps the position into [0, duration] and derives the
// completed flag. duration <= 0 never counts as completed.
func normalizeProgress(lastPosition, duration int) (int, bool) {
	if lastPosition < 0 {
		lastPosition = 0
	}
	if duration >= 0 && lastPosition > duration {
		lastPosition = duration
	}
	completed := duration > 0 && float64(lastPosition)/float64(duration) >= completedThreshold
	return lastPosition, completed
}
