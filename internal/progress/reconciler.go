// Package progress owns the watch-progress write and read paths: validated
// reconciliation of incoming playback reports and batch queries for resume
// points and completion badges.
package progress

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/example/training-portal/internal/platform/analytics"
	"github.com/example/training-portal/internal/store"
)

// ReportKind tags the origin of a playback report.
type ReportKind int

const (
	// ReportPeriodic is a regular position sample emitted mid-playback.
	ReportPeriodic ReportKind = iota
	// ReportEndOfStream is the forced final report; it pins the position to
	// the full duration and marks the video completed.
	ReportEndOfStream
)

// Report is one client playback report, periodic or end-of-stream.
type Report struct {
	VideoID  string
	Position int
	Duration int
	Kind     ReportKind
}

// ValidationError rejects a malformed report before it reaches the store.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid report: " + strings.Join(keys, ", ")
}

// VideoChecker is the catalogue collaborator used to reject reports for
// unknown or deleted videos.
type VideoChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Reconciler applies playback reports to the progress store. Reports are not
// assumed to arrive in chronological order; the store resolves concurrent
// writes for the same key by arrival order (last write wins), so the stored
// resume point always reflects the most recent report, even after a rewind.
type Reconciler struct {
	Store   store.ProgressStore
	Catalog VideoChecker
	Events  *analytics.Publisher
}

// Apply validates and persists one report for the given user. Validation
// failures return *ValidationError and leave no partial state; storage
// failures are transient and surface wrapped for the caller to drop or log.
func (r *Reconciler) Apply(ctx context.Context, userID string, rep Report) (store.ProgressRecord, error) {
	fields := map[string]string{}
	rep.VideoID = strings.TrimSpace(rep.VideoID)
	if rep.VideoID == "" {
		fields["videoId"] = "required"
	}
	if rep.Position < 0 {
		fields["lastPosition"] = "must be non-negative"
	}
	if rep.Duration <= 0 {
		fields["duration"] = "must be positive"
	}
	if len(fields) > 0 {
		return store.ProgressRecord{}, &ValidationError{Fields: fields}
	}

	ok, err := r.Catalog.Exists(ctx, rep.VideoID)
	if err != nil {
		return store.ProgressRecord{}, fmt.Errorf("catalogue check: %w", err)
	}
	if !ok {
		return store.ProgressRecord{}, &ValidationError{Fields: map[string]string{"videoId": "unknown video"}}
	}

	pos := rep.Position
	if rep.Kind == ReportEndOfStream {
		pos = rep.Duration
	}

	rec, wasCompleted, err := r.Store.Upsert(ctx, userID, rep.VideoID, pos, rep.Duration)
	if err != nil {
		return store.ProgressRecord{}, err
	}

	if rec.Completed && !wasCompleted {
		r.Events.Publish(analytics.SubjectProgressCompleted, "video_completed", userID, map[string]any{
			"video_id": rec.VideoID,
			"duration": rec.Duration,
		})
	}
	return rec, nil
}
