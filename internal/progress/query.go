package progress

import (
	"context"
	"math"

	"github.com/example/training-portal/internal/store"
)

// Entry is one row of a batch progress query, in the portal's wire shape.
// Never-watched videos come back as all zeros rather than being omitted.
type Entry struct {
	VideoID          string `json:"videoId"`
	LastPosition     int    `json:"lastPosition"`
	Duration         int    `json:"duration"`
	Completed        bool   `json:"completed"`
	CompletedPercent int    `json:"completedPercent"`
}

// QueryService answers "what is my progress on these videos" for rendering
// resume offsets and completion badges.
type QueryService struct {
	Store store.ProgressStore
}

// QueryBatch returns one entry per requested video id, in request order.
func (q *QueryService) QueryBatch(ctx context.Context, userID string, videoIDs []string) ([]Entry, error) {
	records, err := q.Store.GetMany(ctx, userID, videoIDs)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(videoIDs))
	for _, id := range videoIDs {
		e := Entry{VideoID: id}
		if rec, ok := records[id]; ok {
			e.LastPosition = rec.LastPosition
			e.Duration = rec.Duration
			e.Completed = rec.Completed
			e.CompletedPercent = completedPercent(rec)
		}
		out = append(out, e)
	}
	return out, nil
}

// completedPercent reports how much of the video has been watched, rounded
// to whole percent and clamped to [0, 100]. The completed badge is carried
// separately, so a 93% watch that crossed the completion threshold still
// reads 93 here, not 100.
func completedPercent(rec store.ProgressRecord) int {
	if rec.Duration <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(rec.LastPosition) / float64(rec.Duration)))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
