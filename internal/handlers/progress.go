package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/example/training-portal/internal/platform/api"
	"github.com/example/training-portal/internal/platform/auth"
	"github.com/example/training-portal/internal/platform/httpserver"
	"github.com/example/training-portal/internal/progress"
)

type progressRequest struct {
	VideoID      string `json:"videoId"`
	LastPosition int    `json:"lastPosition"`
	Duration     int    `json:"duration"`
	// Ended marks the forced end-of-stream report emitted when playback
	// finishes; it pins the resume point to the full duration.
	Ended bool `json:"ended,omitempty"`
}

// SaveProgress handles POST /api/progress (authenticated).
func SaveProgress(rec *progress.Reconciler, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok || strings.TrimSpace(uid) == "" {
			api.Unauthorized(w, "AUTH_MISSING", "Missing auth", rid)
			return
		}

		var req progressRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}

		kind := progress.ReportPeriodic
		if req.Ended {
			kind = progress.ReportEndOfStream
		}
		_, err := rec.Apply(r.Context(), uid, progress.Report{
			VideoID:  req.VideoID,
			Position: req.LastPosition,
			Duration: req.Duration,
			Kind:     kind,
		})
		if err != nil {
			var verr *progress.ValidationError
			if errors.As(err, &verr) {
				details := make(map[string]any, len(verr.Fields))
				for k, v := range verr.Fields {
					details[k] = v
				}
				api.BadRequest(w, "VALIDATION_PROGRESS", "Invalid progress report", rid, details)
				return
			}
			log.Error("progress apply failed", zap.Error(err))
			api.Internal(w, rid)
			return
		}

		api.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// QueryProgress handles GET /api/progress?videoIds=id1,id2 (authenticated).
// The response carries one entry per requested id, in request order, with
// zero defaults for never-watched videos.
func QueryProgress(q *progress.QueryService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok || strings.TrimSpace(uid) == "" {
			api.Unauthorized(w, "AUTH_MISSING", "Missing auth", rid)
			return
		}

		var ids []string
		for _, id := range strings.Split(r.URL.Query().Get("videoIds"), ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}

		entries, err := q.QueryBatch(r.Context(), uid, ids)
		if err != nil {
			log.Error("progress query failed", zap.Error(err))
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, entries)
	}
}
