package handlers

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/training-portal/internal/blob"
	"github.com/example/training-portal/internal/domain"
	"github.com/example/training-portal/internal/platform/analytics"
	"github.com/example/training-portal/internal/platform/api"
	"github.com/example/training-portal/internal/platform/auth"
	"github.com/example/training-portal/internal/platform/httpserver"
	"github.com/example/training-portal/internal/progress"
	"github.com/example/training-portal/internal/store"
)

const (
	maxUploadBytes = 1 << 30 // 1 GiB
	videoCacheKey  = "videos:all"
)

type videoItem struct {
	domain.Video
	// Progress is present only for authenticated listings.
	Progress *progress.Entry `json:"progress,omitempty"`
}

// Videos bundles the collaborators of the catalogue endpoints.
type Videos struct {
	Store      store.VideoStore
	Blobs      blob.Store
	Query      *progress.QueryService
	Cache      Cache
	Categories []string
	Events     *analytics.Publisher
	Log        *zap.Logger
}

// List handles GET /api/videos. Works unauthenticated; signed-in callers get
// each entry enriched with their own watch progress for resume rendering.
func (h *Videos) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		videos, ok := h.cachedList()
		if !ok {
			var err error
			videos, err = h.Store.List(r.Context())
			if err != nil {
				h.Log.Error("video list failed", zap.Error(err))
				api.Internal(w, rid)
				return
			}
			if h.Cache != nil {
				h.Cache.Set(videoCacheKey, videos)
			}
		}

		items := make([]videoItem, len(videos))
		for i, v := range videos {
			items[i] = videoItem{Video: v}
		}

		if uid, authed := auth.UserIDFromContext(r.Context()); authed {
			ids := make([]string, len(videos))
			for i, v := range videos {
				ids[i] = v.ID
			}
			entries, err := h.Query.QueryBatch(r.Context(), uid, ids)
			if err != nil {
				h.Log.Error("progress batch failed", zap.Error(err))
				api.Internal(w, rid)
				return
			}
			for i := range items {
				items[i].Progress = &entries[i]
			}
		}

		api.WriteJSON(w, http.StatusOK, items)
	}
}

func (h *Videos) cachedList() ([]domain.Video, bool) {
	if h.Cache == nil {
		return nil, false
	}
	v, ok := h.Cache.Get(videoCacheKey)
	if !ok {
		return nil, false
	}
	videos, ok := v.([]domain.Video)
	return videos, ok
}

// Upload handles POST /api/videos (admin only, multipart form).
func (h *Videos) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, _ := auth.UserIDFromContext(r.Context())

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			api.BadRequest(w, "INVALID_MULTIPART", "Invalid multipart form", rid, nil)
			return
		}

		title := strings.TrimSpace(r.FormValue("title"))
		description := strings.TrimSpace(r.FormValue("description"))
		category := strings.ToLower(strings.TrimSpace(r.FormValue("category")))

		details := map[string]any{}
		if len(title) < 2 {
			details["title"] = "min length 2"
		}
		if !slices.Contains(h.Categories, category) {
			details["category"] = "must be one of: " + strings.Join(h.Categories, ", ")
		}
		if len(details) > 0 {
			api.BadRequest(w, "VALIDATION_VIDEO", "Invalid video metadata", rid, details)
			return
		}

		file, header, err := r.FormFile("video")
		if err != nil {
			api.BadRequest(w, "VALIDATION_VIDEO", "Missing video file", rid, map[string]any{"video": "required"})
			return
		}
		defer file.Close()

		filename := uuid.NewString()
		if _, err := h.Blobs.Save(filename, file); err != nil {
			h.Log.Error("blob save failed", zap.Error(err))
			api.Internal(w, rid)
			return
		}

		v := domain.Video{
			ID:           uuid.NewString(),
			Title:        title,
			Description:  description,
			Category:     category,
			Filename:     filename,
			OriginalName: header.Filename,
		}
		if err := h.Store.Create(r.Context(), v); err != nil {
			// Orphaned blobs are worse than a failed request; clean up.
			if rmErr := h.Blobs.Remove(filename); rmErr != nil {
				h.Log.Warn("orphan blob cleanup failed", zap.String("filename", filename), zap.Error(rmErr))
			}
			h.Log.Error("video create failed", zap.Error(err))
			api.Internal(w, rid)
			return
		}

		h.invalidate()
		h.Events.Publish(analytics.SubjectVideoUploaded, "video_uploaded", uid, map[string]any{
			"video_id": v.ID,
			"category": v.Category,
		})
		api.WriteJSON(w, http.StatusCreated, v)
	}
}

// Delete handles DELETE /api/videos/{id} (admin only). Progress rows cascade
// with the catalogue row; the blob is removed best-effort afterwards.
func (h *Videos) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, _ := auth.UserIDFromContext(r.Context())

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		deleted, err := h.Store.Delete(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				api.NotFound(w, "VIDEO_NOT_FOUND", "Video not found", rid)
				return
			}
			h.Log.Error("video delete failed", zap.Error(err))
			api.Internal(w, rid)
			return
		}

		if err := h.Blobs.Remove(deleted.Filename); err != nil && !errors.Is(err, blob.ErrNotFound) {
			h.Log.Warn("blob remove failed", zap.String("filename", deleted.Filename), zap.Error(err))
		}

		h.invalidate()
		h.Events.Publish(analytics.SubjectVideoDeleted, "video_deleted", uid, map[string]any{
			"video_id": id,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

// Serve handles GET /uploads/{filename} — byte-range capable playback of a
// stored blob via http.ServeFile.
func (h *Videos) Serve() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		path, err := h.Blobs.Path(chi.URLParam(r, "filename"))
		if err != nil {
			if errors.Is(err, blob.ErrNotFound) {
				api.NotFound(w, "BLOB_NOT_FOUND", "No such file", rid)
				return
			}
			h.Log.Error("blob resolve failed", zap.Error(err))
			api.Internal(w, rid)
			return
		}
		http.ServeFile(w, r, path)
	}
}

func (h *Videos) invalidate() {
	if h.Cache != nil {
		h.Cache.Invalidate(videoCacheKey)
	}
}
