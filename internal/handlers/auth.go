package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/training-portal/internal/platform/analytics"
	"github.com/example/training-portal/internal/platform/api"
	"github.com/example/training-portal/internal/platform/httpserver"
	"github.com/example/training-portal/internal/store"
	"github.com/example/training-portal/internal/tokens"
)

type loginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	ID    string `json:"id"`
	Role  string `json:"role"`
}

// Login handles POST /api/login. Accounts are looked up by employee id;
// both unknown ids and wrong passwords answer the same way.
func Login(users store.UserStore, tok tokens.Service, bootstrapAdminID string, ap *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		var req loginRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		req.ID = strings.TrimSpace(req.ID)
		if req.ID == "" || req.Password == "" {
			api.BadRequest(w, "VALIDATION_LOGIN", "id and password are required", rid, nil)
			return
		}

		row, err := users.FindByID(r.Context(), req.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				api.Unauthorized(w, "AUTH_INVALID_CREDENTIALS", "Invalid credentials", rid)
				return
			}
			api.Internal(w, rid)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(req.Password)) != nil {
			api.Unauthorized(w, "AUTH_INVALID_CREDENTIALS", "Invalid credentials", rid)
			return
		}

		u := row.User
		// If the bootstrap admin id matches, promote this account immediately.
		if bootstrapAdminID != "" && strings.EqualFold(bootstrapAdminID, u.ID) && u.Role != "admin" {
			// best-effort
			_ = users.SetRole(r.Context(), u.ID, "admin")
			u.Role = "admin"
		}

		signed, _, err := tok.NewAccessToken(u.ID, u.Role, time.Now().UTC())
		if err != nil {
			api.Internal(w, rid)
			return
		}

		ap.Publish(analytics.SubjectAuthLoggedIn, "user_logged_in", u.ID, nil)
		api.WriteJSON(w, http.StatusOK, loginResponse{Token: signed, ID: u.ID, Role: u.Role})
	}
}
