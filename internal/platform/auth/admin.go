package auth

import (
	"net/http"
	"strings"

	"github.com/example/training-portal/internal/platform/api"
)

// RequireAdmin allows the request only if RequireUser already injected
// role=admin into context.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := RoleFromContext(r.Context())
		if !strings.EqualFold(strings.TrimSpace(role), "admin") {
			api.Forbidden(w, "ADMIN_ONLY", "Admins only", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}
