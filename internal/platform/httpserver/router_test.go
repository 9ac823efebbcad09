package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestSetupRouter_Healthz(t *testing.T) {
	r := chi.NewRouter()
	SetupRouter(r, "")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Body.String() != "ok" {
		t.Fatalf("expected body 'ok', got %q", rr.Body.String())
	}
}

func TestSetupRouter_RequestIDGenerated(t *testing.T) {
	r := chi.NewRouter()
	SetupRouter(r, "")

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected generated X-Request-Id header")
	}
}

func TestSetupRouter_RequestIDEchoed(t *testing.T) {
	r := chi.NewRouter()
	SetupRouter(r, "")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "rid-123")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-Id"); got != "rid-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}
}
