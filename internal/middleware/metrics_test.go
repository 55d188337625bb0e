package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type recordedRequest struct {
	method string
	route  string
	status int
}

type mockRequestRecorder struct {
	requests []recordedRequest
}

func (m *mockRequestRecorder) RecordRequest(method, route string, statusCode int, duration time.Duration) {
	m.requests = append(m.requests, recordedRequest{method: method, route: route, status: statusCode})
}

// ルートラベルにパスパラメータを含まないパターンが使われることを検証
func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	rec := &mockRequestRecorder{}
	r := chi.NewRouter()
	r.Use(NewMetricsMiddleware(rec))
	r.Delete("/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodDelete, "/tasks/65f000000000000000000001", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if len(rec.requests) != 1 {
		t.Fatalf("recorded %d requests, want 1", len(rec.requests))
	}
	got := rec.requests[0]
	if got.method != http.MethodDelete || got.route != "/tasks/{id}" || got.status != http.StatusNotFound {
		t.Errorf("recorded = %+v", got)
	}
}

func TestMetricsMiddleware_UnmatchedRoute(t *testing.T) {
	rec := &mockRequestRecorder{}
	r := chi.NewRouter()
	r.Use(NewMetricsMiddleware(rec))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/no-such-path", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if len(rec.requests) != 1 {
		t.Fatalf("recorded %d requests, want 1", len(rec.requests))
	}
	if rec.requests[0].route != unmatchedRoute {
		t.Errorf("route = %q, want %q", rec.requests[0].route, unmatchedRoute)
	}
	if rec.requests[0].status != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.requests[0].status, http.StatusNotFound)
	}
}
