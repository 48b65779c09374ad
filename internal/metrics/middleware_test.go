package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/cities", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest("GET", "/cities", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	requestsVal := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/cities", "200"))
	if requestsVal < 1 {
		t.Errorf("expected http_requests_total >= 1, got %f", requestsVal)
	}

	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		req := httptest.NewRequest("GET", "/sessions/"+id, http.NoBody)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/sessions/{id}", "404"))
	if val < 3 {
		t.Errorf("expected 3 requests under the route pattern, got %f", val)
	}
}

func TestMetricsMiddleware_DifferentStatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())

	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/bad", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Get("/error", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	tests := []struct {
		path           string
		expectedStatus string
	}{
		{"/ok", "200"},
		{"/bad", "400"},
		{"/error", "500"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, http.NoBody)
			r.ServeHTTP(httptest.NewRecorder(), req)

			val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tc.path, tc.expectedStatus))
			if val < 1 {
				t.Errorf("expected requests_total for %s with status %s >= 1, got %f", tc.path, tc.expectedStatus, val)
			}
		})
	}
}

func TestRouteLabel_NoRouteContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/x", http.NoBody)
	if got := routeLabel(req); got != "unknown" {
		t.Errorf("routeLabel = %q, want unknown", got)
	}
}
