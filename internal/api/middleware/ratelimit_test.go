package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/middleware"
)

func TestRateLimiter(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	request := func(h http.Handler, remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("returns 429 once the burst is used up", func(t *testing.T) {
		h := middleware.NewRateLimiter(0.001, 2).Handler(ok)

		for i := 0; i < 2; i++ {
			if code := request(h, "10.0.0.1:1234"); code != http.StatusOK {
				t.Fatalf("Request %d: expected 200, got %d", i+1, code)
			}
		}
		if code := request(h, "10.0.0.1:1234"); code != http.StatusTooManyRequests {
			t.Errorf("Expected 429, got %d", code)
		}
	})

	t.Run("keeps separate buckets per client", func(t *testing.T) {
		h := middleware.NewRateLimiter(0.001, 1).Handler(ok)

		if code := request(h, "10.0.0.1:1"); code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", code)
		}
		if code := request(h, "10.0.0.2:1"); code != http.StatusOK {
			t.Errorf("Expected 200 for second client, got %d", code)
		}
	})
}

func TestMetrics(t *testing.T) {
	t.Run("counts requests by route pattern", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		metrics := middleware.NewMetrics(reg)

		r := chi.NewRouter()
		r.Use(metrics.Handler)
		r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		for _, id := range []string{"a", "b"} {
			req := httptest.NewRequest(http.MethodGet, "/items/"+id, nil)
			r.ServeHTTP(httptest.NewRecorder(), req)
		}

		expected := `
# HELP http_requests_total HTTP requests by method, route and status.
# TYPE http_requests_total counter
http_requests_total{method="GET",route="/items/{id}",status="204"} 2
`
		if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "http_requests_total"); err != nil {
			t.Error(err)
		}
	})
}
