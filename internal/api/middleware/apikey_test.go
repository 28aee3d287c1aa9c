package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/middleware"
)

func TestAPIKeyMiddleware(t *testing.T) {
	testAPIKey := "test-api-key-12345"

	serve := func(t *testing.T, apiKey string, headers map[string]string) (*httptest.ResponseRecorder, bool) {
		t.Helper()
		handlerCalled := false
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			handlerCalled = true
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodPost, "/test", nil)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		middleware.APIKey(apiKey)(testHandler).ServeHTTP(w, req)
		return w, handlerCalled
	}

	details := func(t *testing.T, w *httptest.ResponseRecorder) string {
		t.Helper()
		var response map[string]string
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		return response["details"]
	}

	t.Run("rejects request without API key", func(t *testing.T) {
		w, called := serve(t, testAPIKey, nil)

		if called {
			t.Error("Expected request not to complete.")
		}
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
		if got := details(t, w); got != "Missing API key" {
			t.Errorf("Expected 'Missing API key' error, got '%s'", got)
		}
	})

	t.Run("rejects request with invalid API key", func(t *testing.T) {
		w, called := serve(t, testAPIKey, map[string]string{"X-API-Key": "invalid"})

		if called {
			t.Error("Expected request not to complete.")
		}
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
		if got := details(t, w); got != "Invalid API key" {
			t.Errorf("Expected 'Invalid API key' error, got '%s'", got)
		}
	})

	t.Run("rejects request without time token", func(t *testing.T) {
		w, called := serve(t, testAPIKey, map[string]string{"X-API-Key": testAPIKey})

		if called {
			t.Error("Expected request not to complete.")
		}
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
		if got := details(t, w); got != "Missing Time token" {
			t.Errorf("Expected 'Missing Time token' error, got '%s'", got)
		}
	})

	t.Run("rejects request with invalid time token", func(t *testing.T) {
		w, called := serve(t, testAPIKey, map[string]string{
			"X-API-Key":    testAPIKey,
			"X-Time-Token": "invalid",
		})

		if called {
			t.Error("Expected request not to complete.")
		}
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
		if got := details(t, w); got != "Time token is invalid or expired" {
			t.Errorf("Expected 'Time token is invalid or expired' error, got '%s'", got)
		}
	})

	t.Run("rejects time token made with another key", func(t *testing.T) {
		w, called := serve(t, testAPIKey, map[string]string{
			"X-API-Key":    testAPIKey,
			"X-Time-Token": middleware.GenerateTimeToken("other-key"),
		})

		if called {
			t.Error("Expected request not to complete.")
		}
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("allows request with valid API key and time token", func(t *testing.T) {
		w, called := serve(t, testAPIKey, map[string]string{
			"X-API-Key":    testAPIKey,
			"X-Time-Token": middleware.GenerateTimeToken(testAPIKey),
		})

		if !called {
			t.Error("Expected handler to complete.")
		}
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
	})

	t.Run("fails when no API key is configured", func(t *testing.T) {
		w, called := serve(t, "", nil)

		if called {
			t.Error("Expected request not to complete.")
		}
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
		if got := details(t, w); got != "Authentication not loaded" {
			t.Errorf("Expected 'Authentication not loaded' error, got '%s'", got)
		}
	})
}
