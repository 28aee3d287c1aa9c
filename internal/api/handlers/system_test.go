package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/testutil"
)

func TestSystemHandler_Health(t *testing.T) {
	t.Run("reports a healthy database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewSystemHandler(testutil.NewTestSystemService(t, db), nil)

		w := httptest.NewRecorder()
		handler.Health(w, httptest.NewRequest(http.MethodGet, "/api/system/health", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if got := testutil.DecodeJSON[model.HealthStatus](t, w); got.Status != "healthy" {
			t.Errorf("Expected healthy, got %+v", got)
		}
	})

	t.Run("returns 503 when the database is closed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewSystemHandler(testutil.NewTestSystemService(t, db), nil)
		db.Close()

		w := httptest.NewRecorder()
		handler.Health(w, httptest.NewRequest(http.MethodGet, "/api/system/health", nil))

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d", w.Code)
		}
	})
}

func TestSystemHandler_Version(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewSystemHandler(testutil.NewTestSystemService(t, db), nil)

	w := httptest.NewRecorder()
	handler.Version(w, httptest.NewRequest(http.MethodGet, "/api/system/version", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	info := testutil.DecodeJSON[model.VersionInfo](t, w)
	if info.MigrationNeeded || info.DbVersion != info.LatestDbVersion {
		t.Errorf("Expected an up to date schema, got %+v", info)
	}
	if !info.Features["prices"] {
		t.Errorf("Expected the prices feature, got %v", info.Features)
	}
}

func TestSystemHandler_RefreshPrices(t *testing.T) {
	t.Run("returns 503 without a price feed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewSystemHandler(testutil.NewTestSystemService(t, db), nil)

		w := httptest.NewRecorder()
		handler.RefreshPrices(w, httptest.NewRequest(http.MethodPost, "/api/system/prices/refresh", nil))

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d", w.Code)
		}
	})

	t.Run("refreshes tracked symbols", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		prices := testutil.NewTestPriceService(t, testutil.NewMockTickerClient())
		if _, err := prices.Quotes(t.Context(), []string{"BTC", "ETH"}); err != nil {
			t.Fatalf("Failed to warm cache: %v", err)
		}
		handler := NewSystemHandler(testutil.NewTestSystemService(t, db), prices)

		w := httptest.NewRecorder()
		handler.RefreshPrices(w, httptest.NewRequest(http.MethodPost, "/api/system/prices/refresh", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		got := testutil.DecodeJSON[model.PriceRefreshResponse](t, w)
		if got.Status != "success" || got.Count != 2 {
			t.Errorf("Unexpected refresh result: %+v", got)
		}
	})

	t.Run("returns 502 when the feed fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockTickerClient()
		prices := testutil.NewTestPriceService(t, client)
		if _, err := prices.Quotes(t.Context(), []string{"BTC"}); err != nil {
			t.Fatalf("Failed to warm cache: %v", err)
		}
		client.WithError(errors.New("feed down"))
		handler := NewSystemHandler(testutil.NewTestSystemService(t, db), prices)

		w := httptest.NewRecorder()
		handler.RefreshPrices(w, httptest.NewRequest(http.MethodPost, "/api/system/prices/refresh", nil))

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected 502, got %d", w.Code)
		}
	})
}
