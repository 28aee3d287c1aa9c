package ticker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPClient_GetAssetData(t *testing.T) {
	t.Run("decodes quotes keyed by id", func(t *testing.T) {
		var gotPath, gotKey, gotIDs string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.URL.Query().Get("key")
			gotIDs = r.URL.Query().Get("ids")
			w.Header().Set("Content-Type", "application/json")
			//nolint:errcheck
			w.Write([]byte(`[
				{"id":"BTC","symbol":"BTC","price":"43125.51","logo_url":"https://logos/btc.svg"},
				{"id":"ETH","symbol":"ETH","price":"3012.2","logo_url":"https://logos/eth.svg"}
			]`))
		}))
		defer srv.Close()

		c := NewHTTPClient(srv.URL+"/", "secret")
		quotes, err := c.GetAssetData(context.Background(), "BTC", "ETH")
		if err != nil {
			t.Fatalf("GetAssetData() returned unexpected error: %v", err)
		}

		if gotPath != "/currencies/ticker" {
			t.Errorf("Expected path /currencies/ticker, got %s", gotPath)
		}
		if gotKey != "secret" {
			t.Errorf("Expected api key to be sent, got %q", gotKey)
		}
		if gotIDs != "BTC,ETH" {
			t.Errorf("Expected ids BTC,ETH, got %q", gotIDs)
		}

		if len(quotes) != 2 {
			t.Fatalf("Expected 2 quotes, got %d", len(quotes))
		}
		if quotes["BTC"].Price.String() != "43125.51" {
			t.Errorf("Expected BTC price 43125.51, got %s", quotes["BTC"].Price)
		}
		if quotes["ETH"].LogoURL != "https://logos/eth.svg" {
			t.Errorf("Unexpected ETH logo %s", quotes["ETH"].LogoURL)
		}
	})

	t.Run("skips the request without symbols", func(t *testing.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer srv.Close()

		quotes, err := NewHTTPClient(srv.URL, "k").GetAssetData(context.Background())
		if err != nil {
			t.Fatalf("GetAssetData() returned unexpected error: %v", err)
		}
		if called {
			t.Error("Expected no request")
		}
		if len(quotes) != 0 {
			t.Errorf("Expected no quotes, got %d", len(quotes))
		}
	})

	t.Run("reports non-200 responses", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := NewHTTPClient(srv.URL, "k").GetAssetData(context.Background(), "BTC")
		if err == nil {
			t.Fatal("Expected error for 429 response")
		}
	})

	t.Run("reports malformed bodies", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":"nope"}`)) //nolint:errcheck
		}))
		defer srv.Close()

		_, err := NewHTTPClient(srv.URL, "k").GetAssetData(context.Background(), "BTC")
		if err == nil {
			t.Fatal("Expected decode error")
		}
	})
}
