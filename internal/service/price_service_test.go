package service_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/testutil"
)

func TestPriceService_Quotes(t *testing.T) {
	ctx := context.Background()

	t.Run("serves repeated symbols from the cache", func(t *testing.T) {
		client := testutil.NewMockTickerClient()
		svc := testutil.NewTestPriceService(t, client)

		first, err := svc.Quotes(ctx, []string{"BTC"})
		if err != nil {
			t.Fatalf("Quotes() returned unexpected error: %v", err)
		}
		if _, err := svc.Quotes(ctx, []string{"BTC"}); err != nil {
			t.Fatalf("Quotes() returned unexpected error: %v", err)
		}

		if !first["BTC"].Price.Equal(decimal.NewFromInt(30000)) {
			t.Errorf("Expected BTC at 30000, got %s", first["BTC"].Price)
		}
		if client.CallCount() != 1 {
			t.Errorf("Expected 1 ticker call, got %d", client.CallCount())
		}
	})

	t.Run("fetches misses in batches", func(t *testing.T) {
		client := testutil.NewMockTickerClient().WithQuote("SOL", 100).WithQuote("ADA", 0.5)
		svc := testutil.NewTestPriceService(t, client)

		quotes, err := svc.Quotes(ctx, []string{"BTC", "ETH", "SOL", "ADA", "XYZ"})
		if err != nil {
			t.Fatalf("Quotes() returned unexpected error: %v", err)
		}
		if len(quotes) != 4 {
			t.Errorf("Expected 4 known quotes, got %d", len(quotes))
		}
		if _, ok := quotes["XYZ"]; ok {
			t.Error("Expected unknown symbol to be absent")
		}
		// batch size 2 in the test helper
		if client.CallCount() != 3 {
			t.Errorf("Expected 3 batched calls, got %d", client.CallCount())
		}
	})

	t.Run("wraps ticker failures", func(t *testing.T) {
		client := testutil.NewMockTickerClient().WithError(errors.New("boom"))
		svc := testutil.NewTestPriceService(t, client)

		_, err := svc.Quotes(ctx, []string{"BTC"})
		if !errors.Is(err, apperrors.ErrFailedToRetrievePrices) {
			t.Errorf("Expected ErrFailedToRetrievePrices, got %v", err)
		}
	})

	t.Run("reports an unknown single symbol", func(t *testing.T) {
		svc := testutil.NewTestPriceService(t, testutil.NewMockTickerClient())

		if _, err := svc.Quote(ctx, "NOPE"); !errors.Is(err, apperrors.ErrQuoteNotFound) {
			t.Errorf("Expected ErrQuoteNotFound, got %v", err)
		}
	})
}

func TestPriceService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("skips when nothing is tracked", func(t *testing.T) {
		client := testutil.NewMockTickerClient()
		svc := testutil.NewTestPriceService(t, client)

		result, err := svc.Refresh(ctx)
		if err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}
		if result.Status != "skipped" || client.CallCount() != 0 {
			t.Errorf("Expected skipped refresh without calls, got %+v and %d calls", result, client.CallCount())
		}
	})

	t.Run("refetches tracked symbols and updates the cache", func(t *testing.T) {
		client := testutil.NewMockTickerClient()
		svc := testutil.NewTestPriceService(t, client)
		if _, err := svc.Quotes(ctx, []string{"ETH", "BTC"}); err != nil {
			t.Fatalf("Quotes() returned unexpected error: %v", err)
		}

		client.WithQuote("BTC", 31000)
		result, err := svc.Refresh(ctx)
		if err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}
		if result.Status != "success" || result.Count != 2 {
			t.Errorf("Unexpected refresh result: %+v", result)
		}
		if !slices.Equal(result.Symbols, []string{"BTC", "ETH"}) {
			t.Errorf("Expected sorted symbols, got %v", result.Symbols)
		}

		q, err := svc.Quote(ctx, "BTC")
		if err != nil {
			t.Fatalf("Quote() returned unexpected error: %v", err)
		}
		if !q.Price.Equal(decimal.NewFromInt(31000)) {
			t.Errorf("Expected refreshed price 31000, got %s", q.Price)
		}
	})

	t.Run("tracks only symbols the ticker quoted", func(t *testing.T) {
		client := testutil.NewMockTickerClient()
		svc := testutil.NewTestPriceService(t, client)

		quotes, err := svc.Quotes(ctx, []string{"BTC", "NOPE", "NOPE2"})
		if err != nil {
			t.Fatalf("Quotes() returned unexpected error: %v", err)
		}
		if len(quotes) != 1 {
			t.Errorf("Expected only the BTC quote, got %v", quotes)
		}
		if got := svc.Tracked(); !slices.Equal(got, []string{"BTC"}) {
			t.Errorf("Expected [BTC] tracked, got %v", got)
		}
	})

	t.Run("stops tracking a symbol the ticker no longer quotes", func(t *testing.T) {
		client := testutil.NewMockTickerClient()
		svc := testutil.NewTestPriceService(t, client)
		if _, err := svc.Quotes(ctx, []string{"BTC", "ETH"}); err != nil {
			t.Fatalf("Quotes() returned unexpected error: %v", err)
		}

		client.WithoutQuote("ETH")
		result, err := svc.Refresh(ctx)
		if err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}
		if !slices.Equal(result.Symbols, []string{"BTC"}) {
			t.Errorf("Expected only BTC refreshed, got %v", result.Symbols)
		}
		if got := svc.Tracked(); !slices.Equal(got, []string{"BTC"}) {
			t.Errorf("Expected [BTC] tracked, got %v", got)
		}
	})
}
