package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/testutil"
)

func TestPortfolioService_GetPortfolio(t *testing.T) {
	ctx := context.Background()

	t.Run("returns nil without transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, nil)

		p, err := svc.GetPortfolio(ctx, testutil.MakeID(), request.PortfolioQuery{})
		if err != nil {
			t.Fatalf("GetPortfolio() returned unexpected error: %v", err)
		}
		if p != nil {
			t.Errorf("Expected nil portfolio, got %+v", p)
		}
	})

	t.Run("limits the portfolio to one asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, nil)
		owner := testutil.MakeID()
		testutil.NewTransaction(owner).WithAsset("BTC").Build(t, db)
		testutil.NewTransaction(owner).WithAsset("ETH").Build(t, db)

		p, err := svc.GetPortfolio(ctx, owner, request.PortfolioQuery{Asset: " eth "})
		if err != nil {
			t.Fatalf("GetPortfolio() returned unexpected error: %v", err)
		}
		if p == nil || p.Assets.Len() != 1 {
			t.Fatalf("Expected one asset, got %+v", p)
		}
		if _, ok := p.Assets.Get("ETH"); !ok {
			t.Error("Expected ETH position")
		}
	})

	t.Run("attaches market data when prices are requested", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockTickerClient())
		owner := testutil.MakeID()
		testutil.NewTransaction(owner).WithAsset("BTC").WithAmount(2).WithPrice(20000).Build(t, db)

		p, err := svc.GetPortfolio(ctx, owner, request.PortfolioQuery{WithPrices: true})
		if err != nil {
			t.Fatalf("GetPortfolio() returned unexpected error: %v", err)
		}
		btc, _ := p.Assets.Get("BTC")
		if btc.Market == nil {
			t.Fatal("Expected market data")
		}
		if !btc.Market.Value.Equal(decimal.NewFromInt(60000)) {
			t.Errorf("Expected value 60000, got %s", btc.Market.Value)
		}
		if !btc.Meta.Investment.Equal(decimal.NewFromInt(40000)) {
			t.Errorf("Expected investment to stay 40000, got %s", btc.Meta.Investment)
		}
	})

	t.Run("omits market data when not requested", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockTickerClient()
		svc := testutil.NewTestPortfolioService(t, db, client)
		owner := testutil.MakeID()
		testutil.NewTransaction(owner).Build(t, db)

		p, err := svc.GetPortfolio(ctx, owner, request.PortfolioQuery{})
		if err != nil {
			t.Fatalf("GetPortfolio() returned unexpected error: %v", err)
		}
		btc, _ := p.Assets.Get("BTC")
		if btc.Market != nil || client.CallCount() != 0 {
			t.Errorf("Expected no market data and no ticker calls, got %+v and %d calls", btc.Market, client.CallCount())
		}
	})

	t.Run("returns the portfolio without prices when the feed fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockTickerClient().WithError(errors.New("down")))
		owner := testutil.MakeID()
		testutil.NewTransaction(owner).Build(t, db)

		p, err := svc.GetPortfolio(ctx, owner, request.PortfolioQuery{WithPrices: true})
		if err != nil {
			t.Fatalf("GetPortfolio() returned unexpected error: %v", err)
		}
		btc, _ := p.Assets.Get("BTC")
		if btc.Market != nil {
			t.Errorf("Expected no market data, got %+v", btc.Market)
		}
	})
}
