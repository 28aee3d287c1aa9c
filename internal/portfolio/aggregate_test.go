package portfolio

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/model"
)

func tx(asset, typ, amount, price string) model.Transaction {
	return model.Transaction{
		ID:              asset + "-" + amount,
		Asset:           asset,
		Type:            typ,
		Amount:          decimal.RequireFromString(amount),
		HistoricalPrice: decimal.RequireFromString(price),
		Currency:        "USD",
		Tags:            []string{},
		Date:            "2021-01-01",
	}
}

func assertDecimal(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	w := decimal.RequireFromString(want)
	if got.Sub(w).Abs().GreaterThan(decimal.New(1, -9)) {
		t.Errorf("%s = %s, want %s", field, got, w)
	}
}

func TestAggregate(t *testing.T) {
	t.Run("computes per-asset and total figures", func(t *testing.T) {
		p := Aggregate([]model.Transaction{
			tx("BTC", model.TypeBuy, "0.314", "11680"),
			tx("ETH", model.TypeBuy, "0.314", "3342"),
			tx("BTC", model.TypeBuy, "0.420", "13690"),
		})
		if p == nil {
			t.Fatal("Expected portfolio, got nil")
		}

		assertDecimal(t, "investment", p.Investment, "10466.708")

		btc, ok := p.Assets.Get("BTC")
		if !ok {
			t.Fatal("Expected BTC position")
		}
		assertDecimal(t, "BTC amount", btc.Meta.Amount, "0.734")
		assertDecimal(t, "BTC investment", btc.Meta.Investment, "9417.32")
		assertDecimal(t, "BTC average", btc.Meta.AveragePrice, "12830.136239782016")
		if len(btc.Transactions) != 2 {
			t.Errorf("Expected 2 BTC transactions, got %d", len(btc.Transactions))
		}

		eth, ok := p.Assets.Get("ETH")
		if !ok {
			t.Fatal("Expected ETH position")
		}
		assertDecimal(t, "ETH amount", eth.Meta.Amount, "0.314")
		assertDecimal(t, "ETH investment", eth.Meta.Investment, "1049.388")
		assertDecimal(t, "ETH average", eth.Meta.AveragePrice, "3342")
	})

	t.Run("returns nil for no transactions", func(t *testing.T) {
		if p := Aggregate(nil); p != nil {
			t.Errorf("Expected nil, got %+v", p)
		}
		if p := Aggregate([]model.Transaction{}); p != nil {
			t.Errorf("Expected nil, got %+v", p)
		}
	})

	t.Run("zero net amount gives zero average price", func(t *testing.T) {
		p := Aggregate([]model.Transaction{
			tx("BTC", model.TypeBuy, "1", "100"),
			tx("BTC", model.TypeSell, "1", "150"),
		})

		btc, _ := p.Assets.Get("BTC")
		if !btc.Meta.Amount.IsZero() {
			t.Errorf("Expected zero amount, got %s", btc.Meta.Amount)
		}
		if !btc.Meta.AveragePrice.IsZero() {
			t.Errorf("Expected zero average price, got %s", btc.Meta.AveragePrice)
		}
		assertDecimal(t, "investment", btc.Meta.Investment, "100")
	})

	t.Run("sells do not change investment", func(t *testing.T) {
		p := Aggregate([]model.Transaction{
			tx("BTC", model.TypeBuy, "2", "100"),
			tx("BTC", model.TypeSell, "0.5", "400"),
		})

		btc, _ := p.Assets.Get("BTC")
		assertDecimal(t, "amount", btc.Meta.Amount, "1.5")
		assertDecimal(t, "investment", btc.Meta.Investment, "200")
		assertDecimal(t, "average", btc.Meta.AveragePrice, "133.333333333333333333")
	})

	t.Run("unknown types count as sells", func(t *testing.T) {
		p := Aggregate([]model.Transaction{
			tx("BTC", model.TypeBuy, "2", "100"),
			tx("BTC", "transfer", "1", "0"),
		})

		btc, _ := p.Assets.Get("BTC")
		assertDecimal(t, "amount", btc.Meta.Amount, "1")
	})

	t.Run("result does not depend on order", func(t *testing.T) {
		a := Aggregate([]model.Transaction{
			tx("BTC", model.TypeBuy, "1", "10"),
			tx("BTC", model.TypeSell, "0.25", "20"),
			tx("BTC", model.TypeBuy, "3", "30"),
		})
		b := Aggregate([]model.Transaction{
			tx("BTC", model.TypeBuy, "3", "30"),
			tx("BTC", model.TypeBuy, "1", "10"),
			tx("BTC", model.TypeSell, "0.25", "20"),
		})

		pa, _ := a.Assets.Get("BTC")
		pb, _ := b.Assets.Get("BTC")
		if !pa.Meta.Amount.Equal(pb.Meta.Amount) || !pa.Meta.Investment.Equal(pb.Meta.Investment) {
			t.Errorf("Expected equal figures, got %+v and %+v", pa.Meta, pb.Meta)
		}
	})

	t.Run("grouping is case sensitive and keeps first-seen order", func(t *testing.T) {
		p := Aggregate([]model.Transaction{
			tx("eth", model.TypeBuy, "1", "1"),
			tx("BTC", model.TypeBuy, "1", "1"),
			tx("ETH", model.TypeBuy, "1", "1"),
			tx("BTC", model.TypeBuy, "1", "1"),
		})

		got := strings.Join(p.Assets.Symbols(), ",")
		if got != "eth,BTC,ETH" {
			t.Errorf("Expected symbols eth,BTC,ETH, got %s", got)
		}
	})

	t.Run("marshals assets in first-seen order", func(t *testing.T) {
		p := Aggregate([]model.Transaction{
			tx("SOL", model.TypeBuy, "1", "1"),
			tx("ADA", model.TypeBuy, "1", "1"),
		})

		data, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("Marshal() returned unexpected error: %v", err)
		}
		body := string(data)
		if strings.Index(body, `"SOL"`) > strings.Index(body, `"ADA"`) {
			t.Errorf("Expected SOL before ADA in %s", body)
		}

		var back model.Portfolio
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal() returned unexpected error: %v", err)
		}
		if strings.Join(back.Assets.Symbols(), ",") != "SOL,ADA" {
			t.Errorf("Expected order to survive decoding, got %v", back.Assets.Symbols())
		}
	})
}

func TestApplyQuotes(t *testing.T) {
	p := Aggregate([]model.Transaction{
		tx("BTC", model.TypeBuy, "0.5", "20000"),
		tx("ETH", model.TypeBuy, "2", "1000"),
	})

	ApplyQuotes(p, map[string]model.Quote{
		"BTC": {Symbol: "BTC", Price: decimal.RequireFromString("40000"), LogoURL: "https://example.com/btc.svg"},
	})

	btc, _ := p.Assets.Get("BTC")
	if btc.Market == nil {
		t.Fatal("Expected BTC market data")
	}
	assertDecimal(t, "value", btc.Market.Value, "20000")
	if btc.Market.LogoURL != "https://example.com/btc.svg" {
		t.Errorf("Unexpected logo %s", btc.Market.LogoURL)
	}
	assertDecimal(t, "investment unchanged", btc.Meta.Investment, "10000")

	eth, _ := p.Assets.Get("ETH")
	if eth.Market != nil {
		t.Errorf("Expected no ETH market data, got %+v", eth.Market)
	}

	ApplyQuotes(nil, nil)
}
