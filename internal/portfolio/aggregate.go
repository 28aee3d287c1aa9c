// Package portfolio computes holdings and cost basis from transaction history.
package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/model"
)

// Aggregate groups transactions by asset and computes, per asset, the net
// held amount, the capital spent on buys and the average buy price.
//
// Grouping is by exact asset string in first-seen order. A "buy" adds its
// amount and amount*historical_price of investment; every other type only
// subtracts its amount. Average price is investment/amount, or exactly zero
// when the net amount is zero. No rounding is applied.
//
// Returns nil when txs is empty, so callers can tell "no portfolio" apart
// from a portfolio whose positions net to zero.
func Aggregate(txs []model.Transaction) *model.Portfolio {
	if len(txs) == 0 {
		return nil
	}

	p := &model.Portfolio{Investment: decimal.Zero}
	for _, t := range txs {
		pos := p.Assets.Ensure(t.Asset)
		pos.Transactions = append(pos.Transactions, t)

		if t.Type == model.TypeBuy {
			pos.Meta.Amount = pos.Meta.Amount.Add(t.Amount)
			pos.Meta.Investment = pos.Meta.Investment.Add(t.Amount.Mul(t.HistoricalPrice))
		} else {
			pos.Meta.Amount = pos.Meta.Amount.Sub(t.Amount)
		}
	}

	for _, symbol := range p.Assets.Symbols() {
		pos, _ := p.Assets.Get(symbol)
		pos.Meta.AveragePrice = AveragePrice(pos.Meta.Investment, pos.Meta.Amount)
		p.Investment = p.Investment.Add(pos.Meta.Investment)
	}

	return p
}

// AveragePrice divides investment by amount, returning zero for a zero amount.
func AveragePrice(investment, amount decimal.Decimal) decimal.Decimal {
	if amount.IsZero() {
		return decimal.Zero
	}
	return investment.Div(amount)
}

// ApplyQuotes attaches market data to every position that has a quote.
// The aggregate figures are left unchanged.
func ApplyQuotes(p *model.Portfolio, quotes map[string]model.Quote) {
	if p == nil {
		return
	}
	for _, symbol := range p.Assets.Symbols() {
		q, ok := quotes[symbol]
		if !ok {
			continue
		}
		pos, _ := p.Assets.Get(symbol)
		pos.Market = &model.MarketData{
			Price:   q.Price,
			LogoURL: q.LogoURL,
			Value:   pos.Meta.Amount.Mul(q.Price),
		}
	}
}
