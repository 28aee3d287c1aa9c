package ticker

import "github.com/shopspring/decimal"

// tickerEntry is one element of the currencies ticker response.
// Only the fields the tracker uses are decoded.
type tickerEntry struct {
	ID      string          `json:"id"`
	Symbol  string          `json:"symbol"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	LogoURL string          `json:"logo_url"`
}
