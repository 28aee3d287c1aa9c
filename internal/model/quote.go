package model

import "github.com/shopspring/decimal"

// Quote is the latest market data for one asset symbol.
type Quote struct {
	Symbol  string          `json:"symbol"`
	Price   decimal.Decimal `json:"price"`
	LogoURL string          `json:"logo_url"`
}

// MarketData is a quote applied to a held position.
type MarketData struct {
	Price   decimal.Decimal `json:"price"`
	LogoURL string          `json:"logo_url"`
	Value   decimal.Decimal `json:"value"` // Held amount times price
}

// PriceRefreshResponse reports the outcome of a manual price refresh.
type PriceRefreshResponse struct {
	Status  string   `json:"status"`
	Symbols []string `json:"symbols"`
	Count   int      `json:"count"`
}

// ImportResponse reports the outcome of a CSV import.
type ImportResponse struct {
	ProcessedFile string        `json:"processed_file"`
	Imported      int           `json:"imported"`
	Transactions  []Transaction `json:"data"`
}
