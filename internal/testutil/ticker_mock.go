package testutil

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/model"
)

// MockTickerClient is a mock implementation of ticker.Client for testing.
// It returns the configured quotes instead of calling the API.
type MockTickerClient struct {
	mu sync.Mutex
	// Quotes are returned for every requested symbol they contain
	Quotes map[string]model.Quote
	// MockError is returned from every call when set
	MockError error
	// Calls records the symbols of every call
	Calls [][]string
}

// NewMockTickerClient creates a mock with BTC at 30000 and ETH at 2000.
func NewMockTickerClient() *MockTickerClient {
	return &MockTickerClient{
		Quotes: map[string]model.Quote{
			"BTC": MakeQuote("BTC", 30000),
			"ETH": MakeQuote("ETH", 2000),
		},
	}
}

// GetAssetData returns the configured quotes of symbols.
func (m *MockTickerClient) GetAssetData(_ context.Context, symbols ...string) (map[string]model.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, append([]string(nil), symbols...))
	if m.MockError != nil {
		return nil, m.MockError
	}
	out := make(map[string]model.Quote, len(symbols))
	for _, symbol := range symbols {
		if q, ok := m.Quotes[symbol]; ok {
			out[symbol] = q
		}
	}
	return out, nil
}

// WithError configures the mock to return the specified error.
func (m *MockTickerClient) WithError(err error) *MockTickerClient {
	m.MockError = err
	return m
}

// WithQuote adds or replaces the quote of a symbol.
func (m *MockTickerClient) WithQuote(symbol string, price float64) *MockTickerClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Quotes[symbol] = MakeQuote(symbol, price)
	return m
}

// WithoutQuote removes the quote of a symbol, as if the ticker stopped listing it.
func (m *MockTickerClient) WithoutQuote(symbol string) *MockTickerClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Quotes, symbol)
	return m
}

// CallCount returns how many times GetAssetData was called.
func (m *MockTickerClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MakeQuote builds a quote with a predictable logo URL.
func MakeQuote(symbol string, price float64) model.Quote {
	return model.Quote{
		Symbol:  symbol,
		Price:   decimal.NewFromFloat(price),
		LogoURL: "https://example.com/logos/" + symbol + ".svg",
	}
}
