// Package ticker fetches current asset prices from a currencies ticker API.
package ticker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/model"
)

// Client fetches quotes for asset symbols.
type Client interface {
	GetAssetData(ctx context.Context, symbols ...string) (map[string]model.Quote, error)
}

// HTTPClient queries a Nomics-style "currencies/ticker" endpoint.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient creates a ticker client for the API at baseURL.
//
// Parameters:
//   - baseURL: API root, e.g. "https://api.nomics.com/v1"
//   - apiKey: key sent as the "key" query parameter
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// GetAssetData returns the latest quote of each requested symbol, keyed by symbol.
// Symbols the API does not know are absent from the result.
//
// Returns:
//   - map[string]model.Quote: quotes keyed by symbol, empty when no symbols are given
//   - error: if the request fails, the API answers with a non-200 status, or the body cannot be decoded
func (c *HTTPClient) GetAssetData(ctx context.Context, symbols ...string) (map[string]model.Quote, error) {
	quotes := make(map[string]model.Quote, len(symbols))
	if len(symbols) == 0 {
		return quotes, nil
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("ids", strings.Join(symbols, ","))
	reqURL := c.baseURL + "/currencies/ticker?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ticker request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ticker returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var entries []tickerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode ticker response: %w", err)
	}

	for _, e := range entries {
		symbol := e.ID
		if symbol == "" {
			symbol = e.Symbol
		}
		quotes[symbol] = model.Quote{
			Symbol:  symbol,
			Price:   e.Price,
			LogoURL: e.LogoURL,
		}
	}

	return quotes, nil
}
