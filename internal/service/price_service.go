package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/ticker"
)

// PriceService serves asset quotes from a cache backed by the ticker client.
// Symbols the ticker has quoted are tracked so that Refresh can keep them warm.
// A symbol stops being tracked once a refresh no longer returns it.
type PriceService struct {
	client    ticker.Client
	cache     *cache.Cache
	batchSize int
	logger    *zap.Logger

	mu      sync.Mutex
	tracked map[string]struct{}
}

// NewPriceService creates a PriceService caching quotes for ttl and asking
// the ticker for at most batchSize symbols per request.
func NewPriceService(client ticker.Client, ttl time.Duration, batchSize int, logger *zap.Logger) *PriceService {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &PriceService{
		client:    client,
		cache:     cache.New(ttl, 2*ttl),
		batchSize: batchSize,
		logger:    logger,
		tracked:   make(map[string]struct{}),
	}
}

// Quotes returns the quotes of symbols, fetching those missing from the cache.
// Symbols the ticker does not know are absent from the result.
func (s *PriceService) Quotes(ctx context.Context, symbols []string) (map[string]model.Quote, error) {
	quotes := make(map[string]model.Quote, len(symbols))
	var missing []string
	for _, symbol := range symbols {
		if cached, ok := s.cache.Get(symbol); ok {
			quotes[symbol] = cached.(model.Quote)
			continue
		}
		if !slices.Contains(missing, symbol) {
			missing = append(missing, symbol)
		}
	}
	if len(missing) == 0 {
		return quotes, nil
	}

	fetched, err := s.fetch(ctx, missing)
	if err != nil {
		return nil, err
	}
	for symbol, quote := range fetched {
		quotes[symbol] = quote
	}
	return quotes, nil
}

// Quote returns the quote of a single symbol.
// Returns ErrQuoteNotFound when the ticker does not know it.
func (s *PriceService) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	quotes, err := s.Quotes(ctx, []string{symbol})
	if err != nil {
		return model.Quote{}, err
	}
	quote, ok := quotes[symbol]
	if !ok {
		return model.Quote{}, fmt.Errorf("%w: %s", apperrors.ErrQuoteNotFound, symbol)
	}
	return quote, nil
}

// Refresh refetches every tracked symbol and replaces the cached quotes.
func (s *PriceService) Refresh(ctx context.Context) (model.PriceRefreshResponse, error) {
	symbols := s.Tracked()
	if len(symbols) == 0 {
		return model.PriceRefreshResponse{Status: "skipped", Symbols: []string{}}, nil
	}

	fetched, err := s.fetch(ctx, symbols)
	if err != nil {
		return model.PriceRefreshResponse{}, err
	}

	refreshed := make([]string, 0, len(fetched))
	var dropped []string
	for _, symbol := range symbols {
		if _, ok := fetched[symbol]; ok {
			refreshed = append(refreshed, symbol)
		} else {
			dropped = append(dropped, symbol)
		}
	}
	s.untrack(dropped)

	s.logger.Info("prices refreshed",
		zap.Int("tracked", len(symbols)),
		zap.Int("refreshed", len(refreshed)),
		zap.Strings("dropped", dropped),
	)
	return model.PriceRefreshResponse{
		Status:  "success",
		Symbols: refreshed,
		Count:   len(refreshed),
	}, nil
}

// Tracked returns the tracked symbols in sorted order.
func (s *PriceService) Tracked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.tracked))
	for symbol := range s.tracked {
		out = append(out, symbol)
	}
	slices.Sort(out)
	return out
}

func (s *PriceService) track(quotes map[string]model.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for symbol := range quotes {
		s.tracked[symbol] = struct{}{}
	}
}

func (s *PriceService) untrack(symbols []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, symbol := range symbols {
		delete(s.tracked, symbol)
	}
}

// fetch asks the ticker for symbols in concurrent batches, then caches and
// tracks the symbols it quoted.
func (s *PriceService) fetch(ctx context.Context, symbols []string) (map[string]model.Quote, error) {
	var (
		mu     sync.Mutex
		quotes = make(map[string]model.Quote, len(symbols))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for batch := range slices.Chunk(symbols, s.batchSize) {
		g.Go(func() error {
			got, err := s.client.GetAssetData(gctx, batch...)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for symbol, quote := range got {
				quotes[symbol] = quote
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrievePrices, err)
	}

	for symbol, quote := range quotes {
		s.cache.SetDefault(symbol, quote)
	}
	s.track(quotes)
	return quotes, nil
}
