package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/portfolio"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/validation"
)

// PortfolioService computes portfolios from an owner's transactions and
// optionally attaches current prices.
type PortfolioService struct {
	transactionRepo *repository.TransactionRepository
	priceService    *PriceService
	logger          *zap.Logger
}

// NewPortfolioService creates a new PortfolioService. priceService may be nil,
// in which case price requests are ignored.
func NewPortfolioService(
	transactionRepo *repository.TransactionRepository,
	priceService *PriceService,
	logger *zap.Logger,
) *PortfolioService {
	return &PortfolioService{
		transactionRepo: transactionRepo,
		priceService:    priceService,
		logger:          logger,
	}
}

// GetPortfolio aggregates the owner's transactions, limited to one asset when
// query.Asset is set. Returns nil when there are no matching transactions.
//
// With query.WithPrices each position gets market data from the price feed.
// A price feed failure is logged and the portfolio is returned without market data.
func (s *PortfolioService) GetPortfolio(ctx context.Context, ownerID string, query request.PortfolioQuery) (*model.Portfolio, error) {
	var (
		p   *model.Portfolio
		err error
	)
	if asset := validation.SanitizeSymbol(query.Asset); asset != "" {
		var txs []model.Transaction
		txs, err = s.transactionRepo.GetAllByAsset(ctx, ownerID, asset)
		p = portfolio.Aggregate(txs)
	} else {
		p, err = s.transactionRepo.CalculatePortfolio(ctx, ownerID)
	}
	if err != nil {
		return nil, err
	}

	if p == nil || !query.WithPrices || s.priceService == nil {
		return p, nil
	}

	quotes, err := s.priceService.Quotes(ctx, p.Assets.Symbols())
	if err != nil {
		s.logger.Warn("failed to load prices for portfolio",
			zap.String("owner_id", ownerID),
			zap.Error(err),
		)
		return p, nil
	}
	portfolio.ApplyQuotes(p, quotes)
	return p, nil
}
