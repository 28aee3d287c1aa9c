package service

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/csvimport"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/store"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/validation"
)

// TransactionService handles transaction business logic for one authenticated owner.
// Transactions owned by someone else are reported as not found.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
	logger          *zap.Logger
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(
	transactionRepo *repository.TransactionRepository,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// GetTransactions returns the owner's transactions, optionally narrowed by asset or tag.
// Filter values are normalized the way stored values are.
func (s *TransactionService) GetTransactions(ctx context.Context, ownerID string, filter request.TransactionFilter) ([]model.Transaction, error) {
	filter.Asset = validation.SanitizeSymbol(filter.Asset)
	filter.Tag = validation.SanitizeText(filter.Tag)

	switch {
	case filter.Asset != "":
		return s.transactionRepo.GetAllByAsset(ctx, ownerID, filter.Asset)
	case filter.Tag != "":
		return s.transactionRepo.GetAllByTag(ctx, ownerID, filter.Tag)
	default:
		return s.transactionRepo.GetAll(ctx, ownerID)
	}
}

// GetTransaction returns one of the owner's transactions.
// Returns ErrTransactionNotFound if it does not exist or belongs to another owner.
func (s *TransactionService) GetTransaction(ctx context.Context, ownerID, transactionID string) (model.Transaction, error) {
	tx, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return model.Transaction{}, err
	}
	if tx.IsZero() || tx.OwnerID != ownerID {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	return tx, nil
}

// CreateTransaction stores a transaction for the owner. The payload carries
// the seven non-owner fields; owner_id is taken from the caller. A payload
// naming a different owner is rejected with ErrOwnerChange.
func (s *TransactionService) CreateTransaction(ctx context.Context, ownerID string, fields store.Document) (model.Transaction, error) {
	doc, err := s.prepare(ownerID, fields)
	if err != nil {
		return model.Transaction{}, err
	}
	if err := doc.Set("owner_id", ownerID); err != nil {
		return model.Transaction{}, err
	}

	tx, err := s.transactionRepo.Create(ctx, doc)
	if err != nil {
		return model.Transaction{}, err
	}

	s.logger.Info("transaction created",
		zap.String("id", tx.ID),
		zap.String("asset", tx.Asset),
		zap.String("type", tx.Type),
	)
	return tx, nil
}

// UpdateTransaction replaces the named fields of one of the owner's transactions.
// Returns ErrTransactionNotFound if it does not exist or belongs to another owner.
func (s *TransactionService) UpdateTransaction(ctx context.Context, ownerID, transactionID string, fields store.Document) (model.Transaction, error) {
	if _, err := s.GetTransaction(ctx, ownerID, transactionID); err != nil {
		return model.Transaction{}, err
	}

	doc, err := s.prepare(ownerID, fields)
	if err != nil {
		return model.Transaction{}, err
	}

	tx, err := s.transactionRepo.UpdateByID(ctx, transactionID, doc)
	if err != nil {
		return model.Transaction{}, err
	}
	if tx.IsZero() {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	return tx, nil
}

// DeleteTransaction removes one of the owner's transactions and returns its last state.
// Returns ErrTransactionNotFound if it does not exist or belongs to another owner.
func (s *TransactionService) DeleteTransaction(ctx context.Context, ownerID, transactionID string) (model.Transaction, error) {
	if _, err := s.GetTransaction(ctx, ownerID, transactionID); err != nil {
		return model.Transaction{}, err
	}

	tx, err := s.transactionRepo.DeleteByID(ctx, transactionID)
	if err != nil {
		return model.Transaction{}, err
	}
	if tx.IsZero() {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}

	s.logger.Info("transaction deleted", zap.String("id", tx.ID))
	return tx, nil
}

// ImportCSV parses a CSV export and creates one transaction per row for the owner.
// Parsing happens before anything is stored, so a malformed file stores nothing.
// A row rejected by the repository stops the import; earlier rows stay stored.
func (s *TransactionService) ImportCSV(ctx context.Context, ownerID string, r io.Reader) ([]model.Transaction, error) {
	drafts, err := csvimport.Parse(r)
	if err != nil {
		return nil, err
	}

	created := make([]model.Transaction, 0, len(drafts))
	for i, draft := range drafts {
		draft.OwnerID = ownerID
		doc, err := store.Encode(draft)
		if err != nil {
			return created, err
		}
		if err := validation.NormalizeTransaction(doc); err != nil {
			return created, fmt.Errorf("%w: row %d: %v", apperrors.ErrInvalidCSVRow, i+1, err)
		}

		tx, err := s.transactionRepo.Create(ctx, doc)
		if err != nil {
			return created, fmt.Errorf("row %d: %w", i+1, err)
		}
		created = append(created, tx)
	}

	s.logger.Info("transactions imported",
		zap.String("owner_id", ownerID),
		zap.Int("count", len(created)),
	)
	return created, nil
}

// prepare validates and normalizes an incoming payload and rejects any
// owner_id other than the caller's.
func (s *TransactionService) prepare(ownerID string, fields store.Document) (store.Document, error) {
	if fields == nil {
		return nil, fmt.Errorf("%w: transaction must be an object", apperrors.ErrTypeMismatch)
	}
	doc := fields.Clone()

	if _, ok := doc["owner_id"]; ok {
		given, isString := doc.String("owner_id")
		if !isString || given != ownerID {
			return nil, apperrors.ErrOwnerChange
		}
	}

	if err := validation.NormalizeTransaction(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
