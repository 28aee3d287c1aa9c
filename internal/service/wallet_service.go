package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/store"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/validation"
)

// WalletService handles wallet operations for one authenticated owner.
type WalletService struct {
	walletRepo *repository.WalletRepository
	logger     *zap.Logger
}

// NewWalletService creates a new WalletService.
func NewWalletService(walletRepo *repository.WalletRepository, logger *zap.Logger) *WalletService {
	return &WalletService{walletRepo: walletRepo, logger: logger}
}

// GetWallets returns every wallet of the owner.
func (s *WalletService) GetWallets(ctx context.Context, ownerID string) ([]model.Wallet, error) {
	return s.walletRepo.GetAll(ctx, ownerID)
}

// GetWallet returns one of the owner's wallets or ErrWalletNotFound.
func (s *WalletService) GetWallet(ctx context.Context, ownerID, walletID string) (model.Wallet, error) {
	w, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return model.Wallet{}, err
	}
	if w.IsZero() || w.OwnerID != ownerID {
		return model.Wallet{}, apperrors.ErrWalletNotFound
	}
	return w, nil
}

// CreateWallet stores a wallet {address, chain} for the owner.
func (s *WalletService) CreateWallet(ctx context.Context, ownerID string, fields store.Document) (model.Wallet, error) {
	doc, err := s.prepare(ownerID, fields)
	if err != nil {
		return model.Wallet{}, err
	}
	if err := doc.Set("owner_id", ownerID); err != nil {
		return model.Wallet{}, err
	}

	w, err := s.walletRepo.Create(ctx, doc)
	if err != nil {
		return model.Wallet{}, err
	}
	s.logger.Info("wallet created", zap.String("id", w.ID), zap.String("chain", w.Chain))
	return w, nil
}

// UpdateWallet replaces the named fields of one of the owner's wallets.
func (s *WalletService) UpdateWallet(ctx context.Context, ownerID, walletID string, fields store.Document) (model.Wallet, error) {
	if _, err := s.GetWallet(ctx, ownerID, walletID); err != nil {
		return model.Wallet{}, err
	}
	doc, err := s.prepare(ownerID, fields)
	if err != nil {
		return model.Wallet{}, err
	}

	w, err := s.walletRepo.UpdateByID(ctx, walletID, doc)
	if err != nil {
		return model.Wallet{}, err
	}
	if w.IsZero() {
		return model.Wallet{}, apperrors.ErrWalletNotFound
	}
	return w, nil
}

// DeleteWallet removes one of the owner's wallets and returns its last state.
func (s *WalletService) DeleteWallet(ctx context.Context, ownerID, walletID string) (model.Wallet, error) {
	if _, err := s.GetWallet(ctx, ownerID, walletID); err != nil {
		return model.Wallet{}, err
	}
	w, err := s.walletRepo.DeleteByID(ctx, walletID)
	if err != nil {
		return model.Wallet{}, err
	}
	if w.IsZero() {
		return model.Wallet{}, apperrors.ErrWalletNotFound
	}
	return w, nil
}

func (s *WalletService) prepare(ownerID string, fields store.Document) (store.Document, error) {
	if fields == nil {
		return nil, fmt.Errorf("%w: wallet must be an object", apperrors.ErrTypeMismatch)
	}
	doc := fields.Clone()
	if _, ok := doc["owner_id"]; ok {
		if given, isString := doc.String("owner_id"); !isString || given != ownerID {
			return nil, apperrors.ErrOwnerChange
		}
	}
	if err := validation.NormalizeWallet(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
