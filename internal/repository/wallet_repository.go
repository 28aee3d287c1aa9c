package repository

import (
	"context"
	"fmt"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/store"
)

// WalletsCollection is the collection name wallets are stored under.
const WalletsCollection = "wallets"

var walletSchema = recordSchema{name: "wallet", keys: model.WalletFields}

// WalletRepository provides data access methods for wallets.
// It follows the same validation and not-found conventions as TransactionRepository.
type WalletRepository struct {
	collection store.Collection
}

// NewWalletRepository creates a new WalletRepository over the given collection.
func NewWalletRepository(collection store.Collection) *WalletRepository {
	return &WalletRepository{collection: collection}
}

// Create validates fields ({owner_id, address, chain}), stores them and
// returns the stored wallet.
func (r *WalletRepository) Create(ctx context.Context, fields store.Document) (model.Wallet, error) {
	if err := walletSchema.checkCreate(fields); err != nil {
		return model.Wallet{}, err
	}
	doc := fields.Clone()
	if err := checkOwnerID(doc); err != nil {
		return model.Wallet{}, err
	}
	var draft model.WalletDraft
	if err := decodeInto(doc, &draft); err != nil {
		return model.Wallet{}, err
	}
	doc, err := store.Encode(draft)
	if err != nil {
		return model.Wallet{}, err
	}

	id, err := r.collection.Create(ctx, doc)
	if err != nil {
		return model.Wallet{}, fmt.Errorf("failed to create wallet: %w", err)
	}
	return r.GetByID(ctx, id.String())
}

// GetByID returns the wallet with the given id, or the zero value when none exists.
func (r *WalletRepository) GetByID(ctx context.Context, id string) (model.Wallet, error) {
	uid, err := store.ParseID(id)
	if err != nil {
		return model.Wallet{}, err
	}

	doc, err := r.collection.GetByID(ctx, uid)
	if err != nil {
		return model.Wallet{}, fmt.Errorf("failed to get wallet: %w", err)
	}
	if doc == nil {
		return model.Wallet{}, nil
	}
	return serialize[model.Wallet](walletSchema, doc)
}

// GetAll returns every wallet, limited to one owner when ownerID is not empty.
func (r *WalletRepository) GetAll(ctx context.Context, ownerID string) ([]model.Wallet, error) {
	var conds []store.Condition
	if ownerID != "" {
		uid, err := store.ParseID(ownerID)
		if err != nil {
			return nil, err
		}
		conds = append(conds, store.Eq("owner_id", uid))
	}

	docs, err := r.collection.GetAll(ctx, conds...)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	return serializeAll[model.Wallet](walletSchema, docs)
}

// UpdateByID replaces the named wallet fields and returns the new state,
// or the zero value when no wallet has the given id.
func (r *WalletRepository) UpdateByID(ctx context.Context, id string, fields store.Document) (model.Wallet, error) {
	uid, err := store.ParseID(id)
	if err != nil {
		return model.Wallet{}, err
	}
	if err := walletSchema.checkUpdate(fields); err != nil {
		return model.Wallet{}, err
	}
	doc := fields.Clone()
	if err := checkOwnerID(doc); err != nil {
		return model.Wallet{}, err
	}
	var patch model.WalletPatch
	if err := decodeInto(doc, &patch); err != nil {
		return model.Wallet{}, err
	}
	if doc, err = store.Encode(patch); err != nil {
		return model.Wallet{}, err
	}

	res, err := r.collection.UpdateByID(ctx, uid, doc)
	if err != nil {
		return model.Wallet{}, fmt.Errorf("failed to update wallet: %w", err)
	}
	if !res.Updated {
		return model.Wallet{}, nil
	}
	return r.GetByID(ctx, id)
}

// DeleteByID removes a wallet and returns its last state, or the zero
// value when no wallet has the given id.
func (r *WalletRepository) DeleteByID(ctx context.Context, id string) (model.Wallet, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil || existing.IsZero() {
		return existing, err
	}

	uid, _ := store.ParseID(id)
	if _, err := r.collection.DeleteByID(ctx, uid); err != nil {
		return model.Wallet{}, fmt.Errorf("failed to delete wallet: %w", err)
	}
	return existing, nil
}
