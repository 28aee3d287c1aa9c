package repository

import (
	"context"
	"fmt"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/portfolio"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/store"
)

// TransactionsCollection is the collection name transactions are stored under.
const TransactionsCollection = "transactions"

var transactionSchema = recordSchema{name: "transaction", keys: model.TransactionFields}

// TransactionRepository validates, stores and reads transactions, and
// aggregates them into portfolios.
//
// Lookups that match nothing return the zero model.Transaction and a nil
// error; the caller decides whether that is a 404.
type TransactionRepository struct {
	collection store.Collection
}

// NewTransactionRepository creates a new TransactionRepository over the given collection.
func NewTransactionRepository(collection store.Collection) *TransactionRepository {
	return &TransactionRepository{collection: collection}
}

// Create validates fields, stores them and returns the record as read back from the store.
//
// fields must hold exactly the eight transaction keys (ErrSchemaMismatch otherwise),
// owner_id must be a valid identifier (ErrInvalidIdentifier) and every value
// must decode into its field type (ErrTypeMismatch).
func (r *TransactionRepository) Create(ctx context.Context, fields store.Document) (model.Transaction, error) {
	doc, err := ValidateTransaction(fields)
	if err != nil {
		return model.Transaction{}, err
	}

	id, err := r.collection.Create(ctx, doc)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	stored, err := r.collection.GetByID(ctx, id)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to read back transaction %s: %w", id, err)
	}
	return SerializeTransaction(stored)
}

// GetByID returns the transaction with the given id, or the zero value when none exists.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (model.Transaction, error) {
	uid, err := store.ParseID(id)
	if err != nil {
		return model.Transaction{}, err
	}

	doc, err := r.collection.GetByID(ctx, uid)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to get transaction: %w", err)
	}
	if doc == nil {
		return model.Transaction{}, nil
	}
	return SerializeTransaction(doc)
}

// GetAll returns every transaction, limited to one owner when ownerID is not empty.
func (r *TransactionRepository) GetAll(ctx context.Context, ownerID string) ([]model.Transaction, error) {
	return r.find(ctx, ownerID)
}

// GetAllByAsset returns the transactions whose asset equals asset exactly.
func (r *TransactionRepository) GetAllByAsset(ctx context.Context, ownerID, asset string) ([]model.Transaction, error) {
	return r.find(ctx, ownerID, store.Eq("asset", asset))
}

// GetAllByTag returns the transactions whose tags contain tag.
func (r *TransactionRepository) GetAllByTag(ctx context.Context, ownerID, tag string) ([]model.Transaction, error) {
	return r.find(ctx, ownerID, store.Has("tags", tag))
}

// UpdateByID replaces the named fields of a transaction and returns its new state.
// Returns the zero value when no transaction has the given id.
//
// Every key of fields must be one of the eight transaction keys. An empty
// fields object only checks that the transaction exists.
func (r *TransactionRepository) UpdateByID(ctx context.Context, id string, fields store.Document) (model.Transaction, error) {
	uid, err := store.ParseID(id)
	if err != nil {
		return model.Transaction{}, err
	}

	patch, err := ValidateTransactionPatch(fields)
	if err != nil {
		return model.Transaction{}, err
	}

	res, err := r.collection.UpdateByID(ctx, uid, patch)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to update transaction: %w", err)
	}
	if !res.Updated {
		return model.Transaction{}, nil
	}

	return r.GetByID(ctx, id)
}

// DeleteByID removes a transaction and returns the state it had before removal.
// Returns the zero value when no transaction has the given id.
//
// The read and the delete are separate store calls.
func (r *TransactionRepository) DeleteByID(ctx context.Context, id string) (model.Transaction, error) {
	uid, err := store.ParseID(id)
	if err != nil {
		return model.Transaction{}, err
	}

	doc, err := r.collection.GetByID(ctx, uid)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to get transaction: %w", err)
	}
	if doc == nil {
		return model.Transaction{}, nil
	}
	existing, err := SerializeTransaction(doc)
	if err != nil {
		return model.Transaction{}, err
	}

	if _, err := r.collection.DeleteByID(ctx, uid); err != nil {
		return model.Transaction{}, fmt.Errorf("failed to delete transaction: %w", err)
	}
	return existing, nil
}

// CalculatePortfolio aggregates the transactions of ownerID (all transactions
// when ownerID is empty). Returns nil when there are none.
func (r *TransactionRepository) CalculatePortfolio(ctx context.Context, ownerID string) (*model.Portfolio, error) {
	txs, err := r.GetAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return portfolio.Aggregate(txs), nil
}

func (r *TransactionRepository) find(ctx context.Context, ownerID string, conds ...store.Condition) ([]model.Transaction, error) {
	if ownerID != "" {
		uid, err := store.ParseID(ownerID)
		if err != nil {
			return nil, err
		}
		conds = append([]store.Condition{store.Eq("owner_id", uid)}, conds...)
	}

	docs, err := r.collection.GetAll(ctx, conds...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	return SerializeTransactions(docs)
}

// ValidateTransaction checks a raw transaction record and returns its
// canonical stored form.
func ValidateTransaction(fields store.Document) (store.Document, error) {
	if err := transactionSchema.checkCreate(fields); err != nil {
		return nil, err
	}
	doc := fields.Clone()
	if err := checkOwnerID(doc); err != nil {
		return nil, err
	}

	var draft model.TransactionDraft
	if err := decodeInto(doc, &draft); err != nil {
		return nil, err
	}
	if draft.Tags == nil {
		draft.Tags = []string{}
	}
	return store.Encode(draft)
}

// ValidateTransactionPatch checks a partial transaction update and returns
// the canonical form of the named fields.
func ValidateTransactionPatch(fields store.Document) (store.Document, error) {
	if err := transactionSchema.checkUpdate(fields); err != nil {
		return nil, err
	}
	doc := fields.Clone()
	if err := checkOwnerID(doc); err != nil {
		return nil, err
	}

	var patch model.TransactionPatch
	if err := decodeInto(doc, &patch); err != nil {
		return nil, err
	}
	return store.Encode(patch)
}

// SerializeTransaction converts a stored document into a Transaction. The
// document must carry the identifier plus exactly the eight transaction keys.
func SerializeTransaction(doc store.Document) (model.Transaction, error) {
	return serialize[model.Transaction](transactionSchema, doc)
}

// SerializeTransactions converts every stored document. The result is never nil.
func SerializeTransactions(docs []store.Document) ([]model.Transaction, error) {
	return serializeAll[model.Transaction](transactionSchema, docs)
}
