package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/store"
)

// TransactionBuilder provides a fluent interface for creating test transactions.
//
// Example usage:
//
//	// Simple creation with defaults (a BTC buy)
//	tx := testutil.NewTransaction(ownerID).Build(t, db)
//
//	// Customized transaction
//	tx := testutil.NewTransaction(ownerID).
//	    WithAsset("ETH").
//	    WithAmount(2).
//	    WithPrice(1500).
//	    Sell().
//	    Build(t, db)
type TransactionBuilder struct {
	OwnerID         string
	Asset           string
	Amount          decimal.Decimal
	HistoricalPrice decimal.Decimal
	Currency        string
	Tags            []string
	Date            string
	Type            string
}

// NewTransaction creates a TransactionBuilder with sensible defaults.
func NewTransaction(ownerID string) *TransactionBuilder {
	return &TransactionBuilder{
		OwnerID:         ownerID,
		Asset:           "BTC",
		Amount:          decimal.NewFromInt(1),
		HistoricalPrice: decimal.NewFromInt(20000),
		Currency:        "USD",
		Tags:            []string{},
		Date:            "2024-01-15",
		Type:            model.TypeBuy,
	}
}

// WithAsset sets the asset symbol.
func (b *TransactionBuilder) WithAsset(asset string) *TransactionBuilder {
	b.Asset = asset
	return b
}

// WithAmount sets the amount.
func (b *TransactionBuilder) WithAmount(amount float64) *TransactionBuilder {
	b.Amount = decimal.NewFromFloat(amount)
	return b
}

// WithPrice sets the historical price.
func (b *TransactionBuilder) WithPrice(price float64) *TransactionBuilder {
	b.HistoricalPrice = decimal.NewFromFloat(price)
	return b
}

// WithCurrency sets the currency.
func (b *TransactionBuilder) WithCurrency(currency string) *TransactionBuilder {
	b.Currency = currency
	return b
}

// WithTags sets the tags.
func (b *TransactionBuilder) WithTags(tags ...string) *TransactionBuilder {
	b.Tags = tags
	return b
}

// WithDate sets the date.
func (b *TransactionBuilder) WithDate(date string) *TransactionBuilder {
	b.Date = date
	return b
}

// WithType sets the transaction type.
func (b *TransactionBuilder) WithType(txType string) *TransactionBuilder {
	b.Type = txType
	return b
}

// Sell marks the transaction as a sell.
func (b *TransactionBuilder) Sell() *TransactionBuilder {
	b.Type = model.TypeSell
	return b
}

// Fields returns the eight stored fields as a document, ready for a repository Create.
func (b *TransactionBuilder) Fields(t *testing.T) store.Document {
	t.Helper()

	doc, err := store.Encode(model.TransactionDraft{
		OwnerID:         b.OwnerID,
		Asset:           b.Asset,
		Amount:          b.Amount,
		HistoricalPrice: b.HistoricalPrice,
		Currency:        b.Currency,
		Tags:            b.Tags,
		Date:            b.Date,
		Type:            b.Type,
	})
	if err != nil {
		t.Fatalf("Failed to encode transaction: %v", err)
	}
	return doc
}

// Payload returns the fields without owner_id, as a client would send them.
func (b *TransactionBuilder) Payload(t *testing.T) store.Document {
	t.Helper()

	doc := b.Fields(t)
	delete(doc, "owner_id")
	return doc
}

// Build stores the transaction and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	repo := repository.NewTransactionRepository(store.NewCollection(db, repository.TransactionsCollection))
	tx, err := repo.Create(context.Background(), b.Fields(t))
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}
	return tx
}

// WalletBuilder provides a fluent interface for creating test wallets.
//
// Example usage:
//
//	wallet := testutil.NewWallet(ownerID).WithChain("ethereum").Build(t, db)
type WalletBuilder struct {
	OwnerID string
	Address string
	Chain   string
}

// NewWallet creates a WalletBuilder with sensible defaults.
func NewWallet(ownerID string) *WalletBuilder {
	return &WalletBuilder{
		OwnerID: ownerID,
		Address: "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq",
		Chain:   "bitcoin",
	}
}

// WithAddress sets the address.
func (b *WalletBuilder) WithAddress(address string) *WalletBuilder {
	b.Address = address
	return b
}

// WithChain sets the chain.
func (b *WalletBuilder) WithChain(chain string) *WalletBuilder {
	b.Chain = chain
	return b
}

// Fields returns the stored wallet fields as a document.
func (b *WalletBuilder) Fields(t *testing.T) store.Document {
	t.Helper()

	doc, err := store.Encode(model.WalletDraft{OwnerID: b.OwnerID, Address: b.Address, Chain: b.Chain})
	if err != nil {
		t.Fatalf("Failed to encode wallet: %v", err)
	}
	return doc
}

// Build stores the wallet and returns it.
func (b *WalletBuilder) Build(t *testing.T, db *sql.DB) model.Wallet {
	t.Helper()

	repo := repository.NewWalletRepository(store.NewCollection(db, repository.WalletsCollection))
	wallet, err := repo.Create(context.Background(), b.Fields(t))
	if err != nil {
		t.Fatalf("Failed to create test wallet: %v", err)
	}
	return wallet
}

// UserBuilder provides a fluent interface for creating test users.
// Passwords are hashed with bcrypt.MinCost.
//
// Example usage:
//
//	user := testutil.NewUser().WithUsername("alice").WithPassword("secret123").Build(t, db)
type UserBuilder struct {
	Username string
	Password string
}

// NewUser creates a UserBuilder with a unique username and the password TestPassword.
func NewUser() *UserBuilder {
	return &UserBuilder{
		Username: MakeUsername("user"),
		Password: TestPassword,
	}
}

// WithUsername sets the username.
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.Username = username
	return b
}

// WithPassword sets the plain-text password.
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.Password = password
	return b
}

// Build stores the user and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(b.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	doc, err := store.Encode(model.UserDraft{Username: b.Username, HashedPassword: string(hash)})
	if err != nil {
		t.Fatalf("Failed to encode user: %v", err)
	}

	repo := repository.NewUserRepository(store.NewCollection(db, repository.UsersCollection))
	user, err := repo.Create(context.Background(), doc)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}
