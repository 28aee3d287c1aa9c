package testutil

import (
	"database/sql"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/service"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/store"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/ticker"
)

// TestSecret signs tokens issued by NewTestTokenManager.
const TestSecret = "test-signing-secret"

// TestPassword is the default password of users made by NewUser.
const TestPassword = "correct-horse-battery"

// NewTestTransactionRepository returns a TransactionRepository over db.
func NewTestTransactionRepository(t *testing.T, db *sql.DB) *repository.TransactionRepository {
	t.Helper()
	return repository.NewTransactionRepository(store.NewCollection(db, repository.TransactionsCollection))
}

// NewTestWalletRepository returns a WalletRepository over db.
func NewTestWalletRepository(t *testing.T, db *sql.DB) *repository.WalletRepository {
	t.Helper()
	return repository.NewWalletRepository(store.NewCollection(db, repository.WalletsCollection))
}

// NewTestUserRepository returns a UserRepository over db.
func NewTestUserRepository(t *testing.T, db *sql.DB) *repository.UserRepository {
	t.Helper()
	return repository.NewUserRepository(store.NewCollection(db, repository.UsersCollection))
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()
	return service.NewTransactionService(NewTestTransactionRepository(t, db), zap.NewNop())
}

func NewTestWalletService(t *testing.T, db *sql.DB) *service.WalletService {
	t.Helper()
	return service.NewWalletService(NewTestWalletRepository(t, db), zap.NewNop())
}

// NewTestPriceService returns a PriceService over client with a one minute cache.
func NewTestPriceService(t *testing.T, client ticker.Client) *service.PriceService {
	t.Helper()
	return service.NewPriceService(client, time.Minute, 2, zap.NewNop())
}

// NewTestPortfolioService returns a PortfolioService whose prices come from client.
// A nil client disables prices.
func NewTestPortfolioService(t *testing.T, db *sql.DB, client ticker.Client) *service.PortfolioService {
	t.Helper()

	var prices *service.PriceService
	if client != nil {
		prices = NewTestPriceService(t, client)
	}
	return service.NewPortfolioService(NewTestTransactionRepository(t, db), prices, zap.NewNop())
}

// NewTestTokenManager returns a TokenManager signing with TestSecret.
func NewTestTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()

	tokens, err := auth.NewTokenManager(TestSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to create token manager: %v", err)
	}
	return tokens
}

// NewTestAuthService returns an AuthService hashing with bcrypt.MinCost.
func NewTestAuthService(t *testing.T, db *sql.DB) *service.AuthService {
	t.Helper()
	return service.NewAuthService(NewTestUserRepository(t, db), NewTestTokenManager(t), zap.NewNop()).
		WithHashCost(bcrypt.MinCost)
}

// NewTestSystemService returns a SystemService over db.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db, map[string]bool{"prices": true})
}

// MakeID generates a random identifier in canonical form.
func MakeID() string {
	return uuid.New().String()
}

// MakeUsername generates a unique username with the given prefix.
func MakeUsername(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, rand.Intn(1_000_000_000)) //nolint:gosec // test names only
}

// IssueToken returns a bearer token for userID signed with TestSecret.
func IssueToken(t *testing.T, userID, username string) string {
	t.Helper()

	token, err := NewTestTokenManager(t).Issue(userID, username)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}
