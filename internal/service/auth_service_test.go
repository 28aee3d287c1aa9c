package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/testutil"
)

func TestAuthService(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a user and issues a verifiable token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAuthService(t, db)

		token, err := svc.Register(ctx, "alice", "s3cret-pass")
		if err != nil {
			t.Fatalf("Register() returned unexpected error: %v", err)
		}
		if token.TokenType != auth.TokenType || token.AccessToken == "" {
			t.Fatalf("Unexpected token: %+v", token)
		}

		me, err := svc.Me(ctx, token.AccessToken)
		if err != nil {
			t.Fatalf("Me() returned unexpected error: %v", err)
		}
		if me.Username != "alice" || me.ID == "" {
			t.Errorf("Unexpected user: %+v", me)
		}

		stored, err := testutil.NewTestUserRepository(t, db).GetByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("GetByUsername() returned unexpected error: %v", err)
		}
		if stored.HashedPassword == "s3cret-pass" {
			t.Error("Expected password to be stored hashed")
		}
	})

	t.Run("returns DuplicateEntry for a taken username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAuthService(t, db)
		testutil.NewUser().WithUsername("alice").Build(t, db)

		if _, err := svc.Register(ctx, "alice", "another-pass"); !errors.Is(err, apperrors.ErrDuplicateEntry) {
			t.Errorf("Expected ErrDuplicateEntry, got %v", err)
		}
	})

	t.Run("authenticates with the right password only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAuthService(t, db)
		user := testutil.NewUser().WithUsername("bob").WithPassword("right-password").Build(t, db)

		token, err := svc.Authenticate(ctx, "bob", "right-password")
		if err != nil {
			t.Fatalf("Authenticate() returned unexpected error: %v", err)
		}
		claims, err := svc.VerifyToken(token.AccessToken)
		if err != nil {
			t.Fatalf("VerifyToken() returned unexpected error: %v", err)
		}
		if claims.ID != user.ID {
			t.Errorf("Expected token for %s, got %s", user.ID, claims.ID)
		}

		if _, err := svc.Authenticate(ctx, "bob", "wrong-password"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials for a wrong password, got %v", err)
		}
		if _, err := svc.Authenticate(ctx, "nobody", "right-password"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials for an unknown user, got %v", err)
		}
	})

	t.Run("rejects a token whose user is gone", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAuthService(t, db)
		token := testutil.IssueToken(t, testutil.MakeID(), "ghost")

		if _, err := svc.Me(ctx, token); !errors.Is(err, apperrors.ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAuthService(t, db)

		if _, err := svc.Me(ctx, "garbage"); !errors.Is(err, apperrors.ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})
}
