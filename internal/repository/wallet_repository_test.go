package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/testutil"
)

func TestWalletRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and reads back a wallet", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := testutil.NewTestWalletRepository(t, db)
		owner := testutil.MakeID()

		created, err := repo.Create(ctx, testutil.NewWallet(owner).WithChain("ethereum").Fields(t))
		if err != nil {
			t.Fatalf("Create() returned unexpected error: %v", err)
		}

		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetByID() returned unexpected error: %v", err)
		}
		if got != created {
			t.Errorf("Expected %+v, got %+v", created, got)
		}
		if got.OwnerID != owner || got.Chain != "ethereum" {
			t.Errorf("Unexpected wallet: %+v", got)
		}
	})

	t.Run("returns SchemaMismatch for a missing chain", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := testutil.NewTestWalletRepository(t, db)
		fields := testutil.NewWallet(testutil.MakeID()).Fields(t)
		delete(fields, "chain")

		if _, err := repo.Create(ctx, fields); !errors.Is(err, apperrors.ErrSchemaMismatch) {
			t.Errorf("Expected ErrSchemaMismatch, got %v", err)
		}
	})

	t.Run("lists only the owner's wallets", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := testutil.NewTestWalletRepository(t, db)
		owner := testutil.MakeID()
		testutil.NewWallet(owner).Build(t, db)
		testutil.NewWallet(owner).WithChain("solana").Build(t, db)
		testutil.NewWallet(testutil.MakeID()).Build(t, db)

		wallets, err := repo.GetAll(ctx, owner)
		if err != nil {
			t.Fatalf("GetAll() returned unexpected error: %v", err)
		}
		if len(wallets) != 2 {
			t.Errorf("Expected 2 wallets, got %d", len(wallets))
		}
	})

	t.Run("updates a field and rejects unknown keys", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := testutil.NewTestWalletRepository(t, db)
		created := testutil.NewWallet(testutil.MakeID()).Build(t, db)

		updated, err := repo.UpdateByID(ctx, created.ID, mustDecode(t, `{"chain": "litecoin"}`))
		if err != nil {
			t.Fatalf("UpdateByID() returned unexpected error: %v", err)
		}
		if updated.Chain != "litecoin" || updated.Address != created.Address {
			t.Errorf("Unexpected wallet after update: %+v", updated)
		}

		if _, err := repo.UpdateByID(ctx, created.ID, mustDecode(t, `{"label": "cold"}`)); !errors.Is(err, apperrors.ErrSchemaMismatch) {
			t.Errorf("Expected ErrSchemaMismatch, got %v", err)
		}
	})

	t.Run("deletes a wallet", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := testutil.NewTestWalletRepository(t, db)
		created := testutil.NewWallet(testutil.MakeID()).Build(t, db)

		deleted, err := repo.DeleteByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("DeleteByID() returned unexpected error: %v", err)
		}
		if deleted.ID != created.ID {
			t.Errorf("Expected deleted wallet %s, got %+v", created.ID, deleted)
		}
		testutil.AssertDocumentCount(t, db, repository.WalletsCollection, 0)
	})
}
