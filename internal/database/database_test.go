package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpen(t *testing.T) {
	t.Run("applies migrations to a fresh database", func(t *testing.T) {
		ctx := context.Background()
		db, err := Open(ctx, ":memory:")
		if err != nil {
			t.Fatalf("Open() returned unexpected error: %v", err)
		}
		defer db.Close()

		current, latest, err := SchemaVersion(ctx, db)
		if err != nil {
			t.Fatalf("SchemaVersion() returned unexpected error: %v", err)
		}
		if current != latest {
			t.Errorf("Expected schema at latest version %d, got %d", latest, current)
		}
		if latest != 2 {
			t.Errorf("Expected 2 migrations, got %d", latest)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM document").Scan(&count); err != nil {
			t.Fatalf("document table missing: %v", err)
		}
	})

	t.Run("migrate is idempotent", func(t *testing.T) {
		ctx := context.Background()
		db, err := Open(ctx, ":memory:")
		if err != nil {
			t.Fatalf("Open() returned unexpected error: %v", err)
		}
		defer db.Close()

		applied, err := Migrate(ctx, db)
		if err != nil {
			t.Fatalf("Migrate() returned unexpected error: %v", err)
		}
		if applied != 0 {
			t.Errorf("Expected no pending migrations, got %d applied", applied)
		}
	})

	t.Run("creates the database directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "portfolio.db")

		db, err := Open(context.Background(), path)
		if err != nil {
			t.Fatalf("Open() returned unexpected error: %v", err)
		}
		defer db.Close()

		if err := HealthCheck(context.Background(), db); err != nil {
			t.Errorf("HealthCheck() returned unexpected error: %v", err)
		}
	})

	t.Run("rejects bodies that are not JSON objects", func(t *testing.T) {
		db, err := Open(context.Background(), ":memory:")
		if err != nil {
			t.Fatalf("Open() returned unexpected error: %v", err)
		}
		defer db.Close()

		_, err = db.Exec(`INSERT INTO document (id, collection, body) VALUES ('x', 'c', '[1,2]')`)
		if err == nil {
			t.Error("Expected CHECK constraint failure for array body")
		}
	})
}
