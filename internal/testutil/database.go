package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/database"
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The schema comes from the same embedded migrations the server runs.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Faster for tests
	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		t.Fatalf("Failed to set pragma: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// CountDocuments returns the number of documents in a collection.
//
// Example usage:
//
//	count := testutil.CountDocuments(t, db, "transactions")
func CountDocuments(t *testing.T, db *sql.DB, collection string) int {
	t.Helper()

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM document WHERE collection = ?", collection).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count documents in %s: %v", collection, err)
	}

	return count
}

// AssertDocumentCount asserts that a collection holds the expected number of documents.
//
// Example usage:
//
//	testutil.AssertDocumentCount(t, db, "wallets", 2)
func AssertDocumentCount(t *testing.T, db *sql.DB, collection string, expected int) {
	t.Helper()

	actual := CountDocuments(t, db, collection)
	if actual != expected {
		t.Errorf("Expected %d documents in %s, got %d", expected, collection, actual)
	}
}
