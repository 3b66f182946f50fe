package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
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

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the goose migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE shareholders (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(100) NOT NULL UNIQUE,
			ownership TEXT NOT NULL,
			investment TEXT NOT NULL DEFAULT '0',
			email VARCHAR(255) NOT NULL UNIQUE,
			status VARCHAR(10) NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE transactions (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			ticker VARCHAR(10) NOT NULL,
			shares TEXT NOT NULL,
			price_per_share TEXT NOT NULL,
			total_value TEXT NOT NULL,
			type VARCHAR(4) NOT NULL CHECK (type IN ('buy', 'sell')),
			cost_basis TEXT NOT NULL DEFAULT '0',
			realized_profit_loss TEXT NOT NULL DEFAULT '0',
			fees TEXT NOT NULL DEFAULT '0',
			portion_of_position TEXT NOT NULL DEFAULT '0',
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE portfolio (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			ticker VARCHAR(10) NOT NULL UNIQUE,
			total_shares TEXT NOT NULL DEFAULT '0',
			total_invested TEXT NOT NULL DEFAULT '0',
			average_purchase_price TEXT NOT NULL DEFAULT '0',
			current_price TEXT NOT NULL DEFAULT '0',
			total_value TEXT NOT NULL DEFAULT '0',
			unrealized_profit_loss TEXT NOT NULL DEFAULT '0',
			realized_profit_loss TEXT NOT NULL DEFAULT '0',
			dividend_yield TEXT NOT NULL DEFAULT '0',
			dividend_yield_cash TEXT NOT NULL DEFAULT '0',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE firm (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			capital TEXT NOT NULL DEFAULT '0',
			assets TEXT NOT NULL DEFAULT '0',
			cash TEXT NOT NULL DEFAULT '0',
			profit_loss TEXT NOT NULL DEFAULT '0',
			expenses TEXT NOT NULL DEFAULT '0',
			revenue TEXT NOT NULL DEFAULT '0',
			liabilities TEXT NOT NULL DEFAULT '0',
			firm_name VARCHAR(100) NOT NULL UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE task_metadata (
			task_name VARCHAR(50) NOT NULL PRIMARY KEY,
			last_run DATETIME NOT NULL
		);

		CREATE INDEX ix_transactions_ticker ON transactions(ticker);
		CREATE INDEX ix_transactions_created_at ON transactions(created_at);
	`

	_, err := db.Exec(schema)
	return err
}
