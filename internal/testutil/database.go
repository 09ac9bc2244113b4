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

	// Test connection
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

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- User table
		CREATE TABLE user (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			username VARCHAR(50) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(100) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Fund ledger, one row per user
		CREATE TABLE fund (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL UNIQUE,
			available_amount FLOAT NOT NULL DEFAULT 0,
			invested_amount FLOAT NOT NULL DEFAULT 0,
			opening_balance FLOAT NOT NULL DEFAULT 0,
			payin FLOAT NOT NULL DEFAULT 0,
			payout FLOAT NOT NULL DEFAULT 0,
			FOREIGN KEY(user_id) REFERENCES user(id) ON DELETE CASCADE
		);

		-- Fund transaction log
		CREATE TABLE fund_transaction (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			fund_id VARCHAR(36) NOT NULL,
			kind VARCHAR(10) NOT NULL,
			amount FLOAT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(fund_id) REFERENCES fund(id) ON DELETE CASCADE
		);

		-- Holdings ledger
		CREATE TABLE holding (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			symbol VARCHAR(20) NOT NULL,
			quantity FLOAT NOT NULL,
			average_cost FLOAT NOT NULL,
			last_price FLOAT NOT NULL,
			previous_close FLOAT NOT NULL,
			net_change FLOAT NOT NULL DEFAULT 0,
			day_change FLOAT NOT NULL DEFAULT 0,
			last_order_id VARCHAR(36),
			version INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY(user_id) REFERENCES user(id) ON DELETE CASCADE,
			CONSTRAINT unique_user_symbol UNIQUE (user_id, symbol)
		);

		-- Positions ledger
		CREATE TABLE position (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			symbol VARCHAR(20) NOT NULL,
			product_type VARCHAR(5) NOT NULL,
			quantity FLOAT NOT NULL,
			average_price FLOAT NOT NULL,
			last_price FLOAT NOT NULL,
			mtm FLOAT NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(user_id) REFERENCES user(id) ON DELETE CASCADE,
			CONSTRAINT unique_user_symbol_product UNIQUE (user_id, symbol, product_type)
		);

		-- Append-only order log
		CREATE TABLE "order" (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			symbol VARCHAR(20) NOT NULL,
			quantity FLOAT NOT NULL,
			price FLOAT NOT NULL,
			side VARCHAR(4) NOT NULL,
			order_type VARCHAR(10) NOT NULL,
			product_type VARCHAR(5) NOT NULL,
			validity VARCHAR(3) NOT NULL DEFAULT 'DAY',
			trigger_price FLOAT,
			status VARCHAR(10) NOT NULL,
			remarks TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			executed_at DATETIME,
			FOREIGN KEY(user_id) REFERENCES user(id) ON DELETE CASCADE
		);

		CREATE INDEX ix_fund_transaction_fund_id ON fund_transaction(fund_id);
		CREATE INDEX ix_holding_user_id ON holding(user_id);
		CREATE INDEX ix_position_user_id ON position(user_id);
		CREATE INDEX ix_order_user_id ON "order"(user_id);
		CREATE INDEX ix_order_created_at ON "order"(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

// CountRows returns the number of rows in a table. The table name is
// interpolated directly, so pass only trusted literals from tests.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&count); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	return count
}
