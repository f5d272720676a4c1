package storage

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database schema migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// allMigrations defines all migrations in order
var allMigrations = []Migration{
	{
		Version: 1,
		Name:    "create_transactions_table",
		Up:      migration001CreateTransactionsTable,
	},
	{
		Version: 2,
		Name:    "create_recurring_table",
		Up:      migration002CreateRecurringTable,
	},
	{
		Version: 3,
		Name:    "add_transaction_indexes",
		Up:      migration003AddTransactionIndexes,
	},
}

// runMigrations executes all pending migrations
func (s *Storage) runMigrations() error {
	// Ensure migrations table exists
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Get applied migrations
	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	// Run pending migrations
	for _, migration := range allMigrations {
		if applied[migration.Version] {
			continue // Already applied
		}

		log.Printf("Running migration %d: %s", migration.Version, migration.Name)

		// Run migration in transaction
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		// Execute migration
		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		// Record migration
		_, err = tx.Exec(`
			INSERT INTO schema_migrations (version, name) VALUES (?, ?)
		`, migration.Version, migration.Name)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		// Commit
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// ensureMigrationsTable creates the schema_migrations table
func (s *Storage) ensureMigrationsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	_, err := s.db.Exec(query)
	return err
}

// getAppliedMigrations returns a set of applied migration versions
func (s *Storage) getAppliedMigrations() (map[int]bool, error) {
	applied := make(map[int]bool)

	rows, err := s.db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// ================================================================
// MIGRATION FUNCTIONS
// ================================================================

// migration001CreateTransactionsTable creates the main transactions table
func migration001CreateTransactionsTable(db *sql.Tx) error {
	query := `CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		date TIMESTAMP,
		merchant TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		amount REAL NOT NULL DEFAULT 0,
		currency TEXT NOT NULL DEFAULT 'USD',
		category TEXT NOT NULL DEFAULT '',
		parent_id TEXT NOT NULL DEFAULT '',
		tag TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		business_status TEXT NOT NULL DEFAULT '',
		transaction_status TEXT NOT NULL DEFAULT 'pending',
		is_manual BOOLEAN DEFAULT 0
	)`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create transactions table: %w", err)
	}

	return nil
}

// migration002CreateRecurringTable creates the recurring_transactions table.
// transaction_ids holds a JSON array since the full set is always read and
// replaced as a unit; a join table would only add write amplification.
func migration002CreateRecurringTable(db *sql.Tx) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS recurring_transactions (
			id TEXT PRIMARY KEY,
			merchant_pattern TEXT NOT NULL,
			normalized_merchant TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			average_amount REAL NOT NULL DEFAULT 0,
			frequency TEXT NOT NULL,
			last_occurrence TIMESTAMP,
			next_expected TIMESTAMP,
			occurrences INTEGER NOT NULL DEFAULT 0,
			transaction_ids TEXT NOT NULL DEFAULT '[]',
			is_active BOOLEAN DEFAULT 1,
			is_user_confirmed BOOLEAN DEFAULT 0,
			is_manual BOOLEAN DEFAULT 0
		)`,

		`CREATE INDEX IF NOT EXISTS idx_recurring_normalized_merchant
		 ON recurring_transactions(normalized_merchant)`,

		`CREATE INDEX IF NOT EXISTS idx_recurring_next_expected
		 ON recurring_transactions(next_expected)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create recurring table: %w", err)
		}
	}

	return nil
}

// migration003AddTransactionIndexes adds indexes for the common list queries
func migration003AddTransactionIndexes(db *sql.Tx) error {
	queries := []string{
		`CREATE INDEX IF NOT EXISTS idx_transactions_status
		 ON transactions(transaction_status)`,

		`CREATE INDEX IF NOT EXISTS idx_transactions_date
		 ON transactions(date DESC)`,

		`CREATE INDEX IF NOT EXISTS idx_transactions_merchant
		 ON transactions(merchant)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
