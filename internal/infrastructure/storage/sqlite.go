package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/ledger"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/recurring"
)

// Storage provides SQLite database access for the ledger.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	// Run all pending migrations
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

const transactionColumns = `id, date, merchant, description, amount, currency,
	category, parent_id, tag, note, business_status, transaction_status, is_manual`

// SaveTransaction inserts or updates a single transaction
func (s *Storage) SaveTransaction(tx *ledger.Transaction) error {
	return s.execSaveTransaction(s.db, tx)
}

// SaveTransactions inserts or updates a batch inside one database
// transaction so partial imports roll back on error.
func (s *Storage) SaveTransactions(txns []ledger.Transaction) (int, error) {
	dbTx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback() //nolint:errcheck // rollback is a no-op after commit

	saved := 0
	for i := range txns {
		if err := s.execSaveTransaction(dbTx, &txns[i]); err != nil {
			return 0, fmt.Errorf("save transaction %s: %w", txns[i].ID, err)
		}
		saved++
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return saved, nil
}

// execer covers *sql.DB and *sql.Tx
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func (s *Storage) execSaveTransaction(db execer, tx *ledger.Transaction) error {
	query := `
	INSERT OR REPLACE INTO transactions
	(` + transactionColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		tx.ID,
		tx.Date,
		tx.Merchant,
		tx.Description,
		tx.Amount,
		tx.Currency,
		tx.Category,
		tx.ParentID,
		tx.Tag,
		tx.Note,
		tx.BusinessStatus,
		string(tx.TransactionStatus),
		tx.IsManual,
	)
	return err
}

// GetTransaction retrieves a transaction by id; returns nil when unknown
func (s *Storage) GetTransaction(id string) (*ledger.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`

	tx, err := scanTransaction(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// ListTransactions returns transactions matching the filters, newest first
func (s *Storage) ListTransactions(filters TransactionFilters) ([]ledger.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	var args []interface{}

	if filters.Status != "" {
		query += " AND transaction_status = ?"
		args = append(args, string(filters.Status))
	}
	if filters.Merchant != "" {
		query += " AND LOWER(merchant) = LOWER(?)"
		args = append(args, filters.Merchant)
	}

	// SQLite treats LIMIT -1 as unlimited
	limit := filters.Limit
	if limit <= 0 {
		limit = -1
	}
	query += " ORDER BY date DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []ledger.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *tx)
	}
	return txns, rows.Err()
}

// DeleteTransaction removes a transaction by id
func (s *Storage) DeleteTransaction(id string) error {
	_, err := s.db.Exec(`DELETE FROM transactions WHERE id = ?`, id)
	return err
}

// GetStats returns aggregate ledger statistics
func (s *Storage) GetStats() (*Stats, error) {
	stats := &Stats{}

	query := `
	SELECT
		COUNT(*) as total,
		COUNT(CASE WHEN transaction_status = 'pending' THEN 1 END) as pending,
		COUNT(CASE WHEN transaction_status != 'pending' THEN 1 END) as confirmed,
		COALESCE(SUM(CASE WHEN amount < 0 THEN -amount ELSE 0 END), 0) as outflow,
		COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0) as inflow
	FROM transactions
	`
	err := s.db.QueryRow(query).Scan(
		&stats.TotalTransactions,
		&stats.PendingCount,
		&stats.ConfirmedCount,
		&stats.TotalOutflow,
		&stats.TotalInflow,
	)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRow(`SELECT COUNT(*) FROM recurring_transactions`).Scan(&stats.RecurringCount)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// scanner covers *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row scanner) (*ledger.Transaction, error) {
	tx := &ledger.Transaction{}
	var status string
	err := row.Scan(
		&tx.ID,
		&tx.Date,
		&tx.Merchant,
		&tx.Description,
		&tx.Amount,
		&tx.Currency,
		&tx.Category,
		&tx.ParentID,
		&tx.Tag,
		&tx.Note,
		&tx.BusinessStatus,
		&status,
		&tx.IsManual,
	)
	if err != nil {
		return nil, err
	}
	tx.TransactionStatus = ledger.TransactionStatus(status)
	return tx, nil
}

const recurringColumns = `id, merchant_pattern, normalized_merchant, category,
	average_amount, frequency, last_occurrence, next_expected, occurrences,
	transaction_ids, is_active, is_user_confirmed, is_manual`

// ReplaceRecurring atomically swaps the stored recurring set for a fresh
// detection result.
func (s *Storage) ReplaceRecurring(items []recurring.RecurringTransaction) error {
	dbTx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback() //nolint:errcheck // rollback is a no-op after commit

	if _, err := dbTx.Exec(`DELETE FROM recurring_transactions`); err != nil {
		return fmt.Errorf("clear recurring: %w", err)
	}

	query := `
	INSERT INTO recurring_transactions
	(` + recurringColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, item := range items {
		idsJSON, err := json.Marshal(item.TransactionIDs)
		if err != nil {
			return fmt.Errorf("marshal transaction ids: %w", err)
		}
		_, err = dbTx.Exec(query,
			item.ID,
			item.MerchantPattern,
			item.NormalizedMerchant,
			item.Category,
			item.AverageAmount,
			string(item.Frequency),
			item.LastOccurrence,
			item.NextExpected,
			item.Occurrences,
			string(idsJSON),
			item.IsActive,
			item.IsUserConfirmed,
			item.IsManual,
		)
		if err != nil {
			return fmt.Errorf("insert recurring %s: %w", item.MerchantPattern, err)
		}
	}

	return dbTx.Commit()
}

// ListRecurring returns all stored recurring patterns
func (s *Storage) ListRecurring() ([]recurring.RecurringTransaction, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_transactions ORDER BY merchant_pattern`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []recurring.RecurringTransaction
	for rows.Next() {
		item, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetRecurring retrieves one pattern by id; returns nil when unknown
func (s *Storage) GetRecurring(id string) (*recurring.RecurringTransaction, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_transactions WHERE id = ?`

	item, err := scanRecurring(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// SetRecurringActive pauses or resumes a pattern
func (s *Storage) SetRecurringActive(id string, active bool) error {
	return s.updateRecurringFlag(id, "is_active", active)
}

// SetRecurringConfirmed marks a pattern as user-validated
func (s *Storage) SetRecurringConfirmed(id string, confirmed bool) error {
	return s.updateRecurringFlag(id, "is_user_confirmed", confirmed)
}

func (s *Storage) updateRecurringFlag(id, column string, value bool) error {
	// column comes from the two callers above, never user input
	result, err := s.db.Exec(
		`UPDATE recurring_transactions SET `+column+` = ? WHERE id = ?`, value, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("recurring transaction %s not found", id)
	}
	return nil
}

func scanRecurring(row scanner) (*recurring.RecurringTransaction, error) {
	item := &recurring.RecurringTransaction{}
	var frequency, idsJSON string
	err := row.Scan(
		&item.ID,
		&item.MerchantPattern,
		&item.NormalizedMerchant,
		&item.Category,
		&item.AverageAmount,
		&frequency,
		&item.LastOccurrence,
		&item.NextExpected,
		&item.Occurrences,
		&idsJSON,
		&item.IsActive,
		&item.IsUserConfirmed,
		&item.IsManual,
	)
	if err != nil {
		return nil, err
	}
	item.Frequency = recurring.Frequency(frequency)
	if idsJSON != "" {
		if err := json.Unmarshal([]byte(idsJSON), &item.TransactionIDs); err != nil {
			return nil, fmt.Errorf("unmarshal transaction ids: %w", err)
		}
	}
	return item, nil
}
