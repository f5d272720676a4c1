package storage

import (
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/ledger"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/recurring"
)

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, PostgreSQL, etc.)
// and makes testing with mocks straightforward.
type Repository interface {
	TransactionRepository
	RecurringRepository
	Close() error
}

// TransactionRepository handles transaction persistence
type TransactionRepository interface {
	// SaveTransaction inserts or updates a single transaction
	SaveTransaction(tx *ledger.Transaction) error

	// SaveTransactions inserts or updates a batch atomically and returns
	// how many rows were written
	SaveTransactions(txns []ledger.Transaction) (int, error)

	// GetTransaction retrieves a transaction by id; returns nil when the
	// id is unknown
	GetTransaction(id string) (*ledger.Transaction, error)

	// ListTransactions returns transactions matching the given filters,
	// newest first
	ListTransactions(filters TransactionFilters) ([]ledger.Transaction, error)

	// DeleteTransaction removes a transaction; deleting an unknown id is
	// not an error
	DeleteTransaction(id string) error

	// GetStats returns aggregate ledger statistics
	GetStats() (*Stats, error)
}

// TransactionFilters narrows ListTransactions results
type TransactionFilters struct {
	Status   ledger.TransactionStatus // empty = all
	Merchant string                   // exact merchant key match (empty = all)
	Limit    int                      // max results (0 = unlimited)
}

// RecurringRepository handles persisted recurring-pattern state
type RecurringRepository interface {
	// ReplaceRecurring atomically swaps the stored recurring set for the
	// output of a detection run
	ReplaceRecurring(items []recurring.RecurringTransaction) error

	// ListRecurring returns all stored recurring patterns
	ListRecurring() ([]recurring.RecurringTransaction, error)

	// GetRecurring retrieves one pattern by id; returns nil when unknown
	GetRecurring(id string) (*recurring.RecurringTransaction, error)

	// SetRecurringActive pauses or resumes a pattern
	SetRecurringActive(id string, active bool) error

	// SetRecurringConfirmed marks a pattern as user-validated, freezing it
	// against re-detection
	SetRecurringConfirmed(id string, confirmed bool) error
}

// Stats contains aggregate ledger statistics
type Stats struct {
	TotalTransactions int     `json:"total_transactions"`
	PendingCount      int     `json:"pending_count"`
	ConfirmedCount    int     `json:"confirmed_count"`
	TotalOutflow      float64 `json:"total_outflow"`
	TotalInflow       float64 `json:"total_inflow"`
	RecurringCount    int     `json:"recurring_count"`
}
