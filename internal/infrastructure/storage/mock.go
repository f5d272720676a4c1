package storage

import (
	"fmt"
	"sort"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/ledger"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/recurring"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps and slices, making tests fast and isolated.
type MockRepository struct {
	transactions map[string]*ledger.Transaction
	recurring    map[string]*recurring.RecurringTransaction

	// Hooks for test assertions
	SaveTransactionCalled  bool
	LastSavedTransaction   *ledger.Transaction
	ReplaceRecurringCalled bool
	LastReplacedRecurring  []recurring.RecurringTransaction

	// Error injection for testing error paths
	SaveTransactionErr  error
	ListTransactionsErr error
	ReplaceRecurringErr error
	ListRecurringErr    error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		transactions: make(map[string]*ledger.Transaction),
		recurring:    make(map[string]*recurring.RecurringTransaction),
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// SaveTransaction saves a transaction to the in-memory map
func (m *MockRepository) SaveTransaction(tx *ledger.Transaction) error {
	m.SaveTransactionCalled = true
	m.LastSavedTransaction = tx
	if m.SaveTransactionErr != nil {
		return m.SaveTransactionErr
	}
	// Deep copy to avoid test mutations
	copied := *tx
	m.transactions[tx.ID] = &copied
	return nil
}

// SaveTransactions saves a batch, all-or-nothing like the SQLite version
func (m *MockRepository) SaveTransactions(txns []ledger.Transaction) (int, error) {
	if m.SaveTransactionErr != nil {
		return 0, m.SaveTransactionErr
	}
	for i := range txns {
		copied := txns[i]
		m.transactions[copied.ID] = &copied
	}
	return len(txns), nil
}

// GetTransaction retrieves a transaction from the in-memory map
func (m *MockRepository) GetTransaction(id string) (*ledger.Transaction, error) {
	tx, ok := m.transactions[id]
	if !ok {
		return nil, nil
	}
	copied := *tx
	return &copied, nil
}

// ListTransactions returns transactions matching the filters, newest first
func (m *MockRepository) ListTransactions(filters TransactionFilters) ([]ledger.Transaction, error) {
	if m.ListTransactionsErr != nil {
		return nil, m.ListTransactionsErr
	}

	var matching []ledger.Transaction
	for _, tx := range m.transactions {
		if filters.Status != "" && tx.TransactionStatus != filters.Status {
			continue
		}
		if filters.Merchant != "" && !equalFold(tx.Merchant, filters.Merchant) {
			continue
		}
		matching = append(matching, *tx)
	}

	sort.Slice(matching, func(i, j int) bool {
		if !matching[i].Date.Equal(matching[j].Date) {
			return matching[i].Date.After(matching[j].Date)
		}
		return matching[i].ID < matching[j].ID
	})

	if filters.Limit > 0 && len(matching) > filters.Limit {
		matching = matching[:filters.Limit]
	}
	return matching, nil
}

// DeleteTransaction removes a transaction from the in-memory map
func (m *MockRepository) DeleteTransaction(id string) error {
	delete(m.transactions, id)
	return nil
}

// GetStats returns aggregate statistics over the in-memory data
func (m *MockRepository) GetStats() (*Stats, error) {
	stats := &Stats{RecurringCount: len(m.recurring)}

	for _, tx := range m.transactions {
		stats.TotalTransactions++
		if tx.TransactionStatus == ledger.StatusPending {
			stats.PendingCount++
		} else {
			stats.ConfirmedCount++
		}
		if tx.Amount < 0 {
			stats.TotalOutflow += -tx.Amount
		} else {
			stats.TotalInflow += tx.Amount
		}
	}

	return stats, nil
}

// ReplaceRecurring swaps the stored recurring set
func (m *MockRepository) ReplaceRecurring(items []recurring.RecurringTransaction) error {
	m.ReplaceRecurringCalled = true
	m.LastReplacedRecurring = items
	if m.ReplaceRecurringErr != nil {
		return m.ReplaceRecurringErr
	}
	m.recurring = make(map[string]*recurring.RecurringTransaction)
	for i := range items {
		copied := items[i]
		m.recurring[copied.ID] = &copied
	}
	return nil
}

// ListRecurring returns all recurring patterns sorted by merchant pattern
func (m *MockRepository) ListRecurring() ([]recurring.RecurringTransaction, error) {
	if m.ListRecurringErr != nil {
		return nil, m.ListRecurringErr
	}
	var items []recurring.RecurringTransaction
	for _, item := range m.recurring {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].MerchantPattern < items[j].MerchantPattern
	})
	return items, nil
}

// GetRecurring retrieves one pattern by id
func (m *MockRepository) GetRecurring(id string) (*recurring.RecurringTransaction, error) {
	item, ok := m.recurring[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

// SetRecurringActive pauses or resumes a pattern
func (m *MockRepository) SetRecurringActive(id string, active bool) error {
	item, ok := m.recurring[id]
	if !ok {
		return fmt.Errorf("recurring transaction %s not found", id)
	}
	item.IsActive = active
	return nil
}

// SetRecurringConfirmed marks a pattern as user-validated
func (m *MockRepository) SetRecurringConfirmed(id string, confirmed bool) error {
	item, ok := m.recurring[id]
	if !ok {
		return fmt.Errorf("recurring transaction %s not found", id)
	}
	item.IsUserConfirmed = confirmed
	return nil
}

// Helper methods for test setup

// AddTransaction adds a transaction directly (for test setup)
func (m *MockRepository) AddTransaction(tx ledger.Transaction) {
	m.transactions[tx.ID] = &tx
}

// AddRecurring adds a recurring pattern directly (for test setup)
func (m *MockRepository) AddRecurring(item recurring.RecurringTransaction) {
	m.recurring[item.ID] = &item
}

// Reset clears all data and flags (for reuse between tests)
func (m *MockRepository) Reset() {
	m.transactions = make(map[string]*ledger.Transaction)
	m.recurring = make(map[string]*recurring.RecurringTransaction)
	m.SaveTransactionCalled = false
	m.LastSavedTransaction = nil
	m.ReplaceRecurringCalled = false
	m.LastReplacedRecurring = nil
	m.SaveTransactionErr = nil
	m.ListTransactionsErr = nil
	m.ReplaceRecurringErr = nil
	m.ListRecurringErr = nil
}

// equalFold is a helper for case-insensitive merchant matching
func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		c1, c2 := a[i], b[i]
		if c1 >= 'A' && c1 <= 'Z' {
			c1 += 'a' - 'A'
		}
		if c2 >= 'A' && c2 <= 'Z' {
			c2 += 'a' - 'A'
		}
		if c1 != c2 {
			return false
		}
	}
	return true
}
