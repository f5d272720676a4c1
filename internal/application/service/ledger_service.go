package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/ledger"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/reconcile"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/recurring"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/infrastructure/storage"
)

// LedgerService coordinates the detection and reconciliation engines
// against the transaction store. It is the single entry point the API
// and CLI layers talk to.
type LedgerService struct {
	storage  storage.Repository
	detector *recurring.Detector
	engine   *reconcile.Engine
	logger   *slog.Logger

	// Now is overridable in tests; defaults to time.Now
	Now func() time.Time
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(
	store storage.Repository,
	detector *recurring.Detector,
	engine *reconcile.Engine,
	logger *slog.Logger,
) *LedgerService {
	return &LedgerService{
		storage:  store,
		detector: detector,
		engine:   engine,
		logger:   logger,
		Now:      time.Now,
	}
}

// ImportResult summarizes a CSV import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportTransactions saves a batch of transactions.
func (s *LedgerService) ImportTransactions(txns []ledger.Transaction) (int, error) {
	saved, err := s.storage.SaveTransactions(txns)
	if err != nil {
		return 0, fmt.Errorf("import transactions: %w", err)
	}

	s.logger.Info("transactions imported", "count", saved)
	return saved, nil
}

// ImportCSV parses transactions from CSV and saves them. Rows that fail
// to parse are skipped and reported in the result rather than aborting
// the whole import. A header row is detected and ignored.
func (s *LedgerService) ImportCSV(r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	result := &ImportResult{}
	var txns []ledger.Transaction

	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		tx, err := ledger.ParseCSVRow(record)
		if err != nil {
			if line == 1 {
				// Header row
				continue
			}
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		txns = append(txns, tx)
	}

	if len(txns) > 0 {
		saved, err := s.storage.SaveTransactions(txns)
		if err != nil {
			return nil, fmt.Errorf("save imported transactions: %w", err)
		}
		result.Imported = saved
	}

	s.logger.Info("csv import finished",
		"imported", result.Imported,
		"skipped", result.Skipped,
	)
	return result, nil
}

// ListTransactions returns stored transactions matching the filters.
func (s *LedgerService) ListTransactions(filters storage.TransactionFilters) ([]ledger.Transaction, error) {
	return s.storage.ListTransactions(filters)
}

// GetTransaction retrieves one transaction; nil when unknown.
func (s *LedgerService) GetTransaction(id string) (*ledger.Transaction, error) {
	return s.storage.GetTransaction(id)
}

// DeleteTransaction removes a transaction. Deleting an unknown id is
// not an error.
func (s *LedgerService) DeleteTransaction(id string) error {
	return s.storage.DeleteTransaction(id)
}

// GetStats returns aggregate ledger statistics.
func (s *LedgerService) GetStats() (*storage.Stats, error) {
	return s.storage.GetStats()
}

// RunDetection runs recurring detection over the full ledger and
// persists the resulting pattern set. Prior patterns are fed back in so
// confirmed and manual entries survive and ids stay stable.
func (s *LedgerService) RunDetection() ([]recurring.RecurringTransaction, error) {
	txns, err := s.storage.ListTransactions(storage.TransactionFilters{})
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	prior, err := s.storage.ListRecurring()
	if err != nil {
		return nil, fmt.Errorf("load prior recurring: %w", err)
	}

	detected := s.detector.Detect(txns, prior)

	if err := s.storage.ReplaceRecurring(detected); err != nil {
		return nil, fmt.Errorf("save recurring: %w", err)
	}

	s.logger.Info("recurring detection finished",
		"transactions", len(txns),
		"patterns", len(detected),
	)
	return detected, nil
}

// ListRecurring returns all stored recurring patterns.
func (s *LedgerService) ListRecurring() ([]recurring.RecurringTransaction, error) {
	return s.storage.ListRecurring()
}

// ConfirmRecurring marks a pattern as user-validated so future
// detection runs keep its identity and amounts.
func (s *LedgerService) ConfirmRecurring(id string) error {
	if err := s.storage.SetRecurringConfirmed(id, true); err != nil {
		return err
	}
	s.logger.Info("recurring pattern confirmed", "id", id)
	return nil
}

// SetRecurringActive pauses or resumes a pattern. Paused patterns drop
// out of summaries and upcoming bills but stay stored.
func (s *LedgerService) SetRecurringActive(id string, active bool) error {
	if err := s.storage.SetRecurringActive(id, active); err != nil {
		return err
	}
	s.logger.Info("recurring pattern active flag changed", "id", id, "active", active)
	return nil
}

// GetSummary returns normalized spend totals over active patterns.
func (s *LedgerService) GetSummary() (recurring.Summary, error) {
	items, err := s.storage.ListRecurring()
	if err != nil {
		return recurring.Summary{}, fmt.Errorf("load recurring: %w", err)
	}
	return recurring.Summarize(items), nil
}

// GetUpcoming returns bills expected within the window.
func (s *LedgerService) GetUpcoming(windowDays int) ([]recurring.UpcomingBill, error) {
	items, err := s.storage.ListRecurring()
	if err != nil {
		return nil, fmt.Errorf("load recurring: %w", err)
	}
	return recurring.Upcoming(items, s.Now(), windowDays), nil
}

// RunReconciliation matches pending transactions against confirmed ones
// and reports aging alerts. It does not mutate the store; accepting a
// match is a separate explicit step.
func (s *LedgerService) RunReconciliation() (reconcile.Result, error) {
	txns, err := s.storage.ListTransactions(storage.TransactionFilters{})
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("load transactions: %w", err)
	}
	pending, confirmed := ledger.Partition(txns)

	result := s.engine.Reconcile(pending, confirmed, s.Now())

	s.logger.Info("reconciliation finished",
		"pending", len(pending),
		"confirmed", len(confirmed),
		"matches", len(result.Matches),
		"alerts", len(result.Alerts),
	)
	return result, nil
}

// AcceptMatch merges a matched pending/confirmed pair. The confirmed
// side wins on identity and amounts; user annotations from the pending
// side carry over. The superseded pending row is flipped to confirmed
// rather than removed so the audit trail survives.
func (s *LedgerService) AcceptMatch(pendingID, confirmedID string) (*ledger.Transaction, error) {
	pending, err := s.storage.GetTransaction(pendingID)
	if err != nil {
		return nil, fmt.Errorf("load pending %s: %w", pendingID, err)
	}
	if pending == nil {
		return nil, fmt.Errorf("pending transaction %s not found", pendingID)
	}
	if pending.TransactionStatus != ledger.StatusPending {
		return nil, fmt.Errorf("transaction %s is not pending", pendingID)
	}

	confirmed, err := s.storage.GetTransaction(confirmedID)
	if err != nil {
		return nil, fmt.Errorf("load confirmed %s: %w", confirmedID, err)
	}
	if confirmed == nil {
		return nil, fmt.Errorf("confirmed transaction %s not found", confirmedID)
	}

	merged := reconcile.Merge(*pending, *confirmed)

	if err := s.storage.SaveTransaction(&merged); err != nil {
		return nil, fmt.Errorf("save merged transaction: %w", err)
	}
	reconciled := reconcile.MarkReconciled(*pending)
	if err := s.storage.SaveTransaction(&reconciled); err != nil {
		return nil, fmt.Errorf("mark pending reconciled: %w", err)
	}

	s.logger.Info("match accepted",
		"pending_id", pendingID,
		"confirmed_id", confirmedID,
	)
	return &merged, nil
}
