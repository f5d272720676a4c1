// Package ledger defines the transaction model shared by the recurring
// detector and the reconciliation engine, plus the filtering helpers both
// apply before doing any inference.
package ledger

import "time"

// TransactionStatus partitions transactions for reconciliation.
type TransactionStatus string

const (
	// StatusPending marks a manually pre-entered transaction awaiting
	// confirmation from an imported bank record.
	StatusPending TransactionStatus = "pending"
	// StatusConfirmed marks an authoritative imported transaction.
	StatusConfirmed TransactionStatus = "confirmed"
)

// Transaction is a single ledger row. Negative amounts are outflows,
// positive amounts are inflows. The engines treat transactions as
// immutable input and never mutate them in place.
type Transaction struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Merchant    string    `json:"merchant"`
	Description string    `json:"description,omitempty"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency,omitempty"`
	Category    string    `json:"category,omitempty"`

	// ParentID is set when this transaction is a split-child. Split-children
	// are excluded from detection and matching so a parent's total is never
	// counted twice.
	ParentID string `json:"parent_id,omitempty"`

	// Tag and BusinessStatus are user metadata (reimbursable, personal, ...)
	// that matching ignores but merges preserve.
	Tag            string `json:"tag,omitempty"`
	Note           string `json:"note,omitempty"`
	BusinessStatus string `json:"business_status,omitempty"`

	TransactionStatus TransactionStatus `json:"transaction_status"`
	IsManual          bool              `json:"is_manual"`
}

// IsExpense reports whether the transaction is an outflow.
func (t Transaction) IsExpense() bool {
	return t.Amount < 0
}

// IsSplitChild reports whether the transaction was produced by splitting a
// parent transaction.
func (t Transaction) IsSplitChild() bool {
	return t.ParentID != ""
}

// HasValidDate reports whether the transaction carries a usable date.
// Rows with unparseable dates arrive as zero times and are skipped rather
// than aborting a whole run.
func (t Transaction) HasValidDate() bool {
	return !t.Date.IsZero()
}

// Expenses returns the subset of transactions eligible for recurring
// detection: outflows with valid dates that are not split-children.
// The input slice is not modified.
func Expenses(txns []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if t.IsExpense() && !t.IsSplitChild() && t.HasValidDate() {
			out = append(out, t)
		}
	}
	return out
}

// Partition splits transactions into pending and confirmed sets for
// reconciliation. Rows without an explicit status are treated as confirmed
// imported data.
func Partition(txns []Transaction) (pending, confirmed []Transaction) {
	for _, t := range txns {
		if t.TransactionStatus == StatusPending {
			pending = append(pending, t)
		} else {
			confirmed = append(confirmed, t)
		}
	}
	return pending, confirmed
}

// Midnight truncates a time to its calendar date in UTC. Charge dates carry
// no time-of-day semantics, so all day arithmetic goes through this.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Midnight(b).Sub(Midnight(a)).Hours() / 24)
}

// AbsDays returns the calendar-day distance between two dates.
func AbsDays(a, b time.Time) int {
	d := DaysBetween(a, b)
	if d < 0 {
		return -d
	}
	return d
}
