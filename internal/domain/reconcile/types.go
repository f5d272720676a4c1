package reconcile

import (
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/ledger"
)

// Config holds the engine's matching tolerances.
type Config struct {
	// AmountTolerance is the absolute floor on acceptable amount
	// difference (default one cent).
	AmountTolerance float64

	// RelativeTolerance widens the amount window to this fraction of the
	// pending amount, whichever is larger, to tolerate currency rounding.
	RelativeTolerance float64

	// DateToleranceDays bounds how far a posting may lag the manual entry.
	DateToleranceDays int

	// SimilarityThreshold is the minimum merchant similarity for a
	// candidate pair.
	SimilarityThreshold float64

	// AgingThresholdDays is how old an unmatched pending transaction must
	// be before it raises an alert.
	AgingThresholdDays int
}

// DefaultConfig returns the standard matching tolerances.
func DefaultConfig() Config {
	return Config{
		AmountTolerance:     0.01,
		RelativeTolerance:   0.005,
		DateToleranceDays:   5,
		SimilarityThreshold: 0.5,
		AgingThresholdDays:  30,
	}
}

// Match pairs one pending transaction with one confirmed transaction.
// Within a single reconciliation run no transaction appears in more than
// one match.
type Match struct {
	Pending    ledger.Transaction `json:"pending"`
	Confirmed  ledger.Transaction `json:"confirmed"`
	DateDiff   int                `json:"date_diff_days"`
	AmountDiff float64            `json:"amount_diff"`
	Score      float64            `json:"score"`
}

// AgingAlert flags a pending transaction that found no match and has been
// outstanding past the aging threshold.
type AgingAlert struct {
	Transaction ledger.Transaction `json:"transaction"`
	DaysPending int                `json:"days_pending"`
	Reason      string             `json:"reason"`
}

// Result is the output of one reconciliation run.
type Result struct {
	Matches []Match      `json:"matches"`
	Alerts  []AgingAlert `json:"alerts"`

	// UnmatchedPending lists pending transactions (aged or not) that no
	// confirmed transaction could be paired with.
	UnmatchedPending []ledger.Transaction `json:"unmatched_pending"`
}
