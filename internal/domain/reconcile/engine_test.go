package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/ledger"
)

var today = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func pendingTx(id, merchantName string, amount float64, date time.Time) ledger.Transaction {
	return ledger.Transaction{
		ID:                id,
		Merchant:          merchantName,
		Amount:            amount,
		Date:              date,
		TransactionStatus: ledger.StatusPending,
		IsManual:          true,
	}
}

func confirmedTx(id, merchantName string, amount float64, date time.Time) ledger.Transaction {
	return ledger.Transaction{
		ID:                id,
		Merchant:          merchantName,
		Amount:            amount,
		Date:              date,
		TransactionStatus: ledger.StatusConfirmed,
	}
}

func TestEngine_ExactMatch(t *testing.T) {
	// Arrange
	engine := NewEngine(DefaultConfig())
	pending := []ledger.Transaction{
		pendingTx("p1", "Whole Foods", -84.20, today),
	}
	confirmed := []ledger.Transaction{
		confirmedTx("c1", "WHOLE FOODS MARKET #123", -84.20, today.AddDate(0, 0, 2)),
	}

	// Act
	result := engine.Reconcile(pending, confirmed, today)

	// Assert
	require.Len(t, result.Matches, 1)
	m := result.Matches[0]
	assert.Equal(t, "p1", m.Pending.ID)
	assert.Equal(t, "c1", m.Confirmed.ID)
	assert.Equal(t, 2, m.DateDiff)
	assert.InDelta(t, 0, m.AmountDiff, 0.0001)
	assert.Empty(t, result.Alerts)
}

func TestEngine_OneToOneInvariant(t *testing.T) {
	// Two identical pendings compete for two identical confirmeds; every
	// transaction must appear in at most one match.
	engine := NewEngine(DefaultConfig())
	pending := []ledger.Transaction{
		pendingTx("p1", "Coffee Shop", -4.50, today),
		pendingTx("p2", "Coffee Shop", -4.50, today),
	}
	confirmed := []ledger.Transaction{
		confirmedTx("c1", "Coffee Shop", -4.50, today),
		confirmedTx("c2", "Coffee Shop", -4.50, today),
	}

	result := engine.Reconcile(pending, confirmed, today)

	require.Len(t, result.Matches, 2)
	seenPending := make(map[string]bool)
	seenConfirmed := make(map[string]bool)
	for _, m := range result.Matches {
		assert.False(t, seenPending[m.Pending.ID], "pending %s matched twice", m.Pending.ID)
		assert.False(t, seenConfirmed[m.Confirmed.ID], "confirmed %s matched twice", m.Confirmed.ID)
		seenPending[m.Pending.ID] = true
		seenConfirmed[m.Confirmed.ID] = true
	}
}

func TestEngine_SingleConfirmedNotDoubleConsumed(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	pending := []ledger.Transaction{
		pendingTx("p1", "Gym", -40, today),
		pendingTx("p2", "Gym", -40, today.AddDate(0, 0, 1)),
	}
	confirmed := []ledger.Transaction{
		confirmedTx("c1", "Gym", -40, today),
	}

	result := engine.Reconcile(pending, confirmed, today)

	require.Len(t, result.Matches, 1)
	// p1 has the smaller date gap, so it wins the only confirmed.
	assert.Equal(t, "p1", result.Matches[0].Pending.ID)
	require.Len(t, result.UnmatchedPending, 1)
	assert.Equal(t, "p2", result.UnmatchedPending[0].ID)
}

func TestEngine_AmountToleranceBoundaries(t *testing.T) {
	tests := []struct {
		name           string
		pendingAmount  float64
		confirmedAmount float64
		wantMatch      bool
	}{
		{"exact", -2.00, -2.00, true},
		{"one cent off", -2.00, -2.01, true},
		{"two cents off small amount", -2.00, -2.02, false},
		{"relative band on large amount", -1000.00, -1004.00, true}, // 0.5% = 5.00
		{"beyond relative band", -1000.00, -1006.00, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(DefaultConfig())
			pending := []ledger.Transaction{pendingTx("p1", "Store", tt.pendingAmount, today)}
			confirmed := []ledger.Transaction{confirmedTx("c1", "Store", tt.confirmedAmount, today)}

			result := engine.Reconcile(pending, confirmed, today)

			if tt.wantMatch {
				assert.Len(t, result.Matches, 1)
			} else {
				assert.Empty(t, result.Matches)
			}
		})
	}
}

func TestEngine_DateWindowBoundary(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	pending := []ledger.Transaction{pendingTx("p1", "Store", -25, today)}

	within := engine.Reconcile(pending, []ledger.Transaction{
		confirmedTx("c1", "Store", -25, today.AddDate(0, 0, 5)),
	}, today)
	beyond := engine.Reconcile(pending, []ledger.Transaction{
		confirmedTx("c2", "Store", -25, today.AddDate(0, 0, 6)),
	}, today)

	assert.Len(t, within.Matches, 1)
	assert.Empty(t, beyond.Matches)
}

func TestEngine_MerchantSimilarityGate(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	pending := []ledger.Transaction{pendingTx("p1", "Netflix", -15.99, today)}
	confirmed := []ledger.Transaction{
		confirmedTx("c1", "Totally Different Vendor", -15.99, today),
	}

	result := engine.Reconcile(pending, confirmed, today)

	assert.Empty(t, result.Matches)
}

func TestEngine_ExactAmountBeatsCloserDate(t *testing.T) {
	// An exact amount two days away must outrank a near-miss amount on the
	// same day.
	engine := NewEngine(DefaultConfig())
	pending := []ledger.Transaction{pendingTx("p1", "Store", -50.00, today)}
	confirmed := []ledger.Transaction{
		confirmedTx("c1", "Store", -50.01, today),
		confirmedTx("c2", "Store", -50.00, today.AddDate(0, 0, 2)),
	}

	result := engine.Reconcile(pending, confirmed, today)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "c2", result.Matches[0].Confirmed.ID)
}

func TestEngine_Deterministic(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	pending := []ledger.Transaction{
		pendingTx("p2", "Store", -10, today),
		pendingTx("p1", "Store", -10, today),
	}
	confirmed := []ledger.Transaction{
		confirmedTx("c2", "Store", -10, today),
		confirmedTx("c1", "Store", -10, today),
	}

	first := engine.Reconcile(pending, confirmed, today)
	second := engine.Reconcile(pending, confirmed, today)

	assert.Equal(t, first, second)
	// Equal scores resolve by lexical id order.
	require.Len(t, first.Matches, 2)
	assert.Equal(t, "p1", first.Matches[0].Pending.ID)
	assert.Equal(t, "c1", first.Matches[0].Confirmed.ID)
}

func TestEngine_AgingAlertBoundary(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	aged := engine.Reconcile([]ledger.Transaction{
		pendingTx("p1", "Vendor", -75, today.AddDate(0, 0, -30)),
	}, nil, today)
	fresh := engine.Reconcile([]ledger.Transaction{
		pendingTx("p2", "Vendor", -75, today.AddDate(0, 0, -29)),
	}, nil, today)

	require.Len(t, aged.Alerts, 1)
	assert.Equal(t, "Pending for 30+ days", aged.Alerts[0].Reason)
	assert.Equal(t, 30, aged.Alerts[0].DaysPending)
	assert.Empty(t, fresh.Alerts)
}

func TestEngine_MatchedPendingRaisesNoAlert(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	date := today.AddDate(0, 0, -35)
	pending := []ledger.Transaction{pendingTx("p1", "Vendor", -75, date)}
	confirmed := []ledger.Transaction{confirmedTx("c1", "Vendor", -75, date.AddDate(0, 0, 1))}

	result := engine.Reconcile(pending, confirmed, today)

	assert.Len(t, result.Matches, 1)
	assert.Empty(t, result.Alerts)
}

func TestEngine_SplitChildrenExcluded(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	child := pendingTx("p1", "Store", -20, today)
	child.ParentID = "parent1"
	confirmed := []ledger.Transaction{confirmedTx("c1", "Store", -20, today)}

	result := engine.Reconcile([]ledger.Transaction{child}, confirmed, today)

	assert.Empty(t, result.Matches)
	assert.Empty(t, result.UnmatchedPending)
}

func TestEngine_EmptyInputs(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	result := engine.Reconcile(nil, nil, today)

	assert.Empty(t, result.Matches)
	assert.Empty(t, result.Alerts)
	assert.Empty(t, result.UnmatchedPending)
}
