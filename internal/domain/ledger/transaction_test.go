package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenses_FiltersInflowsSplitsAndBadDates(t *testing.T) {
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	txns := []Transaction{
		{ID: "keep", Amount: -10, Date: date},
		{ID: "inflow", Amount: 10, Date: date},
		{ID: "split", Amount: -10, Date: date, ParentID: "parent"},
		{ID: "nodate", Amount: -10},
	}

	expenses := Expenses(txns)

	require.Len(t, expenses, 1)
	assert.Equal(t, "keep", expenses[0].ID)
}

func TestPartition_DefaultsToConfirmed(t *testing.T) {
	txns := []Transaction{
		{ID: "p", TransactionStatus: StatusPending},
		{ID: "c", TransactionStatus: StatusConfirmed},
		{ID: "imported"}, // unflagged import
	}

	pending, confirmed := Partition(txns)

	require.Len(t, pending, 1)
	assert.Equal(t, "p", pending[0].ID)
	assert.Len(t, confirmed, 2)
}

func TestDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2025, 3, 1, 23, 50, 0, 0, time.UTC)
	b := time.Date(2025, 3, 2, 0, 10, 0, 0, time.UTC)

	assert.Equal(t, 1, DaysBetween(a, b))
	assert.Equal(t, -1, DaysBetween(b, a))
	assert.Equal(t, 1, AbsDays(b, a))
}

func TestParseCSVRow(t *testing.T) {
	row := []string{"2025-03-01", "-45.99", "Netflix", "monthly plan", "Streaming"}

	tx, err := ParseCSVRow(row)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.Equal(t, -45.99, tx.Amount)
	assert.Equal(t, "Netflix", tx.Merchant)
	assert.Equal(t, "monthly plan", tx.Description)
	assert.Equal(t, "Streaming", tx.Category)
	assert.Equal(t, StatusConfirmed, tx.TransactionStatus)
	assert.NotEmpty(t, tx.ID)
}

func TestParseCSVRow_Errors(t *testing.T) {
	tests := []struct {
		name string
		row  []string
	}{
		{"too few columns", []string{"2025-03-01", "-45.99"}},
		{"bad date", []string{"not-a-date", "-45.99", "Netflix"}},
		{"bad amount", []string{"2025-03-01", "forty-five", "Netflix"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSVRow(tt.row)
			assert.Error(t, err)
		})
	}
}

func TestParseAmount_Formats(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"-45.99", -45.99},
		{"$1,234.56", 1234.56},
		{"(45.99)", -45.99},
		{"0.01", 0.01},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.InDelta(t, tt.want, got, 0.0001, tt.raw)
	}
}
