package service

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/ledger"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/reconcile"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/recurring"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/infrastructure/storage"
)

func newTestService(repo storage.Repository) *LedgerService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	detector := recurring.NewDetector(recurring.DefaultConfig())
	engine := reconcile.NewEngine(reconcile.DefaultConfig())
	return NewLedgerService(repo, detector, engine, logger)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLedgerService_RunDetection_PersistsPatterns(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := newTestService(repo)

	base := day(2024, 1, 1)
	for i := 0; i < 4; i++ {
		repo.AddTransaction(ledger.Transaction{
			ID:                "netflix-" + strings.Repeat("x", i+1),
			Date:              base.AddDate(0, 0, i*30),
			Merchant:          "Netflix",
			Amount:            -15.99,
			Category:          "Subscriptions",
			TransactionStatus: ledger.StatusConfirmed,
		})
	}

	detected, err := svc.RunDetection()
	require.NoError(t, err)
	require.Len(t, detected, 1)

	assert.Equal(t, recurring.FrequencyMonthly, detected[0].Frequency)
	assert.True(t, repo.ReplaceRecurringCalled)

	stored, err := repo.ListRecurring()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "netflix", stored[0].MerchantPattern)
	assert.Equal(t, "Netflix", stored[0].NormalizedMerchant)
}

func TestLedgerService_RunDetection_KeepsStableIDs(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := newTestService(repo)

	base := day(2024, 1, 1)
	for i := 0; i < 3; i++ {
		repo.AddTransaction(ledger.Transaction{
			ID:                "gym-" + strings.Repeat("x", i+1),
			Date:              base.AddDate(0, 0, i*7),
			Merchant:          "Gym",
			Amount:            -35.00,
			TransactionStatus: ledger.StatusConfirmed,
		})
	}

	first, err := svc.RunDetection()
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.RunDetection()
	require.NoError(t, err)
	require.Len(t, second, 1)

	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestLedgerService_GetSummaryAndUpcoming(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := newTestService(repo)
	now := day(2024, 3, 1)
	svc.Now = func() time.Time { return now }

	repo.AddRecurring(recurring.RecurringTransaction{
		ID:                 "rec-1",
		MerchantPattern:    "netflix",
		NormalizedMerchant: "Netflix",
		Category:           "Subscriptions",
		AverageAmount:      15.99,
		Frequency:          recurring.FrequencyMonthly,
		NextExpected:       now.AddDate(0, 0, 10),
		IsActive:           true,
	})
	repo.AddRecurring(recurring.RecurringTransaction{
		ID:              "rec-2",
		MerchantPattern: "paused sub",
		AverageAmount:   9.99,
		Frequency:       recurring.FrequencyMonthly,
		NextExpected:    now.AddDate(0, 0, 5),
		IsActive:        false,
	})

	summary, err := svc.GetSummary()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ActiveCount)
	assert.InDelta(t, 15.99, summary.TotalMonthly, 0.001)

	upcoming, err := svc.GetUpcoming(30)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Netflix", upcoming[0].NormalizedMerchant)
	assert.Equal(t, 10, upcoming[0].DaysUntil)
}

func TestLedgerService_ConfirmAndPauseRecurring(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := newTestService(repo)

	repo.AddRecurring(recurring.RecurringTransaction{
		ID:              "rec-1",
		MerchantPattern: "netflix",
		Frequency:       recurring.FrequencyMonthly,
		IsActive:        true,
	})

	require.NoError(t, svc.ConfirmRecurring("rec-1"))
	item, err := repo.GetRecurring("rec-1")
	require.NoError(t, err)
	assert.True(t, item.IsUserConfirmed)

	require.NoError(t, svc.SetRecurringActive("rec-1", false))
	item, err = repo.GetRecurring("rec-1")
	require.NoError(t, err)
	assert.False(t, item.IsActive)

	assert.Error(t, svc.ConfirmRecurring("missing"))
}

func TestLedgerService_RunReconciliation(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := newTestService(repo)
	now := day(2024, 3, 10)
	svc.Now = func() time.Time { return now }

	repo.AddTransaction(ledger.Transaction{
		ID:                "p1",
		Date:              day(2024, 3, 5),
		Merchant:          "Coffee Shop",
		Amount:            -4.50,
		TransactionStatus: ledger.StatusPending,
	})
	repo.AddTransaction(ledger.Transaction{
		ID:                "c1",
		Date:              day(2024, 3, 6),
		Merchant:          "Coffee Shop",
		Amount:            -4.50,
		TransactionStatus: ledger.StatusConfirmed,
	})
	// Old unmatched pending triggers an aging alert
	repo.AddTransaction(ledger.Transaction{
		ID:                "p2",
		Date:              day(2024, 1, 1),
		Merchant:          "Ghost Charge",
		Amount:            -99.00,
		TransactionStatus: ledger.StatusPending,
	})

	result, err := svc.RunReconciliation()
	require.NoError(t, err)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "p1", result.Matches[0].Pending.ID)
	assert.Equal(t, "c1", result.Matches[0].Confirmed.ID)

	require.Len(t, result.Alerts, 1)
	assert.Equal(t, "p2", result.Alerts[0].Transaction.ID)
}

func TestLedgerService_AcceptMatch(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := newTestService(repo)

	repo.AddTransaction(ledger.Transaction{
		ID:                "p1",
		Date:              day(2024, 3, 5),
		Merchant:          "COFFEE SHOP #12",
		Amount:            -4.50,
		Tag:               "work",
		Note:              "client meeting",
		TransactionStatus: ledger.StatusPending,
	})
	repo.AddTransaction(ledger.Transaction{
		ID:                "c1",
		Date:              day(2024, 3, 6),
		Merchant:          "Coffee Shop",
		Amount:            -4.55,
		Category:          "Dining",
		TransactionStatus: ledger.StatusConfirmed,
	})

	merged, err := svc.AcceptMatch("p1", "c1")
	require.NoError(t, err)

	// Confirmed side wins identity, pending annotations carry over
	assert.Equal(t, "c1", merged.ID)
	assert.Equal(t, -4.55, merged.Amount)
	assert.Equal(t, "work", merged.Tag)
	assert.Equal(t, "client meeting", merged.Note)
	assert.Equal(t, "Dining", merged.Category)

	// Pending row survives, flipped to confirmed
	reconciled, err := repo.GetTransaction("p1")
	require.NoError(t, err)
	require.NotNil(t, reconciled)
	assert.Equal(t, ledger.StatusConfirmed, reconciled.TransactionStatus)
	assert.False(t, reconciled.IsManual)
}

func TestLedgerService_AcceptMatch_Validation(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := newTestService(repo)

	repo.AddTransaction(ledger.Transaction{
		ID:                "c1",
		Date:              day(2024, 3, 6),
		Merchant:          "Coffee Shop",
		Amount:            -4.55,
		TransactionStatus: ledger.StatusConfirmed,
	})

	// Unknown pending
	_, err := svc.AcceptMatch("missing", "c1")
	assert.ErrorContains(t, err, "not found")

	// Confirmed transaction used as the pending side
	_, err = svc.AcceptMatch("c1", "c1")
	assert.ErrorContains(t, err, "not pending")
}

func TestLedgerService_ImportCSV(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := newTestService(repo)

	input := strings.Join([]string{
		"date,amount,merchant,description,category",
		"2024-03-01,-15.99,Netflix,NETFLIX.COM,Subscriptions",
		"2024-03-02,\"$2,500.00\",Paycheck,ACME PAYROLL,Income",
		"not-a-date,abc,Broken,,",
	}, "\n")

	result, err := svc.ImportCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "line 4")

	stored, err := repo.ListTransactions(storage.TransactionFilters{})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}
