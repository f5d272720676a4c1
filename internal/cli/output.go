package cli

import (
	"fmt"
	"strings"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/application/service"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/reconcile"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/recurring"
)

// PrintDetectionSummary prints detected patterns and normalized totals
func PrintDetectionSummary(patterns []recurring.RecurringTransaction, summary recurring.Summary) {
	fmt.Printf("Detected %d recurring patterns\n\n", len(patterns))

	for _, p := range patterns {
		status := ""
		if !p.IsActive {
			status = " [paused]"
		}
		if p.IsUserConfirmed {
			status += " [confirmed]"
		}
		fmt.Printf("  %-30s %-10s $%8.2f  next %s%s\n",
			p.NormalizedMerchant,
			p.Frequency,
			p.AverageAmount,
			p.NextExpected.Format("2006-01-02"),
			status)
	}

	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Monthly: $%.2f | Yearly: $%.2f | Active: %d\n",
		summary.TotalMonthly,
		summary.TotalYearly,
		summary.ActiveCount)

	if len(summary.ByCategory) > 0 {
		fmt.Println("\nBy category (monthly):")
		for category, amount := range summary.ByCategory {
			fmt.Printf("  %-25s $%8.2f\n", category, amount)
		}
	}
}

// PrintUpcoming prints bills expected within the window
func PrintUpcoming(bills []recurring.UpcomingBill, windowDays int) {
	if len(bills) == 0 {
		fmt.Printf("\nNo bills expected in the next %d days\n", windowDays)
		return
	}

	fmt.Printf("\nUpcoming in the next %d days:\n", windowDays)
	for _, b := range bills {
		fmt.Printf("  in %2dd  %-30s $%8.2f\n", b.DaysUntil, b.NormalizedMerchant, b.AverageAmount)
	}
}

// PrintReconcileSummary prints the reconciliation result
func PrintReconcileSummary(result reconcile.Result) {
	fmt.Printf("Matches: %d | Alerts: %d | Unmatched pending: %d\n",
		len(result.Matches),
		len(result.Alerts),
		len(result.UnmatchedPending))

	if len(result.Matches) > 0 {
		fmt.Println("\nProposed matches:")
		for _, m := range result.Matches {
			fmt.Printf("  %s -> %s  %-25s date gap %dd, amount diff $%.2f\n",
				m.Pending.ID,
				m.Confirmed.ID,
				m.Confirmed.Merchant,
				m.DateDiff,
				m.AmountDiff)
		}
	}

	if len(result.Alerts) > 0 {
		fmt.Println("\nAging alerts:")
		for _, a := range result.Alerts {
			fmt.Printf("  %-25s $%8.2f  %s (%d days)\n",
				a.Transaction.Merchant,
				a.Transaction.Amount,
				a.Reason,
				a.DaysPending)
		}
	}
}

// PrintImportSummary prints the CSV import result
func PrintImportSummary(result *service.ImportResult) {
	fmt.Printf("Imported: %d | Skipped: %d\n", result.Imported, result.Skipped)
	for _, e := range result.Errors {
		fmt.Printf("  - %s\n", e)
	}
}
