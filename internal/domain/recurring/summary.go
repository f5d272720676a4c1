package recurring

import (
	"sort"
	"time"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/ledger"
)

// Summary aggregates active recurring payments at a monthly cadence.
type Summary struct {
	TotalMonthly float64            `json:"total_monthly"`
	TotalYearly  float64            `json:"total_yearly"`
	ActiveCount  int                `json:"active_count"`
	ByCategory   map[string]float64 `json:"by_category"`
}

// Summarize normalizes every active item's average amount to a monthly
// cost (weekly × 4.345, quarterly ÷ 3, yearly ÷ 12) and totals them.
// Paused items are excluded.
func Summarize(items []RecurringTransaction) Summary {
	s := Summary{ByCategory: make(map[string]float64)}
	for _, item := range items {
		if !item.IsActive {
			continue
		}
		monthly := item.AverageAmount * item.Frequency.MonthlyFactor()
		s.TotalMonthly += monthly
		s.ActiveCount++

		category := item.Category
		if category == "" {
			category = "Uncategorized"
		}
		s.ByCategory[category] += monthly
	}
	s.TotalYearly = s.TotalMonthly * 12
	return s
}

// UpcomingBill is a recurring payment expected within a lookahead window.
type UpcomingBill struct {
	RecurringTransaction
	DaysUntil int `json:"days_until"`
}

// Upcoming returns active items whose next expected date falls within
// [today, today+windowDays], soonest first; ties surface the larger bill
// first.
func Upcoming(items []RecurringTransaction, now time.Time, windowDays int) []UpcomingBill {
	var bills []UpcomingBill
	for _, item := range items {
		if !item.IsActive || item.NextExpected.IsZero() {
			continue
		}
		days := ledger.DaysBetween(now, item.NextExpected)
		if days < 0 || days > windowDays {
			continue
		}
		bills = append(bills, UpcomingBill{RecurringTransaction: item, DaysUntil: days})
	}

	sort.Slice(bills, func(i, j int) bool {
		if bills[i].DaysUntil != bills[j].DaysUntil {
			return bills[i].DaysUntil < bills[j].DaysUntil
		}
		return bills[i].AverageAmount > bills[j].AverageAmount
	})
	return bills
}
