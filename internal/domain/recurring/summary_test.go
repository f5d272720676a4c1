package recurring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeItem(merchantKey string, amount float64, freq Frequency, active bool) RecurringTransaction {
	return RecurringTransaction{
		ID:              "id-" + merchantKey,
		MerchantPattern: merchantKey,
		AverageAmount:   amount,
		Frequency:       freq,
		IsActive:        active,
	}
}

func TestSummarize_NormalizesToMonthly(t *testing.T) {
	items := []RecurringTransaction{
		makeItem("netflix", 12, FrequencyMonthly, true),
		makeItem("gym", 10, FrequencyWeekly, true),
		makeItem("water", 90, FrequencyQuarterly, true),
		makeItem("insurance", 1200, FrequencyYearly, true),
	}

	s := Summarize(items)

	// 12 + 10*4.345 + 90/3 + 1200/12
	assert.InDelta(t, 12+43.45+30+100, s.TotalMonthly, 0.001)
	assert.InDelta(t, s.TotalMonthly*12, s.TotalYearly, 0.001)
	assert.Equal(t, 4, s.ActiveCount)
}

func TestSummarize_SkipsPausedItems(t *testing.T) {
	items := []RecurringTransaction{
		makeItem("netflix", 12, FrequencyMonthly, true),
		makeItem("gym", 50, FrequencyMonthly, false),
	}

	s := Summarize(items)

	assert.InDelta(t, 12, s.TotalMonthly, 0.001)
	assert.Equal(t, 1, s.ActiveCount)
}

func TestSummarize_GroupsByCategory(t *testing.T) {
	streaming := makeItem("netflix", 12, FrequencyMonthly, true)
	streaming.Category = "Streaming"
	music := makeItem("spotify", 10, FrequencyMonthly, true)
	music.Category = "Streaming"
	uncategorized := makeItem("mystery", 5, FrequencyMonthly, true)

	s := Summarize([]RecurringTransaction{streaming, music, uncategorized})

	assert.InDelta(t, 22, s.ByCategory["Streaming"], 0.001)
	assert.InDelta(t, 5, s.ByCategory["Uncategorized"], 0.001)
}

func TestUpcoming_WindowAndOrdering(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	withNext := func(item RecurringTransaction, next time.Time) RecurringTransaction {
		item.NextExpected = next
		return item
	}

	items := []RecurringTransaction{
		withNext(makeItem("rent", 1800, FrequencyMonthly, true), now.AddDate(0, 0, 3)),
		withNext(makeItem("netflix", 12, FrequencyMonthly, true), now.AddDate(0, 0, 3)),
		withNext(makeItem("gym", 40, FrequencyMonthly, true), now.AddDate(0, 0, 1)),
		withNext(makeItem("insurance", 1200, FrequencyYearly, true), now.AddDate(0, 0, 20)), // outside window
		withNext(makeItem("paused", 99, FrequencyMonthly, false), now.AddDate(0, 0, 2)),
		withNext(makeItem("overdue", 30, FrequencyMonthly, true), now.AddDate(0, 0, -2)),
	}

	bills := Upcoming(items, now, 14)

	require.Len(t, bills, 3)
	assert.Equal(t, "gym", bills[0].MerchantPattern)
	// Same day: bigger bill surfaces first.
	assert.Equal(t, "rent", bills[1].MerchantPattern)
	assert.Equal(t, "netflix", bills[2].MerchantPattern)
	assert.Equal(t, 1, bills[0].DaysUntil)
	assert.Equal(t, 3, bills[1].DaysUntil)
}

func TestUpcoming_TodayIsIncluded(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	item := makeItem("rent", 1800, FrequencyMonthly, true)
	item.NextExpected = now

	bills := Upcoming([]RecurringTransaction{item}, now, 7)

	require.Len(t, bills, 1)
	assert.Equal(t, 0, bills[0].DaysUntil)
}
