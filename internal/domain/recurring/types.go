package recurring

import "time"

// Frequency is the cadence bucket assigned to a recurring pattern.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// IntervalDays returns the canonical interval used to forecast the next
// occurrence. Forecasts use the canonical interval rather than the observed
// median so they stay stable as new data arrives.
func (f Frequency) IntervalDays() int {
	switch f {
	case FrequencyWeekly:
		return 7
	case FrequencyQuarterly:
		return 91
	case FrequencyYearly:
		return 365
	default:
		return 30
	}
}

// MonthlyFactor converts one charge at this frequency to a monthly cost.
func (f Frequency) MonthlyFactor() float64 {
	switch f {
	case FrequencyWeekly:
		return 4.345
	case FrequencyQuarterly:
		return 1.0 / 3.0
	case FrequencyYearly:
		return 1.0 / 12.0
	default:
		return 1
	}
}

// RecurringTransaction is a detected (or user-created) recurring payment
// pattern. Once IsUserConfirmed is set, or for manually created entries,
// re-detection preserves identity, amount, and frequency and only appends
// new occurrences.
type RecurringTransaction struct {
	ID                 string    `json:"id"`
	MerchantPattern    string    `json:"merchant_pattern"`
	NormalizedMerchant string    `json:"normalized_merchant"`
	Category           string    `json:"category,omitempty"`
	AverageAmount      float64   `json:"average_amount"`
	Frequency          Frequency `json:"frequency"`
	LastOccurrence     time.Time `json:"last_occurrence"`
	NextExpected       time.Time `json:"next_expected"`
	Occurrences        int       `json:"occurrences"`
	TransactionIDs     []string  `json:"transaction_ids"`
	IsActive           bool      `json:"is_active"`
	IsUserConfirmed    bool      `json:"is_user_confirmed"`
	IsManual           bool      `json:"is_manual"`
}

// GapBand is an inclusive range of median inter-occurrence gaps (in days)
// that maps to a frequency bucket.
type GapBand struct {
	Min float64
	Max float64
}

// Contains reports whether a median gap falls inside the band.
func (b GapBand) Contains(gap float64) bool {
	return gap >= b.Min && gap <= b.Max
}

// Config holds the detector's tunable thresholds. The defaults were chosen
// against representative transaction history, not derived from first
// principles; hosts may override them.
type Config struct {
	// MinOccurrences is the smallest group size that can establish
	// periodicity.
	MinOccurrences int

	// MaxGapCV rejects groups whose gap dispersion (stddev/median) exceeds
	// this value, so two unrelated purchases a month apart are not called a
	// subscription.
	MaxGapCV float64

	// OutlierMultiplier excludes amounts farther than this multiple of the
	// median absolute amount when averaging, guarding against one irregular
	// charge skewing the average.
	OutlierMultiplier float64

	WeeklyBand    GapBand
	MonthlyBand   GapBand
	QuarterlyBand GapBand
	YearlyBand    GapBand
}

// DefaultConfig returns the standard detection thresholds.
func DefaultConfig() Config {
	return Config{
		MinOccurrences:    2,
		MaxGapCV:          0.35,
		OutlierMultiplier: 2.0,
		WeeklyBand:        GapBand{Min: 5, Max: 9},
		MonthlyBand:       GapBand{Min: 25, Max: 35},
		QuarterlyBand:     GapBand{Min: 80, Max: 100},
		YearlyBand:        GapBand{Min: 350, Max: 380},
	}
}
