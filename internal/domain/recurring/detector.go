// Package recurring discovers recurring payment patterns (subscriptions,
// rent, utilities) from raw transaction history, without any external
// schedule metadata.
//
// Detection is a pure function over its inputs: given the same transaction
// set and clock, two consecutive runs produce identical results. Entries a
// user has confirmed, or created manually, survive re-detection unchanged
// apart from newly appended occurrences.
package recurring

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/ledger"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/merchant"
)

// Detector clusters expense history by merchant and infers periodicity.
type Detector struct {
	config  Config
	aliases merchant.AliasTable
}

// NewDetector creates a detector with the given thresholds.
func NewDetector(config Config) *Detector {
	return &Detector{config: config}
}

// NewDetectorWithAliases creates a detector that resolves merchant names
// through an alias table before grouping.
func NewDetectorWithAliases(config Config, aliases merchant.AliasTable) *Detector {
	return &Detector{config: config, aliases: aliases}
}

// group is one merchant cluster under analysis.
type group struct {
	display string
	txns    []ledger.Transaction
}

// Detect runs a full detection pass over the transaction set.
//
// prior is the host's existing recurring state. Confirmed and manual
// entries are preserved verbatim (identity, amount, frequency) with new
// matching transactions appended; everything else is recomputed from
// scratch, reusing the prior entry's id and active flag for a stable
// merchant so re-runs are idempotent.
//
// Transactions that are inflows, split-children, or carry no usable date
// are excluded up front and never abort the run.
func (d *Detector) Detect(txns []ledger.Transaction, prior []RecurringTransaction) []RecurringTransaction {
	groups := d.groupByMerchant(ledger.Expenses(txns))

	out := make([]RecurringTransaction, 0, len(prior))

	// Preserve pass: confirmed and manual entries keep their identity and
	// claim their merchant key before fresh clustering runs.
	frozen := make(map[string]bool)
	priorByKey := make(map[string]RecurringTransaction)
	for _, p := range prior {
		if p.IsUserConfirmed || p.IsManual {
			entry := p
			if g, ok := groups[p.MerchantPattern]; ok {
				appendOccurrences(&entry, g.txns)
			}
			out = append(out, entry)
			frozen[p.MerchantPattern] = true
			continue
		}
		if _, seen := priorByKey[p.MerchantPattern]; !seen {
			priorByKey[p.MerchantPattern] = p
		}
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if frozen[key] {
			continue
		}
		g := groups[key]
		if len(g.txns) < d.config.MinOccurrences {
			continue
		}

		freq, ok := d.classify(gapsInDays(g.txns))
		if !ok {
			continue
		}

		entry := RecurringTransaction{
			MerchantPattern:    key,
			NormalizedMerchant: g.display,
			Category:           majorityCategory(g.txns),
			AverageAmount:      d.averageAmount(g.txns),
			Frequency:          freq,
			LastOccurrence:     g.txns[len(g.txns)-1].Date,
			Occurrences:        len(g.txns),
			TransactionIDs:     transactionIDs(g.txns),
			IsActive:           true,
		}
		entry.NextExpected = entry.LastOccurrence.AddDate(0, 0, freq.IntervalDays())

		// Reuse the prior id for the same merchant so re-detection does not
		// churn identities the host has already persisted.
		if p, ok := priorByKey[key]; ok {
			entry.ID = p.ID
			entry.IsActive = p.IsActive
		} else {
			entry.ID = uuid.NewString()
		}

		out = append(out, entry)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].MerchantPattern < out[j].MerchantPattern
	})
	return out
}

// groupByMerchant buckets expenses under their resolved merchant key, each
// bucket sorted by date ascending (ties by id, for determinism).
func (d *Detector) groupByMerchant(expenses []ledger.Transaction) map[string]*group {
	groups := make(map[string]*group)
	for _, tx := range expenses {
		key, display := d.aliases.Resolve(tx.Merchant)
		if key == "" {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &group{display: display}
			groups[key] = g
		}
		g.txns = append(g.txns, tx)
	}
	for _, g := range groups {
		sort.Slice(g.txns, func(i, j int) bool {
			if !g.txns[i].Date.Equal(g.txns[j].Date) {
				return g.txns[i].Date.Before(g.txns[j].Date)
			}
			return g.txns[i].ID < g.txns[j].ID
		})
	}
	return groups
}

// classify assigns a frequency bucket from the median inter-occurrence gap.
// Groups whose median falls outside every band, or whose gaps disperse
// beyond the coefficient-of-variation cutoff, are rejected as non-periodic.
func (d *Detector) classify(gaps []float64) (Frequency, bool) {
	if len(gaps) == 0 {
		return "", false
	}

	med := median(gaps)
	if med <= 0 {
		return "", false
	}
	if stddev(gaps)/med > d.config.MaxGapCV {
		return "", false
	}

	switch {
	case d.config.WeeklyBand.Contains(med):
		return FrequencyWeekly, true
	case d.config.MonthlyBand.Contains(med):
		return FrequencyMonthly, true
	case d.config.QuarterlyBand.Contains(med):
		return FrequencyQuarterly, true
	case d.config.YearlyBand.Contains(med):
		return FrequencyYearly, true
	}
	return "", false
}

// averageAmount is the mean absolute amount after excluding outliers more
// than OutlierMultiplier times the median away from the median.
func (d *Detector) averageAmount(txns []ledger.Transaction) float64 {
	amounts := make([]float64, len(txns))
	for i, tx := range txns {
		amounts[i] = math.Abs(tx.Amount)
	}

	med := median(amounts)
	var sum float64
	var kept int
	for _, a := range amounts {
		if math.Abs(a-med) > d.config.OutlierMultiplier*med {
			continue
		}
		sum += a
		kept++
	}
	if kept == 0 {
		return med
	}
	return sum / float64(kept)
}

// appendOccurrences extends a frozen entry with transactions it has not
// seen yet. Amount and frequency are deliberately left untouched; the user
// has authority over confirmed and manual entries.
func appendOccurrences(entry *RecurringTransaction, txns []ledger.Transaction) {
	seen := make(map[string]bool, len(entry.TransactionIDs))
	for _, id := range entry.TransactionIDs {
		seen[id] = true
	}

	for _, tx := range txns {
		if seen[tx.ID] {
			continue
		}
		entry.TransactionIDs = append(entry.TransactionIDs, tx.ID)
		entry.Occurrences++
		if tx.Date.After(entry.LastOccurrence) {
			entry.LastOccurrence = tx.Date
		}
	}
	entry.NextExpected = entry.LastOccurrence.AddDate(0, 0, entry.Frequency.IntervalDays())
}

// majorityCategory picks the most common non-empty category in the group,
// breaking ties in favor of the most recent transaction's category.
func majorityCategory(txns []ledger.Transaction) string {
	counts := make(map[string]int)
	best := 0
	for _, tx := range txns {
		if tx.Category == "" {
			continue
		}
		counts[tx.Category]++
		if counts[tx.Category] > best {
			best = counts[tx.Category]
		}
	}
	if best == 0 {
		return ""
	}

	// txns are date-ascending; walk backwards so the most recent tied
	// category wins.
	for i := len(txns) - 1; i >= 0; i-- {
		if c := txns[i].Category; c != "" && counts[c] == best {
			return c
		}
	}
	return ""
}

func gapsInDays(txns []ledger.Transaction) []float64 {
	if len(txns) < 2 {
		return nil
	}
	gaps := make([]float64, 0, len(txns)-1)
	for i := 1; i < len(txns); i++ {
		gaps = append(gaps, float64(ledger.AbsDays(txns[i-1].Date, txns[i].Date)))
	}
	return gaps
}

func transactionIDs(txns []ledger.Transaction) []string {
	ids := make([]string, len(txns))
	for i, tx := range txns {
		ids[i] = tx.ID
	}
	return ids
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(values)))
}
