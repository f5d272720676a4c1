// Package reconcile pairs manually entered pending transactions with later
// imported confirmed transactions, so the same real-world payment is never
// counted twice.
//
// Matching is greedy and deterministic: candidate pairs are scored, sorted,
// and consumed best-first, which makes the one-to-one invariant hold by
// construction rather than by after-the-fact validation. Running the engine
// twice over unchanged input produces identical results.
package reconcile

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/ledger"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/merchant"
)

// Engine matches pending transactions against the confirmed set.
type Engine struct {
	config Config
}

// NewEngine creates an engine with the given tolerances.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// candidate is a qualifying (pending, confirmed) pair awaiting assignment.
type candidate struct {
	pending    int
	confirmed  int
	dateDiff   int
	amountDiff float64
	score      float64
}

// Reconcile finds at-most-one-to-one matches between pending and confirmed
// transactions, and raises aging alerts for stale unmatched pendings.
// Empty inputs yield an empty result; neither slice is mutated.
func (e *Engine) Reconcile(pending, confirmed []ledger.Transaction, now time.Time) Result {
	pending = eligible(pending)
	confirmed = eligible(confirmed)

	candidates := e.buildCandidates(pending, confirmed)

	// Best score first; lexical ids break ties so runs are deterministic.
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if pending[a.pending].ID != pending[b.pending].ID {
			return pending[a.pending].ID < pending[b.pending].ID
		}
		return confirmed[a.confirmed].ID < confirmed[b.confirmed].ID
	})

	usedPending := make(map[string]bool)
	usedConfirmed := make(map[string]bool)

	var result Result
	for _, c := range candidates {
		p, cf := pending[c.pending], confirmed[c.confirmed]
		if usedPending[p.ID] || usedConfirmed[cf.ID] {
			continue
		}
		usedPending[p.ID] = true
		usedConfirmed[cf.ID] = true
		result.Matches = append(result.Matches, Match{
			Pending:    p,
			Confirmed:  cf,
			DateDiff:   c.dateDiff,
			AmountDiff: c.amountDiff,
			Score:      c.score,
		})
	}

	for _, p := range pending {
		if usedPending[p.ID] {
			continue
		}
		result.UnmatchedPending = append(result.UnmatchedPending, p)
		if age := ledger.DaysBetween(p.Date, now); age >= e.config.AgingThresholdDays {
			result.Alerts = append(result.Alerts, AgingAlert{
				Transaction: p,
				DaysPending: age,
				Reason:      agingReason(e.config.AgingThresholdDays),
			})
		}
	}

	return result
}

// buildCandidates generates scored pairs. Confirmed transactions are
// bucketed by calendar day so each pending only scans the days inside its
// date window instead of the full cross-product.
func (e *Engine) buildCandidates(pending, confirmed []ledger.Transaction) []candidate {
	byDay := make(map[int64][]int, len(confirmed))
	for i, c := range confirmed {
		day := ledger.Midnight(c.Date).Unix()
		byDay[day] = append(byDay[day], i)
	}

	var candidates []candidate
	for pi, p := range pending {
		base := ledger.Midnight(p.Date)
		for offset := -e.config.DateToleranceDays; offset <= e.config.DateToleranceDays; offset++ {
			day := base.AddDate(0, 0, offset).Unix()
			for _, ci := range byDay[day] {
				if c, ok := e.score(p, confirmed[ci]); ok {
					c.pending = pi
					c.confirmed = ci
					candidates = append(candidates, c)
				}
			}
		}
	}
	return candidates
}

// score qualifies and scores one pair. Exact amount matches strongly
// dominate close dates.
func (e *Engine) score(p, c ledger.Transaction) (candidate, bool) {
	amountDiff := math.Abs(math.Abs(p.Amount) - math.Abs(c.Amount))
	if amountDiff > e.amountTolerance(p.Amount) {
		return candidate{}, false
	}

	dateDiff := ledger.AbsDays(p.Date, c.Date)
	if dateDiff > e.config.DateToleranceDays {
		return candidate{}, false
	}

	if merchant.Similarity(merchantText(p), merchantText(c)) < e.config.SimilarityThreshold {
		return candidate{}, false
	}

	score := -float64(dateDiff)
	if amountDiff > 1e-9 {
		score -= 1000
	}

	return candidate{dateDiff: dateDiff, amountDiff: amountDiff, score: score}, true
}

// amountTolerance is the absolute-cent floor or the relative band,
// whichever is larger.
func (e *Engine) amountTolerance(amount float64) float64 {
	relative := e.config.RelativeTolerance * math.Abs(amount)
	if relative > e.config.AmountTolerance {
		return relative
	}
	return e.config.AmountTolerance
}

// eligible drops split-children and rows without a usable date; both are
// excluded from matching entirely.
func eligible(txns []ledger.Transaction) []ledger.Transaction {
	out := make([]ledger.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.IsSplitChild() || !t.HasValidDate() {
			continue
		}
		out = append(out, t)
	}
	return out
}

func agingReason(thresholdDays int) string {
	return fmt.Sprintf("Pending for %d+ days", thresholdDays)
}

func merchantText(t ledger.Transaction) string {
	if t.Merchant != "" {
		return t.Merchant
	}
	return t.Description
}
