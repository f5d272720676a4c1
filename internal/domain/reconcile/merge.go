package reconcile

import (
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/ledger"
)

// Merge produces the single authoritative record for a matched pair.
//
// The bank's record of truth wins for identity, date, amount, merchant,
// description, and currency; the user's annotations (tag, note, and
// category when the confirmed side has none) carry over from the pending
// entry. Neither input is modified.
func Merge(pending, confirmed ledger.Transaction) ledger.Transaction {
	merged := confirmed

	if pending.Tag != "" {
		merged.Tag = pending.Tag
	}
	if pending.Note != "" {
		merged.Note = pending.Note
	}
	if pending.BusinessStatus != "" && merged.BusinessStatus == "" {
		merged.BusinessStatus = pending.BusinessStatus
	}
	if merged.Category == "" {
		merged.Category = pending.Category
	}

	merged.TransactionStatus = ledger.StatusConfirmed
	merged.IsManual = false
	return merged
}

// MarkReconciled returns the pending transaction flipped to confirmed.
// The row is kept rather than deleted so the audit trail survives; the
// host suppresses it from pending-list display.
func MarkReconciled(pending ledger.Transaction) ledger.Transaction {
	pending.TransactionStatus = ledger.StatusConfirmed
	pending.IsManual = false
	return pending
}
