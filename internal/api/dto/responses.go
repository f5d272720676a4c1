package dto

import (
	"time"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/ledger"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/reconcile"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/recurring"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// TransactionListResponse is returned when listing transactions.
type TransactionListResponse struct {
	Transactions []ledger.Transaction `json:"transactions"`
	Count        int                  `json:"count"`
}

// RecurringListResponse is returned when listing recurring patterns.
type RecurringListResponse struct {
	Recurring []recurring.RecurringTransaction `json:"recurring"`
	Count     int                              `json:"count"`
}

// DetectionResponse is returned after a detection run.
type DetectionResponse struct {
	Patterns []recurring.RecurringTransaction `json:"patterns"`
	Count    int                              `json:"count"`
}

// UpcomingResponse is returned when listing upcoming bills.
type UpcomingResponse struct {
	Bills      []recurring.UpcomingBill `json:"bills"`
	WindowDays int                      `json:"window_days"`
}

// ReconcileResponse is returned after a reconciliation run.
type ReconcileResponse struct {
	Matches          []reconcile.Match      `json:"matches"`
	Alerts           []reconcile.AgingAlert `json:"alerts"`
	UnmatchedPending []ledger.Transaction   `json:"unmatched_pending"`
}
