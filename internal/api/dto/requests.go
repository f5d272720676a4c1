package dto

// AcceptMatchRequest is the request body for accepting a reconciliation match.
type AcceptMatchRequest struct {
	PendingID   string `json:"pending_id"`
	ConfirmedID string `json:"confirmed_id"`
}

// SetActiveRequest is the request body for pausing or resuming a
// recurring pattern.
type SetActiveRequest struct {
	Active bool `json:"active"`
}
