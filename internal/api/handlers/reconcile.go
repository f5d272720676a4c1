package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/api/dto"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/application/service"
)

// ReconcileHandler handles reconciliation HTTP requests.
type ReconcileHandler struct {
	*Base
}

// NewReconcileHandler creates a new reconcile handler.
func NewReconcileHandler(svc *service.LedgerService) *ReconcileHandler {
	return &ReconcileHandler{
		Base: NewBase(svc),
	}
}

// Run handles POST /api/reconcile - matches pending transactions against
// confirmed ones without mutating the store.
func (h *ReconcileHandler) Run(c *gin.Context) {
	result, err := h.service.RunReconciliation()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, dto.ReconcileResponse{
		Matches:          result.Matches,
		Alerts:           result.Alerts,
		UnmatchedPending: result.UnmatchedPending,
	})
}

// AcceptMatch handles POST /api/reconcile/accept - merges a matched
// pending/confirmed pair and removes the superseded pending row.
func (h *ReconcileHandler) AcceptMatch(c *gin.Context) {
	var req dto.AcceptMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}
	if req.PendingID == "" || req.ConfirmedID == "" {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("pending_id and confirmed_id are required"))
		return
	}

	merged, err := h.service.AcceptMatch(req.PendingID, req.ConfirmedID)
	if err != nil {
		switch {
		case strings.Contains(err.Error(), "not found"):
			c.JSON(http.StatusNotFound, dto.NotFoundError("transaction"))
		case strings.Contains(err.Error(), "not pending"):
			c.JSON(http.StatusConflict, dto.ConflictError(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, dto.InternalError())
		}
		return
	}

	c.JSON(http.StatusOK, merged)
}
