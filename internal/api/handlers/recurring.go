package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/api/dto"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/application/service"
)

// RecurringHandler handles recurring-pattern HTTP requests.
type RecurringHandler struct {
	*Base
}

// NewRecurringHandler creates a new recurring handler.
func NewRecurringHandler(svc *service.LedgerService) *RecurringHandler {
	return &RecurringHandler{
		Base: NewBase(svc),
	}
}

// List handles GET /api/recurring - returns all stored patterns.
func (h *RecurringHandler) List(c *gin.Context) {
	items, err := h.service.ListRecurring()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, dto.RecurringListResponse{
		Recurring: items,
		Count:     len(items),
	})
}

// Detect handles POST /api/recurring/detect - runs detection over the
// full ledger and returns the refreshed pattern set.
func (h *RecurringHandler) Detect(c *gin.Context) {
	patterns, err := h.service.RunDetection()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, dto.DetectionResponse{
		Patterns: patterns,
		Count:    len(patterns),
	})
}

// Confirm handles POST /api/recurring/:id/confirm - marks a pattern as
// user-validated.
func (h *RecurringHandler) Confirm(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.ConfirmRecurring(id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, dto.NotFoundError("recurring pattern"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "confirmed": true})
}

// SetActive handles PUT /api/recurring/:id/active - pauses or resumes
// a pattern.
func (h *RecurringHandler) SetActive(c *gin.Context) {
	var req dto.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}

	id := c.Param("id")
	if err := h.service.SetRecurringActive(id, req.Active); err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, dto.NotFoundError("recurring pattern"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "active": req.Active})
}

// Summary handles GET /api/recurring/summary - returns normalized
// spend totals over active patterns.
func (h *RecurringHandler) Summary(c *gin.Context) {
	summary, err := h.service.GetSummary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Upcoming handles GET /api/recurring/upcoming - returns bills expected
// within the window (default 30 days).
func (h *RecurringHandler) Upcoming(c *gin.Context) {
	windowDays := IntQuery(c, "days", 30)
	if windowDays < 0 {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("days must be non-negative"))
		return
	}

	bills, err := h.service.GetUpcoming(windowDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, dto.UpcomingResponse{
		Bills:      bills,
		WindowDays: windowDays,
	})
}
