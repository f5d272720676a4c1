package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/application/service"
)

// Base provides shared functionality for all handlers.
type Base struct {
	service *service.LedgerService
}

// NewBase creates a new base handler with the given service.
func NewBase(svc *service.LedgerService) *Base {
	return &Base{service: svc}
}

// IntQuery parses an integer query parameter with a default value.
func IntQuery(c *gin.Context, name string, defaultVal int) int {
	val := c.Query(name)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}
