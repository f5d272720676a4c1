package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/api/dto"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/application/service"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/ledger"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/infrastructure/storage"
)

// TransactionsHandler handles transaction-related HTTP requests.
type TransactionsHandler struct {
	*Base
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(svc *service.LedgerService) *TransactionsHandler {
	return &TransactionsHandler{
		Base: NewBase(svc),
	}
}

// List handles GET /api/transactions - returns transactions with optional
// status, merchant, and limit filters.
func (h *TransactionsHandler) List(c *gin.Context) {
	filters := storage.TransactionFilters{
		Status:   ledger.TransactionStatus(c.Query("status")),
		Merchant: c.Query("merchant"),
		Limit:    IntQuery(c, "limit", 100),
	}

	txns, err := h.service.ListTransactions(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, dto.TransactionListResponse{
		Transactions: txns,
		Count:        len(txns),
	})
}

// Get handles GET /api/transactions/:id - returns a single transaction.
func (h *TransactionsHandler) Get(c *gin.Context) {
	tx, err := h.service.GetTransaction(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	if tx == nil {
		c.JSON(http.StatusNotFound, dto.NotFoundError("transaction"))
		return
	}

	c.JSON(http.StatusOK, tx)
}

// Delete handles DELETE /api/transactions/:id - removes a transaction.
func (h *TransactionsHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteTransaction(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.Status(http.StatusNoContent)
}

// Import handles POST /api/transactions/import - imports transactions
// from a CSV request body.
func (h *TransactionsHandler) Import(c *gin.Context) {
	result, err := h.service.ImportCSV(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, result)
}

// Stats handles GET /api/stats - returns aggregate ledger statistics.
func (h *TransactionsHandler) Stats(c *gin.Context) {
	stats, err := h.service.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, stats)
}
