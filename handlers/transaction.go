package handlers

import (
	"errors"
	"net/http"

	"finzo/models"
	"finzo/services/transaction"
	"finzo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TransactionHandler serves the ledger endpoints.
type TransactionHandler struct {
	Service transaction.TransactionService
}

func NewTransactionHandler(svc transaction.TransactionService) *TransactionHandler {
	return &TransactionHandler{Service: svc}
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

func (h *TransactionHandler) ListTransactionsHandler(c *gin.Context) {
	filter := models.TransactionFilter{
		AccountID:  c.Query("accountId"),
		CategoryID: c.Query("categoryId"),
	}
	for key, dst := range map[string]*models.Date{"from": &filter.From, "to": &filter.To} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		d, err := models.ParseDate(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid "+key+" date", err.Error())
			return
		}
		*dst = d
	}

	txs, err := h.Service.List(c.Request.Context(), filter)
	if err != nil {
		getLogger(c).Error("Failed to list transactions", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch transactions", err.Error())
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	c.JSON(http.StatusOK, gin.H{"data": txs})
}

func (h *TransactionHandler) GetTransactionHandler(c *gin.Context) {
	tx, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.transactionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tx})
}

func (h *TransactionHandler) CreateTransactionHandler(c *gin.Context) {
	var in models.TransactionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	tx, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		h.transactionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tx})
}

func (h *TransactionHandler) EditTransactionHandler(c *gin.Context) {
	var in models.TransactionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	tx, err := h.Service.Edit(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		if errors.Is(err, transaction.ErrNoChanges) {
			c.JSON(http.StatusOK, gin.H{"status": "unchanged"})
			return
		}
		h.transactionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tx})
}

func (h *TransactionHandler) DeleteTransactionHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		h.transactionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id}})
}

func (h *TransactionHandler) BulkDeleteTransactionsHandler(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	n, err := h.Service.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		h.transactionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": n}})
}

func (h *TransactionHandler) transactionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, transaction.ErrTransactionNotFound):
		utils.JSONError(c, http.StatusNotFound, "Transaction not found", "")
	case errors.Is(err, transaction.ErrInvalidTransaction):
		utils.JSONError(c, http.StatusBadRequest, "Invalid transaction", err.Error())
	default:
		getLogger(c).Error("Transaction operation failed", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to process transaction", err.Error())
	}
}
