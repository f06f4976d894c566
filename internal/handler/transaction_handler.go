package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quantumpay/gateway-optimizer/internal/dto"
	"github.com/quantumpay/gateway-optimizer/internal/service"
)

type TransactionHandler struct {
	svc *service.TransactionService
}

func NewTransactionHandler(svc *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

func (h *TransactionHandler) Create(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	txn, err := h.svc.CreateTransaction(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, txn)
}

func (h *TransactionHandler) CreateBatch(c *gin.Context) {
	var req dto.CreateTransactionBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	txns, err := h.svc.CreateTransactionBatch(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transactions": txns})
}

func (h *TransactionHandler) CreateFeeSample(c *gin.Context) {
	var req dto.CreateFeeSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	sample, err := h.svc.RecordFeeSample(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, sample)
}
