package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quantumpay/gateway-optimizer/internal/dto"
	"github.com/quantumpay/gateway-optimizer/internal/model"
	"github.com/quantumpay/gateway-optimizer/internal/optimizer"
	"github.com/quantumpay/gateway-optimizer/internal/service"
)

type OptimizeHandler struct {
	svc *service.OptimizeService
}

func NewOptimizeHandler(svc *service.OptimizeService) *OptimizeHandler {
	return &OptimizeHandler{svc: svc}
}

func (h *OptimizeHandler) Optimize(c *gin.Context) {
	var req dto.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	mode, err := optimizer.ParseMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txns := make([]model.Transaction, len(req.Transactions))
	for i, t := range req.Transactions {
		txns[i] = model.Transaction{
			ID:         t.ID,
			Amount:     t.Amount,
			Currency:   t.Currency,
			MerchantID: t.MerchantID,
			CustomerID: t.CustomerID,
			Timestamp:  t.Timestamp,
		}
	}

	var weights *optimizer.Weights
	if req.Weights != nil {
		weights = &optimizer.Weights{
			Fee:         req.Weights.Fee,
			Latency:     req.Weights.Latency,
			Reliability: req.Weights.Reliability,
			Pressure:    req.Weights.Pressure,
		}
	}

	result, err := h.svc.OptimizeBatch(c.Request.Context(), txns, weights, mode)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
