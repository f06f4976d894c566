package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quantumpay/gateway-optimizer/internal/service"
)

type ForecastHandler struct {
	svc *service.ForecastService
}

func NewForecastHandler(svc *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{svc: svc}
}

func (h *ForecastHandler) GetForecast(c *gin.Context) {
	gatewayID := c.Param("gateway_id")

	horizon, err := strconv.Atoi(c.DefaultQuery("horizon", "3"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "horizon must be an integer"})
		return
	}

	forecast, err := h.svc.GetForecast(c.Request.Context(), gatewayID, horizon)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, forecast)
}
