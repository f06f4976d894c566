package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quantumpay/gateway-optimizer/internal/dto"
	"github.com/quantumpay/gateway-optimizer/internal/service"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	batchID := c.Param("batch_id")
	if _, err := uuid.Parse(batchID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "batch_id must be a UUID"})
		return
	}

	report, err := h.svc.GetReport(c.Request.Context(), batchID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	p := dto.ParsePagination(c)

	reports, total, err := h.svc.ListReports(c.Request.Context(), p.PageSize, p.Offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       reports,
		"pagination": dto.NewPagination(p.Page, p.PageSize, total),
	})
}

func (h *ReportHandler) GetSummary(c *gin.Context) {
	summary, err := h.svc.GetSummary(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
