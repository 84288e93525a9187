package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dapurlink/caterwatch/internal/service"
)

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.service.ListReports(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// InventoryStatus renders the inventory status CSV and streams it back. When
// object storage is configured the report is also uploaded.
func (h *ReportHandler) InventoryStatus(c *gin.Context) {
	report, err := h.service.InventoryStatusReport(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report", "details": err.Error()})
		return
	}

	c.Header("X-Report-Key", report.Key)
	c.Data(http.StatusOK, report.ContentType, report.Data)
}

func (h *ReportHandler) NotificationEffectiveness(c *gin.Context) {
	rangeDays, _ := strconv.Atoi(c.DefaultQuery("range_days", "30"))

	report, err := h.service.NotificationEffectivenessReport(c.Request.Context(), rangeDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report", "details": err.Error()})
		return
	}

	c.Header("X-Report-Key", report.Key)
	c.Data(http.StatusOK, report.ContentType, report.Data)
}
