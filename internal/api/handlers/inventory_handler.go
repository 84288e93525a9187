package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dapurlink/caterwatch/internal/domain"
	"github.com/dapurlink/caterwatch/internal/monitor"
	"github.com/dapurlink/caterwatch/internal/repository"
	"github.com/dapurlink/caterwatch/internal/service"
)

type InventoryHandler struct {
	service *service.InventoryService
	monitor *monitor.Monitor
}

func NewInventoryHandler(svc *service.InventoryService, mon *monitor.Monitor) *InventoryHandler {
	return &InventoryHandler{service: svc, monitor: mon}
}

type createItemRequest struct {
	Name         string          `json:"name" binding:"required"`
	Category     string          `json:"category"`
	Quantity     int             `json:"quantity"`
	Unit         string          `json:"unit" binding:"required"`
	MinThreshold int             `json:"min_threshold"`
	MaxThreshold int             `json:"max_threshold"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Supplier     string          `json:"supplier"`
	Location     domain.Location `json:"location"`
	ExpiryDate   *time.Time      `json:"expiry_date"`
	BatchNumber  string          `json:"batch_number"`
}

func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item payload", "details": err.Error()})
		return
	}

	item, err := h.service.CreateItem(c.Request.Context(), service.CreateItemInput{
		Name:         req.Name,
		Category:     req.Category,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		MinThreshold: req.MinThreshold,
		MaxThreshold: req.MaxThreshold,
		UnitCost:     req.UnitCost,
		Supplier:     req.Supplier,
		Location:     req.Location,
		ExpiryDate:   req.ExpiryDate,
		BatchNumber:  req.BatchNumber,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandler) GetItems(c *gin.Context) {
	items, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch items", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *InventoryHandler) GetItem(c *gin.Context) {
	item, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondItemError(c, err, "failed to fetch item")
		return
	}

	c.JSON(http.StatusOK, item)
}

type updateItemRequest struct {
	Name         *string          `json:"name"`
	Category     *string          `json:"category"`
	Quantity     *int             `json:"quantity"`
	Unit         *string          `json:"unit"`
	MinThreshold *int             `json:"min_threshold"`
	MaxThreshold *int             `json:"max_threshold"`
	UnitCost     *decimal.Decimal `json:"unit_cost"`
	Supplier     *string          `json:"supplier"`
	Location     *domain.Location `json:"location"`
	ExpiryDate   *time.Time       `json:"expiry_date"`
	BatchNumber  *string          `json:"batch_number"`
}

func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item payload", "details": err.Error()})
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondItemError(c, err, "failed to fetch item")
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.MinThreshold != nil {
		item.MinThreshold = *req.MinThreshold
	}
	if req.MaxThreshold != nil {
		item.MaxThreshold = *req.MaxThreshold
	}
	if req.UnitCost != nil {
		item.Cost.UnitCost = *req.UnitCost
		item.Cost.TotalCost = req.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity)))
	}
	if req.Supplier != nil {
		item.Cost.Supplier = *req.Supplier
	}
	if req.Location != nil {
		item.Location = *req.Location
	}
	if req.ExpiryDate != nil {
		item.ExpiryDate = req.ExpiryDate
	}
	if req.BatchNumber != nil {
		item.BatchNumber = *req.BatchNumber
	}
	item.UpdatedAt = time.Now()

	if err := h.service.Update(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondItemError(c, err, "failed to delete item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type recordUsageRequest struct {
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Purpose   string `json:"purpose"`
	BookingID string `json:"booking_id"`
}

func (h *InventoryHandler) RecordUsage(c *gin.Context) {
	var req recordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid usage payload", "details": err.Error()})
		return
	}

	item, err := h.service.RecordUsage(c.Request.Context(), c.Param("id"), req.Quantity, req.Purpose, req.BookingID)
	if err != nil {
		respondItemError(c, err, "failed to record usage")
		return
	}

	c.JSON(http.StatusOK, item)
}

type recordRestockRequest struct {
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	Supplier    string          `json:"supplier"`
	Cost        decimal.Decimal `json:"cost"`
	BatchNumber string          `json:"batch_number"`
}

func (h *InventoryHandler) RecordRestock(c *gin.Context) {
	var req recordRestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restock payload", "details": err.Error()})
		return
	}

	item, err := h.service.RecordRestock(c.Request.Context(), c.Param("id"), req.Quantity, req.Supplier, req.Cost, req.BatchNumber)
	if err != nil {
		respondItemError(c, err, "failed to record restock")
		return
	}

	c.JSON(http.StatusOK, item)
}

// GetPredictions refreshes and returns one item's demand predictions and
// stock insights.
func (h *InventoryHandler) GetPredictions(c *gin.Context) {
	item, err := h.service.RefreshInsights(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondItemError(c, err, "failed to compute predictions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item_id":          item.ID,
		"demand_pattern":   item.DemandPattern,
		"predicted_demand": item.Predicted,
		"ai_insights":      item.Insights,
	})
}

// GenerateAlert runs an on-demand alert check for one item, bypassing the
// monitor cooldown.
func (h *InventoryHandler) GenerateAlert(c *gin.Context) {
	count, err := h.monitor.CheckItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondItemError(c, err, "failed to generate alerts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts_generated": count})
}

// RunCheck triggers a full monitoring cycle immediately.
func (h *InventoryHandler) RunCheck(c *gin.Context) {
	if err := h.monitor.RunCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "monitoring check failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.monitor.Status())
}

func (h *InventoryHandler) MonitorStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.monitor.Status())
}

func (h *InventoryHandler) StartMonitor(c *gin.Context) {
	// Not tied to the request context; the loop must outlive the request.
	h.monitor.Start(context.Background())
	c.JSON(http.StatusOK, h.monitor.Status())
}

func (h *InventoryHandler) StopMonitor(c *gin.Context) {
	h.monitor.Stop()
	c.JSON(http.StatusOK, h.monitor.Status())
}

func respondItemError(c *gin.Context, err error, message string) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
}
