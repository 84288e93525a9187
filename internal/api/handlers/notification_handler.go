package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dapurlink/caterwatch/internal/domain"
	"github.com/dapurlink/caterwatch/internal/repository"
	"github.com/dapurlink/caterwatch/internal/service"
)

type NotificationHandler struct {
	service *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

func (h *NotificationHandler) parseFilter(c *gin.Context) domain.NotificationFilter {
	filter := domain.NotificationFilter{
		UserID: strings.TrimSpace(c.Query("user_id")),
		Role:   strings.TrimSpace(c.Query("role")),
	}

	if t := strings.TrimSpace(c.Query("type")); t != "" {
		filter.Type = domain.NotificationType(t)
	}
	if p := strings.TrimSpace(c.Query("priority")); p != "" {
		filter.Priority = domain.Priority(p)
	}

	filter.UnreadOnly = c.Query("unread_only") == "true"
	filter.Unresolved = c.Query("unresolved") == "true"

	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset >= 0 {
		filter.Offset = offset
	}

	return filter
}

func (h *NotificationHandler) List(c *gin.Context) {
	notifications, err := h.service.List(c.Request.Context(), h.parseFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch notifications", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "total": len(notifications)})
}

func (h *NotificationHandler) Get(c *gin.Context) {
	n, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondNotificationError(c, err, "failed to fetch notification")
		return
	}

	c.JSON(http.StatusOK, n)
}

type createNotificationRequest struct {
	Title          string                  `json:"title" binding:"required"`
	Message        string                  `json:"message" binding:"required"`
	Type           domain.NotificationType `json:"type"`
	Recipients     []domain.Recipient      `json:"recipients"`
	Source         domain.Source           `json:"source"`
	AIGenerated    bool                    `json:"ai_generated"`
	ActionRequired bool                    `json:"action_required"`
	ActionText     string                  `json:"action_text"`
	ActionURL      string                  `json:"action_url"`
	Insights       domain.Reasoning        `json:"ai_insights"`
	ExpiresAt      *time.Time              `json:"expires_at"`
}

func (h *NotificationHandler) Create(c *gin.Context) {
	var req createNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification payload", "details": err.Error()})
		return
	}

	n, err := h.service.Create(c.Request.Context(), service.CreateNotificationInput{
		Title:          req.Title,
		Message:        req.Message,
		Type:           req.Type,
		Recipients:     req.Recipients,
		Source:         req.Source,
		AIGenerated:    req.AIGenerated,
		ActionRequired: req.ActionRequired,
		ActionText:     req.ActionText,
		ActionURL:      req.ActionURL,
		Insights:       req.Insights,
		ExpiresAt:      req.ExpiresAt,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create notification", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, n)
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondNotificationError(c, err, "failed to delete notification")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type markReadRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid read payload", "details": err.Error()})
		return
	}

	n, changed, err := h.service.MarkAsRead(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		respondNotificationError(c, err, "failed to mark notification read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notification": n, "changed": changed})
}

type resolveRequest struct {
	UserID string `json:"user_id"`
}

func (h *NotificationHandler) Resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resolve payload", "details": err.Error()})
		return
	}

	n, err := h.service.Resolve(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		respondNotificationError(c, err, "failed to resolve notification")
		return
	}

	c.JSON(http.StatusOK, n)
}

type trackRequest struct {
	Event string `json:"event" binding:"required,oneof=view click action"`
}

func (h *NotificationHandler) Track(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid track payload", "details": err.Error()})
		return
	}

	n, err := h.service.TrackEngagement(c.Request.Context(), c.Param("id"), req.Event)
	if err != nil {
		respondNotificationError(c, err, "failed to track engagement")
		return
	}

	c.JSON(http.StatusOK, gin.H{"analytics": n.Analytics})
}

func (h *NotificationHandler) GetAnalytics(c *gin.Context) {
	analytics, err := h.service.GetAnalytics(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondNotificationError(c, err, "failed to fetch analytics")
		return
	}

	c.JSON(http.StatusOK, analytics)
}

func (h *NotificationHandler) GetStats(c *gin.Context) {
	rangeDays, _ := strconv.Atoi(c.DefaultQuery("range_days", "30"))

	stats, err := h.service.GetStats(c.Request.Context(), rangeDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stats", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func respondNotificationError(c *gin.Context, err error, message string) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
}
