// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dapurlink/caterwatch/internal/api/handlers"
	"github.com/dapurlink/caterwatch/internal/api/middleware"
	"github.com/dapurlink/caterwatch/internal/monitor"
	"github.com/dapurlink/caterwatch/internal/service"
)

type Services struct {
	InventoryService    *service.InventoryService
	NotificationService *service.NotificationService
	ReportService       *service.ReportService
	Monitor             *monitor.Monitor
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Report-Key"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.InventoryService != nil {
			inventoryHandler := handlers.NewInventoryHandler(services.InventoryService, services.Monitor)
			inventoryGroup := apiGroup.Group("/inventory")
			{
				inventoryGroup.GET("", inventoryHandler.GetItems)
				inventoryGroup.POST("", inventoryHandler.CreateItem)
				inventoryGroup.GET("/:id", inventoryHandler.GetItem)
				inventoryGroup.PUT("/:id", inventoryHandler.UpdateItem)
				inventoryGroup.DELETE("/:id", inventoryHandler.DeleteItem)
				inventoryGroup.POST("/:id/usage", inventoryHandler.RecordUsage)
				inventoryGroup.POST("/:id/restock", inventoryHandler.RecordRestock)
				inventoryGroup.GET("/:id/ai-predictions", inventoryHandler.GetPredictions)

				if services.Monitor != nil {
					inventoryGroup.POST("/:id/generate-alert", inventoryHandler.GenerateAlert)
					inventoryGroup.POST("/ai-check", inventoryHandler.RunCheck)
					inventoryGroup.GET("/ai-status", inventoryHandler.MonitorStatus)
					inventoryGroup.POST("/ai-start", inventoryHandler.StartMonitor)
					inventoryGroup.POST("/ai-stop", inventoryHandler.StopMonitor)
				}
			}
		}

		if services.NotificationService != nil {
			notificationHandler := handlers.NewNotificationHandler(services.NotificationService)
			notificationGroup := apiGroup.Group("/notifications")
			{
				notificationGroup.GET("", notificationHandler.List)
				notificationGroup.POST("", notificationHandler.Create)
				notificationGroup.GET("/stats/overview", notificationHandler.GetStats)
				notificationGroup.GET("/:id", notificationHandler.Get)
				notificationGroup.DELETE("/:id", notificationHandler.Delete)
				notificationGroup.PUT("/:id/read", notificationHandler.MarkAsRead)
				notificationGroup.PUT("/:id/resolve", notificationHandler.Resolve)
				notificationGroup.POST("/:id/track", notificationHandler.Track)
				notificationGroup.GET("/:id/analytics", notificationHandler.GetAnalytics)
			}
		}

		if services.ReportService != nil {
			reportHandler := handlers.NewReportHandler(services.ReportService)
			reportGroup := apiGroup.Group("/reports")
			{
				reportGroup.GET("", reportHandler.List)
				reportGroup.POST("/inventory", reportHandler.InventoryStatus)
				reportGroup.POST("/notifications", reportHandler.NotificationEffectiveness)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
