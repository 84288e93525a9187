// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dapurlink/caterwatch/internal/api"
	"github.com/dapurlink/caterwatch/internal/cache"
	"github.com/dapurlink/caterwatch/internal/config"
	"github.com/dapurlink/caterwatch/internal/monitor"
	"github.com/dapurlink/caterwatch/internal/repository/postgres"
	"github.com/dapurlink/caterwatch/internal/service"
	"github.com/dapurlink/caterwatch/internal/storage"
	"github.com/dapurlink/caterwatch/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	inventoryRepo := postgres.NewInventoryRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Initialize cache (falls back to noop when disabled or unreachable)
	statsCache, err := cache.NewNotificationStatsCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("cache unavailable, continuing without it")
		statsCache = cache.NewNoopNotificationStatsCache()
	}

	// Initialize object storage for report export (optional)
	var objectStorage storage.ObjectStorage
	if cfg.Storage.Enabled {
		objectStorage, err = storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("object storage unavailable, reports served inline only")
			objectStorage = nil
		}
	}

	// Initialize services
	inventoryService := service.NewInventoryService(inventoryRepo)
	notificationService := service.NewNotificationService(notificationRepo, statsCache)
	reportService := service.NewReportService(inventoryRepo, notificationRepo, objectStorage)

	// Initialize the inventory monitor
	mon := monitor.New(inventoryRepo, notificationRepo, monitor.Config{
		CheckInterval:  cfg.Monitor.CheckInterval,
		CooldownPeriod: cfg.Monitor.CooldownPeriod,
		RecipientRoles: cfg.Monitor.RecipientRoles,
	})

	monitorCtx, cancelMonitor := context.WithCancel(context.Background())
	defer cancelMonitor()
	if cfg.Monitor.Enabled {
		mon.Start(monitorCtx)
	}

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		InventoryService:    inventoryService,
		NotificationService: notificationService,
		ReportService:       reportService,
		Monitor:             mon,
	}, cfg.Server.AllowedOrigins)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	mon.Stop()
	cancelMonitor()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
