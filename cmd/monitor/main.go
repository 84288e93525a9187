// cmd/monitor/main.go
//
// Headless inventory monitor: runs the periodic check loop without the full
// API, exposing only status and health over a small mux server.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/dapurlink/caterwatch/internal/config"
	"github.com/dapurlink/caterwatch/internal/monitor"
	"github.com/dapurlink/caterwatch/internal/repository/postgres"
	"github.com/dapurlink/caterwatch/pkg/logger"
)

func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	inventoryRepo := postgres.NewInventoryRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	mon := monitor.New(inventoryRepo, notificationRepo, monitor.Config{
		CheckInterval:  cfg.Monitor.CheckInterval,
		CooldownPeriod: cfg.Monitor.CooldownPeriod,
		RecipientRoles: cfg.Monitor.RecipientRoles,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mon.Start(ctx)

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	r.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(mon.Status()); err != nil {
			logger.Log.Error().Err(err).Msg("failed to encode monitor status")
		}
	}).Methods("GET")

	r.HandleFunc("/check", func(w http.ResponseWriter, r *http.Request) {
		if err := mon.RunCheck(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(mon.Status())
	}).Methods("POST")

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Monitor status server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start status server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info().Msg("Shutting down monitor...")
	mon.Stop()
	cancel()

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Log.Error().Err(err).Msg("Status server forced to shutdown")
	}
}
