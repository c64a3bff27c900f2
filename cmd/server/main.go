package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"charterops/flightdeck/internal/config"
	"charterops/flightdeck/internal/db"
	"charterops/flightdeck/internal/logging"
	"charterops/flightdeck/internal/routes"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	// Initialize structured logging
	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Flightdeck starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	// Connect to DB with GORM
	gormDB, err := db.InitSQLiteORM(cfg.DBPath)
	if err != nil {
		logging.Error("Failed to open SQLite database", "error", err.Error(), "path", cfg.DBPath)
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	logging.Info("Connected to SQLite (GORM)", "path", cfg.DBPath)

	upSince := time.Now()

	// Initialize router with Chi
	// Note: metricsReg is created in RegisterRoutes and applied as global middleware
	router, deps := routes.RegisterRoutes(upSince, gormDB, cfg)

	// Warm-start from the persisted snapshot so analytics survive restarts
	if deps.Services.Dataset.RestoreFromCache(context.Background()) {
		logging.Info("Dataset restored from snapshot cache")
	} else {
		logging.Info("No snapshot cache available; waiting for first upload")
	}

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router) // Mount Chi router at root
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	logging.Info("Server starting",
		"port", cfg.Port,
		"environment", cfg.AppEnv,
	)

	log.Printf("Starting server on :%s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, mux))
}
