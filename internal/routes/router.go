package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	gormlib "gorm.io/gorm"

	"charterops/flightdeck/internal/api"
	"charterops/flightdeck/internal/config"
	"charterops/flightdeck/internal/logging"
	"charterops/flightdeck/internal/metrics"
	"charterops/flightdeck/internal/middleware"
)

func RegisterRoutes(upSince time.Time, db *gormlib.DB, cfg config.Config) (http.Handler, *api.Dependencies) {

	// initialize Chi router
	r := chi.NewRouter()

	// Initialize metrics registry
	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")
	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(db, upSince))

	// Initialize dependencies using DI pattern
	deps, err := api.InitDependencies(db, cfg.CacheDir, metricsReg)
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	// Initialize handlers with dependencies
	handlers := api.NewHandlers(deps, cfg.MaxUploadBytes)

	RegisterAPIRoutes(r, handlers)

	return r, deps
}
