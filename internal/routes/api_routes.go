package routes

import (
	"github.com/go-chi/chi/v5"

	"charterops/flightdeck/internal/api"
	"charterops/flightdeck/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers) {

	r.Route("/api/v1", func(v1 chi.Router) {

		// Ingestion; rate limited because parsing a workbook is expensive
		v1.Group(func(ingest chi.Router) {
			ingest.Use(middleware.RateLimitMiddleware)
			ingest.Post("/data/upload", handlers.UploadWorkbook())
		})

		v1.Get("/data/status", handlers.GetDataStatus())

		v1.Get("/cache/status", handlers.GetCacheStatus())
		v1.Delete("/cache", handlers.ClearCache())

		v1.Route("/analytics", func(an chi.Router) {
			an.Get("/summary", handlers.GetSummary())
			an.Get("/breakdown/{groupKey}", handlers.GetBreakdown())
			an.Get("/routes/top", handlers.GetTopRoutes())
			an.Get("/kpis", handlers.GetKPIs())
			an.Get("/trend/monthly", handlers.GetMonthlyTrend())
			an.Get("/trend/cumulative", handlers.GetCumulative())
			an.Get("/weekday-split", handlers.GetWeekdaySplit())
		})

		v1.Get("/analysis/idle", handlers.GetIdleAnalysis())
	})
}
