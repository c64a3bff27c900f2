package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for Flightdeck
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Pipeline Metrics
	RecordsProcessedTotal prometheus.Counter
	RowsDroppedTotal      prometheus.Counter
	LoadsTotal            prometheus.CounterVec
	LoadDuration          prometheus.Histogram
	DatasetRecords        prometheus.Gauge
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightdeck_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flightdeck_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "flightdeck_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightdeck_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightdeck_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Pipeline Metrics
		RecordsProcessedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "flightdeck_records_processed_total",
				Help: "Total flight records produced by workbook loads",
			},
		),
		RowsDroppedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "flightdeck_rows_dropped_total",
				Help: "Total source rows dropped for missing mandatory fields",
			},
		),
		LoadsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightdeck_loads_total",
				Help: "Total workbook load attempts by outcome",
			},
			[]string{"outcome"},
		),
		LoadDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "flightdeck_load_duration_seconds",
				Help:    "Workbook load pipeline execution time in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		DatasetRecords: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "flightdeck_dataset_records",
				Help: "Record count of the active dataset",
			},
		),
	}
}
