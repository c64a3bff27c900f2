package api

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"charterops/flightdeck/internal/analytics"
	"charterops/flightdeck/internal/common"
	"charterops/flightdeck/internal/constants"
	"charterops/flightdeck/internal/normalizer"
	"charterops/flightdeck/internal/services"
)

type Handlers struct {
	deps           *Dependencies
	maxUploadBytes int64
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies, maxUploadBytes int64) *Handlers {
	return &Handlers{
		deps:           deps,
		maxUploadBytes: maxUploadBytes,
	}
}

// filterFromQuery turns query parameters into an analytics filter.
// Reserved keys are pagination knobs, not filter dimensions.
func filterFromQuery(values url.Values, reserved ...string) (*analytics.Filter, error) {
	skip := make(map[string]bool, len(reserved))
	for _, k := range reserved {
		skip[k] = true
	}

	params := make(map[string]string)
	for key, vals := range values {
		if skip[key] || len(vals) == 0 {
			continue
		}
		params[key] = vals[0]
	}
	return analytics.ParseFilter(params)
}

// respondQueryError maps engine errors onto status codes: a bad filter
// is the caller's fault, a missing dataset is a state the caller can fix
// by uploading.
func respondQueryError(w http.ResponseWriter, initTime time.Time, err error) {
	var ife *analytics.InvalidFilterError
	switch {
	case errors.As(err, &ife):
		common.RespondError(w, initTime, err, constants.MsgInvalidFilter, http.StatusBadRequest)
	case errors.Is(err, services.ErrNoDataset):
		common.RespondError(w, initTime, err, constants.MsgNoDataLoaded, http.StatusUnprocessableEntity)
	default:
		common.RespondError(w, initTime, err, "query failed")
	}
}

// UploadWorkbook handles POST /api/v1/data/upload. The multipart "file"
// field carries the XLSX workbook; a failed load leaves the previously
// active dataset serving.
func (h *Handlers) UploadWorkbook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
		file, header, err := r.FormFile("file")
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgNoFileProvided, http.StatusBadRequest)
			return
		}
		defer file.Close()

		if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
			common.RespondError(w, initTime, nil, constants.MsgInvalidFileType, http.StatusBadRequest)
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgLoadFailed, http.StatusBadRequest)
			return
		}

		result, err := h.deps.Services.Dataset.Load(r.Context(), data, header.Filename)
		if err != nil {
			var pe *normalizer.ParseError
			switch {
			case errors.As(err, &pe):
				common.RespondError(w, initTime, err, constants.MsgLoadFailed, http.StatusBadRequest)
			case errors.Is(err, normalizer.ErrNoData):
				common.RespondError(w, initTime, err, constants.MsgLoadFailed, http.StatusUnprocessableEntity)
			default:
				common.RespondError(w, initTime, err, constants.MsgLoadFailed)
			}
			return
		}

		common.RespondSuccess(w, initTime, "workbook loaded", result, http.StatusCreated)
	}
}

// GetSummary handles GET /api/v1/analytics/summary
func (h *Handlers) GetSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		f, err := filterFromQuery(r.URL.Query())
		if err != nil {
			respondQueryError(w, initTime, err)
			return
		}
		stats, err := h.deps.Services.Dataset.Summary(f)
		if err != nil {
			respondQueryError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "", stats)
	}
}

// GetBreakdown handles GET /api/v1/analytics/breakdown/{groupKey}
func (h *Handlers) GetBreakdown() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		key := constants.GroupKey(chi.URLParam(r, "groupKey"))
		if !key.Valid() {
			common.RespondError(w, initTime, nil, constants.MsgInvalidGroupKey, http.StatusBadRequest)
			return
		}

		f, err := filterFromQuery(r.URL.Query())
		if err != nil {
			respondQueryError(w, initTime, err)
			return
		}
		breakdown, err := h.deps.Services.Dataset.Breakdown(key, f)
		if err != nil {
			respondQueryError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "", breakdown)
	}
}

// GetTopRoutes handles GET /api/v1/analytics/routes/top?limit=N
func (h *Handlers) GetTopRoutes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				common.RespondError(w, initTime, nil, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		f, err := filterFromQuery(r.URL.Query(), "limit")
		if err != nil {
			respondQueryError(w, initTime, err)
			return
		}
		routes, err := h.deps.Services.Dataset.TopRoutes(limit, f)
		if err != nil {
			respondQueryError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "", routes)
	}
}

// GetKPIs handles GET /api/v1/analytics/kpis
func (h *Handlers) GetKPIs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		f, err := filterFromQuery(r.URL.Query())
		if err != nil {
			respondQueryError(w, initTime, err)
			return
		}
		kpis, err := h.deps.Services.Dataset.KPIs(f)
		if err != nil {
			respondQueryError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "", kpis)
	}
}

// GetMonthlyTrend handles GET /api/v1/analytics/trend/monthly
func (h *Handlers) GetMonthlyTrend() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		f, err := filterFromQuery(r.URL.Query())
		if err != nil {
			respondQueryError(w, initTime, err)
			return
		}
		trend, err := h.deps.Services.Dataset.MonthlyTrend(f)
		if err != nil {
			respondQueryError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "", trend)
	}
}

// GetCumulative handles GET /api/v1/analytics/trend/cumulative
func (h *Handlers) GetCumulative() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		f, err := filterFromQuery(r.URL.Query())
		if err != nil {
			respondQueryError(w, initTime, err)
			return
		}
		series, err := h.deps.Services.Dataset.CumulativeByCategory(f)
		if err != nil {
			respondQueryError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "", series)
	}
}

// GetWeekdaySplit handles GET /api/v1/analytics/weekday-split
func (h *Handlers) GetWeekdaySplit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		f, err := filterFromQuery(r.URL.Query())
		if err != nil {
			respondQueryError(w, initTime, err)
			return
		}
		split, err := h.deps.Services.Dataset.WeekdaySplit(f)
		if err != nil {
			respondQueryError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "", split)
	}
}

// GetIdleAnalysis handles GET /api/v1/analysis/idle
func (h *Handlers) GetIdleAnalysis() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		f, err := filterFromQuery(r.URL.Query())
		if err != nil {
			respondQueryError(w, initTime, err)
			return
		}
		idle, err := h.deps.Services.Dataset.IdleAnalysis(f)
		if err != nil {
			respondQueryError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "", idle)
	}
}

// GetDataStatus handles GET /api/v1/data/status. An optional filter
// yields the filtered record count alongside the total.
func (h *Handlers) GetDataStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		f, err := filterFromQuery(r.URL.Query())
		if err != nil {
			respondQueryError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "", h.deps.Services.Dataset.DataStatus(f))
	}
}

// GetCacheStatus handles GET /api/v1/cache/status
func (h *Handlers) GetCacheStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		common.RespondSuccess(w, initTime, "", h.deps.Services.Dataset.CacheStatus())
	}
}

// ClearCache handles DELETE /api/v1/cache
func (h *Handlers) ClearCache() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		if err := h.deps.Services.Dataset.ClearSnapshot(); err != nil {
			common.RespondError(w, initTime, err, constants.MsgCacheUnavailable, http.StatusServiceUnavailable)
			return
		}
		common.RespondSuccess(w, initTime, "cache cleared", nil)
	}
}
