package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"charterops/flightdeck/internal/analytics"
	"charterops/flightdeck/internal/common"
	"charterops/flightdeck/internal/constants"
	"charterops/flightdeck/internal/derive"
	"charterops/flightdeck/internal/logging"
	"charterops/flightdeck/internal/metrics"
	"charterops/flightdeck/internal/models"
	"charterops/flightdeck/internal/models/dtos"
	"charterops/flightdeck/internal/normalizer"
	"charterops/flightdeck/internal/store"
)

// ErrNoDataset rejects analytical queries before the first load.
var ErrNoDataset = errors.New(constants.MsgNoDataLoaded)

const queryCacheTTL = 10 * time.Minute

// DatasetService owns the active dataset. Queries read whatever snapshot
// is current when they start; Load builds the replacement completely
// before publishing it, so readers never observe a half-built dataset.
type DatasetService struct {
	current atomic.Pointer[models.LoadedDataset]

	snapshots *store.SnapshotStore
	cache     common.CacheInterface
	lookups   *LookupService
	costs     *CostService
	metrics   *metrics.MetricsRegistry
}

// NewDatasetService wires the pipeline around the active dataset slot.
func NewDatasetService(snapshots *store.SnapshotStore, cache common.CacheInterface, lookups *LookupService, costs *CostService, reg *metrics.MetricsRegistry) *DatasetService {
	return &DatasetService{
		snapshots: snapshots,
		cache:     cache,
		lookups:   lookups,
		costs:     costs,
		metrics:   reg,
	}
}

// Current returns the active dataset, nil before the first load.
func (s *DatasetService) Current() *models.LoadedDataset {
	return s.current.Load()
}

func (s *DatasetService) deriver() *derive.Deriver {
	d := &derive.Deriver{}
	if s.lookups != nil {
		d.Airports = s.lookups
	}
	if s.costs != nil {
		d.Costs = s.costs
	}
	return d
}

// Load runs the full pipeline over an uploaded workbook and replaces the
// active dataset. On any error the previous dataset stays active. The
// snapshot save is best-effort: a failure is reported in the result, not
// escalated.
func (s *DatasetService) Load(ctx context.Context, data []byte, sourceName string) (*dtos.LoadResult, error) {
	start := time.Now()

	res, err := normalizer.Normalize(ctx, data, sourceName)
	if err != nil {
		if s.metrics != nil {
			s.metrics.LoadsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	s.deriver().Enrich(res.Records)

	ds := &models.LoadedDataset{
		ID:                uuid.New(),
		SourceName:        sourceName,
		SourceFingerprint: common.SourceFingerprint(store.FormatVersion, data),
		LoadedAt:          time.Now().UTC(),
		Records:           res.Records,
		DroppedRows:       res.DroppedRows,
		TotalRowsRemoved:  res.TotalRowsRemoved,
		SkippedSheets:     res.SkippedSheets,
		Warnings:          res.Warnings,
	}

	s.publish(ds)

	result := &dtos.LoadResult{
		DatasetID:        ds.ID.String(),
		SourceName:       sourceName,
		LoadedAt:         ds.LoadedAt,
		RecordCount:      len(ds.Records),
		DroppedRows:      ds.DroppedRows,
		TotalRowsRemoved: ds.TotalRowsRemoved,
		SheetsParsed:     res.SheetsParsed,
		SkippedSheets:    ds.SkippedSheets,
		Warnings:         ds.Warnings,
		CacheSaved:       true,
	}

	if s.snapshots != nil {
		if err := s.snapshots.Save(ds); err != nil {
			logging.Error("snapshot save failed, serving from memory", "error", err)
			result.CacheSaved = false
			result.Warnings = append(result.Warnings, fmt.Sprintf("cache save failed: %v", err))
		}
	} else {
		result.CacheSaved = false
	}

	if s.metrics != nil {
		s.metrics.LoadsTotal.WithLabelValues("ok").Inc()
		s.metrics.RecordsProcessedTotal.Add(float64(len(ds.Records)))
		s.metrics.RowsDroppedTotal.Add(float64(ds.DroppedRows))
		s.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	}
	return result, nil
}

// RestoreFromCache loads the persisted snapshot at startup. A miss of
// any kind simply leaves the service empty.
func (s *DatasetService) RestoreFromCache(ctx context.Context) bool {
	if s.snapshots == nil {
		return false
	}
	ds, hit, err := s.snapshots.Load()
	if err != nil {
		logging.Warn("snapshot restore failed", "error", err)
		return false
	}
	if s.metrics != nil {
		if hit {
			s.metrics.CacheHitsTotal.WithLabelValues("snapshot").Inc()
		} else {
			s.metrics.CacheMissesTotal.WithLabelValues("snapshot").Inc()
		}
	}
	if !hit {
		return false
	}

	s.publish(ds)
	logging.Info("dataset restored from snapshot",
		"source", ds.SourceName,
		"records", len(ds.Records),
		"loaded_at", ds.LoadedAt,
	)
	return true
}

func (s *DatasetService) publish(ds *models.LoadedDataset) {
	s.current.Store(ds)
	if s.cache != nil {
		s.cache.Flush()
	}
	if s.metrics != nil {
		s.metrics.DatasetRecords.Set(float64(len(ds.Records)))
	}
}

// memoize caches one aggregation result per dataset, operation, and
// filter value. The key renders the filter through CacheKey so two
// requests carrying the same constraints share an entry.
func (s *DatasetService) memoize(ds *models.LoadedDataset, prefix constants.CachePrefix, op string, f *analytics.Filter, compute func() (any, error)) (any, error) {
	if s.cache == nil {
		return compute()
	}
	key := fmt.Sprintf("%s%s:%s:%s", prefix, ds.ID, op, f.CacheKey())
	if val, found := s.cache.Get(key); found {
		if s.metrics != nil {
			s.metrics.CacheHitsTotal.WithLabelValues(string(prefix)).Inc()
		}
		return val, nil
	}
	if s.metrics != nil {
		s.metrics.CacheMissesTotal.WithLabelValues(string(prefix)).Inc()
	}

	val, err := compute()
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, val, queryCacheTTL)
	return val, nil
}

// Summary reduces the active dataset under the given filter.
func (s *DatasetService) Summary(f *analytics.Filter) (*dtos.SummaryStats, error) {
	ds := s.Current()
	if ds == nil {
		return nil, ErrNoDataset
	}
	val, err := s.memoize(ds, constants.CachePrefixSummary, "summary", f, func() (any, error) {
		stats := analytics.Summary(ds, f)
		return &stats, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*dtos.SummaryStats), nil
}

// Breakdown groups the active dataset by one dimension.
func (s *DatasetService) Breakdown(key constants.GroupKey, f *analytics.Filter) (*dtos.BreakdownResponse, error) {
	ds := s.Current()
	if ds == nil {
		return nil, ErrNoDataset
	}
	val, err := s.memoize(ds, constants.CachePrefixBreakdown, "breakdown:"+string(key), f, func() (any, error) {
		return analytics.Breakdown(ds, key, f)
	})
	if err != nil {
		return nil, err
	}
	return val.(*dtos.BreakdownResponse), nil
}

// TopRoutes ranks routes by flight count.
func (s *DatasetService) TopRoutes(n int, f *analytics.Filter) (*dtos.TopRoutesResponse, error) {
	ds := s.Current()
	if ds == nil {
		return nil, ErrNoDataset
	}
	val, err := s.memoize(ds, constants.CachePrefixBreakdown, fmt.Sprintf("toproutes:%d", n), f, func() (any, error) {
		return analytics.TopRoutes(ds, n, f), nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*dtos.TopRoutesResponse), nil
}

// KPIs computes the named metric catalog.
func (s *DatasetService) KPIs(f *analytics.Filter) (*dtos.KPIResponse, error) {
	ds := s.Current()
	if ds == nil {
		return nil, ErrNoDataset
	}
	val, err := s.memoize(ds, constants.CachePrefixKPI, "kpis", f, func() (any, error) {
		return analytics.KPIs(ds, f), nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*dtos.KPIResponse), nil
}

// MonthlyTrend returns the calendar-ordered monthly series.
func (s *DatasetService) MonthlyTrend(f *analytics.Filter) (*dtos.TrendResponse, error) {
	ds := s.Current()
	if ds == nil {
		return nil, ErrNoDataset
	}
	val, err := s.memoize(ds, constants.CachePrefixTrend, "trend", f, func() (any, error) {
		return analytics.MonthlyTrend(ds, f)
	})
	if err != nil {
		return nil, err
	}
	return val.(*dtos.TrendResponse), nil
}

// CumulativeByCategory returns running revenue per paying category.
func (s *DatasetService) CumulativeByCategory(f *analytics.Filter) (*dtos.CumulativeResponse, error) {
	ds := s.Current()
	if ds == nil {
		return nil, ErrNoDataset
	}
	val, err := s.memoize(ds, constants.CachePrefixTrend, "cumulative", f, func() (any, error) {
		return analytics.CumulativeByCategory(ds, f), nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*dtos.CumulativeResponse), nil
}

// WeekdaySplit compares weekday and weekend activity.
func (s *DatasetService) WeekdaySplit(f *analytics.Filter) (*dtos.WeekdaySplitResponse, error) {
	ds := s.Current()
	if ds == nil {
		return nil, ErrNoDataset
	}
	val, err := s.memoize(ds, constants.CachePrefixBreakdown, "weekdaysplit", f, func() (any, error) {
		return analytics.WeekdaySplit(ds, f), nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*dtos.WeekdaySplitResponse), nil
}

// IdleAnalysis reports per-aircraft utilization.
func (s *DatasetService) IdleAnalysis(f *analytics.Filter) (*dtos.IdleResponse, error) {
	ds := s.Current()
	if ds == nil {
		return nil, ErrNoDataset
	}
	val, err := s.memoize(ds, constants.CachePrefixKPI, "idle", f, func() (any, error) {
		return analytics.IdleAnalysis(ds, f), nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*dtos.IdleResponse), nil
}

// DataStatus reports whether a dataset is loaded and its extent. The
// filtered count applies the caller's filter; with no filter it equals
// the total.
func (s *DatasetService) DataStatus(f *analytics.Filter) *dtos.DataStatus {
	ds := s.Current()
	if ds == nil {
		return &dtos.DataStatus{Loaded: false}
	}

	filtered := 0
	for i := range ds.Records {
		if f.Matches(&ds.Records[i]) {
			filtered++
		}
	}

	status := &dtos.DataStatus{
		Loaded:          true,
		DatasetID:       ds.ID.String(),
		SourceName:      ds.SourceName,
		LoadedAt:        ds.LoadedAt,
		TotalRecords:    len(ds.Records),
		FilteredRecords: filtered,
	}
	if len(ds.Records) > 0 {
		min, max := ds.Records[0].Date, ds.Records[0].Date
		for i := range ds.Records {
			d := ds.Records[i].Date
			if d.Before(min) {
				min = d
			}
			if d.After(max) {
				max = d
			}
		}
		status.DateRangeFrom = min.Format("2006-01-02")
		status.DateRangeTo = max.Format("2006-01-02")
	}
	return status
}

// ClearSnapshot removes the persisted cache entry. The in-memory
// dataset stays active.
func (s *DatasetService) ClearSnapshot() error {
	if s.snapshots == nil {
		return nil
	}
	return s.snapshots.Clear()
}

// CacheStatus reports snapshot existence and validity from the sidecar.
func (s *DatasetService) CacheStatus() *dtos.CacheStatus {
	if s.snapshots == nil {
		return &dtos.CacheStatus{Present: false}
	}
	st := s.snapshots.Status()
	out := &dtos.CacheStatus{
		Present:   st.Exists,
		Valid:     st.Valid,
		SizeBytes: st.SizeBytes,
	}
	if st.Metadata != nil {
		out.SourceName = st.Metadata.SourceName
		out.Fingerprint = st.Metadata.SourceFingerprint
		out.SavedAt = st.Metadata.SavedAt
		out.TotalRecords = st.Metadata.TotalRecords
		out.FilteredRecords = st.Metadata.FilteredRecords
		out.FormatVersion = st.Metadata.FormatVersion
	}
	return out
}
