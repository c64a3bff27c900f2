package dtos

import "time"

// ---- LOAD ----

type LoadResult struct {
	DatasetID        string    `json:"dataset_id"`
	SourceName       string    `json:"source_name"`
	LoadedAt         time.Time `json:"loaded_at"`
	RecordCount      int       `json:"record_count"`
	DroppedRows      int       `json:"dropped_rows"`
	TotalRowsRemoved int       `json:"total_rows_removed"`
	SheetsParsed     int       `json:"sheets_parsed"`
	SkippedSheets    []string  `json:"skipped_sheets,omitempty"`
	Warnings         []string  `json:"warnings,omitempty"`
	CacheSaved       bool      `json:"cache_saved"`
}

// ---- SUMMARY ----

type SummaryStats struct {
	Flights        int     `json:"flights"`
	TotalRevenue   float64 `json:"total_revenue"`
	TotalCost      float64 `json:"total_cost"`
	TotalProfit    float64 `json:"total_profit"`
	TotalHours     float64 `json:"total_hours"`
	TotalPax       int     `json:"total_pax"`
	TotalLandings  int     `json:"total_landings"`
	TotalDistance  float64 `json:"total_distance_nm"`
	AvgLoadFactor  float64 `json:"avg_load_factor"`
	AvgLegHours    float64 `json:"avg_leg_hours"`
	RevenuePerHour float64 `json:"revenue_per_hour"`
	CostPerHour    float64 `json:"cost_per_hour"`
}

// ---- BREAKDOWN ----

type GroupBucket struct {
	Key     string       `json:"key"`
	Summary SummaryStats `json:"summary"`
}

type BreakdownResponse struct {
	GroupBy string        `json:"group_by"`
	Buckets []GroupBucket `json:"buckets"`
}

// ---- KPI ----

type KPIResponse struct {
	Values map[string]float64 `json:"values"`
}

// ---- TREND ----

type TrendPoint struct {
	Period  string       `json:"period"`
	Label   string       `json:"label"`
	Summary SummaryStats `json:"summary"`
}

type TrendResponse struct {
	Points []TrendPoint `json:"points"`
}

type CategorySeries struct {
	Category string    `json:"category"`
	Periods  []string  `json:"periods"`
	Values   []float64 `json:"values"`
}

type CumulativeResponse struct {
	Metric string           `json:"metric"`
	Series []CategorySeries `json:"series"`
}

type DaySplit struct {
	Flights int     `json:"flights"`
	Revenue float64 `json:"revenue"`
	Pax     int     `json:"pax"`
	Hours   float64 `json:"hours"`
}

type WeekdaySplitResponse struct {
	Weekday DaySplit `json:"weekday"`
	Weekend DaySplit `json:"weekend"`
}

// ---- IDLE ----

type IdleAircraftStats struct {
	Prefix       string  `json:"prefix"`
	Model        string  `json:"model"`
	ActiveDays   int     `json:"active_days"`
	FlightHours  float64 `json:"flight_hours"`
	IdleHours    float64 `json:"idle_hours"`
	UtilizationP float64 `json:"utilization_pct"`
}

type IdleResponse struct {
	Aircraft       []IdleAircraftStats `json:"aircraft"`
	FleetIdleHours float64             `json:"fleet_idle_hours"`
	FleetUtilP     float64             `json:"fleet_utilization_pct"`
}

// ---- ROUTES ----

type RouteStats struct {
	Route      string  `json:"route"`
	Flights    int     `json:"flights"`
	Revenue    float64 `json:"revenue"`
	Hours      float64 `json:"hours"`
	Pax        int     `json:"pax"`
	DistanceNM float64 `json:"distance_nm"`
}

type TopRoutesResponse struct {
	Metric string       `json:"metric"`
	Routes []RouteStats `json:"routes"`
}

// ---- STATUS ----

type DataStatus struct {
	Loaded          bool      `json:"loaded"`
	DatasetID       string    `json:"dataset_id,omitempty"`
	SourceName      string    `json:"source_name,omitempty"`
	LoadedAt        time.Time `json:"loaded_at,omitzero"`
	TotalRecords    int       `json:"total_records"`
	FilteredRecords int       `json:"filtered_records"`
	DateRangeFrom   string    `json:"date_range_from,omitempty"`
	DateRangeTo     string    `json:"date_range_to,omitempty"`
}

type CacheStatus struct {
	Present         bool      `json:"present"`
	Valid           bool      `json:"valid"`
	SourceName      string    `json:"source_name,omitempty"`
	Fingerprint     string    `json:"fingerprint,omitempty"`
	SavedAt         time.Time `json:"saved_at,omitzero"`
	TotalRecords    int       `json:"total_records"`
	FilteredRecords int       `json:"filtered_records"`
	FormatVersion   int       `json:"format_version"`
	SizeBytes       int64     `json:"size_bytes"`
}
