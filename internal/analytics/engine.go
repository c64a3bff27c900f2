package analytics

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"charterops/flightdeck/internal/constants"
	"charterops/flightdeck/internal/models"
	"charterops/flightdeck/internal/models/dtos"
)

// The engine is a pure read over an immutable dataset snapshot. Nothing
// here mutates records, so concurrent queries against the same snapshot
// need no coordination.

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

type accumulator struct {
	flights       int
	revenue       float64
	cost          float64
	hours         float64
	pax           int
	landings      int
	distance      float64
	loadFactorSum float64
	withCapacity  int
}

func (a *accumulator) add(r *models.FlightRecord) {
	a.flights++
	a.revenue += r.Revenue
	a.cost += r.Cost
	a.hours += r.FlightHours
	a.pax += r.Pax
	a.landings += r.Landings
	a.distance += r.DistanceNM
	if r.Capacity > 0 {
		a.loadFactorSum += r.LoadFactor
		a.withCapacity++
	}
}

func (a *accumulator) stats() dtos.SummaryStats {
	return dtos.SummaryStats{
		Flights:        a.flights,
		TotalRevenue:   a.revenue,
		TotalCost:      a.cost,
		TotalProfit:    a.revenue - a.cost,
		TotalHours:     a.hours,
		TotalPax:       a.pax,
		TotalLandings:  a.landings,
		TotalDistance:  a.distance,
		AvgLoadFactor:  safeDiv(a.loadFactorSum, float64(a.withCapacity)),
		AvgLegHours:    safeDiv(a.hours, float64(a.flights)),
		RevenuePerHour: safeDiv(a.revenue, a.hours),
		CostPerHour:    safeDiv(a.cost, a.hours),
	}
}

// Summary reduces the filtered record set to its totals. An empty
// filtered set yields the zero SummaryStats, never an error.
func Summary(ds *models.LoadedDataset, f *Filter) dtos.SummaryStats {
	var acc accumulator
	for i := range ds.Records {
		r := &ds.Records[i]
		if f.Matches(r) {
			acc.add(r)
		}
	}
	return acc.stats()
}

// groupLabel renders the grouping key of one record.
func groupLabel(r *models.FlightRecord, key constants.GroupKey) string {
	switch key {
	case constants.GroupByCategory:
		return string(r.Category)
	case constants.GroupByModel:
		return r.AircraftModel
	case constants.GroupByPrefix:
		return r.AircraftPrefix
	case constants.GroupByRoute:
		return r.Route
	case constants.GroupByMonth:
		return fmt.Sprintf("%04d-%02d", r.Year, r.Month)
	case constants.GroupByWeekday:
		return r.Weekday.String()
	case constants.GroupByHour:
		if r.Hour < 0 {
			return "unknown"
		}
		return strconv.Itoa(r.Hour)
	case constants.GroupByClient:
		if r.Client == "" {
			return "unknown"
		}
		return r.Client
	}
	return ""
}

// weekdayRank orders Monday first, matching how analysts read the week.
func weekdayRank(name string) int {
	order := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	for i, d := range order {
		if d == name {
			return i
		}
	}
	return len(order)
}

// Breakdown is a stable group-by over one dimension. Buckets keep
// first-occurrence order except for the calendar dimensions, which sort
// by calendar position (months chronologically, Monday through Sunday,
// hours 0-23 with "unknown" last).
func Breakdown(ds *models.LoadedDataset, key constants.GroupKey, f *Filter) (*dtos.BreakdownResponse, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("%s: %q", constants.MsgInvalidGroupKey, key)
	}

	groups := make(map[string]*accumulator)
	var order []string
	for i := range ds.Records {
		r := &ds.Records[i]
		if !f.Matches(r) {
			continue
		}
		label := groupLabel(r, key)
		acc, ok := groups[label]
		if !ok {
			acc = &accumulator{}
			groups[label] = acc
			order = append(order, label)
		}
		acc.add(r)
	}

	switch key {
	case constants.GroupByMonth:
		sort.Strings(order) // zero-padded YYYY-MM sorts chronologically
	case constants.GroupByWeekday:
		sort.SliceStable(order, func(a, b int) bool {
			return weekdayRank(order[a]) < weekdayRank(order[b])
		})
	case constants.GroupByHour:
		sort.SliceStable(order, func(a, b int) bool {
			ha, errA := strconv.Atoi(order[a])
			hb, errB := strconv.Atoi(order[b])
			if errA != nil {
				return false
			}
			if errB != nil {
				return true
			}
			return ha < hb
		})
	}

	resp := &dtos.BreakdownResponse{GroupBy: string(key), Buckets: make([]dtos.GroupBucket, 0, len(order))}
	for _, label := range order {
		resp.Buckets = append(resp.Buckets, dtos.GroupBucket{Key: label, Summary: groups[label].stats()})
	}
	return resp, nil
}

// TopRoutes ranks routes by flight count descending; ties keep
// first-seen order.
func TopRoutes(ds *models.LoadedDataset, n int, f *Filter) *dtos.TopRoutesResponse {
	type routeAcc struct {
		stats dtos.RouteStats
	}
	groups := make(map[string]*routeAcc)
	var order []string
	for i := range ds.Records {
		r := &ds.Records[i]
		if !f.Matches(r) || r.Route == "" {
			continue
		}
		acc, ok := groups[r.Route]
		if !ok {
			acc = &routeAcc{stats: dtos.RouteStats{Route: r.Route}}
			groups[r.Route] = acc
			order = append(order, r.Route)
		}
		acc.stats.Flights++
		acc.stats.Revenue += r.Revenue
		acc.stats.Hours += r.FlightHours
		acc.stats.Pax += r.Pax
		acc.stats.DistanceNM += r.DistanceNM
	}

	sort.SliceStable(order, func(a, b int) bool {
		return groups[order[a]].stats.Flights > groups[order[b]].stats.Flights
	})

	if n > 0 && n < len(order) {
		order = order[:n]
	}
	resp := &dtos.TopRoutesResponse{Metric: "flights", Routes: make([]dtos.RouteStats, 0, len(order))}
	for _, route := range order {
		resp.Routes = append(resp.Routes, groups[route].stats)
	}
	return resp
}

// MonthlyTrend returns one point per reporting month in calendar order.
func MonthlyTrend(ds *models.LoadedDataset, f *Filter) (*dtos.TrendResponse, error) {
	breakdown, err := Breakdown(ds, constants.GroupByMonth, f)
	if err != nil {
		return nil, err
	}
	resp := &dtos.TrendResponse{Points: make([]dtos.TrendPoint, 0, len(breakdown.Buckets))}
	for _, b := range breakdown.Buckets {
		resp.Points = append(resp.Points, dtos.TrendPoint{
			Period:  b.Key,
			Label:   periodLabel(b.Key),
			Summary: b.Summary,
		})
	}
	return resp, nil
}

// periodLabel turns a YYYY-MM period key into the chart label, e.g.
// "2025-03" -> "Mar 2025".
func periodLabel(period string) string {
	var year, month int
	if _, err := fmt.Sscanf(period, "%d-%d", &year, &month); err != nil {
		return period
	}
	name := constants.MonthName(month)
	if name == "" {
		return period
	}
	return fmt.Sprintf("%s %d", name, year)
}

// CumulativeByCategory builds running revenue totals per month for the
// two paying categories, the series the dashboard charts against each
// other.
func CumulativeByCategory(ds *models.LoadedDataset, f *Filter) *dtos.CumulativeResponse {
	categories := []constants.FlightCategory{constants.CategoryShuttle, constants.CategoryCharter}

	periodSet := make(map[string]bool)
	perCat := make(map[constants.FlightCategory]map[string]float64)
	for _, cat := range categories {
		perCat[cat] = make(map[string]float64)
	}

	for i := range ds.Records {
		r := &ds.Records[i]
		if !f.Matches(r) {
			continue
		}
		period := fmt.Sprintf("%04d-%02d", r.Year, r.Month)
		periodSet[period] = true
		if m, ok := perCat[r.Category]; ok {
			m[period] += r.Revenue
		}
	}

	periods := make([]string, 0, len(periodSet))
	for p := range periodSet {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	resp := &dtos.CumulativeResponse{Metric: "revenue"}
	for _, cat := range categories {
		series := dtos.CategorySeries{Category: string(cat), Periods: periods}
		var running float64
		for _, p := range periods {
			running += perCat[cat][p]
			series.Values = append(series.Values, running)
		}
		resp.Series = append(resp.Series, series)
	}
	return resp
}

// WeekdaySplit compares weekday and weekend activity.
func WeekdaySplit(ds *models.LoadedDataset, f *Filter) *dtos.WeekdaySplitResponse {
	resp := &dtos.WeekdaySplitResponse{}
	for i := range ds.Records {
		r := &ds.Records[i]
		if !f.Matches(r) {
			continue
		}
		side := &resp.Weekday
		if r.Weekday == time.Saturday || r.Weekday == time.Sunday {
			side = &resp.Weekend
		}
		side.Flights++
		side.Revenue += r.Revenue
		side.Pax += r.Pax
		side.Hours += r.FlightHours
	}
	return resp
}

// IdleAnalysis reports per-aircraft utilization against the assumed
// productive hours per day, plus the fleet rollup.
func IdleAnalysis(ds *models.LoadedDataset, f *Filter) *dtos.IdleResponse {
	type airframe struct {
		model string
		days  map[string]bool
		hours float64
		idle  float64
	}
	fleet := make(map[string]*airframe)
	var order []string

	for i := range ds.Records {
		r := &ds.Records[i]
		if !f.Matches(r) {
			continue
		}
		a, ok := fleet[r.AircraftPrefix]
		if !ok {
			a = &airframe{model: r.AircraftModel, days: make(map[string]bool)}
			fleet[r.AircraftPrefix] = a
			order = append(order, r.AircraftPrefix)
		}
		a.days[r.Date.Format("2006-01-02")] = true
		a.hours += r.FlightHours
		a.idle += r.IdleHours
	}

	resp := &dtos.IdleResponse{}
	var fleetHours, fleetAvailable float64
	for _, prefix := range order {
		a := fleet[prefix]
		available := float64(len(a.days)) * constants.ProductiveHoursPerDay
		resp.Aircraft = append(resp.Aircraft, dtos.IdleAircraftStats{
			Prefix:       prefix,
			Model:        a.model,
			ActiveDays:   len(a.days),
			FlightHours:  a.hours,
			IdleHours:    a.idle,
			UtilizationP: safeDiv(a.hours, available) * 100,
		})
		resp.FleetIdleHours += a.idle
		fleetHours += a.hours
		fleetAvailable += available
	}
	resp.FleetUtilP = safeDiv(fleetHours, fleetAvailable) * 100
	return resp
}
