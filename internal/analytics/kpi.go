package analytics

import (
	"charterops/flightdeck/internal/constants"
	"charterops/flightdeck/internal/models"
	"charterops/flightdeck/internal/models/dtos"
)

// KPIs computes the named metric catalog over the filtered set. Every
// ratio carries a zero sentinel on a zero denominator, so an empty or
// hour-less dataset produces zeros, never a panic.
func KPIs(ds *models.LoadedDataset, f *Filter) *dtos.KPIResponse {
	var (
		acc        accumulator
		adjusted   int
		seats      int
		fullCabin  int
		commercial int
		idle       float64
		days       = make(map[string]bool)
	)

	for i := range ds.Records {
		r := &ds.Records[i]
		if !f.Matches(r) {
			continue
		}
		acc.add(r)
		adjusted += r.AdjustedPax
		seats += r.Capacity
		idle += r.IdleHours
		days[r.DepartureKey()] = true
		if r.Commercial {
			commercial++
		}
		if r.Capacity > 0 && r.AdjustedPax >= r.Capacity {
			fullCabin++
		}
	}

	flights := float64(acc.flights)
	available := float64(len(days)) * constants.ProductiveHoursPerDay

	values := map[string]float64{
		// overview
		"total_flights":       flights,
		"total_revenue":       acc.revenue,
		"total_cost":          acc.cost,
		"total_hours":         acc.hours,
		"total_pax":           float64(acc.pax),
		"total_landings":      float64(acc.landings),
		"total_distance_nm":   acc.distance,
		"avg_leg_hours":       safeDiv(acc.hours, flights),
		"avg_pax_per_flight":  safeDiv(float64(acc.pax), flights),
		"commercial_share":    safeDiv(float64(commercial), flights),

		// revenue
		"revenue_per_hour":   safeDiv(acc.revenue, acc.hours),
		"revenue_per_flight": safeDiv(acc.revenue, flights),
		"revenue_per_pax":    safeDiv(acc.revenue, float64(acc.pax)),
		"revenue_per_seat":   safeDiv(acc.revenue, float64(seats)),
		"revenue_per_nm":     safeDiv(acc.revenue, acc.distance),

		// efficiency
		"avg_load_factor": safeDiv(acc.loadFactorSum, float64(acc.withCapacity)),
		"empty_seats":     float64(seats - adjusted),
		"full_cabin_rate": safeDiv(float64(fullCabin), flights),

		// utilization
		"active_aircraft_days": float64(len(days)),
		"avg_daily_flights":    safeDiv(flights, float64(len(days))),
		"idle_hours_total":     idle,
		"utilization_rate":     safeDiv(acc.hours, available),

		// profitability
		"cost_per_hour":   safeDiv(acc.cost, acc.hours),
		"cost_per_flight": safeDiv(acc.cost, flights),
		"gross_profit":    acc.revenue - acc.cost,
		"profit_margin":   safeDiv(acc.revenue-acc.cost, acc.revenue),
	}

	return &dtos.KPIResponse{Values: values}
}
