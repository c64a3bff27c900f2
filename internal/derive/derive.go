package derive

import (
	"charterops/flightdeck/internal/constants"
	"charterops/flightdeck/internal/models"
)

// AirportResolver supplies canonical names and great-circle distances for
// route enrichment. Unknown codes resolve to empty name and 0 distance.
type AirportResolver interface {
	ResolveName(code string) string
	DistanceNM(origin, destination string) float64
}

// CostModel supplies per-aircraft-model cost and capacity assumptions.
type CostModel interface {
	Capacity(model string) int
	HourlyCost(model string) float64
	MonthlyFixed(model string) float64
}

// Deriver enriches normalized records with every derived attribute. All
// resolvers are optional; a missing collaborator means the corresponding
// fields keep their zero sentinels.
type Deriver struct {
	Classifier Classifier
	Airports   AirportResolver
	Costs      CostModel
}

// Enrich runs the full derivation over a freshly normalized record set,
// in place. No error path exists here: anything underivable becomes a
// documented sentinel instead.
func (d *Deriver) Enrich(records []models.FlightRecord) {
	for i := range records {
		d.enrichOne(&records[i])
	}
	computeIdleTime(records)
	d.allocateCosts(records)
}

func (d *Deriver) enrichOne(r *models.FlightRecord) {
	r.Category = d.Classifier.Classify(r)
	r.Commercial = isCommercial(r)

	if r.Origin != "" && r.Destination != "" {
		r.Route = r.Origin + " → " + r.Destination
	}
	if d.Airports != nil {
		r.OriginName = d.Airports.ResolveName(r.Origin)
		r.DestinationName = d.Airports.ResolveName(r.Destination)
		r.DistanceNM = d.Airports.DistanceNM(r.Origin, r.Destination)
	}

	if d.Costs != nil {
		r.Capacity = d.Costs.Capacity(r.AircraftModel)
	}

	// Charter legs sell the whole cabin, so the seats count as occupied
	// regardless of how many passengers boarded.
	r.AdjustedPax = r.Pax
	if r.Category == constants.CategoryCharter && r.Capacity > 0 {
		r.AdjustedPax = r.Capacity
	}
	if r.Capacity > 0 {
		r.LoadFactor = float64(r.Pax) / float64(r.Capacity)
	}

	r.Weekday = r.Date.Weekday()
	if r.HasClockTime {
		r.Hour = r.Date.Hour()
	} else {
		r.Hour = -1
	}
}

func isCommercial(r *models.FlightRecord) bool {
	switch r.Category {
	case constants.CategoryNonRevenue, constants.CategoryHangar:
		return false
	}
	return !containsAny(r.SalesModel, "marketing", "courtesy", "cortesia")
}

// allocateCosts prices each leg as hours times the model's hourly rate
// plus a share of the monthly fixed cost, split across the aircraft-month
// in proportion to flight hours.
func (d *Deriver) allocateCosts(records []models.FlightRecord) {
	if d.Costs == nil {
		return
	}

	type aircraftMonth struct {
		prefix string
		month  int
		year   int
	}
	hoursPer := make(map[aircraftMonth]float64)
	for i := range records {
		r := &records[i]
		hoursPer[aircraftMonth{r.AircraftPrefix, r.Month, r.Year}] += r.FlightHours
	}

	for i := range records {
		r := &records[i]
		r.Cost = r.FlightHours * d.Costs.HourlyCost(r.AircraftModel)

		total := hoursPer[aircraftMonth{r.AircraftPrefix, r.Month, r.Year}]
		if total > 0 {
			r.Cost += d.Costs.MonthlyFixed(r.AircraftModel) * (r.FlightHours / total)
		}
	}
}
