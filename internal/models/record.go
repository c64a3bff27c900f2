package models

import (
	"time"

	"charterops/flightdeck/internal/constants"
)

// FlightRecord is one flight leg after normalization and derivation.
// Records are immutable once a load completes; the whole set is replaced
// on the next upload.
type FlightRecord struct {
	Seq int `json:"seq"`

	Date           time.Time `json:"date"`
	HasClockTime   bool      `json:"has_clock_time"`
	AircraftModel  string    `json:"aircraft_model"`
	AircraftPrefix string    `json:"aircraft_prefix"`

	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	OriginName      string `json:"origin_name,omitempty"`
	DestinationName string `json:"destination_name,omitempty"`
	Route           string `json:"route"`

	Category   constants.FlightCategory `json:"category"`
	Commercial bool                     `json:"commercial"`

	TypeOfFlight   string `json:"type_of_flight,omitempty"`
	SalesModel     string `json:"sales_model,omitempty"`
	Classification string `json:"classification,omitempty"`
	Client         string `json:"client,omitempty"`

	Revenue     float64 `json:"revenue"`
	Cost        float64 `json:"cost"`
	Pax         int     `json:"pax"`
	AdjustedPax int     `json:"adjusted_pax"`
	Capacity    int     `json:"capacity"`
	FlightHours float64 `json:"flight_hours"`
	Landings    int     `json:"landings"`
	DistanceNM  float64 `json:"distance_nm"`
	LoadFactor  float64 `json:"load_factor"`

	Weekday   time.Weekday `json:"weekday"`
	Hour      int          `json:"hour"` // -1 when the row carried no clock time
	Month     int          `json:"month"`
	Year      int          `json:"year"`
	IdleHours float64      `json:"idle_hours"`

	// Extra holds source columns that did not map onto the canonical schema.
	Extra map[string]string `json:"extra,omitempty"`
}

// DepartureKey identifies the aircraft-day a leg belongs to, used by the
// idle-time pass.
func (r *FlightRecord) DepartureKey() string {
	return r.AircraftPrefix + "|" + r.Date.Format("2006-01-02")
}
