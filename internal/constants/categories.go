package constants

// FlightCategory tags a flight leg with exactly one operational category.
type FlightCategory string

const (
	CategoryCommercial FlightCategory = "commercial"
	CategoryShuttle    FlightCategory = "shuttle"
	CategoryCharter    FlightCategory = "charter"
	CategoryNonRevenue FlightCategory = "non_revenue"
	CategoryHangar     FlightCategory = "hangar"
)

// Categories lists every valid category in reporting order.
var Categories = []FlightCategory{
	CategoryCommercial,
	CategoryShuttle,
	CategoryCharter,
	CategoryNonRevenue,
	CategoryHangar,
}

func (c FlightCategory) Valid() bool {
	for _, cat := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// ParseCategory maps a user-facing category string onto the enum.
func ParseCategory(s string) (FlightCategory, bool) {
	c := FlightCategory(s)
	if c.Valid() {
		return c, true
	}
	// Friendly aliases used by the dashboard UI.
	switch s {
	case "empty_leg", "empty-leg", "nonrevenue":
		return CategoryNonRevenue, true
	}
	return "", false
}
