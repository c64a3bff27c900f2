package derive

import (
	"strings"

	"charterops/flightdeck/internal/constants"
	"charterops/flightdeck/internal/models"
)

// Rule maps a predicate to a category. Rules are evaluated in slice order
// and the first match wins, so priority lives in the list, not in code
// paths. An explicit classification hint on the record always beats the
// rule list.
type Rule struct {
	Name     string
	Category constants.FlightCategory
	Match    func(*models.FlightRecord) bool
}

func containsAny(s string, words ...string) bool {
	s = strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func hintText(r *models.FlightRecord) string {
	return r.Classification + " " + r.TypeOfFlight + " " + r.SalesModel
}

// DefaultRules is the default priority order:
// hangar > empty-leg/non-revenue > shuttle > charter > commercial.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "hangar",
			Category: constants.CategoryHangar,
			Match: func(r *models.FlightRecord) bool {
				if containsAny(hintText(r), "hangar") {
					return true
				}
				return r.Pax == 0 && r.Revenue == 0 && r.Origin != "" && r.Origin == r.Destination
			},
		},
		{
			Name:     "empty-leg",
			Category: constants.CategoryNonRevenue,
			Match: func(r *models.FlightRecord) bool {
				if containsAny(hintText(r), "empty", "ferry", "translado", "posicionamento", "marketing", "courtesy", "cortesia") {
					return true
				}
				return r.Pax == 0 && r.Revenue == 0
			},
		},
		{
			Name:     "shuttle",
			Category: constants.CategoryShuttle,
			Match: func(r *models.FlightRecord) bool {
				return containsAny(hintText(r), "shuttle", "linha", "seat")
			},
		},
		{
			Name:     "charter",
			Category: constants.CategoryCharter,
			Match: func(r *models.FlightRecord) bool {
				return containsAny(hintText(r), "charter", "fretamento") || r.Revenue > 0
			},
		},
	}
}

// Classifier assigns exactly one category per record. A zero Classifier
// uses DefaultRules.
type Classifier struct {
	Rules []Rule
}

// Classify never returns an empty category; when no hint and no rule
// matches the record is a plain commercial leg.
func (c *Classifier) Classify(r *models.FlightRecord) constants.FlightCategory {
	if cat, ok := constants.ParseCategory(r.Classification); ok {
		return cat
	}

	rules := c.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	for _, rule := range rules {
		if rule.Match(r) {
			return rule.Category
		}
	}
	return constants.CategoryCommercial
}
