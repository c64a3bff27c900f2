package analytics

import (
	"errors"
	"testing"
	"time"

	"charterops/flightdeck/internal/constants"
	"charterops/flightdeck/internal/models"
)

func TestParseFilterUnknownKey(t *testing.T) {
	_, err := ParseFilter(map[string]string{"bogusKey": "x"})
	var ife *InvalidFilterError
	if !errors.As(err, &ife) {
		t.Fatalf("err = %v, want *InvalidFilterError", err)
	}
	if ife.Key != "bogusKey" {
		t.Errorf("key = %q, want bogusKey", ife.Key)
	}
}

func TestParseFilterMalformedValues(t *testing.T) {
	bad := []map[string]string{
		{"category": "seaplane"},
		{"commercial": "perhaps"},
		{"months": "13"},
		{"months": "1,two"},
		{"date_from": "03/03/2025"},
		{"hour_from": "25"},
		{"pax_min": "-1"},
		{"revenue_max": "lots"},
	}
	for _, params := range bad {
		if _, err := ParseFilter(params); err == nil {
			t.Errorf("ParseFilter(%v) succeeded, want error", params)
		}
	}
}

func TestParseFilterValid(t *testing.T) {
	f, err := ParseFilter(map[string]string{
		"category":   "shuttle",
		"months":     "1, 2,3",
		"year":       "2025",
		"commercial": "true",
		"date_from":  "2025-01-01",
		"date_to":    "2025-03-31",
	})
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if *f.Category != constants.CategoryShuttle {
		t.Errorf("category = %s", *f.Category)
	}
	if len(f.Months) != 3 {
		t.Errorf("months = %v", f.Months)
	}
	if !*f.Commercial || *f.Year != 2025 {
		t.Error("commercial/year not captured")
	}
}

func TestFilterCacheKeyIsValueBased(t *testing.T) {
	params := map[string]string{
		"category":  "charter",
		"months":    "3,1,2",
		"year":      "2025",
		"date_from": "2025-01-01",
	}
	f1, err := ParseFilter(params)
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	f2, err := ParseFilter(params)
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}

	// Separately built filters with equal values share a key; the
	// pointer fields inside must not leak into it.
	if f1.CacheKey() != f2.CacheKey() {
		t.Errorf("keys differ for equal filters:\n%q\n%q", f1.CacheKey(), f2.CacheKey())
	}

	shuttle, err := ParseFilter(map[string]string{"category": "shuttle"})
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	charter, err := ParseFilter(map[string]string{"category": "charter"})
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if shuttle.CacheKey() == charter.CacheKey() {
		t.Error("different categories must not collide")
	}

	var nilFilter *Filter
	if nilFilter.CacheKey() != (&Filter{}).CacheKey() {
		t.Error("nil and zero filters both match everything and should share a key")
	}
}

func TestFilterMatchesConjunctively(t *testing.T) {
	d := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	rec := models.FlightRecord{
		Date:           d,
		AircraftModel:  "EC135",
		AircraftPrefix: "PR-HTC",
		Route:          "SBSP → SBRJ",
		Category:       constants.CategoryCharter,
		Commercial:     true,
		Pax:            4,
		Revenue:        20000,
		Hour:           9,
		Month:          3,
		Year:           2025,
	}

	cat := constants.CategoryCharter
	f := &Filter{Category: &cat, Model: "ec135"}
	if !f.Matches(&rec) {
		t.Error("matching category+model rejected")
	}

	other := constants.CategoryShuttle
	f = &Filter{Category: &other, Model: "ec135"}
	if f.Matches(&rec) {
		t.Error("one failing clause should reject the record")
	}
}

func TestFilterDateToIsInclusive(t *testing.T) {
	f, err := ParseFilter(map[string]string{"date_to": "2025-03-03"})
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	rec := models.FlightRecord{Date: time.Date(2025, 3, 3, 18, 30, 0, 0, time.UTC)}
	if !f.Matches(&rec) {
		t.Error("a flight on the date_to day should pass the filter")
	}
}

func TestFilterHourRangeExcludesUnknownHours(t *testing.T) {
	h := 8
	f := &Filter{HourFrom: &h}
	rec := models.FlightRecord{Hour: -1}
	if f.Matches(&rec) {
		t.Error("records without a clock time should not pass an hour-range filter")
	}
}

func TestFilterEmptyLegToggle(t *testing.T) {
	f, err := ParseFilter(map[string]string{"include_empty_leg": "false"})
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	empty := models.FlightRecord{Category: constants.CategoryNonRevenue}
	paying := models.FlightRecord{Category: constants.CategoryCharter}
	if f.Matches(&empty) {
		t.Error("empty leg should be excluded")
	}
	if !f.Matches(&paying) {
		t.Error("paying leg should pass")
	}
}
