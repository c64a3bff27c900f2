package analytics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"charterops/flightdeck/internal/constants"
	"charterops/flightdeck/internal/models"
)

// InvalidFilterError rejects a query whose filter carries an unknown key
// or a malformed value. Silently ignoring a typo'd filter would return
// unfiltered data, which is worse than failing the query.
type InvalidFilterError struct {
	Key    string
	Value  string
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter %s=%q: %s", e.Key, e.Value, e.Reason)
}

// Filter is a conjunctive predicate set over flight records. Nil pointer
// fields mean "no constraint on this dimension". The zero Filter matches
// everything.
type Filter struct {
	Category   *constants.FlightCategory
	Model      string
	Prefix     string
	Route      string
	Client     string
	Commercial *bool

	Months []int
	Year   *int

	DateFrom *time.Time
	DateTo   *time.Time

	HourFrom *int
	HourTo   *int

	PaxMin *int
	PaxMax *int

	RevenueMin *float64
	RevenueMax *float64

	IncludeEmptyLeg *bool
	IncludeHangar   *bool
}

// CacheKey renders the set constraints in a fixed field order, so two
// filters with equal values always produce the same key regardless of
// how they were built. Unset fields are omitted.
func (f *Filter) CacheKey() string {
	if f == nil {
		return "all"
	}

	var b strings.Builder
	add := func(name, val string) {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(val)
		b.WriteByte(';')
	}

	if f.Category != nil {
		add("category", string(*f.Category))
	}
	if f.Model != "" {
		add("model", strings.ToLower(f.Model))
	}
	if f.Prefix != "" {
		add("prefix", strings.ToLower(f.Prefix))
	}
	if f.Route != "" {
		add("route", strings.ToLower(f.Route))
	}
	if f.Client != "" {
		add("client", strings.ToLower(f.Client))
	}
	if f.Commercial != nil {
		add("commercial", strconv.FormatBool(*f.Commercial))
	}
	if len(f.Months) > 0 {
		months := append([]int(nil), f.Months...)
		sort.Ints(months)
		parts := make([]string, len(months))
		for i, m := range months {
			parts[i] = strconv.Itoa(m)
		}
		add("months", strings.Join(parts, ","))
	}
	if f.Year != nil {
		add("year", strconv.Itoa(*f.Year))
	}
	if f.DateFrom != nil {
		add("date_from", f.DateFrom.Format(time.RFC3339Nano))
	}
	if f.DateTo != nil {
		add("date_to", f.DateTo.Format(time.RFC3339Nano))
	}
	if f.HourFrom != nil {
		add("hour_from", strconv.Itoa(*f.HourFrom))
	}
	if f.HourTo != nil {
		add("hour_to", strconv.Itoa(*f.HourTo))
	}
	if f.PaxMin != nil {
		add("pax_min", strconv.Itoa(*f.PaxMin))
	}
	if f.PaxMax != nil {
		add("pax_max", strconv.Itoa(*f.PaxMax))
	}
	if f.RevenueMin != nil {
		add("revenue_min", strconv.FormatFloat(*f.RevenueMin, 'g', -1, 64))
	}
	if f.RevenueMax != nil {
		add("revenue_max", strconv.FormatFloat(*f.RevenueMax, 'g', -1, 64))
	}
	if f.IncludeEmptyLeg != nil {
		add("include_empty_leg", strconv.FormatBool(*f.IncludeEmptyLeg))
	}
	if f.IncludeHangar != nil {
		add("include_hangar", strconv.FormatBool(*f.IncludeHangar))
	}

	if b.Len() == 0 {
		return "all"
	}
	return b.String()
}

// Matches applies every set constraint; filters compose with AND.
func (f *Filter) Matches(r *models.FlightRecord) bool {
	if f == nil {
		return true
	}
	if f.Category != nil && r.Category != *f.Category {
		return false
	}
	if f.Model != "" && !strings.EqualFold(r.AircraftModel, f.Model) {
		return false
	}
	if f.Prefix != "" && !strings.EqualFold(r.AircraftPrefix, f.Prefix) {
		return false
	}
	if f.Route != "" && !strings.EqualFold(r.Route, f.Route) {
		return false
	}
	if f.Client != "" && !strings.EqualFold(r.Client, f.Client) {
		return false
	}
	if f.Commercial != nil && r.Commercial != *f.Commercial {
		return false
	}
	if len(f.Months) > 0 {
		found := false
		for _, m := range f.Months {
			if r.Month == m {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Year != nil && r.Year != *f.Year {
		return false
	}
	if f.DateFrom != nil && r.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && r.Date.After(*f.DateTo) {
		return false
	}
	if f.HourFrom != nil && (r.Hour < 0 || r.Hour < *f.HourFrom) {
		return false
	}
	if f.HourTo != nil && (r.Hour < 0 || r.Hour > *f.HourTo) {
		return false
	}
	if f.PaxMin != nil && r.Pax < *f.PaxMin {
		return false
	}
	if f.PaxMax != nil && r.Pax > *f.PaxMax {
		return false
	}
	if f.RevenueMin != nil && r.Revenue < *f.RevenueMin {
		return false
	}
	if f.RevenueMax != nil && r.Revenue > *f.RevenueMax {
		return false
	}
	if f.IncludeEmptyLeg != nil && !*f.IncludeEmptyLeg && r.Category == constants.CategoryNonRevenue {
		return false
	}
	if f.IncludeHangar != nil && !*f.IncludeHangar && r.Category == constants.CategoryHangar {
		return false
	}
	return true
}

// ParseFilter builds a Filter from query-style key/value pairs. Unknown
// keys and malformed values fail the whole parse.
func ParseFilter(params map[string]string) (*Filter, error) {
	f := &Filter{}
	for key, value := range params {
		if err := f.apply(key, value); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *Filter) apply(key, value string) error {
	switch key {
	case "category":
		cat, ok := constants.ParseCategory(value)
		if !ok {
			return &InvalidFilterError{Key: key, Value: value, Reason: "unknown category"}
		}
		f.Category = &cat
	case "model":
		f.Model = value
	case "prefix":
		f.Prefix = value
	case "route":
		f.Route = value
	case "client":
		f.Client = value
	case "commercial":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &InvalidFilterError{Key: key, Value: value, Reason: "not a boolean"}
		}
		f.Commercial = &b
	case "months":
		for _, part := range strings.Split(value, ",") {
			m, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || m < 1 || m > 12 {
				return &InvalidFilterError{Key: key, Value: value, Reason: "months must be 1-12"}
			}
			f.Months = append(f.Months, m)
		}
	case "year":
		y, err := strconv.Atoi(value)
		if err != nil {
			return &InvalidFilterError{Key: key, Value: value, Reason: "not a year"}
		}
		f.Year = &y
	case "date_from", "date_to":
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			return &InvalidFilterError{Key: key, Value: value, Reason: "expected YYYY-MM-DD"}
		}
		if key == "date_from" {
			f.DateFrom = &t
		} else {
			end := t.Add(24*time.Hour - time.Nanosecond)
			f.DateTo = &end
		}
	case "hour_from", "hour_to":
		h, err := strconv.Atoi(value)
		if err != nil || h < 0 || h > 23 {
			return &InvalidFilterError{Key: key, Value: value, Reason: "hour must be 0-23"}
		}
		if key == "hour_from" {
			f.HourFrom = &h
		} else {
			f.HourTo = &h
		}
	case "pax_min", "pax_max":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return &InvalidFilterError{Key: key, Value: value, Reason: "not a non-negative integer"}
		}
		if key == "pax_min" {
			f.PaxMin = &n
		} else {
			f.PaxMax = &n
		}
	case "revenue_min", "revenue_max":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 {
			return &InvalidFilterError{Key: key, Value: value, Reason: "not a non-negative number"}
		}
		if key == "revenue_min" {
			f.RevenueMin = &v
		} else {
			f.RevenueMax = &v
		}
	case "include_empty_leg", "include_hangar":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &InvalidFilterError{Key: key, Value: value, Reason: "not a boolean"}
		}
		if key == "include_empty_leg" {
			f.IncludeEmptyLeg = &b
		} else {
			f.IncludeHangar = &b
		}
	default:
		return &InvalidFilterError{Key: key, Value: value, Reason: "unknown filter key"}
	}
	return nil
}
