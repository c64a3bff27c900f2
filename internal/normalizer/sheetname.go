package normalizer

import (
	"fmt"
	"strings"
)

// SheetMeta is what a conforming sheet name encodes: which airframe the
// sheet reports on and for which reporting period.
type SheetMeta struct {
	Model  string
	Prefix string
	Month  int
	Year   int
}

// monthsByName accepts English and Portuguese month names, full or
// three-letter, matched after lowercasing.
var monthsByName = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5,
	"june": 6, "july": 7, "august": 8, "september": 9, "october": 10,
	"november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7,
	"aug": 8, "sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
	"janeiro": 1, "fevereiro": 2, "março": 3, "marco": 3, "abril": 4,
	"maio": 5, "junho": 6, "julho": 7, "agosto": 8, "setembro": 9,
	"outubro": 10, "novembro": 11, "dezembro": 12,
	"fev": 2, "abr": 4, "mai": 5, "ago": 8, "set": 9, "out": 10, "dez": 12,
}

// ParseSheetName parses the `Model - Prefix - Month-Year` convention.
// Separators between the three segments are " - "; the month and year
// within the last segment are joined by a bare hyphen.
func ParseSheetName(name string) (SheetMeta, error) {
	parts := strings.Split(name, " - ")
	if len(parts) != 3 {
		return SheetMeta{}, fmt.Errorf("sheet name %q does not match Model - Prefix - Month-Year", name)
	}

	model := strings.TrimSpace(parts[0])
	prefix := strings.ToUpper(strings.TrimSpace(parts[1]))
	period := strings.TrimSpace(parts[2])
	if model == "" || prefix == "" {
		return SheetMeta{}, fmt.Errorf("sheet name %q has an empty model or prefix segment", name)
	}

	monthStr, yearStr, ok := strings.Cut(period, "-")
	if !ok {
		return SheetMeta{}, fmt.Errorf("sheet name %q has no Month-Year segment", name)
	}

	month, ok := monthsByName[strings.ToLower(strings.TrimSpace(monthStr))]
	if !ok {
		return SheetMeta{}, fmt.Errorf("sheet name %q has unknown month %q", name, monthStr)
	}

	var year int
	if _, err := fmt.Sscanf(strings.TrimSpace(yearStr), "%d", &year); err != nil || year < 1000 || year > 9999 {
		return SheetMeta{}, fmt.Errorf("sheet name %q has invalid year %q", name, yearStr)
	}

	return SheetMeta{Model: model, Prefix: prefix, Month: month, Year: year}, nil
}
