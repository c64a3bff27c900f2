package normalizer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var totalRowPattern = regexp.MustCompile(`(?i)\b(TOTAL|TOTAIS|SOMA|SUM|GERAL|GRAND|SUBTOTAL)\b`)

// isTotalMarker reports whether a cell looks like a spreadsheet total or
// subtotal row rather than a flight leg.
func isTotalMarker(cell string) bool {
	return totalRowPattern.MatchString(cell)
}

// parseMoney coerces a currency cell to a float. Accepts plain numbers,
// "R$ 1.234,56" Brazilian formatting, and "$1,234.56". Anything
// unparseable coerces to 0.
func parseMoney(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	return parseNumber(s)
}

// parseNumber handles both decimal-comma and decimal-point conventions.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		// The last separator is the decimal mark.
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != v { // NaN guard
		return 0
	}
	return v
}

// parseCount coerces a cell to a non-negative integer, 0 on failure.
func parseCount(s string) int {
	v := parseNumber(s)
	if v < 0 {
		return 0
	}
	return int(v + 0.5)
}

var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"02/01/06",
	"2/1/2006",
	"02.01.2006",
	"Jan 2, 2006",
	"2-Jan-06",
}

// parseDate accepts the date formats the exporters emit, plus raw Excel
// serial numbers for cells that lost their date style.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 59 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseClock extracts an hour and minute from a time cell. Supports
// "15:04", "15:04:05", and Excel day fractions ("0.5" is noon).
func parseClock(s string) (hour, minute int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}

	for _, layout := range []string{"15:04", "15:04:05", "3:04 PM"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour(), t.Minute(), true
		}
	}

	if frac, err := strconv.ParseFloat(s, 64); err == nil && frac >= 0 && frac < 1 {
		minutes := int(frac*24*60 + 0.5)
		return minutes / 60, minutes % 60, true
	}

	return 0, 0, false
}
