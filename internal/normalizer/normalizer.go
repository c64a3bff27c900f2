package normalizer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"charterops/flightdeck/internal/logging"
	"charterops/flightdeck/internal/models"
)

// ErrNoData means the workbook opened fine but no sheet matched the
// naming convention, so there is nothing to load.
var ErrNoData = errors.New("no parseable sheets found in workbook")

// ParseError wraps a malformed or unreadable workbook. The load fails but
// the previously active dataset stays untouched.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Result is the normalizer output, one ordered record per flight leg.
// Records are pre-derivation: category, route, cost, and bucket fields are
// filled by the derivation stage.
type Result struct {
	Records          []models.FlightRecord
	DroppedRows      int
	TotalRowsRemoved int
	SheetsParsed     int
	SkippedSheets    []string
	Warnings         []string
}

type sheetResult struct {
	records          []models.FlightRecord
	droppedRows      int
	totalRowsRemoved int
	warnings         []string
}

// Normalize parses a full workbook into partially-filled flight records.
// Sheets are converted concurrently but merged in workbook order, so the
// output is deterministic for identical input bytes.
func Normalize(ctx context.Context, data []byte, sourceName string) (*Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Source: sourceName, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	res := &Result{}

	type parseJob struct {
		meta SheetMeta
		rows [][]string
	}

	// Row extraction stays on this goroutine; the excelize file handle is
	// not safe for concurrent readers.
	jobs := make([]*parseJob, 0, len(sheets))
	for _, name := range sheets {
		meta, err := ParseSheetName(name)
		if err != nil {
			res.SkippedSheets = append(res.SkippedSheets, name)
			res.Warnings = append(res.Warnings, fmt.Sprintf("skipped sheet %q: %v", name, err))
			continue
		}
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, &ParseError{Source: sourceName, Err: fmt.Errorf("sheet %q: %w", name, err)}
		}
		jobs = append(jobs, &parseJob{meta: meta, rows: rows})
	}

	if len(jobs) == 0 {
		return nil, ErrNoData
	}
	res.SheetsParsed = len(jobs)

	results := make([]*sheetResult, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = normalizeSheet(job.meta, job.rows)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, sr := range results {
		for _, rec := range sr.records {
			rec.Seq = len(res.Records)
			res.Records = append(res.Records, rec)
		}
		res.DroppedRows += sr.droppedRows
		res.TotalRowsRemoved += sr.totalRowsRemoved
		res.Warnings = append(res.Warnings, sr.warnings...)
	}

	logging.Info("workbook normalized",
		"source", sourceName,
		"sheets", len(jobs),
		"records", len(res.Records),
		"dropped_rows", res.DroppedRows,
		"total_rows_removed", res.TotalRowsRemoved,
		"skipped_sheets", len(res.SkippedSheets),
	)
	return res, nil
}

// normalizeSheet converts one sheet's rows. The first non-empty row is the
// header row; everything after it is flight data.
func normalizeSheet(meta SheetMeta, rows [][]string) *sheetResult {
	sr := &sheetResult{}

	headerIdx := -1
	for i, row := range rows {
		if rowHasContent(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		sr.warnings = append(sr.warnings, fmt.Sprintf("sheet %s - %s - %d-%d is empty",
			meta.Model, meta.Prefix, meta.Month, meta.Year))
		return sr
	}

	fields, extras := mapHeaders(rows[headerIdx])

	for _, row := range rows[headerIdx+1:] {
		if !rowHasContent(row) {
			continue
		}
		if rowIsTotal(row, fields) {
			sr.totalRowsRemoved++
			continue
		}

		rec, ok := buildRecord(meta, row, fields, extras)
		if !ok {
			sr.droppedRows++
			continue
		}
		sr.records = append(sr.records, rec)
	}

	return sr
}

func rowHasContent(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

// rowIsTotal checks the date, origin, destination, and type cells for
// total/subtotal markers left in by the exporters.
func rowIsTotal(row []string, fields map[int]field) bool {
	for i, f := range fields {
		switch f {
		case fieldDate, fieldOrigin, fieldDestination, fieldTypeOfFlight:
			if i < len(row) && isTotalMarker(row[i]) {
				return true
			}
		}
	}
	return false
}

func buildRecord(meta SheetMeta, row []string, fields map[int]field, extras map[int]string) (models.FlightRecord, bool) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	rec := models.FlightRecord{
		AircraftModel:  meta.Model,
		AircraftPrefix: meta.Prefix,
		Month:          meta.Month,
		Year:           meta.Year,
		Landings:       1,
		Hour:           -1,
	}

	var clockCell string
	for i, f := range fields {
		v := cell(i)
		switch f {
		case fieldDate:
			if t, ok := parseDate(v); ok {
				rec.Date = t
			}
		case fieldTime:
			clockCell = v
		case fieldOrigin:
			rec.Origin = strings.ToUpper(v)
		case fieldDestination:
			rec.Destination = strings.ToUpper(v)
		case fieldPrefix:
			if v != "" {
				rec.AircraftPrefix = strings.ToUpper(v)
			}
		case fieldRevenue:
			rec.Revenue = parseMoney(v)
		case fieldPax:
			rec.Pax = parseCount(v)
		case fieldHours:
			rec.FlightHours = parseNumber(v)
		case fieldLandings:
			if n := parseCount(v); n > 0 {
				rec.Landings = n
			}
		case fieldTypeOfFlight:
			rec.TypeOfFlight = v
		case fieldSalesModel:
			rec.SalesModel = v
		case fieldClassification:
			rec.Classification = v
		case fieldClient:
			rec.Client = v
		}
	}

	// Date and an aircraft identity are mandatory; the sheet prefix
	// usually supplies the latter.
	if rec.Date.IsZero() || rec.AircraftPrefix == "" {
		return models.FlightRecord{}, false
	}

	if h, m, ok := parseClock(clockCell); ok {
		rec.Date = time.Date(rec.Date.Year(), rec.Date.Month(), rec.Date.Day(), h, m, 0, 0, rec.Date.Location())
		rec.HasClockTime = true
	}

	if rec.Revenue < 0 {
		rec.Revenue = 0
	}
	if rec.FlightHours < 0 {
		rec.FlightHours = 0
	}

	for i, name := range extras {
		if v := cell(i); v != "" {
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[name] = v
		}
	}

	return rec, true
}
