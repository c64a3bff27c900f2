package models

import (
	"time"

	"github.com/google/uuid"
)

// LoadedDataset is the in-memory product of one spreadsheet ingestion.
type LoadedDataset struct {
	ID                uuid.UUID      `json:"id"`
	SourceName        string         `json:"source_name"`
	SourceFingerprint string         `json:"source_fingerprint"`
	LoadedAt          time.Time      `json:"loaded_at"`
	Records           []FlightRecord `json:"records"`
	DroppedRows       int            `json:"dropped_rows"`
	TotalRowsRemoved  int            `json:"total_rows_removed"`
	SkippedSheets     []string       `json:"skipped_sheets,omitempty"`
	Warnings          []string       `json:"warnings,omitempty"`
}

// RecordCount returns the number of usable flight records.
func (d *LoadedDataset) RecordCount() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}
