package store

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"charterops/flightdeck/internal/constants"
	"charterops/flightdeck/internal/models"
)

func sampleDataset() *models.LoadedDataset {
	return &models.LoadedDataset{
		ID:                uuid.New(),
		SourceName:        "march.xlsx",
		SourceFingerprint: "v1:2:abc123",
		LoadedAt:          time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC),
		Records: []models.FlightRecord{
			{
				Seq:            0,
				Date:           time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
				AircraftModel:  "Citation",
				AircraftPrefix: "N123AB",
				Origin:         "SBSP",
				Destination:    "SBRJ",
				Route:          "SBSP → SBRJ",
				Category:       constants.CategoryCharter,
				Commercial:     true,
				Revenue:        20000,
				Pax:            4,
				FlightHours:    1.2,
				Landings:       1,
				Month:          3,
				Year:           2025,
				Extra:          map[string]string{"dispatcher notes": "none"},
			},
			{
				Seq:            1,
				Date:           time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
				AircraftModel:  "Citation",
				AircraftPrefix: "N123AB",
				Category:       constants.CategoryNonRevenue,
				Hour:           -1,
				Month:          3,
				Year:           2025,
			},
		},
		DroppedRows:      1,
		TotalRowsRemoved: 2,
		Warnings:         []string{"skipped sheet \"Notes\""},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := NewSnapshotStore(t.TempDir())
	ds := sampleDataset()

	if err := s.Save(ds); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, hit, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !hit {
		t.Fatal("Load reported a miss for a freshly saved snapshot")
	}
	if !reflect.DeepEqual(got, ds) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, ds)
	}
}

func TestLoadMissingFileIsMiss(t *testing.T) {
	s := NewSnapshotStore(t.TempDir())
	ds, hit, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if hit || ds != nil {
		t.Error("empty directory should be a clean miss")
	}
}

func TestLoadCorruptSnapshotIsMiss(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "dataset.snapshot"), []byte("not a gob stream"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewSnapshotStore(dir)
	_, hit, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if hit {
		t.Error("corrupt snapshot should be a miss, not a hit")
	}
}

func TestLoadVersionMismatchIsMiss(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "dataset.snapshot"))
	if err != nil {
		t.Fatal(err)
	}
	env := snapshotEnvelope{FormatVersion: FormatVersion + 1, Dataset: *sampleDataset()}
	if err := gob.NewEncoder(f).Encode(&env); err != nil {
		t.Fatal(err)
	}
	f.Close()

	s := NewSnapshotStore(dir)
	_, hit, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if hit {
		t.Error("version-mismatched snapshot should be a miss")
	}

	// A fresh save must recover the store.
	if err := s.Save(sampleDataset()); err != nil {
		t.Fatalf("Save after mismatch: %v", err)
	}
	if _, hit, _ := s.Load(); !hit {
		t.Error("save after a mismatch should produce a loadable snapshot")
	}
}

func TestStatusReadsSidecarOnly(t *testing.T) {
	s := NewSnapshotStore(t.TempDir())
	ds := sampleDataset()
	if err := s.Save(ds); err != nil {
		t.Fatalf("Save: %v", err)
	}

	st := s.Status()
	if !st.Exists || !st.Valid {
		t.Fatalf("status = %+v, want exists and valid", st)
	}
	if st.Metadata == nil || st.Metadata.TotalRecords != 2 {
		t.Errorf("metadata = %+v, want total records 2", st.Metadata)
	}
	if st.Metadata.SourceFingerprint != ds.SourceFingerprint {
		t.Errorf("fingerprint = %q", st.Metadata.SourceFingerprint)
	}
	if st.SizeBytes <= 0 {
		t.Errorf("size = %d, want > 0", st.SizeBytes)
	}
}

func TestMetadataFilteredRecordsUseLatestYear(t *testing.T) {
	s := NewSnapshotStore(t.TempDir())
	ds := sampleDataset()
	ds.Records[0].Year = 2024
	ds.Records[0].Date = time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC)
	ds.Records[0].Month = 3

	if err := s.Save(ds); err != nil {
		t.Fatalf("Save: %v", err)
	}

	st := s.Status()
	if st.Metadata == nil {
		t.Fatal("missing metadata sidecar")
	}
	if st.Metadata.TotalRecords != 2 {
		t.Errorf("total records = %d, want 2", st.Metadata.TotalRecords)
	}
	if st.Metadata.FilteredRecords != 1 {
		t.Errorf("filtered records = %d, want 1 (2025 only)", st.Metadata.FilteredRecords)
	}
}

func TestStatusEmptyDir(t *testing.T) {
	s := NewSnapshotStore(t.TempDir())
	st := s.Status()
	if st.Exists || st.Valid || st.Metadata != nil {
		t.Errorf("status = %+v, want empty", st)
	}
}

func TestClear(t *testing.T) {
	s := NewSnapshotStore(t.TempDir())
	if err := s.Save(sampleDataset()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if st := s.Status(); st.Exists {
		t.Error("snapshot should be gone after Clear")
	}
	// Clearing an empty store is not an error.
	if err := s.Clear(); err != nil {
		t.Errorf("Clear on empty store: %v", err)
	}
}

func TestSaveOverwritesPreviousEntry(t *testing.T) {
	s := NewSnapshotStore(t.TempDir())
	first := sampleDataset()
	if err := s.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := sampleDataset()
	second.SourceName = "april.xlsx"
	second.Records = second.Records[:1]
	if err := s.Save(second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, hit, err := s.Load()
	if err != nil || !hit {
		t.Fatalf("Load: hit=%v err=%v", hit, err)
	}
	if got.SourceName != "april.xlsx" || len(got.Records) != 1 {
		t.Errorf("loaded %s with %d records, want the replacement", got.SourceName, len(got.Records))
	}
}
