package store

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"charterops/flightdeck/internal/logging"
	"charterops/flightdeck/internal/models"
)

// FormatVersion guards the snapshot wire format. Bump it whenever the
// record layout changes; old snapshots then read as cache misses and the
// next upload rebuilds them.
const FormatVersion = 1

const (
	snapshotFile = "dataset.snapshot"
	metadataFile = "cache_metadata.json"
)

type snapshotEnvelope struct {
	FormatVersion int
	Dataset       models.LoadedDataset
}

// Metadata is the JSON sidecar next to the snapshot. Status checks read
// only this file, never the full snapshot. FilteredRecords is the count
// inside the default reporting window, the latest year present in the
// data.
type Metadata struct {
	FormatVersion     int       `json:"format_version"`
	SourceName        string    `json:"source_name"`
	SourceFingerprint string    `json:"source_fingerprint"`
	SavedAt           time.Time `json:"saved_at"`
	TotalRecords      int       `json:"total_records"`
	FilteredRecords   int       `json:"filtered_records"`
}

// Status is the cheap cache health report.
type Status struct {
	Exists    bool
	Valid     bool
	SizeBytes int64
	Metadata  *Metadata
}

// SnapshotStore persists one LoadedDataset to disk. Absent, corrupt, or
// version-mismatched entries are misses, never errors.
type SnapshotStore struct {
	dir string
}

func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{dir: dir}
}

func (s *SnapshotStore) snapshotPath() string { return filepath.Join(s.dir, snapshotFile) }
func (s *SnapshotStore) metadataPath() string { return filepath.Join(s.dir, metadataFile) }

// Save writes the snapshot and its sidecar, each via write-to-temp plus
// rename so a crash mid-write leaves the previous entry intact.
func (s *SnapshotStore) Save(ds *models.LoadedDataset) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	env := snapshotEnvelope{FormatVersion: FormatVersion, Dataset: *ds}
	if err := s.writeAtomic(s.snapshotPath(), func(f *os.File) error {
		return gob.NewEncoder(f).Encode(&env)
	}); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	meta := Metadata{
		FormatVersion:     FormatVersion,
		SourceName:        ds.SourceName,
		SourceFingerprint: ds.SourceFingerprint,
		SavedAt:           time.Now().UTC(),
		TotalRecords:      len(ds.Records),
		FilteredRecords:   defaultWindowCount(ds),
	}
	if err := s.writeAtomic(s.metadataPath(), func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(&meta)
	}); err != nil {
		return fmt.Errorf("write cache metadata: %w", err)
	}

	logging.Info("dataset snapshot saved",
		"path", s.snapshotPath(),
		"records", meta.TotalRecords,
		"fingerprint", meta.SourceFingerprint,
	)
	return nil
}

// defaultWindowCount counts the records in the latest reporting year of
// the dataset.
func defaultWindowCount(ds *models.LoadedDataset) int {
	latest := 0
	for i := range ds.Records {
		if y := ds.Records[i].Year; y > latest {
			latest = y
		}
	}
	n := 0
	for i := range ds.Records {
		if ds.Records[i].Year == latest {
			n++
		}
	}
	return n
}

func (s *SnapshotStore) writeAtomic(path string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads the snapshot back. The boolean is the hit flag; a missing
// file, undecodable payload, or version mismatch is (nil, false, nil).
func (s *SnapshotStore) Load() (*models.LoadedDataset, bool, error) {
	f, err := os.Open(s.snapshotPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	var env snapshotEnvelope
	if err := gob.NewDecoder(f).Decode(&env); err != nil {
		logging.Warn("snapshot unreadable, treating as cache miss", "path", s.snapshotPath(), "error", err)
		return nil, false, nil
	}
	if env.FormatVersion != FormatVersion {
		logging.Warn("snapshot format mismatch, treating as cache miss",
			"path", s.snapshotPath(),
			"found", env.FormatVersion,
			"want", FormatVersion,
		)
		return nil, false, nil
	}

	return &env.Dataset, true, nil
}

// Status inspects the cache without deserializing the snapshot.
func (s *SnapshotStore) Status() Status {
	st := Status{}

	info, err := os.Stat(s.snapshotPath())
	if err != nil {
		return st
	}
	st.Exists = true
	st.SizeBytes = info.Size()

	raw, err := os.ReadFile(s.metadataPath())
	if err != nil {
		return st
	}
	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return st
	}
	st.Metadata = &meta
	st.Valid = meta.FormatVersion == FormatVersion
	return st
}

// Clear removes the snapshot and its sidecar. Missing files are fine.
func (s *SnapshotStore) Clear() error {
	var errs []error
	for _, path := range []string{s.snapshotPath(), s.metadataPath()} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
