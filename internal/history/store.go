// Package history persists the ordered calculation history in a flat CSV
// file. The store opens, writes, and closes the file within each call; there
// is no long-lived handle. Append is a read-modify-write cycle and is safe
// only under the engine's single-writer guarantee.
package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Mask13/IS601-Midterm/internal/calculation"
)

// Store reads and writes calculation records at a fixed path.
type Store struct {
	path   string
	logger *zap.Logger
}

// NewStore returns a store backed by the file at path. The directory is
// created lazily on first write. A nil logger is replaced with a nop logger.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns all records in insertion order. A missing backing file yields
// an empty history. A row that cannot be reconstructed is skipped
// individually rather than failing the whole load.
func (s *Store) Load() ([]calculation.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history header: %w", err)
	}
	if len(header) != len(calculation.Columns) {
		return nil, fmt.Errorf("history header has %d columns, want %d", len(header), len(calculation.Columns))
	}

	var records []calculation.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A structurally broken row is skipped like a semantically
			// broken one; the rest of the file is still usable.
			s.logger.Debug("skipping unreadable history row",
				zap.Int("line", line),
				zap.Error(err),
			)
			continue
		}

		rec, err := calculation.FromRow(row)
		if err != nil {
			s.logger.Debug("skipping malformed history row",
				zap.Int("line", line),
				zap.Error(err),
			)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// Save overwrites the backing store with exactly the given records. An empty
// sequence produces a valid empty store (header only). The write goes through
// a temporary file and rename, so a crash mid-save leaves the previous
// contents intact.
func (s *Store) Save(records []calculation.Record) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create history temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(calculation.Columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write history header: %w", err)
	}
	for _, rec := range records {
		if err := writer.Write(rec.ToRow()); err != nil {
			tmp.Close()
			return fmt.Errorf("write history row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close history temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}

// Append reads the current store, appends the record, trims to the newest
// maxSize entries when maxSize is positive, and writes back the full
// sequence.
func (s *Store) Append(rec calculation.Record, maxSize int) error {
	records, err := s.Load()
	if err != nil {
		return err
	}
	records = append(records, rec)
	records = Trim(records, maxSize)
	return s.Save(records)
}

// Trim evicts the oldest records until at most maxSize remain. A maxSize of
// zero or less means unbounded. The returned slice is the input reslice; the
// caller owns both.
func Trim(records []calculation.Record, maxSize int) []calculation.Record {
	if maxSize > 0 && len(records) > maxSize {
		return records[len(records)-maxSize:]
	}
	return records
}
