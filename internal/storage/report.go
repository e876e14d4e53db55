package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ErrNoReport is returned by ReportStore.Load when nothing was saved yet.
var ErrNoReport = errors.New("storage: no training report")

// ReportStore persists a JSON document next to the weights file. It never
// feeds the model: the weights file alone defines predictions.
type ReportStore struct {
	path   string
	logger *slog.Logger
}

// NewReportStore creates a store for the report at path. An empty path
// disables the store: Save is a no-op and Load returns ErrNoReport.
func NewReportStore(path string, logger *slog.Logger) *ReportStore {
	return &ReportStore{path: path, logger: logger}
}

// Enabled reports whether the store has a path.
func (s *ReportStore) Enabled() bool {
	return s.path != ""
}

// Path returns the report path.
func (s *ReportStore) Path() string {
	return s.path
}

// Save writes v as indented JSON.
func (s *ReportStore) Save(v any) error {
	if !s.Enabled() {
		return nil
	}

	err := writeAtomic(s.path, func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	})
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	s.logger.Debug("saved training report", "path", s.path)
	return nil
}

// Load decodes the saved report into v.
func (s *ReportStore) Load(v any) error {
	if !s.Enabled() {
		return ErrNoReport
	}

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNoReport
		}
		return fmt.Errorf("failed to open report: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(v); err != nil {
		return fmt.Errorf("failed to decode report: %w", err)
	}
	return nil
}
