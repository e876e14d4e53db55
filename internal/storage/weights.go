package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/haskel/pricefit/internal/regression"
)

// ErrMalformedWeights is returned by ParseWeights for content that is not
// two comma-separated numbers.
var ErrMalformedWeights = errors.New("storage: malformed weights")

// WeightsStore reads and writes the "theta0,theta1" weights file.
type WeightsStore struct {
	path   string
	logger *slog.Logger
}

// NewWeightsStore creates a store for the weights file at path.
func NewWeightsStore(path string, logger *slog.Logger) *WeightsStore {
	return &WeightsStore{path: path, logger: logger}
}

// Path returns the weights file path.
func (s *WeightsStore) Path() string {
	return s.path
}

// Load returns the persisted parameters. A missing or malformed file
// yields Parameters{0, 0} and a warning; it is never an error, so an
// untrained model still predicts (zero) prices.
func (s *WeightsStore) Load() regression.Parameters {
	params, err := s.Read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("no weights file, using defaults", "path", s.path)
		} else {
			s.logger.Warn("failed to read weights, using defaults", "path", s.path, "error", err)
		}
		return regression.Parameters{}
	}

	s.logger.Debug("loaded weights", "path", s.path, "theta0", params.Theta0, "theta1", params.Theta1)
	return params
}

// Read is Load without the fallback.
func (s *WeightsStore) Read() (regression.Parameters, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return regression.Parameters{}, err
	}
	return ParseWeights(string(data))
}

// Save overwrites the weights file with params.
func (s *WeightsStore) Save(params regression.Parameters) error {
	err := writeAtomic(s.path, func(w io.Writer) error {
		_, err := io.WriteString(w, FormatWeights(params)+"\n")
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save weights: %w", err)
	}

	s.logger.Debug("saved weights", "path", s.path)
	return nil
}

// Info returns information about the weights file.
func (s *WeightsStore) Info() FileInfo {
	return statFile(s.path)
}

// FormatWeights renders params with the shortest representation that
// parses back to the same values.
func FormatWeights(params regression.Parameters) string {
	return strconv.FormatFloat(params.Theta0, 'g', -1, 64) + "," +
		strconv.FormatFloat(params.Theta1, 'g', -1, 64)
}

// ParseWeights parses "theta0,theta1". Surrounding whitespace and a
// trailing newline are accepted.
func ParseWeights(content string) (regression.Parameters, error) {
	fields := strings.Split(strings.TrimSpace(content), ",")
	if len(fields) != 2 {
		return regression.Parameters{}, fmt.Errorf("%w: expected 2 fields, got %d", ErrMalformedWeights, len(fields))
	}

	theta0, err := parseFinite(fields[0])
	if err != nil {
		return regression.Parameters{}, fmt.Errorf("%w: theta0: %v", ErrMalformedWeights, err)
	}
	theta1, err := parseFinite(fields[1])
	if err != nil {
		return regression.Parameters{}, fmt.Errorf("%w: theta1: %v", ErrMalformedWeights, err)
	}

	return regression.Parameters{Theta0: theta0, Theta1: theta1}, nil
}

func parseFinite(field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", field)
	}
	return v, nil
}
