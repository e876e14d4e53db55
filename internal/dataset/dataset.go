// Package dataset loads (mileage, price) observations from a two-column
// CSV file such as
//
//	km,price
//	240000,3650
//	139800,3800
//
// A header line is skipped when its first field is not a number.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/haskel/pricefit/internal/regression"
)

// ErrMalformed is returned for records that are not two decimal numbers.
var ErrMalformed = errors.New("dataset: malformed record")

// ErrInvalidMileage is returned by ParseMileage.
var ErrInvalidMileage = errors.New("dataset: invalid mileage")

// Load reads observations from the CSV file at path.
func Load(path string) ([]regression.Observation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	data, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// Read parses observations from r. The order of records is preserved.
func Read(r io.Reader) ([]regression.Observation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	data := make([]regression.Observation, 0, 128)
	first := true

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if first {
			first = false
			if isHeader(record) {
				continue
			}
		}

		obs, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		data = append(data, obs)
	}

	return data, nil
}

func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := parseNumber(record[0])
	return err != nil
}

func parseRecord(record []string) (regression.Observation, error) {
	if len(record) != 2 {
		return regression.Observation{}, fmt.Errorf("%w: expected 2 fields, got %d", ErrMalformed, len(record))
	}

	mileage, err := parseNumber(record[0])
	if err != nil {
		return regression.Observation{}, fmt.Errorf("%w: mileage %q", ErrMalformed, record[0])
	}
	price, err := parseNumber(record[1])
	if err != nil {
		return regression.Observation{}, fmt.Errorf("%w: price %q", ErrMalformed, record[1])
	}

	return regression.Observation{Mileage: mileage, Price: price}, nil
}

// ParseMileage parses a single mileage typed by a user or sent to the
// server, with the same number rules as the dataset.
func ParseMileage(s string) (float64, error) {
	v, err := parseNumber(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a finite number", ErrInvalidMileage, strings.TrimSpace(s))
	}
	return v, nil
}

// parseNumber accepts plain finite decimals only.
func parseNumber(field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", field)
	}
	return v, nil
}
