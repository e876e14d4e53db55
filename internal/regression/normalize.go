package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// FeatureStats describes one feature column with population statistics.
type FeatureStats struct {
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	Std      float64 `json:"std"`
}

// NewFeatureStats computes mean, population variance (divisor n) and
// standard deviation of values. It fails on an empty column or a column
// with zero spread.
func NewFeatureStats(name string, values []float64) (FeatureStats, error) {
	if len(values) == 0 {
		return FeatureStats{}, fmt.Errorf("%w: %s column is empty", ErrDegenerateInput, name)
	}

	mean, variance := stat.PopMeanVariance(values, nil)
	fs := FeatureStats{
		Mean:     mean,
		Variance: variance,
		Std:      math.Sqrt(variance),
	}

	// NaN compares false, so this also rejects a non-finite spread.
	if !(fs.Std > 0) {
		return FeatureStats{}, fmt.Errorf("%w: %s has zero variance", ErrDegenerateInput, name)
	}

	return fs, nil
}

// Scale maps v to zero mean, unit variance.
func (fs FeatureStats) Scale(v float64) float64 {
	return (v - fs.Mean) / fs.Std
}

// Unscale is the inverse of Scale.
func (fs FeatureStats) Unscale(v float64) float64 {
	return v*fs.Std + fs.Mean
}

// Scaling holds the statistics of both features of a dataset.
type Scaling struct {
	Mileage FeatureStats `json:"mileage"`
	Price   FeatureStats `json:"price"`
}

// NormalizeMileage maps a raw mileage into normalized space.
func (s Scaling) NormalizeMileage(v float64) float64 { return s.Mileage.Scale(v) }

// DenormalizeMileage maps a normalized mileage back to kilometres.
func (s Scaling) DenormalizeMileage(v float64) float64 { return s.Mileage.Unscale(v) }

// NormalizePrice maps a raw price into normalized space.
func (s Scaling) NormalizePrice(v float64) float64 { return s.Price.Scale(v) }

// DenormalizePrice maps a normalized price back to currency units.
func (s Scaling) DenormalizePrice(v float64) float64 { return s.Price.Unscale(v) }

// Normalize standardizes both features of data. The returned slice is
// parallel to data; data itself is left untouched.
//
// ErrDegenerateInput is returned when data is empty or when either
// feature is constant. Callers must not train on such data: the division
// by a zero deviation would otherwise flow NaN through every iteration.
func Normalize(data []Observation) ([]Observation, Scaling, error) {
	if len(data) == 0 {
		return nil, Scaling{}, fmt.Errorf("%w: dataset is empty", ErrDegenerateInput)
	}

	mileages, prices := Split(data)

	mileageStats, err := NewFeatureStats("mileage", mileages)
	if err != nil {
		return nil, Scaling{}, err
	}
	priceStats, err := NewFeatureStats("price", prices)
	if err != nil {
		return nil, Scaling{}, err
	}

	s := Scaling{Mileage: mileageStats, Price: priceStats}

	normalized := make([]Observation, len(data))
	for i, o := range data {
		normalized[i] = Observation{
			Mileage: s.NormalizeMileage(o.Mileage),
			Price:   s.NormalizePrice(o.Price),
		}
	}

	return normalized, s, nil
}
