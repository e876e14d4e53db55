// Package regression fits price = theta0 + theta1 * mileage with batch
// gradient descent on standardized features.
//
// The pipeline is Normalize -> Train -> Denormalize -> Predict. Every
// stage is a pure function except Train, which owns its loop state.
package regression

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDegenerateInput is returned for an empty dataset or a feature
	// whose standard deviation is zero.
	ErrDegenerateInput = errors.New("regression: degenerate input")

	// ErrInvalidConfig is returned when the training configuration cannot
	// bound the loop.
	ErrInvalidConfig = errors.New("regression: invalid training config")

	// ErrPriceOutOfRange is returned when an extrapolated price does not
	// fit in a float64.
	ErrPriceOutOfRange = errors.New("regression: estimated price out of range")
)

// Observation is one (mileage, price) data point.
type Observation struct {
	Mileage float64 `json:"mileage"`
	Price   float64 `json:"price"`
}

// Parameters are the intercept and slope in original units.
type Parameters struct {
	Theta0 float64 `json:"theta0"`
	Theta1 float64 `json:"theta1"`
}

// Predict returns the estimated price for a mileage.
func (p Parameters) Predict(mileage float64) float64 {
	return Predict(p.Theta0, p.Theta1, mileage)
}

// Estimate is Predict for callers that must report the price. It fails
// with ErrPriceOutOfRange when the result is NaN or infinite.
func (p Parameters) Estimate(mileage float64) (float64, error) {
	price := p.Predict(mileage)
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: mileage %g", ErrPriceOutOfRange, mileage)
	}
	return price, nil
}

// String formats parameters the way they are persisted.
func (p Parameters) String() string {
	return fmt.Sprintf("%g,%g", p.Theta0, p.Theta1)
}

// Predict returns theta0 + theta1 * mileage. The mileage is not range
// checked; extrapolation is left to the caller.
func Predict(theta0, theta1, mileage float64) float64 {
	return theta0 + theta1*mileage
}

// Split returns the mileage and price columns of data, in order.
func Split(data []Observation) (mileages, prices []float64) {
	mileages = make([]float64, len(data))
	prices = make([]float64, len(data))
	for i, o := range data {
		mileages[i] = o.Mileage
		prices[i] = o.Price
	}
	return mileages, prices
}
