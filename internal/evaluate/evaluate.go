// Package evaluate measures how well fitted parameters explain a dataset.
package evaluate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/haskel/pricefit/internal/regression"
)

// Result holds goodness-of-fit figures for one dataset.
type Result struct {
	Observations int     `json:"observations"`
	RSquared     float64 `json:"r_squared"`
	MSE          float64 `json:"mse"`
	RMSE         float64 `json:"rmse"`
	MAE          float64 `json:"mae"`
	Rating       Rating  `json:"rating"`
}

// ExplainedPercent returns R² as a percentage.
func (r Result) ExplainedPercent() float64 {
	return r.RSquared * 100
}

// Evaluate computes R² = 1 - SSres/SStot together with error magnitudes.
// The prices must vary; otherwise R² is undefined and
// regression.ErrDegenerateInput is returned.
func Evaluate(data []regression.Observation, params regression.Parameters) (Result, error) {
	if len(data) == 0 {
		return Result{}, fmt.Errorf("%w: dataset is empty", regression.ErrDegenerateInput)
	}

	mileages, prices := regression.Split(data)

	if _, variance := stat.PopMeanVariance(prices, nil); !(variance > 0) {
		return Result{}, fmt.Errorf("%w: price has zero variance", regression.ErrDegenerateInput)
	}

	residuals := make([]float64, len(data))
	for i, o := range data {
		residuals[i] = o.Price - params.Predict(o.Mileage)
	}

	n := float64(len(data))
	mse := floats.Dot(residuals, residuals) / n
	mae := floats.Norm(residuals, 1) / n

	r2 := stat.RSquared(mileages, prices, nil, params.Theta0, params.Theta1)

	return Result{
		Observations: len(data),
		RSquared:     r2,
		MSE:          mse,
		RMSE:         math.Sqrt(mse),
		MAE:          mae,
		Rating:       Rate(r2),
	}, nil
}
