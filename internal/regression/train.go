package regression

import (
	"fmt"
	"math"
)

// TrainConfig configures a gradient descent run. There are no hidden
// defaults: every field is used as given.
type TrainConfig struct {
	// LearningRate is the step size. It is not validated; a value that is
	// too large makes the cost grow or become NaN.
	LearningRate float64 `json:"learning_rate"`

	// MaxIterations bounds the loop even when Epsilon is set.
	MaxIterations int `json:"max_iterations"`

	// Epsilon stops the run once the absolute change in cost between two
	// consecutive iterations drops below it. Zero or negative disables
	// early stopping.
	Epsilon float64 `json:"epsilon"`

	// RecordHistory keeps the cost after every iteration in Result.History.
	RecordHistory bool `json:"-"`
}

// Validate checks that the configuration bounds the loop.
func (c TrainConfig) Validate() error {
	if c.MaxIterations < 0 {
		return fmt.Errorf("%w: max iterations must be non-negative, got %d", ErrInvalidConfig, c.MaxIterations)
	}
	return nil
}

// Result is the observable state of the optimizer when it stops.
type Result struct {
	Beta0      float64   `json:"beta0"`
	Beta1      float64   `json:"beta1"`
	Iterations int       `json:"iterations"`
	Cost       float64   `json:"cost"`
	Converged  bool      `json:"converged"`
	History    []float64 `json:"history,omitempty"`
}

// Diverged reports whether the final cost is not a finite number.
func (r Result) Diverged() bool {
	return math.IsNaN(r.Cost) || math.IsInf(r.Cost, 0)
}

// Cost returns the mean squared error cost 1/(2m) * Σ(b0 + b1*x - y)².
func Cost(data []Observation, beta0, beta1 float64) float64 {
	var sum float64
	for _, o := range data {
		r := beta0 + beta1*o.Mileage - o.Price
		sum += r * r
	}
	return sum / (2 * float64(len(data)))
}

// gradient returns the partial derivatives of Cost at (beta0, beta1).
func gradient(data []Observation, beta0, beta1 float64) (grad0, grad1 float64) {
	for _, o := range data {
		r := beta0 + beta1*o.Mileage - o.Price
		grad0 += r
		grad1 += r * o.Mileage
	}
	m := float64(len(data))
	return grad0 / m, grad1 / m
}

// Train runs batch gradient descent on normalized data starting at (0, 0).
//
// Both parameters are updated from the same pre-update values. The loop
// stops after cfg.MaxIterations updates, or earlier when cfg.Epsilon is
// positive and the cost changed by less than it in the last iteration.
// The epsilon test needs a previous cost, so at least one iteration runs
// before it can trigger.
//
// Summation is sequential, so identical inputs give bit-identical results.
func Train(data []Observation, cfg TrainConfig) (Result, error) {
	if len(data) == 0 {
		return Result{}, fmt.Errorf("%w: dataset is empty", ErrDegenerateInput)
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	var res Result
	if cfg.RecordHistory {
		res.History = make([]float64, 0, cfg.MaxIterations)
	}

	cost := Cost(data, res.Beta0, res.Beta1)

	for res.Iterations < cfg.MaxIterations {
		grad0, grad1 := gradient(data, res.Beta0, res.Beta1)
		res.Beta0 -= cfg.LearningRate * grad0
		res.Beta1 -= cfg.LearningRate * grad1
		res.Iterations++

		prev := cost
		cost = Cost(data, res.Beta0, res.Beta1)
		if cfg.RecordHistory {
			res.History = append(res.History, cost)
		}

		if cfg.Epsilon > 0 && math.Abs(prev-cost) < cfg.Epsilon {
			res.Converged = true
			break
		}
	}

	res.Cost = cost
	return res, nil
}
