package trainer

import (
	"time"

	"github.com/haskel/pricefit/internal/evaluate"
	"github.com/haskel/pricefit/internal/history"
	"github.com/haskel/pricefit/internal/monitor"
	"github.com/haskel/pricefit/internal/regression"
)

// Report describes one training run. It is saved as JSON next to the
// weights and returned to the caller.
type Report struct {
	TrainedAt    time.Time              `json:"trained_at"`
	Dataset      string                 `json:"dataset"`
	Observations int                    `json:"observations"`
	Config       regression.TrainConfig `json:"config"`
	Parameters   regression.Parameters  `json:"parameters"`
	Beta0        float64                `json:"beta0"`
	Beta1        float64                `json:"beta1"`
	Iterations   int                    `json:"iterations"`
	Cost         float64                `json:"cost"`
	Converged    bool                   `json:"converged"`
	Scaling      regression.Scaling     `json:"scaling"`
	Evaluation   evaluate.Result        `json:"evaluation"`
	Duration     time.Duration          `json:"duration_ns"`
	Usage        *monitor.Usage         `json:"usage,omitempty"`
	WeightsPath  string                 `json:"weights_path"`
	Plots        []string               `json:"plots,omitempty"`
	HistoryID    int64                  `json:"history_id,omitempty"`
}

// Run converts the report to a history row.
func (r *Report) Run() history.Run {
	return history.Run{
		TrainedAt:     r.TrainedAt,
		Dataset:       r.Dataset,
		Observations:  r.Observations,
		LearningRate:  r.Config.LearningRate,
		MaxIterations: r.Config.MaxIterations,
		Epsilon:       r.Config.Epsilon,
		Iterations:    r.Iterations,
		Cost:          r.Cost,
		Converged:     r.Converged,
		Theta0:        r.Parameters.Theta0,
		Theta1:        r.Parameters.Theta1,
		RSquared:      r.Evaluation.RSquared,
	}
}
