// Package trainer runs the training pipeline end to end: load the
// dataset, normalize, fit, denormalize, then persist the weights and the
// diagnostics that go with them.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/haskel/pricefit/internal/chart"
	"github.com/haskel/pricefit/internal/dataset"
	"github.com/haskel/pricefit/internal/evaluate"
	"github.com/haskel/pricefit/internal/history"
	"github.com/haskel/pricefit/internal/monitor"
	"github.com/haskel/pricefit/internal/regression"
	"github.com/haskel/pricefit/internal/storage"
)

// ErrDiverged is returned when training ends with a non-finite cost or
// non-finite parameters. Nothing is persisted in that case.
var ErrDiverged = errors.New("trainer: training diverged")

// PlotOptions selects the images rendered after training.
type PlotOptions struct {
	Enabled    bool
	DataOnly   bool
	Output     string
	CostOutput string
	Chart      chart.Options
}

// Options configures a training run.
type Options struct {
	DataPath string
	Training regression.TrainConfig
	Plot     PlotOptions
}

// Trainer runs the pipeline with its collaborators.
type Trainer struct {
	opts     Options
	weights  *storage.WeightsStore
	reports  *storage.ReportStore
	recorder history.Recorder
	sampler  *monitor.Sampler
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Trainer. The history recorder and resource sampler are
// optional and attached with WithRecorder and WithSampler.
func New(opts Options, weights *storage.WeightsStore, reports *storage.ReportStore, logger *slog.Logger) *Trainer {
	return &Trainer{
		opts:    opts,
		weights: weights,
		reports: reports,
		logger:  logger,
		now:     time.Now,
	}
}

// WithRecorder attaches a run history recorder.
func (t *Trainer) WithRecorder(r history.Recorder) *Trainer {
	t.recorder = r
	return t
}

// WithSampler attaches a process resource sampler.
func (t *Trainer) WithSampler(s *monitor.Sampler) *Trainer {
	t.sampler = s
	return t
}

// Run trains a model and persists it. The weights file is written only
// after a successful, finite fit; a degenerate dataset or a diverged run
// leaves any previous weights untouched.
func (t *Trainer) Run(ctx context.Context) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := dataset.Load(t.opts.DataPath)
	if err != nil {
		return nil, err
	}

	t.logger.Info("dataset loaded",
		"path", t.opts.DataPath,
		"observations", len(data),
	)

	before := t.sample()
	start := t.now()

	cfg := t.opts.Training
	cfg.RecordHistory = t.opts.Plot.CostOutput != ""

	params, res, scaling, err := regression.Fit(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("training failed: %w", err)
	}

	duration := t.now().Sub(start)

	t.logger.Info("training finished",
		"iterations", res.Iterations,
		"converged", res.Converged,
		"cost", res.Cost,
		"duration", duration,
	)

	if res.Diverged() || !finite(params.Theta0) || !finite(params.Theta1) {
		t.logger.Warn("training diverged, weights not saved",
			"learning_rate", cfg.LearningRate,
			"cost", res.Cost,
		)
		return nil, fmt.Errorf("%w: cost %v after %d iterations with learning rate %v",
			ErrDiverged, res.Cost, res.Iterations, cfg.LearningRate)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	eval, err := evaluate.Evaluate(data, params)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}

	if err := t.weights.Save(params); err != nil {
		return nil, err
	}

	t.logger.Info("weights saved",
		"path", t.weights.Path(),
		"theta0", params.Theta0,
		"theta1", params.Theta1,
	)

	report := &Report{
		TrainedAt:    start.UTC(),
		Dataset:      t.opts.DataPath,
		Observations: len(data),
		Config:       cfg,
		Parameters:   params,
		Beta0:        res.Beta0,
		Beta1:        res.Beta1,
		Iterations:   res.Iterations,
		Cost:         res.Cost,
		Converged:    res.Converged,
		Scaling:      scaling,
		Evaluation:   eval,
		Duration:     duration,
		WeightsPath:  t.weights.Path(),
	}

	if before != nil {
		if after := t.sample(); after != nil {
			usage := monitor.Since(*before, *after)
			report.Usage = &usage
		}
	}

	report.Plots = t.renderPlots(data, params, res.History)
	report.HistoryID = t.record(ctx, report)

	if err := t.reports.Save(report); err != nil {
		t.logger.Warn("failed to save training report", "path", t.reports.Path(), "error", err)
	}

	return report, nil
}

func (t *Trainer) sample() *monitor.Snapshot {
	if t.sampler == nil {
		return nil
	}
	snap, err := t.sampler.Collect()
	if err != nil {
		t.logger.Debug("failed to sample process usage", "error", err)
		return nil
	}
	return &snap
}

func (t *Trainer) renderPlots(data []regression.Observation, params regression.Parameters, costs []float64) []string {
	var written []string

	if t.opts.Plot.Enabled {
		opts := t.opts.Plot.Chart
		opts.DataOnly = t.opts.Plot.DataOnly

		p, err := chart.Regression(data, params, opts)
		if err == nil {
			err = chart.Save(t.opts.Plot.Output, p, opts)
		}
		if err != nil {
			t.logger.Warn("failed to render regression plot", "path", t.opts.Plot.Output, "error", err)
		} else {
			t.logger.Info("plot saved", "path", t.opts.Plot.Output)
			written = append(written, t.opts.Plot.Output)
		}
	}

	if t.opts.Plot.CostOutput != "" {
		p, err := chart.CostCurve(costs)
		if err == nil {
			err = chart.Save(t.opts.Plot.CostOutput, p, t.opts.Plot.Chart)
		}
		if err != nil {
			t.logger.Warn("failed to render cost curve", "path", t.opts.Plot.CostOutput, "error", err)
		} else {
			t.logger.Info("cost curve saved", "path", t.opts.Plot.CostOutput)
			written = append(written, t.opts.Plot.CostOutput)
		}
	}

	return written
}

func (t *Trainer) record(ctx context.Context, r *Report) int64 {
	if t.recorder == nil {
		return 0
	}

	id, err := t.recorder.Record(ctx, r.Run())
	if err != nil {
		t.logger.Warn("failed to record training run", "error", err)
		return 0
	}

	t.logger.Debug("training run recorded", "id", id)
	return id
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
