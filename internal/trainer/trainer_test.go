package trainer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/haskel/pricefit/internal/chart"
	"github.com/haskel/pricefit/internal/dataset"
	"github.com/haskel/pricefit/internal/history"
	"github.com/haskel/pricefit/internal/regression"
	"github.com/haskel/pricefit/internal/storage"
)

type fakeRecorder struct {
	runs []history.Run
	err  error
}

func (f *fakeRecorder) Record(_ context.Context, run history.Run) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.runs = append(f.runs, run)
	return int64(len(f.runs)), nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeCSV(t *testing.T, dir string, rows [][2]float64) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("km,price\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%g,%g\n", r[0], r[1])
	}

	path := filepath.Join(dir, "data.csv")
	assert.NilError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func lineRows() [][2]float64 {
	rows := make([][2]float64, 0, 5)
	for _, km := range []float64{0, 25000, 50000, 75000, 100000} {
		rows = append(rows, [2]float64{km, 22000 - 0.2*km})
	}
	return rows
}

type fixture struct {
	dir     string
	weights *storage.WeightsStore
	reports *storage.ReportStore
}

func newFixture(t *testing.T) fixture {
	dir := t.TempDir()
	return fixture{
		dir:     dir,
		weights: storage.NewWeightsStore(filepath.Join(dir, "weights"), testLogger()),
		reports: storage.NewReportStore(filepath.Join(dir, "weights.report.json"), testLogger()),
	}
}

func defaultOptions(data string) Options {
	return Options{
		DataPath: data,
		Training: regression.TrainConfig{LearningRate: 0.1, MaxIterations: 1000},
	}
}

func TestRun_SavesWeightsAndReport(t *testing.T) {
	f := newFixture(t)
	data := writeCSV(t, f.dir, lineRows())

	report, err := New(defaultOptions(data), f.weights, f.reports, testLogger()).Run(context.Background())
	assert.NilError(t, err)

	assert.Check(t, is.Equal(report.Observations, 5))
	assert.Check(t, is.Equal(report.Iterations, 1000))
	assert.Check(t, math.Abs(report.Parameters.Theta0-22000) < 1e-2)
	assert.Check(t, math.Abs(report.Parameters.Theta1+0.2) < 1e-6)
	assert.Check(t, report.Evaluation.RSquared > 0.999)

	saved, err := f.weights.Read()
	assert.NilError(t, err)
	assert.Check(t, is.DeepEqual(saved, report.Parameters))

	var loaded Report
	assert.NilError(t, f.reports.Load(&loaded))
	assert.Check(t, is.Equal(loaded.Parameters, report.Parameters))
	assert.Check(t, is.Equal(loaded.Dataset, data))
}

func TestRun_DegenerateDatasetKeepsPreviousWeights(t *testing.T) {
	f := newFixture(t)
	previous := regression.Parameters{Theta0: 1, Theta1: 2}
	assert.NilError(t, f.weights.Save(previous))

	data := writeCSV(t, f.dir, [][2]float64{{1000, 5000}, {1000, 6000}})

	_, err := New(defaultOptions(data), f.weights, f.reports, testLogger()).Run(context.Background())
	assert.Check(t, errors.Is(err, regression.ErrDegenerateInput))

	saved, err := f.weights.Read()
	assert.NilError(t, err)
	assert.Check(t, is.DeepEqual(saved, previous))
}

func TestRun_EmptyDataset(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(f.dir, "data.csv")
	assert.NilError(t, os.WriteFile(path, []byte("km,price\n"), 0o644))

	_, err := New(defaultOptions(path), f.weights, f.reports, testLogger()).Run(context.Background())
	assert.Check(t, errors.Is(err, regression.ErrDegenerateInput))
	assert.Check(t, !f.weights.Info().Exists)
}

func TestRun_MissingDataset(t *testing.T) {
	f := newFixture(t)

	_, err := New(defaultOptions(filepath.Join(f.dir, "nope.csv")), f.weights, f.reports, testLogger()).
		Run(context.Background())
	assert.Check(t, errors.Is(err, os.ErrNotExist))
}

func TestRun_MalformedDataset(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(f.dir, "data.csv")
	assert.NilError(t, os.WriteFile(path, []byte("km,price\n1000,abc\n"), 0o644))

	_, err := New(defaultOptions(path), f.weights, f.reports, testLogger()).Run(context.Background())
	assert.Check(t, errors.Is(err, dataset.ErrMalformed))
}

func TestRun_DivergedNotSaved(t *testing.T) {
	f := newFixture(t)
	data := writeCSV(t, f.dir, lineRows())

	opts := defaultOptions(data)
	opts.Training = regression.TrainConfig{LearningRate: 50, MaxIterations: 5000}

	_, err := New(opts, f.weights, f.reports, testLogger()).Run(context.Background())
	assert.Check(t, errors.Is(err, ErrDiverged))
	assert.Check(t, !f.weights.Info().Exists)
}

func TestRun_CanceledContext(t *testing.T) {
	f := newFixture(t)
	data := writeCSV(t, f.dir, lineRows())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(defaultOptions(data), f.weights, f.reports, testLogger()).Run(ctx)
	assert.Check(t, errors.Is(err, context.Canceled))
	assert.Check(t, !f.weights.Info().Exists)
}

func TestRun_RecordsHistory(t *testing.T) {
	f := newFixture(t)
	data := writeCSV(t, f.dir, lineRows())
	rec := &fakeRecorder{}

	report, err := New(defaultOptions(data), f.weights, f.reports, testLogger()).
		WithRecorder(rec).
		Run(context.Background())
	assert.NilError(t, err)

	assert.Assert(t, is.Len(rec.runs, 1))
	assert.Check(t, is.Equal(report.HistoryID, int64(1)))
	assert.Check(t, is.Equal(rec.runs[0].Theta0, report.Parameters.Theta0))
	assert.Check(t, is.Equal(rec.runs[0].LearningRate, 0.1))
	assert.Check(t, is.Equal(rec.runs[0].Observations, 5))
}

func TestRun_RecorderFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	data := writeCSV(t, f.dir, lineRows())

	report, err := New(defaultOptions(data), f.weights, f.reports, testLogger()).
		WithRecorder(&fakeRecorder{err: errors.New("db down")}).
		Run(context.Background())
	assert.NilError(t, err)
	assert.Check(t, is.Equal(report.HistoryID, int64(0)))
	assert.Check(t, f.weights.Info().Exists)
}

func TestRun_WritesPlots(t *testing.T) {
	f := newFixture(t)
	data := writeCSV(t, f.dir, lineRows())

	opts := defaultOptions(data)
	opts.Plot = PlotOptions{
		Enabled:    true,
		Output:     filepath.Join(f.dir, "plot.png"),
		CostOutput: filepath.Join(f.dir, "cost.svg"),
		Chart:      chart.DefaultOptions(),
	}

	report, err := New(opts, f.weights, f.reports, testLogger()).Run(context.Background())
	assert.NilError(t, err)
	assert.Check(t, is.DeepEqual(report.Plots, []string{opts.Plot.Output, opts.Plot.CostOutput}))

	for _, p := range report.Plots {
		info, err := os.Stat(p)
		assert.NilError(t, err)
		assert.Check(t, info.Size() > 0)
	}
}

func TestRun_PlotFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	data := writeCSV(t, f.dir, lineRows())

	opts := defaultOptions(data)
	opts.Plot = PlotOptions{
		Enabled: true,
		Output:  filepath.Join(f.dir, "plot-without-extension"),
		Chart:   chart.DefaultOptions(),
	}

	report, err := New(opts, f.weights, f.reports, testLogger()).Run(context.Background())
	assert.NilError(t, err)
	assert.Check(t, is.Len(report.Plots, 0))
}

func TestReport_Run(t *testing.T) {
	r := &Report{
		Dataset:      "data.csv",
		Observations: 3,
		Config:       regression.TrainConfig{LearningRate: 0.05, MaxIterations: 10, Epsilon: 1e-6},
		Parameters:   regression.Parameters{Theta0: 100, Theta1: -1},
		Iterations:   7,
		Cost:         0.5,
		Converged:    true,
	}
	r.Evaluation.RSquared = 0.8

	run := r.Run()
	assert.Check(t, is.Equal(run.Dataset, "data.csv"))
	assert.Check(t, is.Equal(run.MaxIterations, 10))
	assert.Check(t, is.Equal(run.Epsilon, 1e-6))
	assert.Check(t, is.Equal(run.Iterations, 7))
	assert.Check(t, run.Converged)
	assert.Check(t, is.Equal(run.Theta1, -1.0))
	assert.Check(t, is.Equal(run.RSquared, 0.8))
}
