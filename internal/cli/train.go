package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/haskel/pricefit/internal/chart"
	"github.com/haskel/pricefit/internal/config"
	"github.com/haskel/pricefit/internal/history"
	"github.com/haskel/pricefit/internal/monitor"
	"github.com/haskel/pricefit/internal/storage"
	"github.com/haskel/pricefit/internal/trainer"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the model on a km,price dataset",
	Long: `Train a linear model of price on mileage with batch gradient descent
and write the parameters to the weights file.

Examples:
  pricefit train
  pricefit train --data data.csv --learning-rate 0.05 --iterations 5000
  pricefit train --plot --plot-output fit.svg`,
	Args: cobra.NoArgs,
	RunE: runTrain,
}

var trainFlags struct {
	data         string
	weights      string
	learningRate float64
	iterations   int
	epsilon      float64
	plot         bool
	plotDataOnly bool
	plotOutput   string
	costOutput   string
}

func init() {
	f := trainCmd.Flags()
	f.StringVar(&trainFlags.data, "data", "", "dataset CSV path (overrides config)")
	f.StringVar(&trainFlags.weights, "weights", "", "weights file path (overrides config)")
	f.Float64Var(&trainFlags.learningRate, "learning-rate", 0, "gradient descent step size (overrides config)")
	f.IntVar(&trainFlags.iterations, "iterations", 0, "maximum number of iterations (overrides config)")
	f.Float64Var(&trainFlags.epsilon, "epsilon", 0, "stop when the cost changes by less than this, 0 disables (overrides config)")
	f.BoolVar(&trainFlags.plot, "plot", false, "render the data and the fitted line")
	f.BoolVar(&trainFlags.plotDataOnly, "plot-data-only", false, "render the data without the fitted line")
	f.StringVar(&trainFlags.plotOutput, "plot-output", "", "plot image path (overrides config)")
	f.StringVar(&trainFlags.costOutput, "cost-output", "", "cost curve image path (overrides config)")
	rootCmd.AddCommand(trainCmd)
}

func applyTrainFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("data") {
		cfg.Data.Path = trainFlags.data
	}
	if f.Changed("weights") {
		cfg.Model.WeightsPath = trainFlags.weights
	}
	if f.Changed("learning-rate") {
		cfg.Training.LearningRate = trainFlags.learningRate
	}
	if f.Changed("iterations") {
		cfg.Training.MaxIterations = trainFlags.iterations
	}
	if f.Changed("epsilon") {
		cfg.Training.Epsilon = trainFlags.epsilon
	}
	if f.Changed("plot") {
		cfg.Plot.Enabled = trainFlags.plot
	}
	if f.Changed("plot-data-only") {
		cfg.Plot.DataOnly = trainFlags.plotDataOnly
		cfg.Plot.Enabled = cfg.Plot.Enabled || trainFlags.plotDataOnly
	}
	if f.Changed("plot-output") {
		cfg.Plot.Output = trainFlags.plotOutput
	}
	if f.Changed("cost-output") {
		cfg.Plot.CostOutput = trainFlags.costOutput
	}

	return cfg.Validate()
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyTrainFlags(cmd, cfg); err != nil {
		return err
	}

	log := newLogger(cfg)
	ctx := cmd.Context()

	t := trainer.New(trainerOptions(cfg), weightsStore(cfg, log), reportStore(cfg, log), log)

	if sampler, err := monitor.NewSampler(); err != nil {
		log.Debug("process sampler unavailable", "error", err)
	} else {
		t.WithSampler(sampler)
	}

	if cfg.History.Enabled {
		store, err := history.Open(ctx, cfg.History.Driver, cfg.History.DSN)
		if err != nil {
			log.Warn("run history unavailable", "driver", cfg.History.Driver, "error", err)
		} else {
			defer store.Close()
			t.WithRecorder(store)
		}
	}

	report, err := t.Run(ctx)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), report)
	}
	printTrainReport(cmd.OutOrStdout(), report)
	return nil
}

func trainerOptions(cfg *config.Config) trainer.Options {
	return trainer.Options{
		DataPath: cfg.Data.Path,
		Training: cfg.Training.TrainConfig(),
		Plot: trainer.PlotOptions{
			Enabled:    cfg.Plot.Enabled,
			DataOnly:   cfg.Plot.DataOnly,
			Output:     cfg.Plot.Output,
			CostOutput: cfg.Plot.CostOutput,
			Chart:      chartOptions(cfg),
		},
	}
}

func chartOptions(cfg *config.Config) chart.Options {
	return chart.Options{
		DataOnly: cfg.Plot.DataOnly,
		Width:    cfg.Plot.WidthIn,
		Height:   cfg.Plot.HeightIn,
	}
}

func weightsStore(cfg *config.Config, log *slog.Logger) *storage.WeightsStore {
	return storage.NewWeightsStore(cfg.Model.WeightsPath, log)
}

func reportStore(cfg *config.Config, log *slog.Logger) *storage.ReportStore {
	return storage.NewReportStore(cfg.Model.ReportPath, log)
}

func printTrainReport(w io.Writer, r *trainer.Report) {
	stop := "max iterations reached"
	if r.Converged {
		stop = "converged"
	}

	s := summary{header: "Training complete"}
	s.add("dataset", "%s (%d observations)", r.Dataset, r.Observations)
	s.add("iterations", "%d (%s)", r.Iterations, stop)
	s.add("final cost", "%.6g", r.Cost)
	s.add("theta0", "%s", formatFloat(r.Parameters.Theta0))
	s.add("theta1", "%s", formatFloat(r.Parameters.Theta1))
	s.add("R²", "%.2f%% (%s)", r.Evaluation.ExplainedPercent(), r.Evaluation.Rating)
	s.add("duration", "%s", r.Duration)
	s.add("weights", "%s", r.WeightsPath)
	for _, p := range r.Plots {
		s.add("plot", "%s", p)
	}
	if r.HistoryID != 0 {
		s.add("history id", "%d", r.HistoryID)
	}
	s.render(w)
}
