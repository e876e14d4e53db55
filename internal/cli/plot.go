package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haskel/pricefit/internal/chart"
	"github.com/haskel/pricefit/internal/dataset"
	"github.com/haskel/pricefit/internal/regression"
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render the dataset and the fitted line",
	Long: `Render the dataset as a scatter plot with the line of the trained
weights. The image format follows the output file extension (png, svg,
pdf...).`,
	Args: cobra.NoArgs,
	RunE: runPlot,
}

var plotFlags struct {
	data     string
	weights  string
	dataOnly bool
	output   string
}

func init() {
	f := plotCmd.Flags()
	f.StringVar(&plotFlags.data, "data", "", "dataset CSV path (overrides config)")
	f.StringVar(&plotFlags.weights, "weights", "", "weights file path (overrides config)")
	f.BoolVar(&plotFlags.dataOnly, "data-only", false, "render the data without the fitted line")
	f.StringVarP(&plotFlags.output, "output", "o", "", "image path (overrides config)")
	rootCmd.AddCommand(plotCmd)
}

func runPlot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("data") {
		cfg.Data.Path = plotFlags.data
	}
	if f.Changed("weights") {
		cfg.Model.WeightsPath = plotFlags.weights
	}
	if f.Changed("data-only") {
		cfg.Plot.DataOnly = plotFlags.dataOnly
	}
	if f.Changed("output") {
		cfg.Plot.Output = plotFlags.output
	}
	if cfg.Plot.Output == "" {
		return fmt.Errorf("no plot output path (use --output or plot.output)")
	}

	log := newLogger(cfg)

	data, err := dataset.Load(cfg.Data.Path)
	if err != nil {
		return err
	}

	var params regression.Parameters
	if !cfg.Plot.DataOnly {
		params = weightsStore(cfg, log).Load()
	}

	opts := chartOptions(cfg)
	p, err := chart.Regression(data, params, opts)
	if err != nil {
		return err
	}
	if err := chart.Save(cfg.Plot.Output, p, opts); err != nil {
		return err
	}

	log.Debug("plot saved", "path", cfg.Plot.Output, "observations", len(data))

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"output":       cfg.Plot.Output,
			"observations": len(data),
			"data_only":    cfg.Plot.DataOnly,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Plot saved to %s\n", cfg.Plot.Output)
	return nil
}
