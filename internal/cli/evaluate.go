package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haskel/pricefit/internal/cli/tui"
	"github.com/haskel/pricefit/internal/dataset"
	"github.com/haskel/pricefit/internal/evaluate"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Measure how well the trained model fits the dataset",
	Long: `Compute the coefficient of determination (R²) and error metrics of the
trained weights on the dataset.`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

var evaluateFlags struct {
	data    string
	weights string
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluateFlags.data, "data", "", "dataset CSV path (overrides config)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.weights, "weights", "", "weights file path (overrides config)")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("data") {
		cfg.Data.Path = evaluateFlags.data
	}
	if cmd.Flags().Changed("weights") {
		cfg.Model.WeightsPath = evaluateFlags.weights
	}

	log := newLogger(cfg)

	data, err := dataset.Load(cfg.Data.Path)
	if err != nil {
		return err
	}
	params := weightsStore(cfg, log).Load()

	result, err := evaluate.Evaluate(data, params)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return printJSON(out, result)
	}

	rating := tui.ValueStyle.Foreground(tui.RatingColor(result.RSquared)).Render(result.Rating.String())
	fmt.Fprintf(out, "The model explains %.2f%% of the car's price's variance (%s).\n",
		result.ExplainedPercent(), rating)

	s := summary{header: "Metrics"}
	s.add("observations", "%d", result.Observations)
	s.add("R²", "%.6f", result.RSquared)
	s.add("MSE", "%.6g", result.MSE)
	s.add("RMSE", "%.6g", result.RMSE)
	s.add("MAE", "%.6g", result.MAE)
	s.render(out)
	return nil
}
