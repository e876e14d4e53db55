package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/haskel/pricefit/internal/cli/tui"
	"github.com/haskel/pricefit/internal/dataset"
	"github.com/haskel/pricefit/internal/regression"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate [mileage]",
	Short: "Estimate the price of a car from its mileage",
	Long: `Estimate the price of a car from its mileage with the trained weights.
Without an argument the mileage is asked for interactively. With --remote
the estimate comes from a running pricefit server.

Examples:
  pricefit estimate 42000
  pricefit estimate
  echo 42000 | pricefit estimate
  pricefit estimate 42000 --remote http://localhost:8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEstimate,
}

var estimateWeights string

func init() {
	estimateCmd.Flags().StringVar(&estimateWeights, "weights", "", "weights file path (overrides config)")
	estimateCmd.Flags().StringVar(&remote, "remote", "", "pricefit server URL to ask instead of the local weights")
	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	estimator, source, err := newEstimator(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if len(args) == 0 {
		if f, ok := cmd.InOrStdin().(*os.File); ok && isatty.IsTerminal(f.Fd()) && !jsonOut {
			_, err := tui.Run(tui.Config{Estimate: estimator, Source: source}, f, out)
			if errors.Is(err, tui.ErrCanceled) {
				return nil
			}
			return err
		}
	}

	var mileage float64
	if len(args) == 1 {
		mileage, err = dataset.ParseMileage(args[0])
	} else {
		mileage, err = promptMileage(cmd.InOrStdin(), cmd.ErrOrStderr())
	}
	if err != nil {
		return err
	}

	e, err := estimator(mileage)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(out, e)
	}
	fmt.Fprintln(out, tui.RenderEstimate(e))
	return nil
}

// newEstimator returns the local or remote estimator and a description
// of where its answers come from.
func newEstimator(cmd *cobra.Command) (tui.Estimator, string, error) {
	if remote != "" {
		if err := validateRemote(remote); err != nil {
			return nil, "", err
		}
		return NewClient(remote).Predict, remote, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	if cmd.Flags().Changed("weights") {
		cfg.Model.WeightsPath = estimateWeights
	}

	params := weightsStore(cfg, newLogger(cfg)).Load()
	return localEstimator(params), cfg.Model.WeightsPath, nil
}

func localEstimator(params regression.Parameters) tui.Estimator {
	return func(mileage float64) (tui.Estimate, error) {
		price, err := params.Estimate(mileage)
		if err != nil {
			return tui.Estimate{}, err
		}
		return tui.Estimate{
			Mileage: mileage,
			Price:   price,
			Theta0:  params.Theta0,
			Theta1:  params.Theta1,
		}, nil
	}
}

// promptMileage reads one line from a non-interactive input.
func promptMileage(in io.Reader, prompt io.Writer) (float64, error) {
	fmt.Fprintln(prompt, tui.Prompt)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, fmt.Errorf("failed to read mileage: %w", err)
		}
		return 0, fmt.Errorf("%w: no input", dataset.ErrInvalidMileage)
	}
	return dataset.ParseMileage(scanner.Text())
}
