package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the model served by a running server",
	Long:  `Query a running pricefit server for the parameters it predicts with.`,
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&remote, "remote", "", "pricefit server URL (default "+DefaultRemote+")")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	base := remoteURL()
	if err := validateRemote(base); err != nil {
		return err
	}

	state, err := NewClient(base).Model()
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return printJSON(out, state)
	}

	s := summary{header: "Served model"}
	s.add("server", "%s", base)
	s.add("trained", "%t", state.Trained)
	s.add("theta0", "%s", formatFloat(state.Parameters.Theta0))
	s.add("theta1", "%s", formatFloat(state.Parameters.Theta1))
	s.add("loaded at", "%s", state.LoadedAt.Local().Format("2006-01-02 15:04:05"))
	if w := state.Weights; w.Exists {
		s.add("weights", "%s (%d bytes, written %s)", w.Path, w.Size, w.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	} else {
		s.add("weights", "%s (missing)", w.Path)
	}
	if r := state.Report; r != nil {
		s.add("trained at", "%s", r.TrainedAt.Local().Format("2006-01-02 15:04:05"))
		s.add("dataset", "%s (%d observations)", r.Dataset, r.Observations)
		s.add("R²", "%.2f%% (%s)", r.Evaluation.ExplainedPercent(), r.Evaluation.Rating)
	}
	s.render(out)
	return nil
}
