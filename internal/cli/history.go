package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/haskel/pricefit/internal/cli/tui"
	"github.com/haskel/pricefit/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded training runs",
	Long: `List training runs recorded in the history database (newest first).
Runs are recorded by "pricefit train" when history.enabled is set.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if historyLimit < 1 {
		return fmt.Errorf("--limit must be at least 1, got %d", historyLimit)
	}

	store, err := history.Open(cmd.Context(), cfg.History.Driver, cfg.History.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		if runs == nil {
			runs = []history.Run{}
		}
		return printJSON(out, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No training runs recorded.")
		if !cfg.History.Enabled {
			fmt.Fprintln(out, tui.WarningStyle.Render("history.enabled is false: training runs are not being recorded."))
		}
		return nil
	}

	fmt.Fprintln(out, renderRuns(runs))
	return nil
}

func renderRuns(runs []history.Run) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TRAINED AT", "N", "LR", "ITER", "COST", "THETA0", "THETA1", "R²")

	for _, r := range runs {
		iter := strconv.Itoa(r.Iterations)
		if r.Converged {
			iter += "*"
		}
		t.Row(
			strconv.FormatInt(r.ID, 10),
			r.TrainedAt.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(r.Observations),
			formatFloat(r.LearningRate),
			iter,
			fmt.Sprintf("%.4g", r.Cost),
			formatFloat(r.Theta0),
			formatFloat(r.Theta1),
			fmt.Sprintf("%.4f", r.RSquared),
		)
	}

	return t.Render()
}
