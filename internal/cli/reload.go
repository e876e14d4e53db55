package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Make a running server re-read its weights",
	Long: `Ask a running pricefit server to reload the weights file, e.g. after
"pricefit train". Sending SIGHUP to the server process has the same effect
and also re-reads the config file.`,
	Args: cobra.NoArgs,
	RunE: runReload,
}

func init() {
	reloadCmd.Flags().StringVar(&remote, "remote", "", "pricefit server URL (default "+DefaultRemote+")")
	rootCmd.AddCommand(reloadCmd)
}

func runReload(cmd *cobra.Command, args []string) error {
	base := remoteURL()
	if err := validateRemote(base); err != nil {
		return err
	}

	state, err := NewClient(base).Reload()
	if err != nil {
		return fmt.Errorf("failed to reload: %w", err)
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), state)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Model reloaded: theta0=%s theta1=%s (trained: %t)\n",
		formatFloat(state.Parameters.Theta0), formatFloat(state.Parameters.Theta1), state.Trained)
	return nil
}
