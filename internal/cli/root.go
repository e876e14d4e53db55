package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/haskel/pricefit/internal/config"
	"github.com/haskel/pricefit/internal/logger"
)

var (
	// Global flags
	cfgFile  string
	jsonOut  bool
	verbose  bool
	remote   string
	user     string
	password string

	// Version info (set from main)
	Version = "0.1.0"
)

// DefaultRemote is used by remote commands when --remote is not given.
const DefaultRemote = "http://localhost:8080"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pricefit",
	Short: "Predict car prices from mileage with a trained linear model",
	Long: `Pricefit trains a single-feature linear regression of car price on
mileage with batch gradient descent, stores the two parameters in a
weights file, and answers price estimates from the command line or over
HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default "+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&user, "user", "", "auth username for remote commands")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "auth password for remote commands")
}

// SetVersion sets the version for the CLI
func SetVersion(v string) {
	Version = v
	rootCmd.Version = v
}

// loadConfig resolves the config file and validates it.
func loadConfig() (*config.Config, error) {
	return config.Resolve(cfgFile)
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return logger.New(level, cfg.Logging.Format)
}

// remoteURL returns --remote or DefaultRemote.
func remoteURL() string {
	if remote != "" {
		return remote
	}
	return DefaultRemote
}
