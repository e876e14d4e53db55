package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haskel/pricefit/internal/config"
	"github.com/haskel/pricefit/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve price estimates over HTTP",
	Long: `Start the prediction server in foreground mode. SIGHUP re-reads the
config file and the weights; SIGINT and SIGTERM shut it down gracefully.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveFlags struct {
	host string
	port int
}

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 30 * time.Second

func init() {
	serveCmd.Flags().StringVar(&serveFlags.host, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVarP(&serveFlags.port, "port", "p", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func applyServeFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveFlags.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serveFlags.port
	}
	return cfg.Validate()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyServeFlags(cmd, cfg); err != nil {
		return err
	}

	log := newLogger(cfg)

	log.Info("pricefit starting",
		"version", Version,
		"config", cfgFile,
		"weights", cfg.Model.WeightsPath,
	)

	model := server.NewModel(weightsStore(cfg, log), reportStore(cfg, log), log)
	srv := server.New(cfg, model, log, Version)

	sighupCh := make(chan os.Signal, 1)
	signal.Notify(sighupCh, syscall.SIGHUP)
	defer signal.Stop(sighupCh)

	ctx := cmd.Context()
	shutdownDone := make(chan struct{})

	go func() {
		defer close(shutdownDone)
		for {
			select {
			case <-sighupCh:
				log.Info("SIGHUP received, reloading")

				newCfg, err := loadConfig()
				if err == nil {
					err = applyServeFlags(cmd, newCfg)
				}
				if err != nil {
					log.Error("invalid configuration, keeping the current one", "error", err)
					srv.Reload(nil)
					continue
				}
				srv.Reload(newCfg)

			case <-ctx.Done():
				log.Info("shutdown signal received")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				if err := srv.Shutdown(shutdownCtx); err != nil {
					log.Error("server shutdown error", "error", err)
				}
				return
			}
		}
	}()

	log.Info("pricefit ready", "addr", srv.Addr())

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	<-shutdownDone
	log.Info("pricefit stopped")
	return nil
}
