package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/haskel/pricefit/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long: `Display the effective configuration: the config file merged over the
defaults, with ${ENV} references substituted.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

var validateOnly bool

func init() {
	configCmd.Flags().BoolVar(&validateOnly, "validate", false, "only validate config, don't print")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		if jsonOut {
			printJSON(out, map[string]any{"valid": false, "error": err.Error()})
		} else {
			fmt.Fprintf(out, "Configuration invalid: %v\n", err)
		}
		return err
	}

	if validateOnly {
		if jsonOut {
			return printJSON(out, map[string]any{"valid": true})
		}
		fmt.Fprintln(out, "Configuration is valid")
		return nil
	}

	if jsonOut {
		return printJSON(out, cfg)
	}

	data, err := yaml.Marshal(redacted(cfg))
	if err != nil {
		return err
	}
	fmt.Fprint(out, string(data))
	return nil
}

// redacted hides secrets from the printed YAML.
func redacted(cfg *config.Config) *config.Config {
	c := *cfg
	if c.Auth.Password != "" {
		c.Auth.Password = "********"
	}
	return &c
}
