package main

import (
	"fmt"
	"os"

	"github.com/artpar/occigate/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration before deployment",
	Long: `Validate the occigate configuration file.

Checks:
  - YAML syntax is valid
  - Required fields are present
  - Values are in range

Examples:
  occigate validate
  occigate validate --config /etc/occigate/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", cfgFile)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	fmt.Println("Configuration valid")
	fmt.Printf("  Backend:  %s\n", cfg.Backend.URL)
	fmt.Printf("  Listen:   %s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("  Logging:  %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)
	if cfg.Metrics.Enabled {
		fmt.Printf("  Metrics:  %s\n", cfg.Metrics.Path)
	}
	return nil
}
