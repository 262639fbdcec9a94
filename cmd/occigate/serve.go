package main

import (
	"fmt"

	"github.com/artpar/occigate/bootstrap"
	"github.com/artpar/occigate/config"
	"github.com/spf13/cobra"
)

var hotReload bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the protocol server",
	Long: `Start the occigate protocol server.

The server will:
  - Load configuration from occigate.yaml (or --config)
  - Build the category taxonomy
  - Front the configured backend API

Environment variables override the file:
  OCCIGATE_BACKEND_URL   - Backend API URL
  OCCIGATE_SERVER_PORT   - Server port (default: 8787)
  OCCIGATE_LOG_LEVEL     - Log level: debug, info, warn, error

Examples:
  occigate serve
  occigate serve --config /etc/occigate/config.yaml
  occigate serve --hot-reload=false`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "enable hot reload of configuration")
}

func runServe(cmd *cobra.Command, args []string) error {
	var app *bootstrap.App
	var err error

	if hotReload {
		app, err = bootstrap.NewWithHotReload(cfgFile)
	} else {
		cfg, loadErr := config.Load(cfgFile)
		if loadErr != nil {
			return fmt.Errorf("error loading config: %w", loadErr)
		}
		app, err = bootstrap.New(cfg)
	}
	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run()
}
