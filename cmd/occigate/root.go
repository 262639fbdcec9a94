package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "occigate",
	Short: "Hypermedia resource protocol front for an OpenStack-style cloud",
	Long: `Occigate exposes a cloud management API through the OCCI
hypermedia protocol: category-typed resources, header or JSON encoded
representations, and a discoverable capability taxonomy.

Quick start:
  occigate serve        # Start the protocol server
  occigate categories   # Print the advertised taxonomy
  occigate validate     # Validate configuration`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "occigate.yaml", "config file path")
}
