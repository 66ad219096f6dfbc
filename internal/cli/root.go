package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "mira",
	Short: "Mira invoicing data core",
	Long: `Mira manages local-first invoicing data: clients, invoices,
templates and the company profile, with sensitive fields encrypted at
rest and a one-time migration from the legacy flat files to the
structured store.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "path to the config file")
}
