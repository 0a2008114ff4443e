package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "spendguard",
	Short: "Spendguard - budget governor for metered AI operations",
	Long: `Spendguard is a budget governor that keeps autonomous AI spending inside
hard daily and monthly limits.

It prices metered operations against a rate table, tracks spend in an
append-only ledger, raises alerts as warning and critical thresholds are
crossed, and closes an admission gate the moment a limit is reached. The
gate stays closed until the scheduled daily reset or an audited
emergency override.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
