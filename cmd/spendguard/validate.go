package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wcag-ai/spendguard/pkg/cli"
	"wcag-ai/spendguard/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate a spendguard configuration file without starting the governor.

The file is parsed, defaults and SPENDGUARD_* environment overrides are
applied, and the result is checked: limits must be positive, thresholds
must be ordered, rates must be non-negative, and the daily reset
schedule must be a valid cron expression.

Examples:
  # Validate the default config
  spendguard validate

  # Validate a specific file
  spendguard validate --config /etc/spendguard/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cli.NewConfigError(cfgFile, err.Error())
	}

	fmt.Printf("✓ Configuration valid: %s\n", cfgFile)
	fmt.Println()

	table := cli.NewTable(os.Stdout)
	table.Row("Daily limit:", fmt.Sprintf("$%.2f", cfg.Budget.DailyLimitUSD))
	table.Row("Monthly limit:", fmt.Sprintf("$%.2f", cfg.Budget.MonthlyLimitUSD))
	table.Row("Warning threshold:", fmt.Sprintf("%.0f%%", cfg.Budget.WarnRatio*100))
	table.Row("Critical threshold:", fmt.Sprintf("%.0f%%", cfg.Budget.CriticalRatio*100))
	table.Row("Override allowed:", cfg.Override.Allowed)
	table.Row("Daily reset:", cfg.Scheduler.DailyResetSchedule+" (UTC)")
	table.Row("Re-evaluate every:", cfg.Scheduler.ReevaluateEvery)
	table.Row("Rate classes:", len(cfg.Pricing.Classes))
	return table.Flush()
}
