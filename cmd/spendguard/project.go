package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wcag-ai/spendguard/pkg/cli"
)

var projectFlags struct {
	opsPerDay  int64
	unitsPerOp int64
	class      string
	format     string
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project costs for a planned workload",
	Long: `Project daily, monthly, and yearly costs for a planned workload before
enabling it.

The projection prices one operation of the given class at the configured
rates, then extrapolates to daily, monthly (30 days), and yearly (365
days) cost, plus 10x and 100x scale scenarios.

Examples:
  # 100 scans of 1000 units per day
  spendguard project --ops-per-day 100 --units-per-op 1000 --class wcag-scan

  # Machine-readable output
  spendguard project --ops-per-day 100 --units-per-op 1000 --format json`,
	RunE: projectCosts,
}

func init() {
	rootCmd.AddCommand(projectCmd)

	projectCmd.Flags().Int64Var(&projectFlags.opsPerDay, "ops-per-day", 0, "planned operations per day")
	projectCmd.Flags().Int64Var(&projectFlags.unitsPerOp, "units-per-op", 0, "metered units per operation")
	projectCmd.Flags().StringVar(&projectFlags.class, "class", "", "operation class (uses default class if not specified)")
	projectCmd.Flags().StringVar(&projectFlags.format, "format", "text", "output format: text, json")
	projectCmd.MarkFlagRequired("ops-per-day")
	projectCmd.MarkFlagRequired("units-per-op")
}

func projectCosts(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(projectFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	table, err := buildTable(cfg.Pricing)
	if err != nil {
		return cli.NewConfigError(cfgFile, fmt.Sprintf("invalid rate table: %v", err))
	}

	projection, err := table.Project(projectFlags.opsPerDay, projectFlags.unitsPerOp, projectFlags.class)
	if err != nil {
		return cli.NewCommandError("project", err)
	}

	if format == cli.FormatJSON {
		return cli.WriteJSON(os.Stdout, map[string]any{
			"operation_class":    projection.OperationClass,
			"ops_per_day":        projection.OpsPerDay,
			"units_per_op":       projection.UnitsPerOp,
			"cost_per_op_usd":    projection.CostPerOp.String(),
			"daily_usd":          projection.Daily.String(),
			"monthly_usd":        projection.Monthly.String(),
			"yearly_usd":         projection.Yearly.String(),
			"yearly_at_10x_usd":  projection.YearlyAt10x.String(),
			"yearly_at_100x_usd": projection.YearlyAt100x.String(),
		})
	}

	fmt.Printf("Projection for %d ops/day of %q (%d units each):\n\n",
		projection.OpsPerDay, projection.OperationClass, projection.UnitsPerOp)

	out := cli.NewTable(os.Stdout)
	out.Row("Cost per op:", "$"+projection.CostPerOp.String())
	out.Row("Daily:", "$"+projection.Daily.String())
	out.Row("Monthly (30d):", "$"+projection.Monthly.String())
	out.Row("Yearly:", "$"+projection.Yearly.String())
	out.Row("Yearly at 10x:", "$"+projection.YearlyAt10x.String())
	out.Row("Yearly at 100x:", "$"+projection.YearlyAt100x.String())
	return out.Flush()
}
