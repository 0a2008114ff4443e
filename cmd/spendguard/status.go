package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"wcag-ai/spendguard/pkg/cli"
	"wcag-ai/spendguard/pkg/config"
)

var statusFlags struct {
	address string
	format  string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show budget status of a running governor",
	Long: `Query a running governor's admin API and show current spend, limits,
threshold percentages, gate state, and the top cost drivers.

Examples:
  # Query the governor from the local config
  spendguard status

  # Query a specific address
  spendguard status --address 127.0.0.1:8787

  # Machine-readable output
  spendguard status --format json`,
	RunE: showStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusFlags.address, "address", "", "governor admin address (uses config if not specified)")
	statusCmd.Flags().StringVar(&statusFlags.format, "format", "text", "output format: text, json")
}

// statusReport mirrors the admin API status body.
type statusReport struct {
	DailySpendUSD     string    `json:"daily_spend_usd"`
	MonthlySpendUSD   string    `json:"monthly_spend_usd"`
	DailyLimitUSD     string    `json:"daily_limit_usd"`
	MonthlyLimitUSD   string    `json:"monthly_limit_usd"`
	DailyPercentage   float64   `json:"daily_percentage"`
	MonthlyPercentage float64   `json:"monthly_percentage"`
	GateOpen          bool      `json:"gate_open"`
	LastDailyReset    time.Time `json:"last_daily_reset"`
	Charges           int       `json:"charges"`
	TopActors         []struct {
		Name    string `json:"name"`
		CostUSD string `json:"cost_usd"`
		Charges int    `json:"charges"`
	} `json:"top_actors"`
	TopClasses []struct {
		Name    string `json:"name"`
		CostUSD string `json:"cost_usd"`
		Charges int    `json:"charges"`
	} `json:"top_classes"`
}

func showStatus(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(statusFlags.format)
	if err != nil {
		return err
	}

	address := statusFlags.address
	if address == "" {
		address = defaultAddress()
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://%s/v1/status", address))
	if err != nil {
		return cli.NewCommandError("status", fmt.Errorf("governor not reachable at %s: %w", address, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return cli.NewCommandError("status", fmt.Errorf("unexpected response: %s", resp.Status))
	}

	var report statusReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return cli.NewCommandError("status", fmt.Errorf("malformed response: %w", err))
	}

	if format == cli.FormatJSON {
		return cli.WriteJSON(os.Stdout, report)
	}

	gate := "OPEN"
	if !report.GateOpen {
		gate = "CLOSED"
	}

	table := cli.NewTable(os.Stdout)
	table.Row("Daily spend:", fmt.Sprintf("$%s of $%s (%.1f%%)",
		report.DailySpendUSD, report.DailyLimitUSD, report.DailyPercentage*100))
	table.Row("Monthly spend:", fmt.Sprintf("$%s of $%s (%.1f%%)",
		report.MonthlySpendUSD, report.MonthlyLimitUSD, report.MonthlyPercentage*100))
	table.Row("Gate:", gate)
	table.Row("Charges:", report.Charges)
	table.Row("Last daily reset:", report.LastDailyReset.Format(time.RFC3339))
	if err := table.Flush(); err != nil {
		return err
	}

	if len(report.TopActors) > 0 {
		fmt.Println("\nTop actors:")
		actors := cli.NewTable(os.Stdout)
		for _, row := range report.TopActors {
			actors.Row("  "+row.Name, fmt.Sprintf("$%s (%d charges)", row.CostUSD, row.Charges))
		}
		if err := actors.Flush(); err != nil {
			return err
		}
	}
	if len(report.TopClasses) > 0 {
		fmt.Println("\nTop operation classes:")
		classes := cli.NewTable(os.Stdout)
		for _, row := range report.TopClasses {
			classes.Row("  "+row.Name, fmt.Sprintf("$%s (%d charges)", row.CostUSD, row.Charges))
		}
		if err := classes.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// defaultAddress resolves the admin address from the config file, falling
// back to the built-in default when the file is absent or invalid.
func defaultAddress() string {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.NewDefault().Server.ListenAddress
	}
	return cfg.Server.ListenAddress
}
