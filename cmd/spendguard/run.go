package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"wcag-ai/spendguard/pkg/audit"
	"wcag-ai/spendguard/pkg/cli"
	"wcag-ai/spendguard/pkg/config"
	"wcag-ai/spendguard/pkg/governor"
	"wcag-ai/spendguard/pkg/notify"
	"wcag-ai/spendguard/pkg/pricing"
	"wcag-ai/spendguard/pkg/schedule"
	"wcag-ai/spendguard/pkg/server"
	"wcag-ai/spendguard/pkg/store"
	"wcag-ai/spendguard/pkg/telemetry/logging"
	"wcag-ai/spendguard/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the budget governor",
	Long: `Start the budget governor and its HTTP admin server.

The governor prices charges against the configured rate table, enforces
daily and monthly limits, runs the periodic threshold re-evaluation, and
performs the daily reset at the configured UTC boundary.

Examples:
  # Start with default config
  spendguard run

  # Start with custom config
  spendguard run --config /etc/spendguard/config.yaml

  # Override listen address
  spendguard run --listen 0.0.0.0:8787

  # Validate config without starting
  spendguard run --dry-run`,
	RunE: runGovernor,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting")
}

func runGovernor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	logCfg := logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
	}
	if verbose {
		logCfg.Level = "debug"
	}
	if _, err := logging.Setup(logCfg); err != nil {
		return cli.NewConfigError(cfgFile, err.Error())
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Spendguard v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	table, err := buildTable(cfg.Pricing)
	if err != nil {
		return cli.NewConfigError(cfgFile, fmt.Sprintf("invalid rate table: %v", err))
	}
	fmt.Printf("✓ Rate table loaded (%d classes)\n", len(table.Classes()))

	dispatcher := notify.NewDispatcher()
	dispatcher.Subscribe(notify.NewLogSubscriber(slog.Default()))

	// Prometheus collector, if metrics are enabled.
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(metrics.Config{Namespace: cfg.Telemetry.Metrics.Namespace})
		collector.SetLimits(cfg.Budget.DailyLimitUSD, cfg.Budget.MonthlyLimitUSD)
		dispatcher.Subscribe(collector)
	}

	// Durable charge journal, if enabled.
	var journal *store.Journal
	if cfg.Journal.Enabled {
		journal, err = store.NewJournal(&store.JournalConfig{
			Path:   cfg.Journal.Path,
			Buffer: cfg.Journal.Buffer,
		})
		if err != nil {
			return cli.NewCommandError("run", fmt.Errorf("failed to open charge journal: %w", err))
		}
		defer journal.Close()
		dispatcher.Subscribe(journal)
		fmt.Println("✓ Charge journal opened")
	}

	auditStore, err := buildAuditStore(cfg.Audit)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to open audit store: %w", err))
	}
	defer auditStore.Close()

	gov, err := governor.New(governor.Config{
		DailyLimit:         decimal.NewFromFloat(cfg.Budget.DailyLimitUSD),
		MonthlyLimit:       decimal.NewFromFloat(cfg.Budget.MonthlyLimitUSD),
		WarnRatio:          decimal.NewFromFloat(cfg.Budget.WarnRatio),
		CriticalRatio:      decimal.NewFromFloat(cfg.Budget.CriticalRatio),
		OverrideAuthorized: cfg.Override.Allowed,
		TopN:               cfg.Budget.TopN,
	}, table, dispatcher, auditStore)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to create governor: %w", err))
	}
	fmt.Printf("✓ Governor initialized (daily limit $%.2f, monthly limit $%.2f)\n",
		cfg.Budget.DailyLimitUSD, cfg.Budget.MonthlyLimitUSD)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := schedule.NewScheduler(gov, schedule.Config{
		ReevaluateEvery:    cfg.Scheduler.ReevaluateEvery,
		DailyResetSchedule: cfg.Scheduler.DailyResetSchedule,
	})
	if collector != nil {
		scheduler.OnHeartbeat(collector.Heartbeat)
	}
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to start scheduler: %w", err))
	}
	defer scheduler.Stop()
	if next, err := scheduler.NextDailyReset(); err == nil {
		slog.Info("scheduler started", "next_daily_reset", next)
	}

	// Reload budget limits when the config file changes on disk.
	watcher := config.NewWatcher(cfgFile, 0)
	go func() {
		err := watcher.Watch(ctx, func(updated *config.Config) {
			err := gov.UpdateLimits(ctx, "config-reload",
				decimal.NewFromFloat(updated.Budget.DailyLimitUSD),
				decimal.NewFromFloat(updated.Budget.MonthlyLimitUSD))
			if err != nil {
				slog.Error("failed to apply reloaded limits", "error", err)
				return
			}
			if collector != nil {
				collector.SetLimits(updated.Budget.DailyLimitUSD, updated.Budget.MonthlyLimitUSD)
			}
		})
		if err != nil {
			slog.Warn("config watcher stopped", "error", err)
		}
	}()

	var metricsHandler http.Handler
	if collector != nil {
		metricsHandler = collector.Handler()
	}
	srv, err := server.New(server.Options{
		Config:         &cfg.Server,
		Governor:       gov,
		Scheduler:      scheduler,
		AuditStore:     auditStore,
		OverrideToken:  cfg.Override.Token,
		MetricsHandler: metricsHandler,
	})
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	fmt.Println()
	fmt.Printf("✓ Admin server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Status endpoint: http://%s/v1/status\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Server.ListenAddress)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := cli.WaitForShutdown()

	select {
	case err := <-errChan:
		return cli.NewCommandError("run", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)
		cancel()

		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("shutdown failed", "error", err)
			return cli.NewCommandError("run", err)
		}

		fmt.Println("✓ Governor stopped")
		return nil
	}
}

// loadConfig reads the config file given by --config. A missing file is
// only tolerated for the default path, where built-in defaults apply.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if !rootCmd.PersistentFlags().Changed("config") {
			return config.NewDefault(), nil
		}
		return nil, cli.NewConfigError(cfgFile, "file does not exist")
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err.Error())
	}
	return cfg, nil
}

// buildTable converts the configured rate table. An empty classes map
// selects the built-in table.
func buildTable(cfg config.PricingConfig) (*pricing.Table, error) {
	if len(cfg.Classes) == 0 {
		return pricing.DefaultTable(), nil
	}

	rates := make(map[string]pricing.Rate, len(cfg.Classes))
	for class, rate := range cfg.Classes {
		rates[class] = pricing.Rate{
			InputPer1K:  decimal.NewFromFloat(rate.InputPer1K),
			OutputPer1K: decimal.NewFromFloat(rate.OutputPer1K),
		}
	}
	return pricing.NewTable(rates, cfg.DefaultClass)
}

// buildAuditStore opens the SQLite audit store, or the in-memory store
// when no path is configured.
func buildAuditStore(cfg config.AuditConfig) (audit.Store, error) {
	if cfg.Path == "" {
		return audit.NewMemoryStore(), nil
	}
	return audit.NewSQLiteStore(&audit.SQLiteConfig{Path: cfg.Path})
}
