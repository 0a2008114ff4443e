package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for internal consistency.
func Validate(cfg *Config) error {
	if cfg.Budget.DailyLimitUSD <= 0 {
		return fmt.Errorf("budget.daily_limit_usd must be > 0, got %v", cfg.Budget.DailyLimitUSD)
	}
	if cfg.Budget.MonthlyLimitUSD <= 0 {
		return fmt.Errorf("budget.monthly_limit_usd must be > 0, got %v", cfg.Budget.MonthlyLimitUSD)
	}
	if cfg.Budget.WarnRatio <= 0 || cfg.Budget.WarnRatio >= 1 {
		return fmt.Errorf("budget.warn_ratio must be in (0, 1), got %v", cfg.Budget.WarnRatio)
	}
	if cfg.Budget.CriticalRatio <= cfg.Budget.WarnRatio || cfg.Budget.CriticalRatio >= 1 {
		return fmt.Errorf("budget.critical_ratio must be in (warn_ratio, 1), got %v", cfg.Budget.CriticalRatio)
	}
	if cfg.Budget.TopN < 0 {
		return fmt.Errorf("budget.top_n must be >= 0, got %d", cfg.Budget.TopN)
	}

	for class, rate := range cfg.Pricing.Classes {
		if rate.InputPer1K < 0 || rate.OutputPer1K < 0 {
			return fmt.Errorf("pricing.classes[%q] rates must be >= 0", class)
		}
	}

	if cfg.Scheduler.ReevaluateEvery <= 0 {
		return fmt.Errorf("scheduler.reevaluate_every must be > 0, got %v", cfg.Scheduler.ReevaluateEvery)
	}
	if _, err := cron.ParseStandard(cfg.Scheduler.DailyResetSchedule); err != nil {
		return fmt.Errorf("scheduler.daily_reset_schedule %q is not a valid cron expression: %w",
			cfg.Scheduler.DailyResetSchedule, err)
	}

	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address must not be empty")
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level must be one of debug/info/warn/error, got %q",
			cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format must be json or text, got %q",
			cfg.Telemetry.Logging.Format)
	}

	if cfg.Journal.Enabled && cfg.Journal.Buffer <= 0 {
		return fmt.Errorf("journal.buffer must be > 0, got %d", cfg.Journal.Buffer)
	}

	return nil
}
