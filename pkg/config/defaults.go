package config

import "time"

// ApplyDefaults fills in default values for omitted fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Budget.DailyLimitUSD == 0 {
		cfg.Budget.DailyLimitUSD = 50.00
	}
	if cfg.Budget.MonthlyLimitUSD == 0 {
		cfg.Budget.MonthlyLimitUSD = 500.00
	}
	if cfg.Budget.WarnRatio == 0 {
		cfg.Budget.WarnRatio = 0.80
	}
	if cfg.Budget.CriticalRatio == 0 {
		cfg.Budget.CriticalRatio = 0.90
	}
	if cfg.Budget.TopN == 0 {
		cfg.Budget.TopN = 5
	}

	if cfg.Pricing.DefaultClass == "" {
		cfg.Pricing.DefaultClass = "default"
	}

	if cfg.Scheduler.ReevaluateEvery == 0 {
		cfg.Scheduler.ReevaluateEvery = 60 * time.Second
	}
	if cfg.Scheduler.DailyResetSchedule == "" {
		cfg.Scheduler.DailyResetSchedule = "0 0 * * *"
	}

	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = "127.0.0.1:8787"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "json"
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = "spendguard"
	}

	if cfg.Audit.Path == "" {
		cfg.Audit.Path = "data/audit.db"
	}

	if cfg.Journal.Path == "" {
		cfg.Journal.Path = "data/charges.db"
	}
	if cfg.Journal.Buffer == 0 {
		cfg.Journal.Buffer = 1000
	}
}

// NewDefault returns a fully defaulted configuration with metrics and
// the journal enabled, suitable for tests and --dry-run.
func NewDefault() *Config {
	cfg := &Config{}
	cfg.Telemetry.Metrics.Enabled = true
	cfg.Journal.Enabled = true
	ApplyDefaults(cfg)
	return cfg
}
