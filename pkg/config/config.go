package config

import "time"

// Config is the root configuration for spendguard.
type Config struct {
	// Budget contains the spending limits and alert thresholds.
	Budget BudgetConfig `yaml:"budget"`

	// Pricing contains the rate table for operation classes.
	Pricing PricingConfig `yaml:"pricing"`

	// Override contains emergency reset authorization.
	Override OverrideConfig `yaml:"override"`

	// Scheduler contains timer settings for re-evaluation and the
	// daily reset boundary.
	Scheduler SchedulerConfig `yaml:"scheduler"`

	// Server contains the HTTP admin server settings.
	Server ServerConfig `yaml:"server"`

	// Telemetry contains logging and metrics settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Audit contains the audit store settings.
	Audit AuditConfig `yaml:"audit"`

	// Journal contains the charge journal settings.
	Journal JournalConfig `yaml:"journal"`
}

// BudgetConfig contains spending limits and alert thresholds.
type BudgetConfig struct {
	// DailyLimitUSD is the hard daily spending ceiling. Must be > 0.
	// Default: 50.00
	DailyLimitUSD float64 `yaml:"daily_limit_usd"`

	// MonthlyLimitUSD is the hard monthly spending ceiling. Must be > 0.
	// Default: 500.00
	MonthlyLimitUSD float64 `yaml:"monthly_limit_usd"`

	// WarnRatio is the spend/limit ratio that triggers a warning alert.
	// Default: 0.80
	WarnRatio float64 `yaml:"warn_ratio"`

	// CriticalRatio is the spend/limit ratio that triggers a critical
	// alert. Default: 0.90
	CriticalRatio float64 `yaml:"critical_ratio"`

	// TopN is the number of rows in status top-actor and top-class
	// reports. Default: 5
	TopN int `yaml:"top_n"`
}

// PricingConfig contains the rate table.
type PricingConfig struct {
	// DefaultClass is the fallback class for unknown operation classes.
	// Default: "default"
	DefaultClass string `yaml:"default_class"`

	// Classes maps operation classes to USD-per-1000-unit prices. When
	// empty, the built-in table is used.
	Classes map[string]ClassRate `yaml:"classes"`
}

// ClassRate contains the unit prices for one operation class.
type ClassRate struct {
	// InputPer1K is USD per 1000 input units.
	InputPer1K float64 `yaml:"input_per_1k"`

	// OutputPer1K is USD per 1000 output units.
	OutputPer1K float64 `yaml:"output_per_1k"`
}

// OverrideConfig contains emergency reset authorization.
type OverrideConfig struct {
	// Allowed permits emergency resets. Default: false; an attempt
	// while false is rejected and audited.
	Allowed bool `yaml:"allowed"`

	// Token, when set, must be presented by the HTTP override endpoint
	// caller in the Authorization header.
	Token string `yaml:"token"`
}

// SchedulerConfig contains timer settings.
type SchedulerConfig struct {
	// ReevaluateEvery is the periodic threshold re-evaluation interval.
	// Default: 60s
	ReevaluateEvery time.Duration `yaml:"reevaluate_every"`

	// DailyResetSchedule is the cron expression for the daily reset,
	// evaluated in UTC. Default: "0 0 * * *"
	DailyResetSchedule string `yaml:"daily_reset_schedule"`
}

// ServerConfig contains the HTTP admin server settings.
type ServerConfig struct {
	// ListenAddress is the host:port to listen on.
	// Default: "127.0.0.1:8787"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 10s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	// Default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown. Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TelemetryConfig contains logging and metrics settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json" or "text". Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes /metrics. Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix. Default: "spendguard"
	Namespace string `yaml:"namespace"`
}

// AuditConfig contains audit store settings.
type AuditConfig struct {
	// Path is the SQLite database file. Empty selects the in-memory
	// store. Default: "data/audit.db"
	Path string `yaml:"path"`
}

// JournalConfig contains charge journal settings.
type JournalConfig struct {
	// Enabled turns the durable charge journal on. Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file. Default: "data/charges.db"
	Path string `yaml:"path"`

	// Buffer is the async write buffer size. Default: 1000
	Buffer int `yaml:"buffer"`
}
