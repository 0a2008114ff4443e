package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file, applies defaults, applies
// SPENDGUARD_* environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("configuration file %q: %w", path, err)
	}
	return cfg, nil
}

// Parse builds a configuration from raw YAML, applying defaults, env
// overrides, and validation.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// applyEnvOverrides applies SPENDGUARD_SECTION_FIELD environment
// variables on top of the file. Environment always wins.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SPENDGUARD_BUDGET_DAILY_LIMIT_USD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Budget.DailyLimitUSD = f
		}
	}
	if v := os.Getenv("SPENDGUARD_BUDGET_MONTHLY_LIMIT_USD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Budget.MonthlyLimitUSD = f
		}
	}
	if v := os.Getenv("SPENDGUARD_OVERRIDE_ALLOWED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Override.Allowed = b
		}
	}
	if v := os.Getenv("SPENDGUARD_OVERRIDE_TOKEN"); v != "" {
		cfg.Override.Token = v
	}
	if v := os.Getenv("SPENDGUARD_SCHEDULER_REEVALUATE_EVERY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Scheduler.ReevaluateEvery = d
		}
	}
	if v := os.Getenv("SPENDGUARD_SERVER_LISTEN_ADDRESS"); v != "" {
		cfg.Server.ListenAddress = v
	}
	if v := os.Getenv("SPENDGUARD_LOG_LEVEL"); v != "" {
		cfg.Telemetry.Logging.Level = v
	}
	if v := os.Getenv("SPENDGUARD_AUDIT_PATH"); v != "" {
		cfg.Audit.Path = v
	}
	if v := os.Getenv("SPENDGUARD_JOURNAL_PATH"); v != "" {
		cfg.Journal.Path = v
	}
}
