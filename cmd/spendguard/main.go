// Spendguard is a budget governor for metered AI operations.
//
// It prices every operation against a rate table, accumulates daily and
// monthly spend exactly, raises alerts as thresholds are crossed, and
// closes an admission gate the moment a hard limit is reached. A small
// HTTP admin API exposes charging, status, projections, and the audited
// emergency override.
//
// Usage:
//
//	# Start the governor with default configuration
//	spendguard run
//
//	# Start with a custom configuration file
//	spendguard run --config /etc/spendguard/config.yaml
//
//	# Validate a configuration file
//	spendguard validate --config config.yaml
//
//	# Query a running governor
//	spendguard status --address 127.0.0.1:8787
//
//	# Project costs before enabling a new operation class
//	spendguard project --ops-per-day 100 --units-per-op 1000 --class wcag-scan
package main

func main() {
	Execute()
}
