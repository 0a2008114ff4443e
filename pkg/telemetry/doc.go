// Package telemetry groups spendguard's observability concerns.
//
// # Components
//
//   - logging: structured logging through log/slog
//   - metrics: Prometheus metrics for spend, alerts, and gate state
//
// Both attach to the governor through the notifier dispatcher; nothing
// in the charging path blocks on telemetry.
package telemetry
