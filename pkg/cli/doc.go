// Package cli provides shared helpers for the spendguard command-line
// interface: signal-aware contexts for graceful shutdown, command error
// wrapping, and output formatting for text and JSON renderings of
// status and projection reports.
package cli
