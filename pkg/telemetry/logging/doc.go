// Package logging configures the process-wide structured logger.
//
// Spendguard logs through log/slog everywhere; this package owns handler
// construction (level, format, source annotation) and the component
// tagging convention used across packages.
package logging
