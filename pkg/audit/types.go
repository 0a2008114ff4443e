package audit

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies the operator action an audit record describes.
type Kind string

const (
	// KindEmergencyReset is an authorized manual reset of the daily
	// accumulator and admission gate.
	KindEmergencyReset Kind = "emergency_reset"

	// KindOverrideDenied is an emergency reset attempt that was
	// rejected for missing authorization.
	KindOverrideDenied Kind = "override_denied"

	// KindLimitsUpdated is a limit change applied from configuration.
	KindLimitsUpdated Kind = "limits_updated"
)

// Record is a single immutable audit entry.
type Record struct {
	// ID is a unique identifier for the record.
	ID string `json:"id"`

	// Kind is the operator action.
	Kind Kind `json:"kind"`

	// Actor identifies who requested the action ("config", an operator
	// name, or a remote principal).
	Actor string `json:"actor"`

	// Authorized reports whether the action was permitted.
	Authorized bool `json:"authorized"`

	// PriorDailySpend and PriorMonthlySpend capture the accumulators
	// before the action took effect.
	PriorDailySpend   decimal.Decimal `json:"prior_daily_spend"`
	PriorMonthlySpend decimal.Decimal `json:"prior_monthly_spend"`

	// OldDailyLimit and NewDailyLimit capture a daily limit change.
	// They are equal when the action did not change the limit.
	OldDailyLimit decimal.Decimal `json:"old_daily_limit"`
	NewDailyLimit decimal.Decimal `json:"new_daily_limit"`

	// Reason is free-form operator context.
	Reason string `json:"reason,omitempty"`

	// Timestamp is when the action was processed.
	Timestamp time.Time `json:"timestamp"`
}

// Store persists audit records. Implementations must be safe for
// concurrent use.
type Store interface {
	// Append writes a record. Records are never updated or deleted.
	Append(ctx context.Context, record Record) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)

	// Close releases store resources.
	Close() error
}
