package governor

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChargeEntry is an immutable record of a single accepted charge. Entries
// are created once, appended to the ledger, and never mutated; consumers
// only see copies.
type ChargeEntry struct {
	// ID is a unique identifier for the charge.
	ID string

	// ActorID identifies who incurred the cost.
	ActorID string

	// OperationClass is the rate-table key the charge was priced with.
	OperationClass string

	// InputUnits is the metered input unit count (>= 0).
	InputUnits int64

	// OutputUnits is the metered output unit count (>= 0).
	OutputUnits int64

	// Cost is the exact USD cost derived from the rate table.
	Cost decimal.Decimal

	// OccurredAt is when the charge was accepted.
	OccurredAt time.Time
}

// Receipt is returned for every accepted charge.
type Receipt struct {
	// Cost is the USD cost of this charge.
	Cost decimal.Decimal

	// DailyRemaining is the daily budget left after this charge,
	// clamped to zero.
	DailyRemaining decimal.Decimal

	// GateOpen reports whether the gate is still open after this
	// charge. False means this charge tripped the kill switch.
	GateOpen bool
}

// CostBreakdown is one row of a top-N report.
type CostBreakdown struct {
	// Name is the actor ID or operation class.
	Name string

	// Cost is the cumulative USD cost attributed to Name.
	Cost decimal.Decimal

	// Charges is the number of charges attributed to Name.
	Charges int
}

// Snapshot is a read-only view of the governor's state.
type Snapshot struct {
	DailySpend   decimal.Decimal
	MonthlySpend decimal.Decimal
	DailyLimit   decimal.Decimal
	MonthlyLimit decimal.Decimal

	// DailyPercentage and MonthlyPercentage are spend/limit ratios in
	// [0, 1+], for display and metrics only. Enforcement always compares
	// exact decimals.
	DailyPercentage   float64
	MonthlyPercentage float64

	// GateOpen reports whether metered operations are currently
	// admitted.
	GateOpen bool

	// LastDailyReset is when the daily accumulator was last cleared.
	LastDailyReset time.Time

	// Charges is the total number of ledger entries.
	Charges int

	// TopActors and TopClasses rank cumulative cost in descending
	// order, ties broken by first appearance in the ledger.
	TopActors  []CostBreakdown
	TopClasses []CostBreakdown
}
