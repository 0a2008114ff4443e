package notify

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertKind classifies how far spend has progressed toward a limit.
type AlertKind string

const (
	// AlertWarning fires when spend reaches 80% of a limit.
	AlertWarning AlertKind = "warning"

	// AlertCritical fires when spend reaches 90% of a limit.
	AlertCritical AlertKind = "critical"

	// AlertExceeded fires when spend reaches 100% of a limit and the
	// gate closes.
	AlertExceeded AlertKind = "exceeded"
)

// Scope identifies which accumulator an alert refers to.
type Scope string

const (
	// ScopeDaily refers to the daily accumulator.
	ScopeDaily Scope = "daily"

	// ScopeMonthly refers to the monthly accumulator.
	ScopeMonthly Scope = "monthly"
)

// CostTracked is emitted unconditionally for every accepted charge,
// independent of alerting.
type CostTracked struct {
	ActorID        string
	OperationClass string
	Cost           decimal.Decimal
	DailyTotal     decimal.Decimal
	MonthlyTotal   decimal.Decimal
	Timestamp      time.Time
}

// BudgetAlert is emitted at most once per alert kind per scope per reset
// period.
type BudgetAlert struct {
	Kind       AlertKind
	Scope      Scope
	Spend      decimal.Decimal
	Limit      decimal.Decimal
	Percentage float64
	Timestamp  time.Time
}

// KillSwitch is emitted when the admission gate transitions to closed.
// Downstream services that issue metered calls themselves should stop
// work when they receive it.
type KillSwitch struct {
	Reason       string
	DailySpend   decimal.Decimal
	MonthlySpend decimal.Decimal
	Timestamp    time.Time
}

// GateReopened is emitted when the admission gate transitions back to
// open after a scheduled or emergency reset.
type GateReopened struct {
	Reason    string
	Timestamp time.Time
}

// Subscriber receives governor events. Implementations must be safe for
// concurrent use; events for independent charges may arrive from
// different goroutines.
type Subscriber interface {
	// OnCostTracked is invoked once per accepted charge.
	OnCostTracked(e CostTracked)

	// OnBudgetAlert is invoked when a threshold is crossed.
	OnBudgetAlert(e BudgetAlert)

	// OnKillSwitch is invoked when the gate closes.
	OnKillSwitch(e KillSwitch)

	// OnGateReopened is invoked when the gate reopens.
	OnGateReopened(e GateReopened)
}
