package governor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wcag-ai/spendguard/pkg/audit"
	"wcag-ai/spendguard/pkg/notify"
	"wcag-ai/spendguard/pkg/pricing"
)

// Config contains the governor's budget policy.
type Config struct {
	// DailyLimit is the hard daily spending ceiling in USD. Must be
	// positive.
	DailyLimit decimal.Decimal

	// MonthlyLimit is the hard monthly spending ceiling in USD. Must be
	// positive.
	MonthlyLimit decimal.Decimal

	// WarnRatio and CriticalRatio are the alert thresholds as spend/limit
	// ratios. Zero values default to 0.80 and 0.90.
	WarnRatio     decimal.Decimal
	CriticalRatio decimal.Decimal

	// OverrideAuthorized permits EmergencyReset. It is read from process
	// configuration at startup; an unauthorized reset attempt is
	// rejected and audited.
	OverrideAuthorized bool

	// TopN is the number of rows in Status top-actor and top-class
	// reports. Zero defaults to 5.
	TopN int

	// Clock overrides the governor's time source. Nil means time.Now.
	// Tests use this to drive reset boundaries deterministically.
	Clock func() time.Time
}

// Governor owns the budget state for one process: the charge ledger, the
// daily and monthly accumulators, and the admission gate. Construct it
// with New and share the instance; all methods are safe for concurrent
// use.
type Governor struct {
	table      *pricing.Table
	dispatcher *notify.Dispatcher
	auditStore audit.Store
	logger     *slog.Logger
	now        func() time.Time

	warnRatio     decimal.Decimal
	criticalRatio decimal.Decimal
	authorized    bool
	topN          int

	// mu guards every field below. Spend totals, gate state, and alert
	// marks must change atomically together, so there is exactly one
	// critical section and no per-field locking.
	mu sync.Mutex

	ledger       *ledger
	dailySpend   decimal.Decimal
	monthlySpend decimal.Decimal
	dailyLimit   decimal.Decimal
	monthlyLimit decimal.Decimal
	gateOpen     bool

	lastDailyReset time.Time

	// dailyAlerted and monthlyAlerted hold the highest alert severity
	// already emitted this period, for one-shot alert de-duplication.
	dailyAlerted   int
	monthlyAlerted int
}

// pendingEvents collects notifier events produced inside the critical
// section. They are dispatched only after the lock is released.
type pendingEvents struct {
	cost     *notify.CostTracked
	alerts   []notify.BudgetAlert
	closed   *notify.KillSwitch
	reopened *notify.GateReopened
}

// New creates a governor with an open gate and empty accumulators.
func New(cfg Config, table *pricing.Table, dispatcher *notify.Dispatcher, auditStore audit.Store) (*Governor, error) {
	if !cfg.DailyLimit.IsPositive() || !cfg.MonthlyLimit.IsPositive() {
		return nil, ErrInvalidLimit
	}
	if table == nil {
		return nil, fmt.Errorf("rate table is required")
	}
	if dispatcher == nil {
		dispatcher = notify.NewDispatcher()
	}
	if auditStore == nil {
		auditStore = audit.NewMemoryStore()
	}

	warnRatio := cfg.WarnRatio
	if warnRatio.IsZero() {
		warnRatio = decimal.RequireFromString("0.80")
	}
	criticalRatio := cfg.CriticalRatio
	if criticalRatio.IsZero() {
		criticalRatio = decimal.RequireFromString("0.90")
	}

	topN := cfg.TopN
	if topN <= 0 {
		topN = 5
	}

	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	return &Governor{
		table:          table,
		dispatcher:     dispatcher,
		auditStore:     auditStore,
		logger:         slog.Default().With("component", "governor"),
		now:            now,
		warnRatio:      warnRatio,
		criticalRatio:  criticalRatio,
		authorized:     cfg.OverrideAuthorized,
		topN:           topN,
		ledger:         newLedger(),
		dailyLimit:     cfg.DailyLimit,
		monthlyLimit:   cfg.MonthlyLimit,
		gateOpen:       true,
		lastDailyReset: now().UTC(),
	}, nil
}

// Charge admits, prices, and records one metered operation.
//
// The gate check, ledger append, accumulator update, threshold
// evaluation, and any gate transition happen as a single atomic step
// with respect to concurrent charges and scheduler ticks. If the gate is
// closed at call time the charge is rejected with ErrBudgetExceeded and
// nothing is recorded.
func (g *Governor) Charge(actorID, operationClass string, inputUnits, outputUnits int64) (*Receipt, error) {
	if inputUnits < 0 || outputUnits < 0 {
		return nil, fmt.Errorf("%w: input=%d output=%d", ErrInvalidUnits, inputUnits, outputUnits)
	}

	g.mu.Lock()

	if !g.gateOpen {
		g.mu.Unlock()
		return nil, ErrBudgetExceeded
	}

	now := g.now().UTC()
	cost := g.table.Cost(operationClass, inputUnits, outputUnits)

	entry := ChargeEntry{
		ID:             uuid.NewString(),
		ActorID:        actorID,
		OperationClass: operationClass,
		InputUnits:     inputUnits,
		OutputUnits:    outputUnits,
		Cost:           cost,
		OccurredAt:     now,
	}

	g.ledger.append(entry)
	g.dailySpend = g.dailySpend.Add(cost)
	g.monthlySpend = g.monthlySpend.Add(cost)

	events := &pendingEvents{
		cost: &notify.CostTracked{
			ActorID:        actorID,
			OperationClass: operationClass,
			Cost:           cost,
			DailyTotal:     g.dailySpend,
			MonthlyTotal:   g.monthlySpend,
			Timestamp:      now,
		},
	}
	g.evaluateLocked(now, events)

	receipt := &Receipt{
		Cost:           cost,
		DailyRemaining: clampZero(g.dailyLimit.Sub(g.dailySpend)),
		GateOpen:       g.gateOpen,
	}

	g.mu.Unlock()

	g.publish(events)
	return receipt, nil
}

// Reevaluate re-runs threshold evaluation against the current
// accumulators without recording a charge. The scheduler invokes it
// periodically so that externally changed limits are reflected even when
// no charges arrive, and it doubles as a liveness heartbeat.
func (g *Governor) Reevaluate() {
	g.mu.Lock()
	events := &pendingEvents{}
	g.evaluateLocked(g.now().UTC(), events)
	g.mu.Unlock()

	g.publish(events)
}

// DailyReset clears the daily accumulator at the UTC day boundary and
// reopens the gate provided monthly spend is still under its limit. The
// first daily reset of a new calendar month also clears the monthly
// accumulator; without that the monthly ceiling could only ever be
// lifted by operator action.
func (g *Governor) DailyReset() {
	now := g.now().UTC()

	g.mu.Lock()

	monthRollover := g.lastDailyReset.UTC().Month() != now.Month() ||
		g.lastDailyReset.UTC().Year() != now.Year()
	if monthRollover {
		g.monthlySpend = decimal.Zero
		g.monthlyAlerted = severityNone
	}

	g.dailySpend = decimal.Zero
	g.dailyAlerted = severityNone
	g.lastDailyReset = now

	events := &pendingEvents{}
	if !g.gateOpen && g.monthlySpend.Cmp(g.monthlyLimit) < 0 {
		g.gateOpen = true
		events.reopened = &notify.GateReopened{Reason: "daily reset", Timestamp: now}
	}

	g.mu.Unlock()

	g.logger.Info("daily budget reset",
		"month_rollover", monthRollover,
		"reset_at", now,
	)
	g.publish(events)
}

// EmergencyReset clears the daily accumulator and reopens the gate
// outside the normal schedule. newDailyLimit, when non-nil, installs a
// new daily limit; it must be positive.
//
// The reset is refused with ErrUnauthorizedOverride unless the governor
// was configured with override authorization. Both outcomes are written
// to the audit store; the denied path leaves state untouched.
func (g *Governor) EmergencyReset(ctx context.Context, operator string, newDailyLimit *decimal.Decimal) error {
	now := g.now().UTC()

	if !g.authorized {
		g.mu.Lock()
		record := audit.Record{
			ID:                uuid.NewString(),
			Kind:              audit.KindOverrideDenied,
			Actor:             operator,
			Authorized:        false,
			PriorDailySpend:   g.dailySpend,
			PriorMonthlySpend: g.monthlySpend,
			OldDailyLimit:     g.dailyLimit,
			NewDailyLimit:     g.dailyLimit,
			Reason:            "override not authorized by configuration",
			Timestamp:         now,
		}
		g.mu.Unlock()

		g.logger.Warn("unauthorized emergency reset attempt",
			"operator", operator,
		)
		g.appendAudit(ctx, record)
		return ErrUnauthorizedOverride
	}

	if newDailyLimit != nil && !newDailyLimit.IsPositive() {
		return fmt.Errorf("%w: new daily limit %s", ErrInvalidLimit, newDailyLimit.String())
	}

	g.mu.Lock()

	record := audit.Record{
		ID:                uuid.NewString(),
		Kind:              audit.KindEmergencyReset,
		Actor:             operator,
		Authorized:        true,
		PriorDailySpend:   g.dailySpend,
		PriorMonthlySpend: g.monthlySpend,
		OldDailyLimit:     g.dailyLimit,
		NewDailyLimit:     g.dailyLimit,
		Timestamp:         now,
	}

	if newDailyLimit != nil {
		g.dailyLimit = *newDailyLimit
		record.NewDailyLimit = *newDailyLimit
	}

	g.dailySpend = decimal.Zero
	g.dailyAlerted = severityNone

	events := &pendingEvents{}
	if !g.gateOpen && g.monthlySpend.Cmp(g.monthlyLimit) < 0 {
		g.gateOpen = true
		events.reopened = &notify.GateReopened{Reason: "emergency reset", Timestamp: now}
	}

	g.mu.Unlock()

	g.logger.Warn("emergency reset applied",
		"operator", operator,
		"prior_daily_spend_usd", record.PriorDailySpend.String(),
		"new_daily_limit_usd", record.NewDailyLimit.String(),
	)
	g.appendAudit(ctx, record)
	g.publish(events)
	return nil
}

// UpdateLimits installs new daily and monthly limits, typically from a
// configuration reload. Limits must be positive. The change is audited
// and thresholds are re-evaluated immediately: lowering a limit below
// current spend closes the gate on this call. Raising a limit never
// reopens a closed gate; only a reset does that.
func (g *Governor) UpdateLimits(ctx context.Context, actor string, daily, monthly decimal.Decimal) error {
	if !daily.IsPositive() || !monthly.IsPositive() {
		return fmt.Errorf("%w: daily=%s monthly=%s", ErrInvalidLimit, daily.String(), monthly.String())
	}

	now := g.now().UTC()

	g.mu.Lock()

	record := audit.Record{
		ID:                uuid.NewString(),
		Kind:              audit.KindLimitsUpdated,
		Actor:             actor,
		Authorized:        true,
		PriorDailySpend:   g.dailySpend,
		PriorMonthlySpend: g.monthlySpend,
		OldDailyLimit:     g.dailyLimit,
		NewDailyLimit:     daily,
		Timestamp:         now,
	}

	g.dailyLimit = daily
	g.monthlyLimit = monthly

	events := &pendingEvents{}
	g.evaluateLocked(now, events)

	g.mu.Unlock()

	g.logger.Info("budget limits updated",
		"actor", actor,
		"daily_limit_usd", daily.String(),
		"monthly_limit_usd", monthly.String(),
	)
	g.appendAudit(ctx, record)
	g.publish(events)
	return nil
}

// Status returns a read-only snapshot of the governor's state.
func (g *Governor) Status() *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	return &Snapshot{
		DailySpend:        g.dailySpend,
		MonthlySpend:      g.monthlySpend,
		DailyLimit:        g.dailyLimit,
		MonthlyLimit:      g.monthlyLimit,
		DailyPercentage:   ratio(g.dailySpend, g.dailyLimit),
		MonthlyPercentage: ratio(g.monthlySpend, g.monthlyLimit),
		GateOpen:          g.gateOpen,
		LastDailyReset:    g.lastDailyReset,
		Charges:           len(g.ledger.entries),
		TopActors:         g.ledger.topActors(g.topN),
		TopClasses:        g.ledger.topClasses(g.topN),
	}
}

// Entries returns a copy of the full charge ledger.
func (g *Governor) Entries() []ChargeEntry {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ledger.snapshot()
}

// Projection extrapolates spend for a hypothetical workload from the
// rate table. Purely derived; recorded history does not influence it.
func (g *Governor) Projection(opsPerDay, unitsPerOp int64, operationClass string) (*pricing.Projection, error) {
	return g.table.Project(opsPerDay, unitsPerOp, operationClass)
}

// evaluateLocked classifies both accumulators, queues newly crossed
// alerts, and closes the gate on a breach. Caller must hold g.mu.
func (g *Governor) evaluateLocked(now time.Time, events *pendingEvents) {
	breached := false

	dailySeverity := classify(g.dailySpend, g.dailyLimit, g.warnRatio, g.criticalRatio)
	if dailySeverity > g.dailyAlerted {
		g.dailyAlerted = dailySeverity
		events.alerts = append(events.alerts, notify.BudgetAlert{
			Kind:       alertKind(dailySeverity),
			Scope:      notify.ScopeDaily,
			Spend:      g.dailySpend,
			Limit:      g.dailyLimit,
			Percentage: ratio(g.dailySpend, g.dailyLimit),
			Timestamp:  now,
		})
	}
	breached = breached || dailySeverity == severityExceeded

	monthlySeverity := classify(g.monthlySpend, g.monthlyLimit, g.warnRatio, g.criticalRatio)
	if monthlySeverity > g.monthlyAlerted {
		g.monthlyAlerted = monthlySeverity
		events.alerts = append(events.alerts, notify.BudgetAlert{
			Kind:       alertKind(monthlySeverity),
			Scope:      notify.ScopeMonthly,
			Spend:      g.monthlySpend,
			Limit:      g.monthlyLimit,
			Percentage: ratio(g.monthlySpend, g.monthlyLimit),
			Timestamp:  now,
		})
	}
	breached = breached || monthlySeverity == severityExceeded

	// Either scope closes the gate; closing twice is a no-op.
	if breached && g.gateOpen {
		g.gateOpen = false
		events.closed = &notify.KillSwitch{
			Reason:       breachReason(dailySeverity, monthlySeverity),
			DailySpend:   g.dailySpend,
			MonthlySpend: g.monthlySpend,
			Timestamp:    now,
		}
	}
}

// publish dispatches queued events. Never called while holding g.mu.
func (g *Governor) publish(events *pendingEvents) {
	if events == nil {
		return
	}
	if events.cost != nil {
		g.dispatcher.CostTracked(*events.cost)
	}
	for _, alert := range events.alerts {
		g.dispatcher.BudgetAlert(alert)
	}
	if events.closed != nil {
		g.dispatcher.KillSwitch(*events.closed)
	}
	if events.reopened != nil {
		g.dispatcher.GateReopened(*events.reopened)
	}
}

// appendAudit writes an audit record outside the critical section. A
// failed write is logged but never rolls back the transition it
// describes; the fail-safe direction is a closed gate, not lost state.
func (g *Governor) appendAudit(ctx context.Context, record audit.Record) {
	if err := g.auditStore.Append(ctx, record); err != nil {
		g.logger.Error("failed to write audit record",
			"kind", string(record.Kind),
			"error", err,
		)
	}
}

func breachReason(dailySeverity, monthlySeverity int) string {
	switch {
	case dailySeverity == severityExceeded && monthlySeverity == severityExceeded:
		return "daily and monthly budget limits exceeded"
	case monthlySeverity == severityExceeded:
		return "monthly budget limit exceeded"
	default:
		return "daily budget limit exceeded"
	}
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
