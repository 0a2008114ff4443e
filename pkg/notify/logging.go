package notify

import "log/slog"

// LogSubscriber writes governor events to structured logs.
type LogSubscriber struct {
	logger *slog.Logger
}

// NewLogSubscriber creates a logging subscriber. A nil logger falls back
// to slog.Default.
func NewLogSubscriber(logger *slog.Logger) *LogSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSubscriber{
		logger: logger.With("component", "governor.events"),
	}
}

func (l *LogSubscriber) OnCostTracked(e CostTracked) {
	l.logger.Debug("cost tracked",
		"actor", e.ActorID,
		"class", e.OperationClass,
		"cost_usd", e.Cost.String(),
		"daily_total_usd", e.DailyTotal.String(),
		"monthly_total_usd", e.MonthlyTotal.String(),
	)
}

func (l *LogSubscriber) OnBudgetAlert(e BudgetAlert) {
	attrs := []any{
		"kind", string(e.Kind),
		"scope", string(e.Scope),
		"spend_usd", e.Spend.String(),
		"limit_usd", e.Limit.String(),
		"percentage", e.Percentage,
	}
	switch e.Kind {
	case AlertExceeded:
		l.logger.Error("budget exceeded", attrs...)
	case AlertCritical:
		l.logger.Warn("budget critical", attrs...)
	default:
		l.logger.Warn("budget warning", attrs...)
	}
}

func (l *LogSubscriber) OnKillSwitch(e KillSwitch) {
	l.logger.Error("kill switch activated, metered operations halted",
		"reason", e.Reason,
		"daily_spend_usd", e.DailySpend.String(),
		"monthly_spend_usd", e.MonthlySpend.String(),
	)
}

func (l *LogSubscriber) OnGateReopened(e GateReopened) {
	l.logger.Info("admission gate reopened",
		"reason", e.Reason,
	)
}
