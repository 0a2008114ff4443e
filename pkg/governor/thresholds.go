package governor

import (
	"github.com/shopspring/decimal"

	"wcag-ai/spendguard/pkg/notify"
)

// Alert severity ranks for per-period de-duplication. Within one reset
// period an alert kind fires at most once, and a higher severity
// supersedes a lower one without re-emitting it.
const (
	severityNone = iota
	severityWarning
	severityCritical
	severityExceeded
)

// classify maps a spend/limit pair to an alert severity.
//
// Pure function: no side effects, exact decimal comparisons.
//
//	spend <  80% of limit  -> severityNone
//	spend >= 80%           -> severityWarning
//	spend >= 90%           -> severityCritical
//	spend >= 100%          -> severityExceeded
func classify(spend, limit, warnRatio, criticalRatio decimal.Decimal) int {
	if !limit.IsPositive() {
		return severityNone
	}

	switch {
	case spend.Cmp(limit) >= 0:
		return severityExceeded
	case spend.Cmp(limit.Mul(criticalRatio)) >= 0:
		return severityCritical
	case spend.Cmp(limit.Mul(warnRatio)) >= 0:
		return severityWarning
	default:
		return severityNone
	}
}

// alertKind converts a severity back to the wire-level alert kind.
func alertKind(severity int) notify.AlertKind {
	switch severity {
	case severityExceeded:
		return notify.AlertExceeded
	case severityCritical:
		return notify.AlertCritical
	default:
		return notify.AlertWarning
	}
}

// ratio returns spend/limit as a float for reporting. Enforcement never
// uses this value.
func ratio(spend, limit decimal.Decimal) float64 {
	if !limit.IsPositive() {
		return 0
	}
	f, _ := spend.Div(limit).Float64()
	return f
}
