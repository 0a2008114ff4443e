package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"wcag-ai/spendguard/pkg/notify"
)

func usd(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ============================================================================
// Collector Tests
// ============================================================================

func TestCollector_CostTracked(t *testing.T) {
	c := NewCollector(Config{})

	c.OnCostTracked(notify.CostTracked{
		ActorID:        "scanner-1",
		OperationClass: "wcag-scan",
		Cost:           usd("0.25"),
		DailyTotal:     usd("0.25"),
		MonthlyTotal:   usd("0.25"),
	})
	c.OnCostTracked(notify.CostTracked{
		ActorID:        "scanner-1",
		OperationClass: "wcag-scan",
		Cost:           usd("0.75"),
		DailyTotal:     usd("1.00"),
		MonthlyTotal:   usd("1.00"),
	})

	got := testutil.ToFloat64(c.costTotal.WithLabelValues("scanner-1", "wcag-scan"))
	if got != 1.0 {
		t.Errorf("cost_total_usd = %v, want 1.0", got)
	}
	if n := testutil.ToFloat64(c.chargeTotal.WithLabelValues("wcag-scan")); n != 2 {
		t.Errorf("charges_total = %v, want 2", n)
	}
	if spend := testutil.ToFloat64(c.dailySpend); spend != 1.0 {
		t.Errorf("daily_spend_usd = %v, want 1.0", spend)
	}
}

func TestCollector_GateTransitions(t *testing.T) {
	c := NewCollector(Config{})

	if open := testutil.ToFloat64(c.gateOpen); open != 1 {
		t.Fatalf("gate should start open, got %v", open)
	}

	c.OnKillSwitch(notify.KillSwitch{Reason: "daily budget limit exceeded"})
	if open := testutil.ToFloat64(c.gateOpen); open != 0 {
		t.Errorf("gate_open = %v after kill switch, want 0", open)
	}

	c.dailySpend.Set(42)
	c.OnGateReopened(notify.GateReopened{Reason: "daily reset"})
	if open := testutil.ToFloat64(c.gateOpen); open != 1 {
		t.Errorf("gate_open = %v after reopen, want 1", open)
	}
	if spend := testutil.ToFloat64(c.dailySpend); spend != 0 {
		t.Errorf("daily reset should zero the spend gauge, got %v", spend)
	}
}

func TestCollector_Alerts(t *testing.T) {
	c := NewCollector(Config{})

	c.OnBudgetAlert(notify.BudgetAlert{Kind: notify.AlertWarning, Scope: notify.ScopeDaily})
	c.OnBudgetAlert(notify.BudgetAlert{Kind: notify.AlertCritical, Scope: notify.ScopeDaily})
	c.OnBudgetAlert(notify.BudgetAlert{Kind: notify.AlertWarning, Scope: notify.ScopeMonthly})

	if n := testutil.ToFloat64(c.alertTotal.WithLabelValues("warning", "daily")); n != 1 {
		t.Errorf("warning/daily = %v, want 1", n)
	}
	if n := testutil.ToFloat64(c.alertTotal.WithLabelValues("critical", "daily")); n != 1 {
		t.Errorf("critical/daily = %v, want 1", n)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector(Config{Namespace: "spendguard"})
	c.SetLimits(50, 500)
	c.Heartbeat(time.Unix(1700000000, 0))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	out := rec.Body.String()
	if !strings.Contains(out, "spendguard_daily_limit_usd 50") {
		t.Errorf("missing daily limit gauge in:\n%s", out)
	}
	if !strings.Contains(out, "spendguard_gate_open 1") {
		t.Errorf("missing gate gauge in:\n%s", out)
	}
	if !strings.Contains(out, "spendguard_scheduler_heartbeat_timestamp_seconds") {
		t.Errorf("missing heartbeat gauge in:\n%s", out)
	}
}
