package notify

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLogSubscriber_AlertLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sub := NewLogSubscriber(logger)

	sub.OnBudgetAlert(BudgetAlert{
		Kind:       AlertExceeded,
		Scope:      ScopeDaily,
		Spend:      decimal.RequireFromString("100"),
		Limit:      decimal.RequireFromString("100"),
		Percentage: 1.0,
	})

	out := buf.String()
	if !strings.Contains(out, `"level":"ERROR"`) {
		t.Errorf("exceeded alert should log at error level, got %s", out)
	}
	if !strings.Contains(out, "exceeded") {
		t.Errorf("log should carry the alert kind, got %s", out)
	}
}

func TestLogSubscriber_KillSwitch(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{}))
	sub := NewLogSubscriber(logger)

	sub.OnKillSwitch(KillSwitch{Reason: "daily budget limit exceeded"})

	if !strings.Contains(buf.String(), "daily budget limit exceeded") {
		t.Errorf("kill switch log should carry the reason, got %s", buf.String())
	}
}
