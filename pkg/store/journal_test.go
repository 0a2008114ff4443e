package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wcag-ai/spendguard/pkg/notify"
)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()

	journal, err := NewJournal(&JournalConfig{
		Path:   filepath.Join(t.TempDir(), "charges.db"),
		Buffer: 16,
	})
	if err != nil {
		t.Fatalf("NewJournal: %v", err)
	}
	return journal
}

func costEvent(actor string, cost string) notify.CostTracked {
	return notify.CostTracked{
		ActorID:        actor,
		OperationClass: "wcag-scan",
		Cost:           decimal.RequireFromString(cost),
		DailyTotal:     decimal.RequireFromString(cost),
		MonthlyTotal:   decimal.RequireFromString(cost),
		Timestamp:      time.Now().UTC(),
	}
}

// ============================================================================
// Charge Journal Tests
// ============================================================================

func TestJournal_WritesCharges(t *testing.T) {
	journal := newTestJournal(t)
	defer journal.Close()

	journal.OnCostTracked(costEvent("scanner-1", "0.04"))
	journal.OnCostTracked(costEvent("scanner-2", "1.20"))

	// The writer is asynchronous; wait for it to catch up.
	deadline := time.After(3 * time.Second)
	for {
		n, err := journal.Count()
		if err != nil {
			t.Fatalf("Count: %v", err)
		}
		if n == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("expected 2 journaled charges, got %d", n)
		case <-time.After(10 * time.Millisecond):
		}
	}

	if journal.Dropped() != 0 {
		t.Errorf("no events should have been dropped, got %d", journal.Dropped())
	}
}

func TestJournal_CloseDrainsBuffer(t *testing.T) {
	journal := newTestJournal(t)

	for i := 0; i < 10; i++ {
		journal.OnCostTracked(costEvent("scanner-1", "0.01"))
	}

	if err := journal.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Close drains the buffer, so nothing may be lost.
	if journal.Dropped() != 0 {
		t.Errorf("dropped %d events within buffer capacity", journal.Dropped())
	}
}

func TestJournal_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	journal, err := NewJournal(&JournalConfig{
		Path:   filepath.Join(t.TempDir(), "charges.db"),
		Buffer: 1,
	})
	if err != nil {
		t.Fatalf("NewJournal: %v", err)
	}
	defer journal.Close()

	// Flood far beyond the buffer; the call must never block the
	// charging path, so some events are counted as dropped instead.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			journal.OnCostTracked(costEvent("scanner-1", "0.01"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("OnCostTracked blocked on a full buffer")
	}
}

func TestJournal_OtherEventsIgnored(t *testing.T) {
	journal := newTestJournal(t)
	defer journal.Close()

	journal.OnBudgetAlert(notify.BudgetAlert{Kind: notify.AlertWarning})
	journal.OnKillSwitch(notify.KillSwitch{})
	journal.OnGateReopened(notify.GateReopened{})

	n, err := journal.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("non-charge events must not be journaled, got %d rows", n)
	}
}
