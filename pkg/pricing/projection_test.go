package pricing

import "testing"

// ============================================================================
// Projection Tests
// ============================================================================

func TestProject_KnownWorkload(t *testing.T) {
	table := DefaultTable()

	// 100 ops/day, 1000 units per op, at $0.01 in / $0.03 out per 1K:
	// $0.04 per op, $4.00 daily, $120.00 monthly, $1460.00 yearly.
	projection, err := table.Project(100, 1000, "wcag-scan")
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	if !projection.CostPerOp.Equal(dec("0.04")) {
		t.Errorf("CostPerOp = %s, want 0.04", projection.CostPerOp)
	}
	if !projection.Daily.Equal(dec("4.00")) {
		t.Errorf("Daily = %s, want 4.00", projection.Daily)
	}
	if !projection.Monthly.Equal(dec("120.00")) {
		t.Errorf("Monthly = %s, want 120.00", projection.Monthly)
	}
	if !projection.Yearly.Equal(dec("1460.00")) {
		t.Errorf("Yearly = %s, want 1460.00", projection.Yearly)
	}
	if !projection.YearlyAt10x.Equal(dec("14600.00")) {
		t.Errorf("YearlyAt10x = %s, want 14600.00", projection.YearlyAt10x)
	}
	if !projection.YearlyAt100x.Equal(dec("146000.00")) {
		t.Errorf("YearlyAt100x = %s, want 146000.00", projection.YearlyAt100x)
	}
}

func TestProject_Deterministic(t *testing.T) {
	table := DefaultTable()

	first, err := table.Project(250, 800, "proposal-draft")
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	second, err := table.Project(250, 800, "proposal-draft")
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	if !first.Yearly.Equal(second.Yearly) {
		t.Errorf("projection not deterministic: %s vs %s", first.Yearly, second.Yearly)
	}
}

func TestProject_NegativeVolumeRejected(t *testing.T) {
	table := DefaultTable()

	if _, err := table.Project(-1, 1000, "wcag-scan"); err == nil {
		t.Error("expected error for negative ops per day")
	}
	if _, err := table.Project(100, -1, "wcag-scan"); err == nil {
		t.Error("expected error for negative units per op")
	}
}

func TestProject_ZeroVolume(t *testing.T) {
	table := DefaultTable()

	projection, err := table.Project(0, 0, "wcag-scan")
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if !projection.Yearly.IsZero() {
		t.Errorf("zero workload should project zero, got %s", projection.Yearly)
	}
}
