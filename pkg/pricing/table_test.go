package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

// ============================================================================
// Rate Table Tests
// ============================================================================

func TestNewTable_RequiresDefaultClass(t *testing.T) {
	rates := map[string]Rate{
		"scan": {InputPer1K: dec("0.01"), OutputPer1K: dec("0.03")},
	}

	_, err := NewTable(rates, "missing")
	if err == nil {
		t.Fatal("expected error when default class is not in the table")
	}
}

func TestNewTable_RejectsNegativeRates(t *testing.T) {
	rates := map[string]Rate{
		"scan": {InputPer1K: dec("-0.01"), OutputPer1K: dec("0.03")},
	}

	_, err := NewTable(rates, "scan")
	if err == nil {
		t.Fatal("expected error for negative rate")
	}
}

func TestTable_Lookup_UnknownFallsBackToDefault(t *testing.T) {
	table := DefaultTable()

	rate, exact := table.Lookup("never-configured")
	if exact {
		t.Error("unknown class should not report an exact match")
	}

	defaultRate, ok := table.Lookup("default")
	if !ok {
		t.Fatal("built-in table must contain the default class")
	}
	if !rate.InputPer1K.Equal(defaultRate.InputPer1K) {
		t.Errorf("fallback rate = %s, want default %s", rate.InputPer1K, defaultRate.InputPer1K)
	}
}

func TestTable_Cost_Exact(t *testing.T) {
	table := DefaultTable()

	// 1000 input units at $0.01/1K plus 1000 output units at $0.03/1K.
	cost := table.Cost("wcag-scan", 1000, 1000)
	want := dec("0.04")
	if !cost.Equal(want) {
		t.Errorf("Cost = %s, want %s", cost, want)
	}
}

func TestTable_Cost_FractionalUnitsStayExact(t *testing.T) {
	rates := map[string]Rate{
		"scan": {InputPer1K: dec("0.01"), OutputPer1K: dec("0.03")},
	}
	table, err := NewTable(rates, "scan")
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	// 1 input unit: 0.01/1000 is not representable in binary floating
	// point, but must be exact here.
	cost := table.Cost("scan", 1, 0)
	want := dec("0.00001")
	if !cost.Equal(want) {
		t.Errorf("Cost = %s, want %s", cost, want)
	}

	// Summing 1000 single-unit charges must equal one 1000-unit charge.
	sum := decimal.Zero
	for i := 0; i < 1000; i++ {
		sum = sum.Add(table.Cost("scan", 1, 0))
	}
	if !sum.Equal(table.Cost("scan", 1000, 0)) {
		t.Errorf("sum of unit charges = %s, want %s", sum, table.Cost("scan", 1000, 0))
	}
}

func TestTable_Cost_ZeroUnits(t *testing.T) {
	table := DefaultTable()

	cost := table.Cost("wcag-scan", 0, 0)
	if !cost.IsZero() {
		t.Errorf("zero units should cost zero, got %s", cost)
	}
}

func TestTable_Classes_Sorted(t *testing.T) {
	table := DefaultTable()

	classes := table.Classes()
	if len(classes) == 0 {
		t.Fatal("built-in table has no classes")
	}
	for i := 1; i < len(classes); i++ {
		if classes[i-1] >= classes[i] {
			t.Errorf("classes not sorted: %q before %q", classes[i-1], classes[i])
		}
	}
}
