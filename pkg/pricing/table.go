package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultClass is the rate-table key used when a lookup misses.
const DefaultClass = "default"

// per1K is the pricing denominator: rates are expressed per 1000 units.
var per1K = decimal.NewFromInt(1000)

// Rate contains the unit prices for a single operation class.
type Rate struct {
	// InputPer1K is the cost in USD per 1000 input units.
	InputPer1K decimal.Decimal

	// OutputPer1K is the cost in USD per 1000 output units.
	OutputPer1K decimal.Decimal
}

// Table maps operation classes to rates. Immutable after construction.
type Table struct {
	rates        map[string]Rate
	defaultClass string
}

// NewTable creates a rate table from the given class rates.
//
// The table must contain an entry for defaultClass; unknown classes
// resolve to it. If defaultClass is empty, DefaultClass is used.
func NewTable(rates map[string]Rate, defaultClass string) (*Table, error) {
	if defaultClass == "" {
		defaultClass = DefaultClass
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("rate table cannot be empty")
	}
	if _, ok := rates[defaultClass]; !ok {
		return nil, fmt.Errorf("rate table missing default class %q", defaultClass)
	}

	copied := make(map[string]Rate, len(rates))
	for class, rate := range rates {
		if rate.InputPer1K.IsNegative() || rate.OutputPer1K.IsNegative() {
			return nil, fmt.Errorf("rate for class %q cannot be negative", class)
		}
		copied[class] = rate
	}

	return &Table{rates: copied, defaultClass: defaultClass}, nil
}

// DefaultTable returns the built-in rate table.
//
// The default class is priced conservatively so that an unknown class
// cannot silently overspend at a discount.
func DefaultTable() *Table {
	table, _ := NewTable(map[string]Rate{
		"wcag-scan":      {InputPer1K: dec("0.01"), OutputPer1K: dec("0.03")},
		"wcag-scan-deep": {InputPer1K: dec("0.03"), OutputPer1K: dec("0.15")},
		"proposal-draft": {InputPer1K: dec("0.003"), OutputPer1K: dec("0.015")},
		"lead-enrich":    {InputPer1K: dec("0.0008"), OutputPer1K: dec("0.004")},
		DefaultClass:     {InputPer1K: dec("0.015"), OutputPer1K: dec("0.075")},
	}, DefaultClass)
	return table
}

// Lookup returns the rate for an operation class.
//
// Unknown classes resolve to the default class. The second return value
// reports whether the class matched exactly.
func (t *Table) Lookup(class string) (Rate, bool) {
	if rate, ok := t.rates[class]; ok {
		return rate, true
	}
	return t.rates[t.defaultClass], false
}

// Cost returns the exact USD cost of an operation.
//
// Negative unit counts are clamped to zero; validation of units is the
// caller's responsibility (the governor rejects them before pricing).
func (t *Table) Cost(class string, inputUnits, outputUnits int64) decimal.Decimal {
	if inputUnits < 0 {
		inputUnits = 0
	}
	if outputUnits < 0 {
		outputUnits = 0
	}

	rate, _ := t.Lookup(class)

	inputCost := rate.InputPer1K.Mul(decimal.NewFromInt(inputUnits)).Div(per1K)
	outputCost := rate.OutputPer1K.Mul(decimal.NewFromInt(outputUnits)).Div(per1K)

	return inputCost.Add(outputCost)
}

// Classes returns the known operation classes in sorted order.
func (t *Table) Classes() []string {
	classes := make([]string, 0, len(t.rates))
	for class := range t.rates {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}

// dec parses a decimal literal. Panics on malformed input, so it is only
// used for compile-time constants in the built-in table.
func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
