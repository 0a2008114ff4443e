package governor

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ledger is the append-only history of accepted charges plus cumulative
// per-actor and per-class aggregates. It is not safe for concurrent use
// on its own; the governor's mutex guards every access.
type ledger struct {
	entries []ChargeEntry

	// byActor and byClass hold cumulative aggregates keyed by actor ID
	// and operation class. order tracks first appearance for stable
	// tie-breaking in top-N reports.
	byActor map[string]*aggregate
	byClass map[string]*aggregate
}

type aggregate struct {
	cost    decimal.Decimal
	charges int
	order   int
}

func newLedger() *ledger {
	return &ledger{
		byActor: make(map[string]*aggregate),
		byClass: make(map[string]*aggregate),
	}
}

// append records an accepted charge and updates the aggregates.
func (l *ledger) append(entry ChargeEntry) {
	l.entries = append(l.entries, entry)
	l.accumulate(l.byActor, entry.ActorID, entry.Cost)
	l.accumulate(l.byClass, entry.OperationClass, entry.Cost)
}

func (l *ledger) accumulate(m map[string]*aggregate, key string, cost decimal.Decimal) {
	agg, ok := m[key]
	if !ok {
		agg = &aggregate{order: len(m)}
		m[key] = agg
	}
	agg.cost = agg.cost.Add(cost)
	agg.charges++
}

// snapshot returns a copy of all entries.
func (l *ledger) snapshot() []ChargeEntry {
	entries := make([]ChargeEntry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// topActors and topClasses return the n highest cumulative spenders,
// descending by cost, ties broken by first appearance.
func (l *ledger) topActors(n int) []CostBreakdown {
	return top(l.byActor, n)
}

func (l *ledger) topClasses(n int) []CostBreakdown {
	return top(l.byClass, n)
}

func top(m map[string]*aggregate, n int) []CostBreakdown {
	if n <= 0 {
		return nil
	}

	rows := make([]CostBreakdown, 0, len(m))
	orders := make(map[string]int, len(m))
	for name, agg := range m {
		rows = append(rows, CostBreakdown{Name: name, Cost: agg.cost, Charges: agg.charges})
		orders[name] = agg.order
	}

	sort.SliceStable(rows, func(i, j int) bool {
		switch rows[i].Cost.Cmp(rows[j].Cost) {
		case 1:
			return true
		case -1:
			return false
		default:
			return orders[rows[i].Name] < orders[rows[j].Name]
		}
	})

	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
