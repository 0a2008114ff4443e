// Package pricing provides the static rate table used to price metered
// operations.
//
// # Overview
//
// Every metered operation belongs to an operation class (for example
// "wcag-scan" or "proposal-draft"). The rate table maps each class to a
// pair of unit prices: USD per 1000 input units and USD per 1000 output
// units. The two dimensions are priced independently because most metered
// backends charge differently for reads and writes (or prompts and
// completions).
//
// # Lookup Semantics
//
// Lookup is an exact match on the class name. Unknown classes fall back to
// a designated default class rather than failing, so a misconfigured
// caller is charged at the (deliberately conservative) default rate instead
// of slipping past the budget untracked.
//
// # Arithmetic
//
// All prices and costs are decimal values (github.com/shopspring/decimal).
// Costs derived from the table are exact: dividing by the per-1000-unit
// denominator is a base-10 shift, so accumulated spend can be compared
// against ledger sums without floating point drift.
//
// # Thread Safety
//
// A Table is immutable after construction and therefore safe for
// concurrent use without locking.
package pricing
