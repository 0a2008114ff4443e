// Package governor implements the process-wide budget governor for
// metered operations.
//
// # Overview
//
// The governor meters the monetary cost of operations (AI model calls and
// similar pay-per-unit work), enforces hard daily and monthly spending
// ceilings, and halts further metered work once a ceiling is breached
// until a scheduled or authorized manual reset. It is constructed
// explicitly and passed to its callers; there is no package-level
// singleton, so tests run against isolated instances.
//
// # State Machine
//
// Admission is controlled by a single boolean gate. The gate closes when
// daily or monthly spend reaches its limit (either through a charge or a
// scheduler tick) and reopens only through the scheduled daily reset
// (provided monthly spend is still under its limit) or an authorized
// emergency reset. Both transitions are idempotent.
//
// # Consistency
//
// All spend is recorded in an append-only ledger; the daily and monthly
// accumulators always equal the sum of ledger entry costs since their
// respective last reset. Costs are exact decimals, so the equality is
// exact, not approximate.
//
// # Concurrency
//
// Every mutation - charge admission, threshold evaluation, gate
// transition, reset - runs inside one mutex-guarded critical section.
// Concurrent charges are serialized: two callers can never both observe
// an open gate and push cumulative spend past a limit without at least
// one of them seeing the breach on its own turn. Notifier dispatch and
// audit writes happen after the lock is released so external subscribers
// cannot stall admission.
package governor
