// Package schedule drives the governor's timer-based transitions.
//
// Two independent jobs run on a single cron runner pinned to UTC:
//
//   - a periodic re-evaluation tick (default every 60s) that re-runs
//     threshold evaluation against the current accumulators, so external
//     limit changes take effect even when no charges arrive, and which
//     serves as a liveness heartbeat for monitoring;
//   - a daily reset at the fixed wall-clock boundary (default 00:00 UTC)
//     that clears the daily accumulator and reopens the gate when the
//     monthly budget allows it.
//
// Cron computes every firing from the configured absolute boundary and
// the current wall clock, so repeated firings do not accumulate
// setInterval-style drift; each reset lands once per calendar day within
// the runner's scheduling tolerance.
package schedule
