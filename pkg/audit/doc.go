// Package audit records operator actions against the budget governor.
//
// Every emergency reset (granted or denied) and every limit change is
// written as an immutable audit record capturing the prior spend and the
// old and new limits. Denied overrides are security-relevant and are
// recorded with Authorized=false.
//
// Two stores are provided: a SQLite-backed store for production and an
// in-memory store for tests. The governor writes records outside its
// critical section, so a slow audit backend cannot stall admission; a
// failed write is logged and surfaced to the caller but never rolls back
// the state transition it describes.
package audit
