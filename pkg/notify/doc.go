// Package notify delivers governor events to external subscribers.
//
// # Overview
//
// The governor publishes three kinds of observations: a cost-tracked event
// for every accepted charge, budget alerts when spend crosses a warning,
// critical, or exceeded threshold, and gate transitions (kill-switch
// activation and reopening). Subscribers are registered explicitly on a
// Dispatcher; there is no implicit global event bus.
//
// # Delivery Semantics
//
// The governor publishes only after its critical section has committed, so
// a slow or faulty subscriber can never stall charge throughput or abort a
// scheduler tick. Dispatch is synchronous fan-out in registration order. A
// panicking subscriber is recovered and logged; remaining subscribers
// still receive the event.
package notify
