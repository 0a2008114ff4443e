// Package metrics exposes Prometheus metrics for the budget governor.
//
// The Collector subscribes to governor events and mirrors them into a
// private Prometheus registry: cumulative cost by actor and operation
// class, current daily and monthly spend and limits, the gate state,
// alert counts by kind and scope, and a scheduler heartbeat timestamp.
// Mount Handler() at /metrics to scrape them.
//
// Metric updates run on the notifier path, after the governor's critical
// section has committed, so scrape latency never affects admission.
package metrics
