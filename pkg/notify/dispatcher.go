package notify

import (
	"log/slog"
	"sync"
)

// Dispatcher fans governor events out to registered subscribers.
//
// Subscribers are invoked synchronously in registration order. The
// dispatcher never holds the governor's lock: the governor publishes
// after committing its state transition, so subscriber latency and
// subscriber failures are isolated from admission decisions.
type Dispatcher struct {
	mu          sync.RWMutex
	subscribers []Subscriber
	logger      *slog.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		logger: slog.Default().With("component", "notify.dispatcher"),
	}
}

// Subscribe registers a subscriber. Nil subscribers are ignored.
func (d *Dispatcher) Subscribe(s Subscriber) {
	if s == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers = append(d.subscribers, s)
}

// CostTracked delivers a cost-tracked event to all subscribers.
func (d *Dispatcher) CostTracked(e CostTracked) {
	for _, s := range d.snapshot() {
		d.deliver(func() { s.OnCostTracked(e) })
	}
}

// BudgetAlert delivers a budget alert to all subscribers.
func (d *Dispatcher) BudgetAlert(e BudgetAlert) {
	for _, s := range d.snapshot() {
		d.deliver(func() { s.OnBudgetAlert(e) })
	}
}

// KillSwitch delivers a kill-switch activation to all subscribers.
func (d *Dispatcher) KillSwitch(e KillSwitch) {
	for _, s := range d.snapshot() {
		d.deliver(func() { s.OnKillSwitch(e) })
	}
}

// GateReopened delivers a gate-reopened event to all subscribers.
func (d *Dispatcher) GateReopened(e GateReopened) {
	for _, s := range d.snapshot() {
		d.deliver(func() { s.OnGateReopened(e) })
	}
}

// snapshot copies the subscriber list so delivery never holds the
// dispatcher lock.
func (d *Dispatcher) snapshot() []Subscriber {
	d.mu.RLock()
	defer d.mu.RUnlock()
	subs := make([]Subscriber, len(d.subscribers))
	copy(subs, d.subscribers)
	return subs
}

// deliver invokes a single subscriber callback, recovering panics so one
// faulty subscriber cannot abort delivery to the rest.
func (d *Dispatcher) deliver(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("subscriber panicked during event delivery",
				"panic", r,
			)
		}
	}()
	fn()
}
