package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// countingSubscriber records everything it receives.
type countingSubscriber struct {
	mu       sync.Mutex
	costs    int
	alerts   []BudgetAlert
	closed   int
	reopened int
}

func (c *countingSubscriber) OnCostTracked(e CostTracked) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.costs++
}

func (c *countingSubscriber) OnBudgetAlert(e BudgetAlert) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alerts = append(c.alerts, e)
}

func (c *countingSubscriber) OnKillSwitch(e KillSwitch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
}

func (c *countingSubscriber) OnGateReopened(e GateReopened) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reopened++
}

// panickySubscriber fails on every delivery.
type panickySubscriber struct{}

func (p *panickySubscriber) OnCostTracked(e CostTracked)   { panic("cost") }
func (p *panickySubscriber) OnBudgetAlert(e BudgetAlert)   { panic("alert") }
func (p *panickySubscriber) OnKillSwitch(e KillSwitch)     { panic("kill") }
func (p *panickySubscriber) OnGateReopened(e GateReopened) { panic("reopen") }

// ============================================================================
// Dispatcher Tests
// ============================================================================

func TestDispatcher_FanOut(t *testing.T) {
	d := NewDispatcher()
	first := &countingSubscriber{}
	second := &countingSubscriber{}
	d.Subscribe(first)
	d.Subscribe(second)

	d.CostTracked(CostTracked{ActorID: "a", Cost: decimal.New(1, 0)})
	d.BudgetAlert(BudgetAlert{Kind: AlertWarning, Scope: ScopeDaily})
	d.KillSwitch(KillSwitch{Reason: "daily budget limit exceeded"})
	d.GateReopened(GateReopened{Reason: "daily reset", Timestamp: time.Now()})

	for i, sub := range []*countingSubscriber{first, second} {
		sub.mu.Lock()
		if sub.costs != 1 || len(sub.alerts) != 1 || sub.closed != 1 || sub.reopened != 1 {
			t.Errorf("subscriber %d missed events: %d/%d/%d/%d",
				i, sub.costs, len(sub.alerts), sub.closed, sub.reopened)
		}
		sub.mu.Unlock()
	}
}

func TestDispatcher_PanicIsolation(t *testing.T) {
	d := NewDispatcher()
	healthy := &countingSubscriber{}
	d.Subscribe(&panickySubscriber{})
	d.Subscribe(healthy)

	// Must not panic, and the healthy subscriber still gets the event.
	d.CostTracked(CostTracked{ActorID: "a"})
	d.KillSwitch(KillSwitch{})

	healthy.mu.Lock()
	defer healthy.mu.Unlock()
	if healthy.costs != 1 || healthy.closed != 1 {
		t.Errorf("healthy subscriber should receive events past a panicking one, got %d/%d",
			healthy.costs, healthy.closed)
	}
}

func TestDispatcher_NilSubscriberIgnored(t *testing.T) {
	d := NewDispatcher()
	d.Subscribe(nil)

	// Must not panic.
	d.CostTracked(CostTracked{})
}

func TestDispatcher_ConcurrentSubscribeAndPublish(t *testing.T) {
	d := NewDispatcher()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			d.Subscribe(&countingSubscriber{})
		}()
		go func() {
			defer wg.Done()
			d.CostTracked(CostTracked{ActorID: "a"})
		}()
	}
	wg.Wait()
}
