package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"wcag-ai/spendguard/pkg/notify"
)

// Config contains metrics settings.
type Config struct {
	// Namespace is the metric name prefix. Default: "spendguard".
	Namespace string
}

// Collector registers and updates all governor metrics. It implements
// notify.Subscriber and is attached to the notifier dispatcher.
type Collector struct {
	registry *prometheus.Registry

	costTotal    *prometheus.CounterVec
	chargeTotal  *prometheus.CounterVec
	alertTotal   *prometheus.CounterVec
	dailySpend   prometheus.Gauge
	monthlySpend prometheus.Gauge
	dailyLimit   prometheus.Gauge
	monthlyLimit prometheus.Gauge
	gateOpen     prometheus.Gauge
	heartbeat    prometheus.Gauge
}

// NewCollector creates a collector with its own registry.
func NewCollector(cfg Config) *Collector {
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "spendguard"
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),

		costTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cost_total_usd",
				Help:      "Cumulative charged cost in USD by actor and operation class",
			},
			[]string{"actor", "class"},
		),

		chargeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "charges_total",
				Help:      "Number of accepted charges by operation class",
			},
			[]string{"class"},
		),

		alertTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "budget_alerts_total",
				Help:      "Budget alerts emitted by kind and scope",
			},
			[]string{"kind", "scope"},
		),

		dailySpend: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "daily_spend_usd",
			Help:      "Current daily spend in USD",
		}),

		monthlySpend: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "monthly_spend_usd",
			Help:      "Current monthly spend in USD",
		}),

		dailyLimit: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "daily_limit_usd",
			Help:      "Configured daily spending limit in USD",
		}),

		monthlyLimit: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "monthly_limit_usd",
			Help:      "Configured monthly spending limit in USD",
		}),

		gateOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gate_open",
			Help:      "Admission gate state (1 = open, 0 = closed)",
		}),

		heartbeat: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scheduler_heartbeat_timestamp_seconds",
			Help:      "Unix time of the last periodic re-evaluation tick",
		}),
	}

	c.registry.MustRegister(
		c.costTotal,
		c.chargeTotal,
		c.alertTotal,
		c.dailySpend,
		c.monthlySpend,
		c.dailyLimit,
		c.monthlyLimit,
		c.gateOpen,
		c.heartbeat,
	)

	// The gate starts open.
	c.gateOpen.Set(1)

	return c
}

// SetLimits records the configured limits. Called at startup and on
// limit reloads.
func (c *Collector) SetLimits(dailyUSD, monthlyUSD float64) {
	c.dailyLimit.Set(dailyUSD)
	c.monthlyLimit.Set(monthlyUSD)
}

// Heartbeat records a scheduler re-evaluation tick.
func (c *Collector) Heartbeat(at time.Time) {
	c.heartbeat.Set(float64(at.Unix()))
}

// OnCostTracked implements notify.Subscriber.
func (c *Collector) OnCostTracked(e notify.CostTracked) {
	cost, _ := e.Cost.Float64()
	daily, _ := e.DailyTotal.Float64()
	monthly, _ := e.MonthlyTotal.Float64()

	c.costTotal.WithLabelValues(e.ActorID, e.OperationClass).Add(cost)
	c.chargeTotal.WithLabelValues(e.OperationClass).Inc()
	c.dailySpend.Set(daily)
	c.monthlySpend.Set(monthly)
}

// OnBudgetAlert implements notify.Subscriber.
func (c *Collector) OnBudgetAlert(e notify.BudgetAlert) {
	c.alertTotal.WithLabelValues(string(e.Kind), string(e.Scope)).Inc()
}

// OnKillSwitch implements notify.Subscriber.
func (c *Collector) OnKillSwitch(e notify.KillSwitch) {
	c.gateOpen.Set(0)
}

// OnGateReopened implements notify.Subscriber.
func (c *Collector) OnGateReopened(e notify.GateReopened) {
	c.gateOpen.Set(1)

	// A daily reset also zeroes the spend gauge; the next charge
	// restores both gauges from exact totals.
	if e.Reason == "daily reset" || e.Reason == "emergency reset" {
		c.dailySpend.Set(0)
	}
}
