package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// CommissionMetrics counts commission outcomes and booked amounts per share.
type CommissionMetrics struct {
	outcomes *prometheus.CounterVec
	amounts  *prometheus.CounterVec
}

// Commission outcome labels.
const (
	OutcomeRecorded  = "recorded"
	OutcomeDuplicate = "duplicate"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// NewCommissionMetrics registers commission metrics on reg. A nil registerer yields a no-op recorder.
func NewCommissionMetrics(reg prometheus.Registerer) *CommissionMetrics {
	if reg == nil {
		return &CommissionMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "commission",
		Name:      "payments_total",
		Help:      "Payments processed by the commission engine, by outcome.",
	}, []string{"outcome"})
	amounts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "commission",
		Name:      "amount_total",
		Help:      "Booked commission amounts in currency units, by share.",
	}, []string{"share"})
	reg.MustRegister(outcomes, amounts)
	return &CommissionMetrics{outcomes: outcomes, amounts: amounts}
}

// Observe increments the outcome counter.
func (c *CommissionMetrics) Observe(outcome string) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// AddShares adds one split to the per-share amount counters.
func (c *CommissionMetrics) AddShares(agent, operator, company decimal.Decimal) {
	if c == nil || c.amounts == nil {
		return
	}
	c.amounts.WithLabelValues("agent").Add(agent.InexactFloat64())
	c.amounts.WithLabelValues("operator").Add(operator.InexactFloat64())
	c.amounts.WithLabelValues("company").Add(company.InexactFloat64())
}

// RankingMetrics tracks homepage cache effectiveness.
type RankingMetrics struct {
	cache *prometheus.CounterVec
}

// NewRankingMetrics registers ranking metrics on reg. A nil registerer yields a no-op recorder.
func NewRankingMetrics(reg prometheus.Registerer) *RankingMetrics {
	if reg == nil {
		return &RankingMetrics{}
	}
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ranking",
		Name:      "homepage_cache_total",
		Help:      "Homepage order cache lookups, by result.",
	}, []string{"result"})
	reg.MustRegister(cache)
	return &RankingMetrics{cache: cache}
}

// CacheHit records a homepage cache hit.
func (r *RankingMetrics) CacheHit() { r.observe("hit") }

// CacheMiss records a homepage cache miss.
func (r *RankingMetrics) CacheMiss() { r.observe("miss") }

func (r *RankingMetrics) observe(result string) {
	if r == nil || r.cache == nil {
		return
	}
	r.cache.WithLabelValues(result).Inc()
}
