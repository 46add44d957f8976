package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Collector struct {
	guardDecisions *prometheus.CounterVec
	limiterErrors  prometheus.Counter
	intakeDuration *prometheus.HistogramVec
	queueDepth     prometheus.Gauge
	repliesSent    *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		guardDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "guard_decisions_total",
			Help: "Guard chain outcomes per tenant, labelled by decision and denial reason",
		}, []string{"tenant_id", "decision", "reason"}),

		// Counted separately from quota denials so dashboards can tell
		// abuse blocking apart from infrastructure degradation.
		limiterErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "guard_rate_limiter_errors_total",
			Help: "Rate limiter calls that failed and fell back to the configured policy",
		}),

		intakeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "message_intake_duration_seconds",
			Help:    "Time from webhook receipt to guard decision",
			Buckets: prometheus.DefBuckets,
		}, []string{"decision"}),

		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "responder_queue_depth",
			Help: "Messages waiting for the responder worker",
		}),

		repliesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "responder_replies_total",
			Help: "Replies produced by the responder worker, labelled by match outcome",
		}, []string{"tenant_id", "matched"}),
	}
}

func (c *Collector) RecordDecision(tenantID string, allowed bool, reason string) {
	decision := "allowed"
	if !allowed {
		decision = "denied"
	}
	if reason == "" {
		reason = "none"
	}
	c.guardDecisions.WithLabelValues(tenantID, decision, reason).Inc()
}

func (c *Collector) RecordLimiterError() {
	c.limiterErrors.Inc()
}

func (c *Collector) RecordIntake(allowed bool, elapsed time.Duration) {
	decision := "allowed"
	if !allowed {
		decision = "denied"
	}
	c.intakeDuration.WithLabelValues(decision).Observe(elapsed.Seconds())
}

func (c *Collector) SetQueueDepth(depth int64) {
	c.queueDepth.Set(float64(depth))
}

func (c *Collector) RecordReply(tenantID string, matched bool) {
	label := "false"
	if matched {
		label = "true"
	}
	c.repliesSent.WithLabelValues(tenantID, label).Inc()
}
