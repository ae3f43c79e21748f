// Package metrics exposes Prometheus counters for the license authority.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "licensor"

// Metrics holds the collectors registered on its own registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	decisions      *prometheus.CounterVec
	decisionTime   *prometheus.HistogramVec
	idleSwept      prometheus.Counter
	auditFailures  prometheus.Counter
	releasesServed *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "License authority decisions by action and outcome.",
		}, []string{"action", "outcome"}),
		decisionTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decision_duration_seconds",
			Help:      "Time spent deciding a license request.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		idleSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idle_activations_deactivated_total",
			Help:      "Activations deactivated by the idle sweep.",
		}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_failures_total",
			Help:      "Audit events the sink failed to record.",
		}),
		releasesServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "update_checks_total",
			Help:      "Update feed lookups by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.decisions, m.decisionTime, m.idleSwept, m.auditFailures, m.releasesServed)
	return m
}

// Decision counts one authority outcome and its latency.
func (m *Metrics) Decision(action, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(action, outcome).Inc()
	m.decisionTime.WithLabelValues(action).Observe(took.Seconds())
}

func (m *Metrics) IdleSwept(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.idleSwept.Add(float64(n))
}

func (m *Metrics) AuditFailed() {
	if m == nil {
		return
	}
	m.auditFailures.Inc()
}

// UpdateCheck counts a feed lookup; offered reports whether a newer release was returned.
func (m *Metrics) UpdateCheck(offered bool) {
	if m == nil {
		return
	}
	result := "current"
	if offered {
		result = "offered"
	}
	m.releasesServed.WithLabelValues(result).Inc()
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
