package core

import (
	"github.com/klauern/source-protection/internal/constants"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts hook decisions. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Decisions *prometheus.CounterVec
}

// NewMetrics creates the decision counter and registers it with reg when reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Subsystem: "hook",
			Name:      "decisions_total",
			Help:      "Hook decisions by hook key and outcome.",
		}, []string{"hook", "decision"}),
	}
	if reg != nil {
		reg.MustRegister(m.Decisions)
	}
	return m
}

// Observe increments the counter for hook and decision.
func (m *Metrics) Observe(hook string, decision Decision) {
	if m == nil || m.Decisions == nil {
		return
	}
	m.Decisions.WithLabelValues(hook, string(decision)).Inc()
}
