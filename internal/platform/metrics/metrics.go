package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-level Prometheus metrics.
type Metrics struct {
	GateRedirects     *prometheus.CounterVec
	RequestsForwarded prometheus.Counter
}

// New creates and registers process-level metrics.
func New() *Metrics {
	return &Metrics{
		GateRedirects: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pde_admin_gate_redirects_total",
			Help: "Requests turned away by the request gate, by reason",
		}, []string{"reason"}),
		RequestsForwarded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pde_admin_gate_forwarded_total",
			Help: "Requests forwarded past the request gate",
		}),
	}
}

// IncrementRedirect records a gate redirect by reason (unauthenticated,
// forbidden).
func (m *Metrics) IncrementRedirect(reason string) {
	m.GateRedirects.WithLabelValues(reason).Inc()
}

// IncrementForwarded records a request that passed the gate.
func (m *Metrics) IncrementForwarded() {
	m.RequestsForwarded.Inc()
}
