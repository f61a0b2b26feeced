package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the review workflow.
type Metrics struct {
	TransitionsTotal   *prometheus.CounterVec
	TransitionDuration prometheus.Histogram
	IdempotentSubmits  prometheus.Counter
}

// New creates a Metrics instance with all review workflow metrics registered.
func New() *Metrics {
	return &Metrics{
		TransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pde_admin_status_transitions_total",
			Help: "Committed status transitions by entity kind and new status",
		}, []string{"kind", "new_status"}),
		TransitionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pde_admin_status_transition_duration_seconds",
			Help:    "Duration of ChangeStatus operations including the transaction",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		IdempotentSubmits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pde_admin_idempotent_submits_total",
			Help: "Submit-for-review calls short-circuited because the entity was already under review",
		}),
	}
}

// IncrementTransition records a committed transition.
func (m *Metrics) IncrementTransition(kind, newStatus string) {
	m.TransitionsTotal.WithLabelValues(kind, newStatus).Inc()
}

// ObserveTransition records the duration of a ChangeStatus operation.
// Call with time.Now() captured at the start.
func (m *Metrics) ObserveTransition(start time.Time) {
	m.TransitionDuration.Observe(time.Since(start).Seconds())
}

// IncrementIdempotentSubmit records a short-circuited submit.
func (m *Metrics) IncrementIdempotentSubmit() {
	m.IdempotentSubmits.Inc()
}
