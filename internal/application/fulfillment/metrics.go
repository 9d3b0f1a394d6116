package fulfillment

import "github.com/prometheus/client_golang/prometheus"

// Metrics carries the RED instruments for the fulfillment operations. A nil
// *Metrics is valid and records nothing, so tests can skip registration.
type Metrics struct {
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
}

// NewMetrics builds the instruments and registers them on reg when it is
// non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	operations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillment_operations_total",
			Help: "Total number of fulfillment operations by outcome.",
		},
		[]string{"operation", "outcome"},
	)
	durations := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fulfillment_operation_duration_seconds",
			Help:    "Duration of fulfillment operations in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	if reg != nil {
		reg.MustRegister(operations, durations)
	}
	return &Metrics{operations: operations, durations: durations}
}

func (m *Metrics) observe(operation, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.durations.WithLabelValues(operation).Observe(seconds)
}
