package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	presenceOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "presence",
		Name:      "operations_total",
		Help:      "Count of presence counter operations.",
	}, []string{"operation", "status"})

	presenceClampedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "presence",
		Name:      "clamped_total",
		Help:      "Count of decrements attempted on a zero counter.",
	})

	presenceSweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "presence",
		Name:      "swept_total",
		Help:      "Count of stale listening addresses removed by the sweep.",
	})
)

// Presence tracks subscription registry presence counters.
type Presence struct{}

// NewPresence creates a Presence collector.
func NewPresence() *Presence {
	return &Presence{}
}

// ObserveOperation records an increment or decrement.
func (Presence) ObserveOperation(operation string, err error) {
	presenceOperationsTotal.WithLabelValues(operation, status(err)).Inc()
}

// ObserveClamped records a decrement below zero.
func (Presence) ObserveClamped() {
	presenceClampedTotal.Inc()
}

// ObserveSwept records addresses removed by a sweep.
func (Presence) ObserveSwept(n int) {
	presenceSweptTotal.Add(float64(n))
}
