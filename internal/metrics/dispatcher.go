package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatchDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "dispatcher",
		Name:      "deliveries_total",
		Help:      "Count of notification deliveries by channel and outcome.",
	}, []string{"channel", "outcome"})

	dispatchDeliveryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "dispatcher",
		Name:      "delivery_duration_seconds",
		Help:      "Duration of notification deliveries by channel.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"channel"})
)

// Dispatcher tracks notification deliveries.
type Dispatcher struct{}

// NewDispatcher creates a Dispatcher collector.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// ObserveDelivery records one delivery attempt to a channel.
func (Dispatcher) ObserveDelivery(channel, outcome string, started time.Time) {
	dispatchDeliveriesTotal.WithLabelValues(channel, outcome).Inc()
	dispatchDeliveryDuration.WithLabelValues(channel).Observe(time.Since(started).Seconds())
}
