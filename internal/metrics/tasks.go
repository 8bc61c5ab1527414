package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tasksProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tasks",
		Name:      "processed_total",
		Help:      "Count of durable tasks handled by type.",
	}, []string{"type", "status"})

	taskDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "tasks",
		Name:      "duration_seconds",
		Help:      "Duration of durable task handlers.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"type", "status"})

	tasksEnqueuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tasks",
		Name:      "enqueued_total",
		Help:      "Count of durable tasks enqueued by type.",
	}, []string{"type", "status"})
)

// Tasks tracks durable work units.
type Tasks struct{}

// NewTasks creates a Tasks collector.
func NewTasks() *Tasks {
	return &Tasks{}
}

// ObserveTask records one handler run.
func (Tasks) ObserveTask(taskType string, err error, started time.Time) {
	s := status(err)
	tasksProcessedTotal.WithLabelValues(taskType, s).Inc()
	taskDuration.WithLabelValues(taskType, s).Observe(time.Since(started).Seconds())
}

// ObserveEnqueue records one enqueue attempt.
func (Tasks) ObserveEnqueue(taskType string, err error) {
	tasksEnqueuedTotal.WithLabelValues(taskType, status(err)).Inc()
}
