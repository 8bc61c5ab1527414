package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	repositoryOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "repository",
		Name:      "operations_total",
		Help:      "Count of repository operations.",
	}, []string{"store", "operation", "status"})
	repositoryOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of repository operations.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30},
	}, []string{"store", "operation", "status"})
)

// Repository tracks metrics of one backing store.
type Repository struct {
	store string
}

// NewPostgresRepository creates a collector for the ledger store.
func NewPostgresRepository() *Repository {
	return &Repository{store: "postgres"}
}

// NewClickhouseRepository creates a collector for the ledger journal.
func NewClickhouseRepository() *Repository {
	return &Repository{store: "clickhouse"}
}

// Observe records duration and status of a repository operation.
func (m Repository) Observe(operation string, err error, started time.Time) {
	s := status(err)
	repositoryOperationsTotal.WithLabelValues(m.store, operation, s).Inc()
	repositoryOperationDuration.WithLabelValues(m.store, operation, s).Observe(time.Since(started).Seconds())
}
