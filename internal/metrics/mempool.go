package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mempoolTransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mempool",
		Name:      "transactions_total",
		Help:      "Count of mempool transactions processed.",
	}, []string{"status"})

	mempoolTransactionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "mempool",
		Name:      "transaction_duration_seconds",
		Help:      "Duration of processing one mempool transaction.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
)

// Mempool tracks the mempool stream processor.
type Mempool struct{}

// NewMempool creates a Mempool collector.
func NewMempool() *Mempool {
	return &Mempool{}
}

// ObserveTransaction records one processed transaction.
func (Mempool) ObserveTransaction(err error, started time.Time) {
	s := status(err)
	mempoolTransactionsTotal.WithLabelValues(s).Inc()
	mempoolTransactionDuration.WithLabelValues(s).Observe(time.Since(started).Seconds())
}
