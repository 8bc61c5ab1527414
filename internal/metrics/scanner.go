package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scanBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scan_coordinator",
		Name:      "blocks_total",
		Help:      "Count of block scans by outcome.",
	}, []string{"outcome"})

	scanBlockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scan_coordinator",
		Name:      "block_duration_seconds",
		Help:      "Duration of block scans by outcome.",
		Buckets:   []float64{.1, .5, 1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"outcome"})

	scanBlockTxCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scan_coordinator",
		Name:      "block_tx_count",
		Help:      "Number of transaction units per scanned block.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
	})

	scanRequeuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scan_coordinator",
		Name:      "requeued_total",
		Help:      "Count of blocks put back into the pending queue.",
	}, []string{"reason"})

	followerSyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "block_follower",
		Name:      "sync_total",
		Help:      "Count of follower sync passes.",
	}, []string{"status"})

	followerSyncDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "block_follower",
		Name:      "sync_duration_seconds",
		Help:      "Duration of follower sync passes.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	followerEnqueuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "block_follower",
		Name:      "enqueued_blocks_total",
		Help:      "Count of heights added to the pending queue.",
	})
)

// ScanCoordinator tracks block scan outcomes.
type ScanCoordinator struct{}

// NewScanCoordinator creates a ScanCoordinator collector.
func NewScanCoordinator() *ScanCoordinator {
	return &ScanCoordinator{}
}

// ObserveBlock records the outcome of one block scan attempt.
func (ScanCoordinator) ObserveBlock(outcome string, txCount int, started time.Time) {
	scanBlocksTotal.WithLabelValues(outcome).Inc()
	scanBlockDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
	if txCount > 0 {
		scanBlockTxCount.Observe(float64(txCount))
	}
}

// ObserveRequeue records a block returned to the pending queue.
func (ScanCoordinator) ObserveRequeue(reason string) {
	scanRequeuedTotal.WithLabelValues(reason).Inc()
}

// BlockFollower tracks follower sync passes.
type BlockFollower struct{}

// NewBlockFollower creates a BlockFollower collector.
func NewBlockFollower() *BlockFollower {
	return &BlockFollower{}
}

// ObserveSync records one sync pass and how many heights it enqueued.
func (BlockFollower) ObserveSync(err error, enqueued int, started time.Time) {
	s := status(err)
	followerSyncTotal.WithLabelValues(s).Inc()
	followerSyncDuration.WithLabelValues(s).Observe(time.Since(started).Seconds())
	followerEnqueuedTotal.Add(float64(enqueued))
}
