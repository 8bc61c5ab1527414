package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheInvalidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "invalidations_total",
		Help:      "Count of cache invalidation passes.",
	}, []string{"status"})

	cacheKeysDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "keys_deleted_total",
		Help:      "Count of cache keys deleted by invalidation.",
	})

	cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Count of read-through cache lookups.",
	}, []string{"kind", "result"})
)

// Cache tracks cache invalidation and read-through lookups.
type Cache struct{}

// NewCache creates a Cache collector.
func NewCache() *Cache {
	return &Cache{}
}

// ObserveInvalidation records one invalidation pass.
func (Cache) ObserveInvalidation(deleted int, err error) {
	cacheInvalidationsTotal.WithLabelValues(status(err)).Inc()
	cacheKeysDeletedTotal.Add(float64(deleted))
}

// ObserveLookup records a cache hit or miss.
func (Cache) ObserveLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(kind, result).Inc()
}
