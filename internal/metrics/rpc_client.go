package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "node_rpc",
		Name:      "calls_total",
		Help:      "Node RPC calls by method, chain and status.",
	}, []string{"method", "chain", "status"})
	rpcCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "node_rpc",
		Name:      "call_duration_seconds",
		Help:      "Node RPC call latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "chain"})
)

// RPCClient records node RPC calls for one chain.
type RPCClient struct {
	chain string
}

func NewRPCClient(chain model.Chain) *RPCClient {
	return &RPCClient{chain: chain.Label()}
}

// Observe records a single RPC call outcome and duration.
func (m *RPCClient) Observe(method string, err error, started time.Time) {
	rpcCallsTotal.WithLabelValues(method, m.chain, status(err)).Inc()
	rpcCallDuration.WithLabelValues(method, m.chain).Observe(time.Since(started).Seconds())
}
