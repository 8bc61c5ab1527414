package bitcoin

import (
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

type observedRPC struct {
	next    RPCClient
	metrics RPCMetrics
}

// NewRPCClient wraps client so every call is reported under its node RPC method name.
func NewRPCClient(client RPCClient, metrics RPCMetrics) RPCClient {
	return &observedRPC{next: client, metrics: metrics}
}

func observe[T any](m RPCMetrics, method string, call func() (T, error)) (T, error) {
	started := time.Now()
	res, err := call()
	m.Observe(method, err, started)
	return res, err
}

func (r *observedRPC) GetBlockCount() (int64, error) {
	return observe(r.metrics, "getblockcount", r.next.GetBlockCount)
}

func (r *observedRPC) GetBlockHash(height int64) (*chainhash.Hash, error) {
	return observe(r.metrics, "getblockhash", func() (*chainhash.Hash, error) {
		return r.next.GetBlockHash(height)
	})
}

func (r *observedRPC) GetBlockVerboseTx(hash *chainhash.Hash) (*btcjson.GetBlockVerboseTxResult, error) {
	return observe(r.metrics, "getblock", func() (*btcjson.GetBlockVerboseTxResult, error) {
		return r.next.GetBlockVerboseTx(hash)
	})
}

func (r *observedRPC) SendRawTransaction(tx *wire.MsgTx, allowHighFees bool) (*chainhash.Hash, error) {
	return observe(r.metrics, "sendrawtransaction", func() (*chainhash.Hash, error) {
		return r.next.SendRawTransaction(tx, allowHighFees)
	})
}
