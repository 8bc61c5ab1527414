// Package bitcoin implements the chain contracts against a Bitcoin-family node.
package bitcoin

import (
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// RPCClient is the subset of the node RPC used by the scanner.
	RPCClient interface {
		GetBlockCount() (int64, error)
		GetBlockHash(blockHeight int64) (*chainhash.Hash, error)
		GetBlockVerboseTx(blockHash *chainhash.Hash) (*btcjson.GetBlockVerboseTxResult, error)
		SendRawTransaction(tx *wire.MsgTx, allowHighFees bool) (*chainhash.Hash, error)
	}

	// RPCMetrics records metrics for RPC calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// ScriptDecoder extracts the destination address of a locking script.
	ScriptDecoder interface {
		DecodeAddress(pkScript []byte) (string, error)
	}

	// TxConverter turns verbose RPC transactions into domain transactions.
	TxConverter interface {
		Convert(tx btcjson.TxRawResult) (model.RawTransaction, error)
	}
)
