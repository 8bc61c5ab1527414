// Package chain defines the contracts between the ledger pipeline and the blockchain node.
package chain

import (
	"context"
	"errors"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

// ErrFeedClosed is returned by a MempoolFeed once it has been closed.
var ErrFeedClosed = errors.New("mempool feed closed")

type (
	// Source supplies block data and accepts broadcast requests.
	Source interface {
		LatestHeight(ctx context.Context) (uint64, error)
		BlockTxCount(ctx context.Context, height uint64) (int, error)
		BlockTransactions(ctx context.Context, height uint64, page, pageSize int) ([]model.RawTransaction, error)
		Broadcast(ctx context.Context, rawTxHex string) (string, error)
	}

	// MempoolFeed yields decoded transactions as they enter the mempool.
	MempoolFeed interface {
		Next(ctx context.Context) (model.RawTransaction, error)
		Close() error
	}

	// TokenDecoder splits a locking script into its token prefix and the remaining script.
	TokenDecoder interface {
		Decode(pkScript []byte) (*model.TokenData, []byte, error)
	}
)

// PageCount returns how many pages of pageSize are needed for total items.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
