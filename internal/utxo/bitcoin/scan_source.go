package bitcoin

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-watch/pkg/safe"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// ScanSource implements chain.Source on top of the node RPC. Verbose blocks
// are kept for blockTTL so that a block's pages are served from one fetch.
type ScanSource struct {
	rpc       RPCClient
	converter TxConverter
	blocks    *cache.Cache
	fetches   singleflight.Group
}

var _ chain.Source = (*ScanSource)(nil)

// NewScanSource creates a ScanSource.
func NewScanSource(rpc RPCClient, converter TxConverter, blockTTL time.Duration) *ScanSource {
	return &ScanSource{
		rpc:       rpc,
		converter: converter,
		blocks:    cache.New(blockTTL, 2*blockTTL),
	}
}

// LatestHeight returns the latest block height from the node.
func (s *ScanSource) LatestHeight(_ context.Context) (uint64, error) {
	count, err := s.rpc.GetBlockCount()
	if err != nil {
		return 0, err
	}
	height, err := safe.Uint64(count)
	if err != nil {
		return 0, fmt.Errorf("block count overflow: %w", err)
	}
	return height, nil
}

// BlockTxCount returns the number of transactions in the block at height.
func (s *ScanSource) BlockTxCount(ctx context.Context, height uint64) (int, error) {
	block, err := s.block(ctx, height)
	if err != nil {
		return 0, err
	}
	return len(block.Tx), nil
}

// BlockTransactions returns one page of the block's transactions in block order.
func (s *ScanSource) BlockTransactions(ctx context.Context, height uint64, page, pageSize int) ([]model.RawTransaction, error) {
	block, err := s.block(ctx, height)
	if err != nil {
		return nil, err
	}
	start, end := chain.Page{Number: page, Size: pageSize}.Bounds(len(block.Tx))
	txs := make([]model.RawTransaction, 0, end-start)
	for _, tx := range block.Tx[start:end] {
		converted, err := s.converter.Convert(tx)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", height, err)
		}
		txs = append(txs, converted)
	}
	return txs, nil
}

// Broadcast relays a hex-encoded signed transaction and returns its id.
func (s *ScanSource) Broadcast(ctx context.Context, rawTxHex string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := hex.DecodeString(rawTxHex)
	if err != nil {
		return "", fmt.Errorf("decode raw tx: %w", err)
	}
	var msg wire.MsgTx
	if err := msg.Deserialize(bytes.NewReader(raw)); err != nil {
		return "", fmt.Errorf("deserialize raw tx: %w", err)
	}
	hash, err := s.rpc.SendRawTransaction(&msg, false)
	if err != nil {
		return "", fmt.Errorf("send raw tx: %w", err)
	}
	return hash.String(), nil
}

func (s *ScanSource) block(ctx context.Context, height uint64) (*btcjson.GetBlockVerboseTxResult, error) {
	if height > math.MaxInt64 {
		return nil, fmt.Errorf("block height %d exceeds rpc limit", height)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := strconv.FormatUint(height, 10)
	if cached, ok := s.blocks.Get(key); ok {
		return cached.(*btcjson.GetBlockVerboseTxResult), nil
	}

	res, err, _ := s.fetches.Do(key, func() (interface{}, error) {
		hash, err := s.rpc.GetBlockHash(int64(height))
		if err != nil {
			return nil, fmt.Errorf("get block hash at height %d: %w", height, err)
		}
		block, err := s.rpc.GetBlockVerboseTx(hash)
		if err != nil {
			return nil, fmt.Errorf("get block %s: %w", hash, err)
		}
		s.blocks.Set(key, block, cache.DefaultExpiration)
		return block, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*btcjson.GetBlockVerboseTxResult), nil
}
