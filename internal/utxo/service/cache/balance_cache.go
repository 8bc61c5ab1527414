package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL bounds the lifetime of read-through entries.
const DefaultTTL = 10 * time.Minute

// BalanceCache serves balances and history pages through Redis.
type BalanceCache struct {
	client   redis.UniversalClient
	balances BalanceStore
	history  HistoryStore
	metrics  Metrics
	logger   *zap.Logger
	ttl      time.Duration
	loads    singleflight.Group
}

// NewBalanceCache builds a BalanceCache.
func NewBalanceCache(client redis.UniversalClient, balances BalanceStore, history HistoryStore, metrics Metrics, logger *zap.Logger, ttl time.Duration) *BalanceCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &BalanceCache{
		client:   client,
		balances: balances,
		history:  history,
		metrics:  metrics,
		logger:   logger.Named("balance_cache"),
		ttl:      ttl,
	}
}

// NativeBalance returns the unspent native balance of a wallet.
func (c *BalanceCache) NativeBalance(ctx context.Context, walletID int64) (uint64, error) {
	return c.balance(ctx, NativeBalanceKey(walletID), func(ctx context.Context) (uint64, error) {
		return c.balances.NativeBalance(ctx, walletID)
	})
}

// TokenBalance returns the unspent balance of one token category in a wallet.
func (c *BalanceCache) TokenBalance(ctx context.Context, walletID int64, category string) (uint64, error) {
	return c.balance(ctx, TokenBalanceKey(walletID, category), func(ctx context.Context) (uint64, error) {
		return c.balances.TokenBalance(ctx, walletID, category)
	})
}

// History returns one page of a wallet's asset history.
func (c *BalanceCache) History(ctx context.Context, walletID int64, asset model.AssetID, page, size int) ([]model.HistoryItem, error) {
	key := HistoryKey(walletID, asset, page, size)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var items []model.HistoryItem
		if jsonErr := json.Unmarshal(raw, &items); jsonErr == nil {
			c.metrics.ObserveLookup("history", true)
			return items, nil
		}
		c.logger.Warn("drop undecodable history cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("history cache read failed", zap.String("key", key), zap.Error(err))
	}
	c.metrics.ObserveLookup("history", false)

	v, err, _ := c.loads.Do(key, func() (any, error) {
		return c.history.WalletHistory(ctx, walletID, asset, page, size)
	})
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	items := v.([]model.HistoryItem)

	if raw, err = json.Marshal(items); err == nil {
		if err = c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warn("history cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return items, nil
}

func (c *BalanceCache) balance(ctx context.Context, key string, load func(context.Context) (uint64, error)) (uint64, error) {
	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if v, parseErr := strconv.ParseUint(cached, 10, 64); parseErr == nil {
			c.metrics.ObserveLookup("balance", true)
			return v, nil
		}
		c.logger.Warn("drop unparsable balance cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("balance cache read failed", zap.String("key", key), zap.Error(err))
	}
	c.metrics.ObserveLookup("balance", false)

	v, err, _ := c.loads.Do(key, func() (any, error) {
		return load(ctx)
	})
	if err != nil {
		return 0, fmt.Errorf("load balance: %w", err)
	}
	balance := v.(uint64)
	if err = c.client.Set(ctx, key, strconv.FormatUint(balance, 10), c.ttl).Err(); err != nil {
		c.logger.Warn("balance cache write failed", zap.String("key", key), zap.Error(err))
	}
	return balance, nil
}
