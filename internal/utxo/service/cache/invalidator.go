// Package cache keeps derived balance and history caches consistent with the ledger.
package cache

import (
	"context"
	"fmt"
	"sort"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const scanCount = 200

type walletAsset struct {
	wallet int64
	asset  model.AssetID
}

// Invalidator deletes cache keys affected by ledger mutations.
type Invalidator struct {
	client  redis.UniversalClient
	metrics Metrics
	logger  *zap.Logger
}

// NewInvalidator builds an Invalidator.
func NewInvalidator(client redis.UniversalClient, metrics Metrics, logger *zap.Logger) *Invalidator {
	return &Invalidator{client: client, metrics: metrics, logger: logger.Named("cache_invalidator")}
}

// Invalidate drops the native balance of every affected wallet, the token
// balances of touched categories and the history pages of touched assets.
func (i *Invalidator) Invalidate(ctx context.Context, mutations ...model.LedgerMutation) (err error) {
	deleted := 0
	defer func() {
		i.metrics.ObserveInvalidation(deleted, err)
	}()

	keys, patterns := invalidationTargets(mutations)
	if len(keys) == 0 {
		return nil
	}

	for _, pattern := range patterns {
		matched, scanErr := i.scan(ctx, pattern)
		if scanErr != nil {
			return scanErr
		}
		keys = append(keys, matched...)
	}

	n, err := i.client.Del(ctx, keys...).Result()
	if err != nil {
		return fmt.Errorf("delete cache keys: %w", err)
	}
	deleted = int(n)
	i.logger.Debug("cache keys invalidated", zap.Int("keys", len(keys)), zap.Int64("deleted", n))
	return nil
}

// InvalidateWallet drops every balance and history key of a wallet.
func (i *Invalidator) InvalidateWallet(ctx context.Context, walletID int64) (err error) {
	deleted := 0
	defer func() {
		i.metrics.ObserveInvalidation(deleted, err)
	}()

	keys := []string{NativeBalanceKey(walletID)}
	for _, pattern := range walletPatterns(walletID) {
		matched, scanErr := i.scan(ctx, pattern)
		if scanErr != nil {
			return scanErr
		}
		keys = append(keys, matched...)
	}
	n, err := i.client.Del(ctx, keys...).Result()
	if err != nil {
		return fmt.Errorf("delete wallet cache keys: %w", err)
	}
	deleted = int(n)
	return nil
}

func (i *Invalidator) scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := i.client.Scan(ctx, 0, pattern, scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", pattern, err)
	}
	return keys, nil
}

func invalidationTargets(mutations []model.LedgerMutation) (keys []string, patterns []string) {
	pairs := make(map[walletAsset]struct{})
	wallets := make(map[int64]struct{})
	for _, m := range mutations {
		for _, w := range m.AffectedWallets() {
			wallets[w] = struct{}{}
			pairs[walletAsset{wallet: w, asset: m.Entry.AssetID}] = struct{}{}
		}
	}

	for w := range wallets {
		keys = append(keys, NativeBalanceKey(w))
	}
	for p := range pairs {
		if !p.asset.IsNative() {
			keys = append(keys, TokenBalanceKey(p.wallet, string(p.asset)))
		}
		patterns = append(patterns, historyPattern(p.wallet, p.asset))
	}
	sort.Strings(keys)
	sort.Strings(patterns)
	return keys, patterns
}
