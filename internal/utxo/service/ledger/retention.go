package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"go.uber.org/zap"
)

const purgeBatchSize = 500

// PurgeSpentBefore deletes spent entries created before cutoff. Caches of the
// wallets on both sides of each spend are invalidated before the rows go.
func (s *Service) PurgeSpentBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var total int64
	for {
		entries, err := s.repo.SpentEntriesBefore(ctx, cutoff, purgeBatchSize)
		if err != nil {
			return total, fmt.Errorf("load spent entries: %w", err)
		}
		if len(entries) == 0 {
			return total, nil
		}

		mutations, err := s.deletions(ctx, entries)
		if err != nil {
			return total, err
		}
		if err = s.invalidator.Invalidate(ctx, mutations...); err != nil {
			s.logger.Warn("invalidate caches before purge failed", zap.Error(err))
		}

		ids := make([]int64, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
		deleted, err := s.repo.DeleteEntries(ctx, ids)
		if err != nil {
			return total, fmt.Errorf("delete spent entries: %w", err)
		}
		total += deleted
		for _, m := range mutations {
			s.publish(ctx, m.Kind, m.Entry, m.Wallets...)
		}

		if len(entries) < purgeBatchSize {
			return total, nil
		}
	}
}

// RunRetention purges entries older than keep every interval until ctx ends.
func (s *Service) RunRetention(ctx context.Context, keep, interval time.Duration) error {
	return clock.Repeat(ctx, interval, clock.SleepWithContext, func(ctx context.Context) {
		deleted, err := s.PurgeSpentBefore(ctx, s.now().Add(-keep))
		if err != nil {
			s.logger.Error("retention pass failed", zap.Error(err))
		} else if deleted > 0 {
			s.logger.Info("retention pass removed spent entries", zap.Int64("deleted", deleted))
		}
	})
}

// deletions builds one deleted mutation per entry. Affected wallets are the
// entry's own, the owners of the spending transaction's outputs and the
// owners of any entry whose spending txid is the deleted entry's txid.
func (s *Service) deletions(ctx context.Context, entries []model.LedgerEntry) ([]model.LedgerMutation, error) {
	outputsOf := make(map[string][]int64)
	spentBy := make(map[string][]int64)
	mutations := make([]model.LedgerMutation, 0, len(entries))
	for _, e := range entries {
		spenders, err := s.cachedWallets(ctx, outputsOf, e.SpendingTxID, s.repo.EntriesByTxID)
		if err != nil {
			return nil, fmt.Errorf("resolve spending wallets of %s: %w", e.SpendingTxID, err)
		}
		inputs, err := s.cachedWallets(ctx, spentBy, e.TxID, s.repo.EntriesSpentBy)
		if err != nil {
			return nil, fmt.Errorf("resolve wallets spent by %s: %w", e.TxID, err)
		}
		wallets := make([]int64, 0, len(spenders)+len(inputs))
		wallets = append(wallets, spenders...)
		wallets = append(wallets, inputs...)
		mutations = append(mutations, model.LedgerMutation{
			Kind:    model.MutationDeleted,
			Entry:   e,
			Wallets: wallets,
			At:      s.now(),
		})
	}
	return mutations, nil
}

func (s *Service) cachedWallets(
	ctx context.Context,
	cache map[string][]int64,
	txid string,
	load func(context.Context, string) ([]model.LedgerEntry, error),
) ([]int64, error) {
	if txid == "" {
		return nil, nil
	}
	if wallets, ok := cache[txid]; ok {
		return wallets, nil
	}
	entries, err := load(ctx, txid)
	if err != nil {
		return nil, err
	}
	var wallets []int64
	for _, o := range entries {
		if o.WalletID != nil {
			wallets = append(wallets, *o.WalletID)
		}
	}
	cache[txid] = wallets
	return wallets, nil
}
