// Package mempool applies live mempool transactions to the ledger.
package mempool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/service/ledger"
	"go.uber.org/zap"
)

// Processor consumes a mempool feed and reconciles wallets whose outputs were
// spent without producing a tracked output.
type Processor struct {
	feed    Feed
	ledger  Ledger
	caches  WalletCaches
	journal Journal
	metrics Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewProcessor builds a Processor.
func NewProcessor(feed Feed, l Ledger, caches WalletCaches, journal Journal, metrics Metrics, logger *zap.Logger) *Processor {
	return &Processor{
		feed:    feed,
		ledger:  l,
		caches:  caches,
		journal: journal,
		metrics: metrics,
		logger:  logger.Named("mempool"),
		now:     time.Now,
	}
}

// Run processes the feed until it closes or ctx is canceled. A failing
// transaction is logged and skipped.
func (p *Processor) Run(ctx context.Context) error {
	defer func() {
		if err := p.feed.Close(); err != nil {
			p.logger.Warn("close mempool feed", zap.Error(err))
		}
	}()

	for {
		tx, err := p.feed.Next(ctx)
		switch {
		case errors.Is(err, chain.ErrFeedClosed):
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			p.logger.Warn("skip undecodable mempool message", zap.Error(err))
			continue
		}

		if err = p.Process(ctx, tx); err != nil {
			p.logger.Error("mempool transaction not applied", zap.String("txid", tx.TxID), zap.Error(err))
		}
	}
}

// Process applies one transaction.
func (p *Processor) Process(ctx context.Context, tx model.RawTransaction) (err error) {
	started := time.Now()
	defer func() {
		p.metrics.ObserveTransaction(err, started)
	}()

	res, err := p.ledger.ApplyTransaction(ctx, tx, ledger.ApplyOptions{Source: model.SourceMempool})
	if err != nil {
		return fmt.Errorf("apply transaction: %w", err)
	}

	if len(res.TouchedWallets) > 0 && !res.ProducedOutputUpdate {
		p.reconcile(ctx, tx.TxID, res.TouchedWallets)
	}
	return nil
}

// reconcile refreshes wallets that lost outputs to a transaction paying
// nothing back to a tracked address.
func (p *Processor) reconcile(ctx context.Context, txid string, wallets []int64) {
	events := make([]model.JournalEvent, 0, len(wallets))
	for _, w := range wallets {
		if err := p.caches.InvalidateWallet(ctx, w); err != nil {
			p.logger.Warn("reconcile wallet caches", zap.Int64("wallet_id", w), zap.Error(err))
		}
		events = append(events, model.JournalEvent{
			WalletID: w,
			HistoryItem: model.HistoryItem{
				TxID:    txid,
				AssetID: model.NativeAsset,
				Kind:    model.MutationReconciled,
				At:      p.now(),
			},
		})
	}
	if err := p.journal.Record(ctx, events...); err != nil {
		p.logger.Warn("record reconciliation", zap.String("txid", txid), zap.Error(err))
	}
	p.logger.Debug("wallet history reconciled", zap.String("txid", txid), zap.Int64s("wallets", wallets))
}
