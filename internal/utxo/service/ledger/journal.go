package ledger

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-watch/pkg/batcher"
	"go.uber.org/zap"
)

// JournalWriter batches ledger events into the history store.
type JournalWriter struct {
	batcher *batcher.Batcher[model.JournalEvent]
}

// NewJournalWriter builds a JournalWriter that appends through writer.
func NewJournalWriter(writer EventWriter, cfg batcher.Config, logger *zap.Logger) *JournalWriter {
	return &JournalWriter{
		batcher: batcher.New(cfg, writer.InsertLedgerEvents, logger.Named("journal")),
	}
}

// Start begins background flushing.
func (j *JournalWriter) Start(ctx context.Context) {
	j.batcher.Start(ctx)
}

// Stop flushes pending events and stops the writer.
func (j *JournalWriter) Stop() {
	j.batcher.Stop()
}

// Record queues events for the next flush.
func (j *JournalWriter) Record(ctx context.Context, events ...model.JournalEvent) error {
	if err := j.batcher.Add(ctx, events...); err != nil {
		return fmt.Errorf("queue journal events: %w", err)
	}
	return nil
}

// JournalEvents expands a mutation into one event per affected wallet.
func JournalEvents(m model.LedgerMutation) []model.JournalEvent {
	wallets := m.AffectedWallets()
	events := make([]model.JournalEvent, 0, len(wallets))
	for _, w := range wallets {
		events = append(events, model.JournalEvent{
			WalletID: w,
			HistoryItem: model.HistoryItem{
				TxID:        m.Entry.TxID,
				OutputIndex: m.Entry.OutputIndex,
				Address:     m.Entry.Address,
				AssetID:     m.Entry.AssetID,
				Amount:      m.Entry.Amount,
				Kind:        m.Kind,
				BlockHeight: m.Entry.BlockHeight,
				At:          m.At,
			},
		})
	}
	return events
}
