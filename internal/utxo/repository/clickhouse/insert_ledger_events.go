package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

const insertLedgerEventsQuery = `
INSERT INTO ledger_events (
	wallet_id,
	asset_id,
	event_time,
	kind,
	txid,
	output_index,
	address,
	amount,
	block_height
) VALUES`

// InsertLedgerEvents appends journal events.
func (r *Repository) InsertLedgerEvents(ctx context.Context, events []model.JournalEvent) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_ledger_events", err, start)
	}()

	if len(events) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertLedgerEventsQuery)
	if err != nil {
		return fmt.Errorf("prepare ledger events batch: %w", err)
	}

	for _, e := range events {
		if err = batch.Append(
			e.WalletID,
			e.AssetID.Key(),
			e.At,
			string(e.Kind),
			e.TxID,
			e.OutputIndex,
			e.Address,
			e.Amount,
			e.BlockHeight,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append ledger event: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert ledger events: %w", err)
	}
	return nil
}
