package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

// MarkSpent flags the outputs (txid, outputIndex) as spent by spendingTxID and
// returns the entries that changed. Unknown outputs and repeated calls change
// nothing.
func (r *Repository) MarkSpent(ctx context.Context, txid string, outputIndex uint32, spendingTxID string) (entries []model.LedgerEntry, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("mark_spent", err, start)
	}()

	const query = `
UPDATE ledger_entries
SET spent = TRUE, spending_txid = $3
WHERE txid = $1 AND output_index = $2 AND (NOT spent OR spending_txid <> $3)
RETURNING ` + entryColumns

	rows, err := r.db.QueryContext(ctx, query, txid, int64(outputIndex), spendingTxID)
	if err != nil {
		return nil, fmt.Errorf("mark spent: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", cerr)
		}
	}()

	entries, err = scanEntries(rows)
	return entries, err
}
