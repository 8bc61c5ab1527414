package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

// FindOutputs returns the entries recorded for output (txid, outputIndex).
func (r *Repository) FindOutputs(ctx context.Context, txid string, outputIndex uint32) ([]model.LedgerEntry, error) {
	const query = `
SELECT ` + entryColumns + `
FROM ledger_entries
WHERE txid = $1 AND output_index = $2
ORDER BY id`
	return r.queryEntries(ctx, "find_outputs", query, txid, int64(outputIndex))
}

// EntriesByTxID returns every entry created by txid.
func (r *Repository) EntriesByTxID(ctx context.Context, txid string) ([]model.LedgerEntry, error) {
	const query = `
SELECT ` + entryColumns + `
FROM ledger_entries
WHERE txid = $1
ORDER BY output_index, id`
	return r.queryEntries(ctx, "entries_by_txid", query, txid)
}

// EntriesSpentBy returns the entries consumed by txid.
func (r *Repository) EntriesSpentBy(ctx context.Context, txid string) ([]model.LedgerEntry, error) {
	const query = `
SELECT ` + entryColumns + `
FROM ledger_entries
WHERE spending_txid = $1
ORDER BY id`
	return r.queryEntries(ctx, "entries_spent_by", query, txid)
}

// Entry returns the entry with id.
func (r *Repository) Entry(ctx context.Context, id int64) (entry model.LedgerEntry, found bool, err error) {
	entries, err := r.queryEntries(ctx, "entry", `SELECT `+entryColumns+` FROM ledger_entries WHERE id = $1`, id)
	if err != nil || len(entries) == 0 {
		return model.LedgerEntry{}, false, err
	}
	return entries[0], true, nil
}

func (r *Repository) queryEntries(ctx context.Context, operation, query string, args ...any) (entries []model.LedgerEntry, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe(operation, err, start)
	}()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", operation, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", cerr)
		}
	}()

	entries, err = scanEntries(rows)
	return entries, err
}
