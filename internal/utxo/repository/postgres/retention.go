package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/lib/pq"
)

// SpentEntriesBefore returns up to limit spent entries created before cutoff, oldest first.
func (r *Repository) SpentEntriesBefore(ctx context.Context, cutoff time.Time, limit int) ([]model.LedgerEntry, error) {
	const query = `
SELECT ` + entryColumns + `
FROM ledger_entries
WHERE spent AND created_at < $1
ORDER BY created_at, id
LIMIT $2`
	return r.queryEntries(ctx, "spent_entries_before", query, cutoff, limit)
}

// DeleteEntries removes entries by id and returns how many were deleted.
func (r *Repository) DeleteEntries(ctx context.Context, ids []int64) (deleted int64, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("delete_entries", err, start)
	}()

	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM ledger_entries WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("delete entries: %w", err)
	}
	deleted, err = res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete entries rows affected: %w", err)
	}
	return deleted, nil
}
