package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

// SetAcknowledged records the delivery state of an entry. An entry already
// acknowledged stays acknowledged.
func (r *Repository) SetAcknowledged(ctx context.Context, entryID int64, ack model.Acknowledgement) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("set_acknowledged", err, start)
	}()

	const query = `
UPDATE ledger_entries
SET acknowledged = $2
WHERE id = $1 AND acknowledged IS DISTINCT FROM TRUE`

	if _, err = r.db.ExecContext(ctx, query, entryID, ackToNull(ack)); err != nil {
		return fmt.Errorf("set acknowledged: %w", err)
	}
	return nil
}
