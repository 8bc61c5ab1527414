package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

// WalletHistory returns one page of journal events of a wallet and asset, newest first.
func (r *Repository) WalletHistory(ctx context.Context, walletID int64, asset model.AssetID, page, size int) ([]model.HistoryItem, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("wallet_history", err, start)
	}()

	if page < 0 || size <= 0 {
		err = fmt.Errorf("invalid page %d size %d", page, size)
		return nil, err
	}

	const query = `
SELECT
	txid,
	output_index,
	address,
	asset_id,
	amount,
	kind,
	block_height,
	event_time
FROM ledger_events
WHERE wallet_id = ? AND asset_id = ?
ORDER BY event_time DESC, txid ASC, output_index ASC
LIMIT ? OFFSET ?`

	rows, err := r.conn.Query(ctx, query, walletID, asset.Key(), uint64(size), uint64(page*size))
	if err != nil {
		return nil, fmt.Errorf("query wallet history: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", cerr)
		}
	}()

	var items []model.HistoryItem
	for rows.Next() {
		var (
			item    model.HistoryItem
			assetID string
			kind    string
		)
		if err = rows.Scan(
			&item.TxID,
			&item.OutputIndex,
			&item.Address,
			&assetID,
			&item.Amount,
			&kind,
			&item.BlockHeight,
			&item.At,
		); err != nil {
			return nil, fmt.Errorf("scan wallet history: %w", err)
		}
		item.AssetID = model.AssetID(assetID)
		item.Kind = model.MutationKind(kind)
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet history: %w", err)
	}

	return items, nil
}
