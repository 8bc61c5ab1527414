package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

// UpsertEntry returns the entry identified by the request, inserting it when
// absent. Concurrent callers racing on the same output converge to one row;
// the losers get created=false.
func (r *Repository) UpsertEntry(ctx context.Context, req model.UpsertRequest) (entry model.LedgerEntry, created bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("upsert_entry", err, start)
	}()

	assetID := model.AssetID(req.AssetID.Key())

	const lookup = `
SELECT ` + entryColumns + `
FROM ledger_entries
WHERE txid = $1 AND address = $2 AND asset_id = $3 AND amount = $4::numeric AND output_index = $5`

	entry, err = scanEntry(r.db.QueryRowContext(ctx, lookup, req.TxID, req.Address, string(assetID), amountParam(req.Amount), int64(req.OutputIndex)))
	if err == nil {
		return entry, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.LedgerEntry{}, false, fmt.Errorf("lookup ledger entry: %w", err)
	}

	ack := model.AckUnknown
	if req.MarkAcknowledged {
		ack = model.AckDone
	}

	const insert = `
INSERT INTO ledger_entries (txid, output_index, address, asset_id, amount, block_height, wallet_id, source, acknowledged)
VALUES ($1, $2, $3, $4, $5::numeric, $6,
	(SELECT wallet_id FROM wallet_addresses WHERE address = $3),
	$7, $8)
ON CONFLICT (txid, address, output_index) DO NOTHING
RETURNING ` + entryColumns

	entry, err = scanEntry(r.db.QueryRowContext(ctx, insert,
		req.TxID,
		int64(req.OutputIndex),
		req.Address,
		string(assetID),
		amountParam(req.Amount),
		nullHeight(req.BlockHeight),
		string(req.Source),
		ackToNull(ack),
	))
	switch {
	case err == nil:
		return entry, true, nil
	case errors.Is(err, sql.ErrNoRows), isUniqueViolation(err):
	default:
		return model.LedgerEntry{}, false, fmt.Errorf("insert ledger entry: %w", err)
	}

	const existing = `
SELECT ` + entryColumns + `
FROM ledger_entries
WHERE txid = $1 AND address = $2 AND output_index = $3`

	entry, err = scanEntry(r.db.QueryRowContext(ctx, existing, req.TxID, req.Address, int64(req.OutputIndex)))
	if err != nil {
		return model.LedgerEntry{}, false, fmt.Errorf("reselect ledger entry: %w", err)
	}
	return entry, false, nil
}

// PropagateBlockHeight sets height on every entry of txid that does not carry
// it yet and returns the changed entries.
func (r *Repository) PropagateBlockHeight(ctx context.Context, txid string, height uint64) (entries []model.LedgerEntry, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("propagate_block_height", err, start)
	}()

	const query = `
UPDATE ledger_entries
SET block_height = $2
WHERE txid = $1 AND block_height IS DISTINCT FROM $2
RETURNING ` + entryColumns

	rows, err := r.db.QueryContext(ctx, query, txid, nullHeight(&height))
	if err != nil {
		return nil, fmt.Errorf("propagate block height: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", cerr)
		}
	}()

	entries, err = scanEntries(rows)
	return entries, err
}
