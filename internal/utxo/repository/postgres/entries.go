package postgres

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-watch/pkg/safe"
)

const entryColumns = `id, txid, output_index, address, asset_id, amount, spent, spending_txid,
	block_height, wallet_id, source, acknowledged, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (model.LedgerEntry, error) {
	var (
		entry       model.LedgerEntry
		outputIndex int64
		blockHeight sql.NullInt64
		walletID    sql.NullInt64
		ack         sql.NullBool
		assetID     string
		source      string
	)
	if err := row.Scan(
		&entry.ID,
		&entry.TxID,
		&outputIndex,
		&entry.Address,
		&assetID,
		&entry.Amount,
		&entry.Spent,
		&entry.SpendingTxID,
		&blockHeight,
		&walletID,
		&source,
		&ack,
		&entry.CreatedAt,
	); err != nil {
		return model.LedgerEntry{}, err
	}

	idx, err := safe.Uint32(outputIndex)
	if err != nil {
		return model.LedgerEntry{}, fmt.Errorf("entry %d output index: %w", entry.ID, err)
	}
	entry.OutputIndex = idx
	entry.AssetID = model.AssetID(assetID)
	entry.Source = model.Source(source)
	if blockHeight.Valid {
		h, err := safe.Uint64(blockHeight.Int64)
		if err != nil {
			return model.LedgerEntry{}, fmt.Errorf("entry %d block height: %w", entry.ID, err)
		}
		entry.BlockHeight = &h
	}
	if walletID.Valid {
		w := walletID.Int64
		entry.WalletID = &w
	}
	entry.Acknowledged = ackFromNull(ack)
	return entry, nil
}

func scanEntries(rows *sql.Rows) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return entries, nil
}

func ackFromNull(v sql.NullBool) model.Acknowledgement {
	switch {
	case !v.Valid:
		return model.AckUnknown
	case v.Bool:
		return model.AckDone
	default:
		return model.AckPending
	}
}

func ackToNull(a model.Acknowledgement) sql.NullBool {
	switch a {
	case model.AckDone:
		return sql.NullBool{Bool: true, Valid: true}
	case model.AckPending:
		return sql.NullBool{Bool: false, Valid: true}
	default:
		return sql.NullBool{}
	}
}

func nullHeight(h *uint64) sql.NullInt64 {
	if h == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*h), Valid: true}
}

// amounts are NUMERIC(20,0) and travel as text so the full uint64 range fits.
func amountParam(v uint64) string {
	return strconv.FormatUint(v, 10)
}
