package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

// NativeBalance sums unspent native outputs of a wallet.
func (r *Repository) NativeBalance(ctx context.Context, walletID int64) (uint64, error) {
	return r.balance(ctx, "native_balance", walletID, model.NativeAsset)
}

// TokenBalance sums unspent outputs of a token category held by a wallet.
func (r *Repository) TokenBalance(ctx context.Context, walletID int64, category string) (uint64, error) {
	return r.balance(ctx, "token_balance", walletID, model.AssetID(category))
}

func (r *Repository) balance(ctx context.Context, operation string, walletID int64, asset model.AssetID) (balance uint64, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe(operation, err, start)
	}()

	const query = `
SELECT COALESCE(SUM(amount), 0)::text
FROM ledger_entries
WHERE wallet_id = $1 AND asset_id = $2 AND NOT spent`

	var sum string
	if err = r.db.QueryRowContext(ctx, query, walletID, asset.Key()).Scan(&sum); err != nil {
		return 0, fmt.Errorf("query %s: %w", operation, err)
	}
	balance, err = strconv.ParseUint(sum, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", operation, sum, err)
	}
	return balance, nil
}
