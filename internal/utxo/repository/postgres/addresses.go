package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// TrackedAddresses returns the subset of addresses that are bound to a wallet
// or have at least one subscription.
func (r *Repository) TrackedAddresses(ctx context.Context, addresses []string) (tracked map[string]struct{}, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("tracked_addresses", err, start)
	}()

	tracked = make(map[string]struct{})
	if len(addresses) == 0 {
		return tracked, nil
	}

	const query = `
SELECT address FROM wallet_addresses WHERE address = ANY($1)
UNION
SELECT address FROM subscriptions WHERE address = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(addresses))
	if err != nil {
		return nil, fmt.Errorf("query tracked addresses: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", cerr)
		}
	}()

	for rows.Next() {
		var address string
		if err = rows.Scan(&address); err != nil {
			return nil, fmt.Errorf("scan tracked address: %w", err)
		}
		tracked[address] = struct{}{}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracked addresses: %w", err)
	}
	return tracked, nil
}

// BindWalletAddress attaches address to walletID. Existing entries of the
// address are moved to the wallet as well.
func (r *Repository) BindWalletAddress(ctx context.Context, walletID int64, address string) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("bind_wallet_address", err, start)
	}()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bind wallet address: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
INSERT INTO wallet_addresses (address, wallet_id) VALUES ($1, $2)
ON CONFLICT (address) DO UPDATE SET wallet_id = EXCLUDED.wallet_id`, address, walletID); err != nil {
		return fmt.Errorf("bind wallet address: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `UPDATE ledger_entries SET wallet_id = $2 WHERE address = $1`, address, walletID); err != nil {
		return fmt.Errorf("assign entries to wallet: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bind wallet address: %w", err)
	}
	return nil
}
