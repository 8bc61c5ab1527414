package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

// SubscriptionsByAddress returns the subscriptions of address with their recipients.
func (r *Repository) SubscriptionsByAddress(ctx context.Context, address string) (subs []model.Subscription, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("subscriptions_by_address", err, start)
	}()

	const query = `
SELECT s.id, s.address, s.wallet_id, s.live_socket_enabled,
	rc.id, COALESCE(rc.webhook_url, ''), COALESCE(rc.chat_id, 0), rc.valid
FROM subscriptions s
JOIN recipients rc ON rc.id = s.recipient_id
WHERE s.address = $1
ORDER BY s.id`

	rows, err := r.db.QueryContext(ctx, query, address)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", cerr)
		}
	}()

	for rows.Next() {
		var (
			sub      model.Subscription
			walletID sql.NullInt64
		)
		if err = rows.Scan(
			&sub.ID,
			&sub.Address,
			&walletID,
			&sub.LiveSocketEnabled,
			&sub.Recipient.ID,
			&sub.Recipient.WebhookURL,
			&sub.Recipient.ChatID,
			&sub.Recipient.Valid,
		); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		if walletID.Valid {
			w := walletID.Int64
			sub.WalletID = &w
		}
		subs = append(subs, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}
	return subs, nil
}

// SetLiveSocketEnabled persists live presence on every subscription of address.
func (r *Repository) SetLiveSocketEnabled(ctx context.Context, address string, enabled bool) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("set_live_socket_enabled", err, start)
	}()

	const query = `
UPDATE subscriptions
SET live_socket_enabled = $2
WHERE address = $1 AND live_socket_enabled <> $2`
	if _, err = r.db.ExecContext(ctx, query, address, enabled); err != nil {
		return fmt.Errorf("set live socket enabled: %w", err)
	}
	return nil
}

// InvalidateRecipient trips the recipient circuit breaker. There is no way
// back to valid through this repository.
func (r *Repository) InvalidateRecipient(ctx context.Context, recipientID int64) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("invalidate_recipient", err, start)
	}()

	if _, err = r.db.ExecContext(ctx, `UPDATE recipients SET valid = FALSE WHERE id = $1 AND valid`, recipientID); err != nil {
		return fmt.Errorf("invalidate recipient: %w", err)
	}
	return nil
}

// CreateRecipient stores a new valid recipient and returns its id.
func (r *Repository) CreateRecipient(ctx context.Context, recipient model.Recipient) (id int64, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("create_recipient", err, start)
	}()

	var (
		webhook sql.NullString
		chatID  sql.NullInt64
	)
	if recipient.WebhookURL != "" {
		webhook = sql.NullString{String: recipient.WebhookURL, Valid: true}
	}
	if recipient.ChatID != 0 {
		chatID = sql.NullInt64{Int64: recipient.ChatID, Valid: true}
	}

	const query = `INSERT INTO recipients (webhook_url, chat_id, valid) VALUES ($1, $2, TRUE) RETURNING id`
	if err = r.db.QueryRowContext(ctx, query, webhook, chatID).Scan(&id); err != nil {
		return 0, fmt.Errorf("create recipient: %w", err)
	}
	return id, nil
}

// Subscribe binds address to a recipient. Subscribing twice returns the same id.
func (r *Repository) Subscribe(ctx context.Context, address string, walletID *int64, recipientID int64) (id int64, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("subscribe", err, start)
	}()

	var wallet sql.NullInt64
	if walletID != nil {
		wallet = sql.NullInt64{Int64: *walletID, Valid: true}
	}

	const query = `
INSERT INTO subscriptions (address, wallet_id, recipient_id)
VALUES ($1, $2, $3)
ON CONFLICT (address, recipient_id) DO UPDATE SET wallet_id = COALESCE(EXCLUDED.wallet_id, subscriptions.wallet_id)
RETURNING id`
	if err = r.db.QueryRowContext(ctx, query, address, wallet, recipientID).Scan(&id); err != nil {
		return 0, fmt.Errorf("subscribe: %w", err)
	}
	return id, nil
}

// Unsubscribe removes the binding of address to a recipient.
func (r *Repository) Unsubscribe(ctx context.Context, address string, recipientID int64) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("unsubscribe", err, start)
	}()

	if _, err = r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE address = $1 AND recipient_id = $2`, address, recipientID); err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	return nil
}
