// Package notify fans ledger entries out to subscribed recipients.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"go.uber.org/zap"
)

const (
	channelWebhook    = "webhook"
	channelChat       = "chat"
	channelLiveSocket = "live_socket"

	outcomeDelivered   = "delivered"
	outcomeInvalidated = "invalidated"
	outcomeExhausted   = "exhausted"
	outcomeError       = "error"
	outcomeQueued      = "queued"
)

// Dispatcher delivers an entry to every subscription of its address. Each
// channel of each recipient is attempted independently.
type Dispatcher struct {
	subscriptions Subscriptions
	acks          Acknowledger
	webhooks      WebhookDeliverer
	chat          ChatQueue
	rooms         RoomPublisher
	metrics       Metrics
	logger        *zap.Logger
}

// NewDispatcher builds a Dispatcher.
func NewDispatcher(
	subscriptions Subscriptions,
	acks Acknowledger,
	webhooks WebhookDeliverer,
	chat ChatQueue,
	rooms RoomPublisher,
	metrics Metrics,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		subscriptions: subscriptions,
		acks:          acks,
		webhooks:      webhooks,
		chat:          chat,
		rooms:         rooms,
		metrics:       metrics,
		logger:        logger.Named("dispatcher"),
	}
}

// Dispatch delivers entry. Only the subscription lookup can fail the call;
// per recipient failures are logged.
func (d *Dispatcher) Dispatch(ctx context.Context, entry model.LedgerEntry) error {
	subs, err := d.subscriptions.Lookup(ctx, entry.Address)
	if err != nil {
		return fmt.Errorf("lookup subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return nil
	}

	logger := d.logger.With(
		zap.Int64("entry_id", entry.ID),
		zap.String("txid", entry.TxID),
		zap.Uint32("output_index", entry.OutputIndex),
	)
	payload := NewPayload(entry)

	var wg sync.WaitGroup
	live := false
	for _, sub := range subs {
		live = live || sub.LiveSocketEnabled
		if sub.Recipient.WebhookURL != "" && sub.Recipient.Valid {
			wg.Add(1)
			go func(r model.Recipient) {
				defer wg.Done()
				d.deliverWebhook(ctx, logger, entry, r, payload)
			}(sub.Recipient)
		}
		if sub.Recipient.ChatID != 0 {
			wg.Add(1)
			go func(r model.Recipient) {
				defer wg.Done()
				d.deliverChat(ctx, logger, entry, r)
			}(sub.Recipient)
		}
	}
	if live {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.deliverLive(ctx, logger, entry, payload)
		}()
	}
	wg.Wait()
	return nil
}

func (d *Dispatcher) deliverWebhook(ctx context.Context, logger *zap.Logger, entry model.LedgerEntry, r model.Recipient, payload Payload) {
	started := time.Now()
	logger = logger.With(zap.Int64("recipient_id", r.ID))

	err := d.webhooks.Deliver(ctx, r.WebhookURL, payload)
	switch {
	case err == nil:
		d.metrics.ObserveDelivery(channelWebhook, outcomeDelivered, started)
		if ackErr := d.acks.Acknowledge(ctx, entry.ID, channelWebhook); ackErr != nil {
			logger.Warn("acknowledge webhook delivery failed", zap.Error(ackErr))
		}
	case errors.Is(err, ErrInvalidRecipient):
		d.metrics.ObserveDelivery(channelWebhook, outcomeInvalidated, started)
		logger.Warn("webhook recipient rejected, disabling", zap.Error(err))
		if invErr := d.subscriptions.InvalidateRecipient(ctx, r.ID); invErr != nil {
			logger.Error("invalidate recipient failed", zap.Error(invErr))
		}
	case errors.Is(err, ErrExhaustedRetries):
		d.metrics.ObserveDelivery(channelWebhook, outcomeExhausted, started)
		logger.Warn("webhook delivery dropped", zap.Error(err))
	default:
		d.metrics.ObserveDelivery(channelWebhook, outcomeError, started)
		logger.Warn("webhook delivery failed", zap.Error(err))
	}
}

func (d *Dispatcher) deliverChat(ctx context.Context, logger *zap.Logger, entry model.LedgerEntry, r model.Recipient) {
	started := time.Now()
	logger = logger.With(zap.Int64("recipient_id", r.ID))

	if err := d.chat.Enqueue(ctx, r.ChatID, ChatMessage(entry)); err != nil {
		d.metrics.ObserveDelivery(channelChat, outcomeError, started)
		logger.Warn("enqueue chat message failed", zap.Error(err))
		return
	}
	d.metrics.ObserveDelivery(channelChat, outcomeQueued, started)
	if err := d.acks.Acknowledge(ctx, entry.ID, channelChat); err != nil {
		logger.Warn("acknowledge chat delivery failed", zap.Error(err))
	}
}

func (d *Dispatcher) deliverLive(ctx context.Context, logger *zap.Logger, entry model.LedgerEntry, payload Payload) {
	started := time.Now()
	body, err := json.Marshal(payload)
	if err != nil {
		d.metrics.ObserveDelivery(channelLiveSocket, outcomeError, started)
		logger.Error("marshal live payload failed", zap.Error(err))
		return
	}
	for _, room := range Rooms(entry) {
		if err = d.rooms.PublishRoom(ctx, room, body); err != nil {
			d.metrics.ObserveDelivery(channelLiveSocket, outcomeError, started)
			logger.Warn("publish to room failed", zap.String("room", room), zap.Error(err))
			continue
		}
		d.metrics.ObserveDelivery(channelLiveSocket, outcomeDelivered, started)
	}
}
