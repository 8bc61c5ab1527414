package notify

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Subscriptions resolves and disables delivery targets.
	Subscriptions interface {
		Lookup(ctx context.Context, address string) ([]model.Subscription, error)
		InvalidateRecipient(ctx context.Context, recipientID int64) error
	}

	// Acknowledger records a confirmed delivery of an entry.
	Acknowledger interface {
		Acknowledge(ctx context.Context, entryID int64, channel string) error
	}

	// WebhookDeliverer posts a payload to a recipient URL.
	WebhookDeliverer interface {
		Deliver(ctx context.Context, url string, payload Payload) error
	}

	// ChatQueue accepts chat messages for rate-limited delivery.
	ChatQueue interface {
		Enqueue(ctx context.Context, chatID int64, text string) error
	}

	// ChatSender sends one chat message.
	ChatSender interface {
		Send(ctx context.Context, chatID int64, text string) error
	}

	// RoomPublisher broadcasts a payload to a live socket room.
	RoomPublisher interface {
		PublishRoom(ctx context.Context, room string, payload []byte) error
	}

	// BotAPI is the subset of the Telegram client used for delivery.
	BotAPI interface {
		Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	}

	// Metrics records delivery outcomes per channel.
	Metrics interface {
		ObserveDelivery(channel, outcome string, started time.Time)
	}
)
