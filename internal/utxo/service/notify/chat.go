package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

type chatMessage struct {
	chatID int64
	text   string
}

// RateLimitedChat delivers queued chat messages no faster than the limiter allows.
type RateLimitedChat struct {
	sender  ChatSender
	limiter ratelimit.Limiter
	items   chan chatMessage
	metrics Metrics
	logger  *zap.Logger
}

// NewRateLimitedChat builds a chat queue sending at most rps messages per second.
func NewRateLimitedChat(sender ChatSender, rps, buffer int, metrics Metrics, logger *zap.Logger) *RateLimitedChat {
	if buffer <= 0 {
		buffer = 1
	}
	return &RateLimitedChat{
		sender:  sender,
		limiter: ratelimit.New(rps),
		items:   make(chan chatMessage, buffer),
		metrics: metrics,
		logger:  logger.Named("chat"),
	}
}

// Enqueue queues a message, blocking while the buffer is full.
func (c *RateLimitedChat) Enqueue(ctx context.Context, chatID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case c.items <- chatMessage{chatID: chatID, text: text}:
		return nil
	}
}

// Run sends queued messages until ctx is done.
func (c *RateLimitedChat) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-c.items:
			started := c.limiter.Take()
			if err := c.sender.Send(ctx, msg.chatID, msg.text); err != nil {
				c.metrics.ObserveDelivery(channelChat, outcomeError, started)
				c.logger.Warn("chat message not sent", zap.Int64("chat_id", msg.chatID), zap.Error(err))
				continue
			}
			c.metrics.ObserveDelivery(channelChat, outcomeDelivered, started)
		}
	}
}

// TelegramSender sends chat messages through the Telegram Bot API.
type TelegramSender struct {
	bot BotAPI
}

// NewTelegramSender wraps a bot client.
func NewTelegramSender(bot BotAPI) *TelegramSender {
	return &TelegramSender{bot: bot}
}

// NewTelegramBot connects to the Bot API with token. Every API call is
// bounded by timeout.
func NewTelegramBot(token string, timeout time.Duration) (*tgbotapi.BotAPI, error) {
	return newTelegramBot(token, tgbotapi.APIEndpoint, timeout)
}

func newTelegramBot(token, endpoint string, timeout time.Duration) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return bot, nil
}

// Send delivers text to chatID.
func (s *TelegramSender) Send(_ context.Context, chatID int64, text string) error {
	if _, err := s.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
