package model

// Recipient is a delivery target. Valid is a one-way circuit breaker:
// once false it is never re-enabled automatically.
type Recipient struct {
	ID         int64
	WebhookURL string
	ChatID     int64
	Valid      bool
}

// Subscription binds an address to a recipient.
type Subscription struct {
	ID                int64
	Address           string
	WalletID          *int64
	Recipient         Recipient
	LiveSocketEnabled bool
}
