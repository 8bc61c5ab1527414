package subscription

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Counters is the shared atomic counter store.
	Counters interface {
		Increment(ctx context.Context, key string) (int64, error)
		Decrement(ctx context.Context, key string) (int64, error)
		Get(ctx context.Context, key string) (int64, error)
	}

	// ListeningSet holds addresses with at least one live connection.
	ListeningSet interface {
		Add(ctx context.Context, address string) error
		Remove(ctx context.Context, address string) error
		Members(ctx context.Context) ([]string, error)
		RemoveIfIdle(ctx context.Context, address string) (bool, error)
	}

	// Repository persists subscriptions and recipients.
	Repository interface {
		SubscriptionsByAddress(ctx context.Context, address string) ([]model.Subscription, error)
		SetLiveSocketEnabled(ctx context.Context, address string, enabled bool) error
		InvalidateRecipient(ctx context.Context, recipientID int64) error
		CreateRecipient(ctx context.Context, recipient model.Recipient) (int64, error)
		Subscribe(ctx context.Context, address string, walletID *int64, recipientID int64) (int64, error)
		Unsubscribe(ctx context.Context, address string, recipientID int64) error
	}

	// Metrics records presence counter activity.
	Metrics interface {
		ObserveOperation(operation string, err error)
		ObserveClamped()
		ObserveSwept(n int)
	}
)
