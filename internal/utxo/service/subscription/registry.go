// Package subscription tracks who listens to an address and how to reach them.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/sharedstate"
	"go.uber.org/zap"
)

// Registry maps addresses to subscriptions and live connection presence.
type Registry struct {
	counters  Counters
	listening ListeningSet
	repo      Repository
	metrics   Metrics
	logger    *zap.Logger
	sleep     clock.Sleeper
}

// NewRegistry builds a Registry.
func NewRegistry(counters Counters, listening ListeningSet, repo Repository, metrics Metrics, logger *zap.Logger) *Registry {
	return &Registry{
		counters:  counters,
		listening: listening,
		repo:      repo,
		metrics:   metrics,
		logger:    logger.Named("subscription_registry"),
		sleep:     clock.SleepWithContext,
	}
}

// Increment registers one more live connection for address. The first
// connection adds the address to the listening set.
func (r *Registry) Increment(ctx context.Context, address string) (int64, error) {
	address = model.NormalizeAddress(address)
	n, err := r.counters.Increment(ctx, sharedstate.PresenceKey(address))
	r.metrics.ObserveOperation("increment", err)
	if err != nil {
		return 0, fmt.Errorf("increment presence: %w", err)
	}
	if n == 1 {
		if err = r.setListening(ctx, address, true); err != nil {
			return n, err
		}
		return n, nil
	}
	// Restores membership lost by a failed first increment; the flag is
	// repaired by the sweep.
	if err = r.listening.Add(ctx, address); err != nil {
		return n, fmt.Errorf("update listening set: %w", err)
	}
	return n, nil
}

// Decrement drops one live connection for address. The counter never goes
// below zero; the last connection removes the address from the listening set.
func (r *Registry) Decrement(ctx context.Context, address string) (int64, error) {
	address = model.NormalizeAddress(address)
	n, err := r.counters.Decrement(ctx, sharedstate.PresenceKey(address))
	if errors.Is(err, sharedstate.ErrCounterClamped) {
		r.metrics.ObserveOperation("decrement", nil)
		r.metrics.ObserveClamped()
		r.logger.Error("presence counter decremented at zero", zap.String("address", address))
		return 0, nil
	}
	r.metrics.ObserveOperation("decrement", err)
	if err != nil {
		return 0, fmt.Errorf("decrement presence: %w", err)
	}
	if n == 0 {
		if err = r.setListening(ctx, address, false); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Lookup returns every subscription of address, regardless of live presence.
func (r *Registry) Lookup(ctx context.Context, address string) ([]model.Subscription, error) {
	subs, err := r.repo.SubscriptionsByAddress(ctx, model.NormalizeAddress(address))
	if err != nil {
		return nil, fmt.Errorf("lookup subscriptions: %w", err)
	}
	return subs, nil
}

// Subscribe binds address to recipient, creating the recipient when it has no id yet.
func (r *Registry) Subscribe(ctx context.Context, address string, walletID *int64, recipient model.Recipient) (model.Subscription, error) {
	address = model.NormalizeAddress(address)
	if recipient.ID == 0 {
		recipient.Valid = true
		id, err := r.repo.CreateRecipient(ctx, recipient)
		if err != nil {
			return model.Subscription{}, fmt.Errorf("create recipient: %w", err)
		}
		recipient.ID = id
	}

	id, err := r.repo.Subscribe(ctx, address, walletID, recipient.ID)
	if err != nil {
		return model.Subscription{}, fmt.Errorf("subscribe: %w", err)
	}
	sub := model.Subscription{ID: id, Address: address, WalletID: walletID, Recipient: recipient}

	live, err := r.counters.Get(ctx, sharedstate.PresenceKey(address))
	if err != nil {
		r.logger.Warn("read presence for new subscription failed", zap.String("address", address), zap.Error(err))
		return sub, nil
	}
	if live > 0 {
		if err = r.repo.SetLiveSocketEnabled(ctx, address, true); err != nil {
			return sub, fmt.Errorf("enable live socket: %w", err)
		}
		sub.LiveSocketEnabled = true
	}
	return sub, nil
}

// Unsubscribe removes the binding between address and recipient.
func (r *Registry) Unsubscribe(ctx context.Context, address string, recipientID int64) error {
	if err := r.repo.Unsubscribe(ctx, model.NormalizeAddress(address), recipientID); err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	return nil
}

// InvalidateRecipient disables a recipient permanently.
func (r *Registry) InvalidateRecipient(ctx context.Context, recipientID int64) error {
	if err := r.repo.InvalidateRecipient(ctx, recipientID); err != nil {
		return fmt.Errorf("invalidate recipient: %w", err)
	}
	r.logger.Info("recipient invalidated", zap.Int64("recipient_id", recipientID))
	return nil
}

// Sweep removes listening addresses whose presence counter is zero and
// re-persists the live flag of addresses that still have connections.
func (r *Registry) Sweep(ctx context.Context) (int, error) {
	members, err := r.listening.Members(ctx)
	if err != nil {
		return 0, fmt.Errorf("listening members: %w", err)
	}

	removed := 0
	for _, address := range members {
		ok, err := r.listening.RemoveIfIdle(ctx, address)
		if err != nil {
			return removed, fmt.Errorf("remove idle address: %w", err)
		}
		if !ok {
			if err = r.repo.SetLiveSocketEnabled(ctx, address, true); err != nil {
				return removed, fmt.Errorf("repair live socket flag: %w", err)
			}
			continue
		}
		if err = r.repo.SetLiveSocketEnabled(ctx, address, false); err != nil {
			return removed, fmt.Errorf("persist live socket flag: %w", err)
		}

		// A connection may have arrived between removal and persistence.
		n, err := r.counters.Get(ctx, sharedstate.PresenceKey(address))
		if err != nil {
			return removed, fmt.Errorf("read presence: %w", err)
		}
		if n > 0 {
			if err = r.setListening(ctx, address, true); err != nil {
				return removed, err
			}
			continue
		}
		removed++
	}
	r.metrics.ObserveSwept(removed)
	return removed, nil
}

// RunSweeper sweeps every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) error {
	return clock.Repeat(ctx, interval, r.sleep, func(ctx context.Context) {
		removed, err := r.Sweep(ctx)
		if err != nil {
			r.logger.Warn("presence sweep failed", zap.Error(err))
		} else if removed > 0 {
			r.logger.Info("presence sweep removed stale addresses", zap.Int("removed", removed))
		}
	})
}

func (r *Registry) setListening(ctx context.Context, address string, enabled bool) error {
	var err error
	if enabled {
		err = r.listening.Add(ctx, address)
	} else {
		err = r.listening.Remove(ctx, address)
	}
	if err != nil {
		return fmt.Errorf("update listening set: %w", err)
	}
	if err = r.repo.SetLiveSocketEnabled(ctx, address, enabled); err != nil {
		return fmt.Errorf("persist live socket flag: %w", err)
	}
	return nil
}
