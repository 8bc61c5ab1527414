// Package sharedstate holds the Redis-backed state shared by every process of
// the pipeline: presence counters, the pending block queue with its leased
// active slot, and the listening address set.
package sharedstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCounterClamped is returned by Decrement when the counter was already zero.
var ErrCounterClamped = errors.New("counter already at zero")

var decrementScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current <= 0 then
  redis.call('SET', KEYS[1], 0)
  return -1
end
return redis.call('DECR', KEYS[1])
`)

// Store is a typed view over shared counters and flags.
type Store struct {
	client redis.UniversalClient
}

// NewStore constructs a Store.
func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// Increment atomically adds one to the counter at key and returns the new value.
func (s *Store) Increment(ctx context.Context, key string) (int64, error) {
	v, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("increment %s: %w", key, err)
	}
	return v, nil
}

// Decrement atomically subtracts one from the counter at key. The counter never
// goes below zero: a decrement at zero leaves it at zero and returns
// ErrCounterClamped.
func (s *Store) Decrement(ctx context.Context, key string) (int64, error) {
	v, err := decrementScript.Run(ctx, s.client, []string{key}).Int64()
	if err != nil {
		return 0, fmt.Errorf("decrement %s: %w", key, err)
	}
	if v < 0 {
		return 0, ErrCounterClamped
	}
	return v, nil
}

// Get returns the counter at key, zero when absent.
func (s *Store) Get(ctx context.Context, key string) (int64, error) {
	v, err := s.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", key, err)
	}
	return v, nil
}

// SetIfAbsent stores value at key unless it exists. A zero ttl keeps the key forever.
func (s *Store) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("set if absent %s: %w", key, err)
	}
	return ok, nil
}

// Delete removes keys.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}
