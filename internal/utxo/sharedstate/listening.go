package sharedstate

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// removeIdleScript drops ARGV[1] from the set only while its presence
// counter is zero or missing, so a concurrent increment is never lost.
var removeIdleScript = redis.NewScript(`
if tonumber(redis.call('GET', KEYS[2]) or '0') <= 0 then
	return redis.call('SREM', KEYS[1], ARGV[1])
end
return 0
`)

// ListeningSet is the set of addresses with at least one live connection.
type ListeningSet struct {
	client redis.UniversalClient
}

// NewListeningSet constructs a ListeningSet.
func NewListeningSet(client redis.UniversalClient) *ListeningSet {
	return &ListeningSet{client: client}
}

// Add marks address as listening.
func (l *ListeningSet) Add(ctx context.Context, address string) error {
	if err := l.client.SAdd(ctx, listeningKey, address).Err(); err != nil {
		return fmt.Errorf("add listening %s: %w", address, err)
	}
	return nil
}

// Remove unconditionally drops address from the set.
func (l *ListeningSet) Remove(ctx context.Context, address string) error {
	if err := l.client.SRem(ctx, listeningKey, address).Err(); err != nil {
		return fmt.Errorf("remove listening %s: %w", address, err)
	}
	return nil
}

// Members lists every listening address.
func (l *ListeningSet) Members(ctx context.Context) ([]string, error) {
	members, err := l.client.SMembers(ctx, listeningKey).Result()
	if err != nil {
		return nil, fmt.Errorf("listening members: %w", err)
	}
	return members, nil
}

// Contains reports whether address is listening.
func (l *ListeningSet) Contains(ctx context.Context, address string) (bool, error) {
	ok, err := l.client.SIsMember(ctx, listeningKey, address).Result()
	if err != nil {
		return false, fmt.Errorf("listening contains %s: %w", address, err)
	}
	return ok, nil
}

// RemoveIfIdle drops address when its presence counter is not positive and
// reports whether it was removed.
func (l *ListeningSet) RemoveIfIdle(ctx context.Context, address string) (bool, error) {
	n, err := removeIdleScript.Run(ctx, l.client, []string{listeningKey, PresenceKey(address)}, address).Int64()
	if err != nil {
		return false, fmt.Errorf("remove idle listening %s: %w", address, err)
	}
	return n == 1, nil
}
