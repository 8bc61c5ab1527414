package sharedstate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// The active slot holds "<height>:<token>" so a holder whose lease lapsed
// cannot refresh or release a later acquisition of the same height. The lease
// index scores heights by their deadline.
var (
	acquireScript = redis.NewScript(`
if redis.call('SET', KEYS[1], ARGV[1], 'NX', 'PX', ARGV[2]) then
  redis.call('ZADD', KEYS[2], ARGV[3], ARGV[4])
  return 1
end
return 0
`)

	refreshScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
  redis.call('ZADD', KEYS[2], ARGV[3], ARGV[4])
  return 1
end
return 0
`)

	releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
  redis.call('ZREM', KEYS[2], ARGV[2])
  return redis.call('DEL', KEYS[1])
end
return 0
`)

	expireScript = redis.NewScript(`
local deadline = redis.call('ZSCORE', KEYS[2], ARGV[1])
if not deadline or tonumber(deadline) > tonumber(ARGV[2]) then
  return 0
end
redis.call('ZREM', KEYS[2], ARGV[1])
local holder = redis.call('GET', KEYS[1])
if holder and string.sub(holder, 1, string.len(ARGV[3])) == ARGV[3] then
  redis.call('DEL', KEYS[1])
end
return 1
`)
)

// BlockQueue is the ordered set of block heights waiting to be scanned plus
// the single leased slot of the block being scanned.
type BlockQueue struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewBlockQueue constructs a BlockQueue.
func NewBlockQueue(client redis.UniversalClient) *BlockQueue {
	return &BlockQueue{client: client, now: time.Now}
}

// Push adds heights to the pending queue. Heights already queued are kept once.
func (q *BlockQueue) Push(ctx context.Context, heights ...uint64) error {
	if len(heights) == 0 {
		return nil
	}
	members := make([]redis.Z, 0, len(heights))
	for _, h := range heights {
		members = append(members, redis.Z{Score: float64(h), Member: strconv.FormatUint(h, 10)})
	}
	if err := q.client.ZAdd(ctx, pendingBlocksKey, members...).Err(); err != nil {
		return fmt.Errorf("push pending blocks: %w", err)
	}
	return nil
}

// PopLowest removes and returns the lowest pending height.
func (q *BlockQueue) PopLowest(ctx context.Context) (uint64, bool, error) {
	res, err := q.client.ZPopMin(ctx, pendingBlocksKey, 1).Result()
	if err != nil {
		return 0, false, fmt.Errorf("pop pending block: %w", err)
	}
	if len(res) == 0 {
		return 0, false, nil
	}
	height, err := parseHeight(res[0].Member)
	if err != nil {
		return 0, false, err
	}
	return height, true, nil
}

// Pending returns the number of queued heights.
func (q *BlockQueue) Pending(ctx context.Context) (int64, error) {
	n, err := q.client.ZCard(ctx, pendingBlocksKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count pending blocks: %w", err)
	}
	return n, nil
}

// AcquireActive claims the active slot for height and returns the token of
// this acquisition. It fails when another block holds the slot.
func (q *BlockQueue) AcquireActive(ctx context.Context, height uint64, lease time.Duration) (string, bool, error) {
	token := uuid.NewString()
	deadline := q.now().Add(lease).UnixMilli()
	ok, err := acquireScript.Run(ctx, q.client, []string{activeBlockKey, scanLeasesKey},
		slotValue(height, token), lease.Milliseconds(), deadline, strconv.FormatUint(height, 10)).Int64()
	if err != nil {
		return "", false, fmt.Errorf("acquire active block %d: %w", height, err)
	}
	if ok != 1 {
		return "", false, nil
	}
	return token, true, nil
}

// RefreshActive extends the lease if the acquisition identified by token
// still holds the slot.
func (q *BlockQueue) RefreshActive(ctx context.Context, height uint64, token string, lease time.Duration) (bool, error) {
	deadline := q.now().Add(lease).UnixMilli()
	ok, err := refreshScript.Run(ctx, q.client, []string{activeBlockKey, scanLeasesKey},
		slotValue(height, token), lease.Milliseconds(), deadline, strconv.FormatUint(height, 10)).Int64()
	if err != nil {
		return false, fmt.Errorf("refresh active block %d: %w", height, err)
	}
	return ok == 1, nil
}

// ReleaseActive frees the slot and forgets its lease if the acquisition
// identified by token still holds it.
func (q *BlockQueue) ReleaseActive(ctx context.Context, height uint64, token string) error {
	err := releaseScript.Run(ctx, q.client, []string{activeBlockKey, scanLeasesKey},
		slotValue(height, token), strconv.FormatUint(height, 10)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release active block %d: %w", height, err)
	}
	return nil
}

// Active returns the height holding the slot.
func (q *BlockQueue) Active(ctx context.Context) (uint64, bool, error) {
	v, err := q.client.Get(ctx, activeBlockKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get active block: %w", err)
	}
	height, _, _ := strings.Cut(v, ":")
	h, err := parseHeight(height)
	if err != nil {
		return 0, false, err
	}
	return h, true, nil
}

// ExpiredLeases returns heights whose lease deadline passed before now.
func (q *BlockQueue) ExpiredLeases(ctx context.Context, now time.Time) ([]uint64, error) {
	members, err := q.client.ZRangeByScore(ctx, scanLeasesKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("expired leases: %w", err)
	}
	heights := make([]uint64, 0, len(members))
	for _, m := range members {
		h, err := parseHeight(m)
		if err != nil {
			return nil, err
		}
		heights = append(heights, h)
	}
	return heights, nil
}

// ExpireLease drops the lease record of height when its deadline is not after
// now and frees the slot if that height still holds it. It reports whether the
// record was dropped, so concurrent sweepers requeue a block once and a fresh
// acquisition of the same height is left alone.
func (q *BlockQueue) ExpireLease(ctx context.Context, height uint64, now time.Time) (bool, error) {
	member := strconv.FormatUint(height, 10)
	n, err := expireScript.Run(ctx, q.client, []string{activeBlockKey, scanLeasesKey},
		member, now.UnixMilli(), member+":").Int64()
	if err != nil {
		return false, fmt.Errorf("expire lease %d: %w", height, err)
	}
	return n == 1, nil
}

// Ready reports whether the initial catch-up pass finished.
func (q *BlockQueue) Ready(ctx context.Context) (bool, error) {
	n, err := q.client.Exists(ctx, readyKey).Result()
	if err != nil {
		return false, fmt.Errorf("get ready: %w", err)
	}
	return n == 1, nil
}

// SetReady opens the ready gate.
func (q *BlockQueue) SetReady(ctx context.Context) error {
	if err := q.client.Set(ctx, readyKey, "1", 0).Err(); err != nil {
		return fmt.Errorf("set ready: %w", err)
	}
	return nil
}

// Cursor returns the highest height ever enqueued by the follower.
func (q *BlockQueue) Cursor(ctx context.Context) (uint64, bool, error) {
	v, err := q.client.Get(ctx, cursorKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get cursor: %w", err)
	}
	height, err := parseHeight(v)
	if err != nil {
		return 0, false, err
	}
	return height, true, nil
}

// SetCursor stores the highest enqueued height.
func (q *BlockQueue) SetCursor(ctx context.Context, height uint64) error {
	if err := q.client.Set(ctx, cursorKey, strconv.FormatUint(height, 10), 0).Err(); err != nil {
		return fmt.Errorf("set cursor: %w", err)
	}
	return nil
}

// MarkUnitComplete records txid as scanned for height. It reports false when
// the unit had already been recorded.
func (q *BlockQueue) MarkUnitComplete(ctx context.Context, height uint64, txid string) (bool, error) {
	n, err := q.client.SAdd(ctx, BlockCompletedKey(height), txid).Result()
	if err != nil {
		return false, fmt.Errorf("mark unit %s of block %d: %w", txid, height, err)
	}
	return n == 1, nil
}

// CompletedUnits returns the number of distinct units completed for height.
func (q *BlockQueue) CompletedUnits(ctx context.Context, height uint64) (int64, error) {
	n, err := q.client.SCard(ctx, BlockCompletedKey(height)).Result()
	if err != nil {
		return 0, fmt.Errorf("completed units of block %d: %w", height, err)
	}
	return n, nil
}

// ResetUnits forgets completed units of height.
func (q *BlockQueue) ResetUnits(ctx context.Context, height uint64) error {
	if err := q.client.Del(ctx, BlockCompletedKey(height)).Err(); err != nil {
		return fmt.Errorf("reset units of block %d: %w", height, err)
	}
	return nil
}

func slotValue(height uint64, token string) string {
	return strconv.FormatUint(height, 10) + ":" + token
}

func parseHeight(member interface{}) (uint64, error) {
	s, ok := member.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected block member %T", member)
	}
	h, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse block height %q: %w", s, err)
	}
	return h, nil
}
