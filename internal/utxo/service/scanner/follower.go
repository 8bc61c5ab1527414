package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/clock"
	"go.uber.org/zap"
)

// FollowerConfig tunes the block follower.
type FollowerConfig struct {
	// StartHeight is the first height queued on an empty cursor. Zero starts at the tip.
	StartHeight  uint64
	PollInterval time.Duration
	// MaxSpan bounds how many heights one pass enqueues.
	MaxSpan uint64
}

// Follower queues every new chain height and opens the ready gate once it
// has caught up with the tip.
type Follower struct {
	source      Source
	queue       Queue
	blocks      BlockRepository
	metrics     FollowerMetrics
	logger      *zap.Logger
	cfg         FollowerConfig
	sleep       clock.Sleeper
	blockSignal <-chan struct{}
}

// NewFollower builds a Follower. blockSignal may be nil.
func NewFollower(
	source Source,
	queue Queue,
	blocks BlockRepository,
	metrics FollowerMetrics,
	logger *zap.Logger,
	cfg FollowerConfig,
	blockSignal <-chan struct{},
) (*Follower, error) {
	if metrics == nil {
		return nil, errors.New("follower metrics is required")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultFollowerPoll
	}
	if cfg.MaxSpan == 0 {
		cfg.MaxSpan = defaultFollowerSpan
	}
	return &Follower{
		source:      source,
		queue:       queue,
		blocks:      blocks,
		metrics:     metrics,
		logger:      logger.Named("block_follower"),
		cfg:         cfg,
		sleep:       clock.SleepWithContext,
		blockSignal: blockSignal,
	}, nil
}

// Run follows the chain tip until ctx is canceled.
func (f *Follower) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		enqueued, err := f.Sync(ctx)
		if err != nil {
			f.logger.Warn("follower sync failed", zap.Error(err))
		}
		if err == nil && enqueued > 0 {
			continue
		}
		if err = f.wait(ctx, f.cfg.PollInterval); err != nil {
			return err
		}
	}
}

// Sync queues heights between the cursor and the tip, at most MaxSpan of
// them, and returns how many were queued.
func (f *Follower) Sync(ctx context.Context) (enqueued int, err error) {
	started := time.Now()
	defer func() {
		f.metrics.ObserveSync(err, enqueued, started)
	}()

	latest, err := f.source.LatestHeight(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: latest height: %w", ErrTransientUpstream, err)
	}

	cursor, ok, err := f.queue.Cursor(ctx)
	if err != nil {
		return 0, err
	}
	next := f.cfg.StartHeight
	switch {
	case ok:
		next = cursor + 1
	case next == 0:
		next = latest
	}

	if next > latest {
		return 0, f.openGate(ctx)
	}

	last := latest
	if last-next+1 > f.cfg.MaxSpan {
		last = next + f.cfg.MaxSpan - 1
	}
	heights := make([]uint64, 0, last-next+1)
	for h := next; h <= last; h++ {
		heights = append(heights, h)
	}

	if err = f.blocks.EnsureBlocks(ctx, heights); err != nil {
		return 0, fmt.Errorf("ensure blocks: %w", err)
	}
	if err = f.queue.Push(ctx, heights...); err != nil {
		return 0, err
	}
	if err = f.queue.SetCursor(ctx, last); err != nil {
		return 0, err
	}
	f.logger.Info("queued new heights", zap.Uint64("from", next), zap.Uint64("to", last), zap.Uint64("tip", latest))

	if last == latest {
		if err = f.openGate(ctx); err != nil {
			return len(heights), err
		}
	}
	return len(heights), nil
}

func (f *Follower) openGate(ctx context.Context) error {
	ready, err := f.queue.Ready(ctx)
	if err != nil || ready {
		return err
	}
	if err = f.queue.SetReady(ctx); err != nil {
		return err
	}
	f.logger.Info("caught up with chain tip, scanning enabled")
	return nil
}

func (f *Follower) wait(ctx context.Context, d time.Duration) error {
	if f.blockSignal == nil {
		return f.sleep(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f.blockSignal:
		return nil
	case <-timer.C:
		return nil
	}
}
