// Package batcher buffers items and hands them to a sink in rate-limited batches.
package batcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// ErrStopped is returned by Add once Stop has been called.
var ErrStopped = errors.New("batcher stopped")

// FlushFunc receives one batch. The slice is owned by the callee.
type FlushFunc[T any] func(ctx context.Context, items []T) error

// Config controls when batches are cut and how failed flushes are retried.
type Config struct {
	Size     int
	Interval time.Duration
	// RPS caps flushes per second; zero means unlimited.
	RPS     int
	Retries uint64
	// Backoff builds the retry schedule of one flush. Defaults to exponential.
	Backoff func() backoff.BackOff
}

// Batcher collects items from many goroutines and flushes them from one.
type Batcher[T any] struct {
	cfg     Config
	flush   FlushFunc[T]
	limiter ratelimit.Limiter
	logger  *zap.Logger

	items    chan T
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	dropped  atomic.Uint64
}

// New builds a Batcher. Sizes below one are raised to one.
func New[T any](cfg Config, flush FlushFunc[T], logger *zap.Logger) *Batcher[T] {
	if cfg.Size < 1 {
		cfg.Size = 1
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.Backoff == nil {
		cfg.Backoff = func() backoff.BackOff { return backoff.NewExponentialBackOff() }
	}
	limiter := ratelimit.NewUnlimited()
	if cfg.RPS > 0 {
		limiter = ratelimit.New(cfg.RPS)
	}
	return &Batcher[T]{
		cfg:     cfg,
		flush:   flush,
		limiter: limiter,
		logger:  logger,
		items:   make(chan T, cfg.Size*2),
		done:    make(chan struct{}),
	}
}

// Start runs the flush loop until Stop is called or ctx ends.
func (b *Batcher[T]) Start(ctx context.Context) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.loop(ctx)
	}()
}

// Stop flushes whatever is buffered and waits for the loop to exit.
func (b *Batcher[T]) Stop() {
	b.stopOnce.Do(func() { close(b.done) })
	b.wg.Wait()
}

// Add buffers items, blocking while the buffer is full.
func (b *Batcher[T]) Add(ctx context.Context, items ...T) error {
	for _, item := range items {
		select {
		case <-b.done:
			return ErrStopped
		case <-ctx.Done():
			return ctx.Err()
		case b.items <- item:
		}
	}
	return nil
}

// Dropped reports how many items were discarded after exhausting retries.
func (b *Batcher[T]) Dropped() uint64 {
	return b.dropped.Load()
}

func (b *Batcher[T]) loop(ctx context.Context) {
	ticker := time.NewTicker(b.cfg.Interval)
	defer ticker.Stop()

	var pending []T
	for {
		select {
		case item := <-b.items:
			pending = b.push(ctx, pending, item)
		case <-ticker.C:
			pending = b.cut(ctx, pending)
		case <-ctx.Done():
			b.drain(ctx, pending)
			return
		case <-b.done:
			b.drain(ctx, pending)
			return
		}
	}
}

func (b *Batcher[T]) push(ctx context.Context, pending []T, item T) []T {
	pending = append(pending, item)
	if len(pending) >= b.cfg.Size {
		return b.cut(ctx, pending)
	}
	return pending
}

func (b *Batcher[T]) drain(ctx context.Context, pending []T) {
	for {
		select {
		case item := <-b.items:
			pending = b.push(ctx, pending, item)
		default:
			b.cut(ctx, pending)
			return
		}
	}
}

// cut flushes pending and returns a fresh buffer.
func (b *Batcher[T]) cut(ctx context.Context, pending []T) []T {
	if len(pending) == 0 {
		return pending
	}
	b.limiter.Take()

	attempts := 0
	op := func() error {
		attempts++
		return b.flush(ctx, pending)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b.cfg.Backoff(), b.cfg.Retries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		b.dropped.Add(uint64(len(pending)))
		b.logger.Error("batch dropped", zap.Int("size", len(pending)), zap.Int("attempts", attempts), zap.Error(err))
	} else {
		b.logger.Debug("batch flushed", zap.Int("size", len(pending)), zap.Int("attempts", attempts))
	}
	return nil
}
