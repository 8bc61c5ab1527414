package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/clock"
	"go.uber.org/zap"
)

// LeaseSweeper requeues blocks whose scan lease expired before they were processed.
type LeaseSweeper struct {
	queue   Queue
	blocks  BlockRepository
	metrics CoordinatorMetrics
	logger  *zap.Logger
	now     func() time.Time
	sleep   clock.Sleeper
}

// NewLeaseSweeper builds a LeaseSweeper.
func NewLeaseSweeper(queue Queue, blocks BlockRepository, metrics CoordinatorMetrics, logger *zap.Logger) *LeaseSweeper {
	return &LeaseSweeper{
		queue:   queue,
		blocks:  blocks,
		metrics: metrics,
		logger:  logger.Named("lease_sweeper"),
		now:     time.Now,
		sleep:   clock.SleepWithContext,
	}
}

// Sweep requeues every expired, unprocessed block and returns how many were requeued.
func (s *LeaseSweeper) Sweep(ctx context.Context) (int, error) {
	now := s.now()
	expired, err := s.queue.ExpiredLeases(ctx, now)
	if err != nil {
		return 0, err
	}

	requeued := 0
	for _, height := range expired {
		won, err := s.queue.ExpireLease(ctx, height, now)
		if err != nil {
			return requeued, err
		}
		if !won {
			continue
		}

		block, found, err := s.blocks.Block(ctx, height)
		if err != nil {
			return requeued, fmt.Errorf("load block %d: %w", height, err)
		}
		if found && block.Processed {
			continue
		}
		if err = s.queue.Push(ctx, height); err != nil {
			return requeued, err
		}
		s.metrics.ObserveRequeue("lease_expired")
		s.logger.Warn("requeued block with expired lease", zap.Uint64("height", height))
		requeued++
	}
	return requeued, nil
}

// Run sweeps every interval until ctx is canceled.
func (s *LeaseSweeper) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultSweepEvery
	}
	return clock.Repeat(ctx, interval, s.sleep, func(ctx context.Context) {
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.Warn("lease sweep failed", zap.Error(err))
		}
	})
}
