// Package scanner drives paginated block scans through a shared pending queue
// with a single leased active block.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-watch/pkg/safe"
	"github.com/goodnatureofminers/blockinsight7000-watch/pkg/workerpool"
	"go.uber.org/zap"
)

var (
	// ErrTransientUpstream wraps chain source failures that outlived the retry budget.
	ErrTransientUpstream = errors.New("transient upstream error")
	// ErrLeaseLost means another process took over the active slot.
	ErrLeaseLost = errors.New("active block lease lost")
	// ErrScanTimeout means the units of a block did not complete in time.
	ErrScanTimeout = errors.New("block scan timed out")
)

const (
	outcomeProcessed = "processed"
	outcomeSkipped   = "skipped"
	outcomeRequeued  = "requeued"
)

// Config tunes the coordinator.
type Config struct {
	PageSize     int
	PageWorkers  int
	Lease        time.Duration
	PollInterval time.Duration
	IdleInterval time.Duration
	ScanTimeout  time.Duration
	MaxAttempts  uint64
}

// Coordinator scans one block at a time: it fans the block's transactions
// out as units and waits until every unit reported completion.
type Coordinator struct {
	source   Source
	queue    Queue
	blocks   BlockRepository
	enqueuer UnitEnqueuer
	metrics  CoordinatorMetrics
	logger   *zap.Logger
	cfg      Config
	sleep    clock.Sleeper
	now      func() time.Time
	backOff  func() backoff.BackOff
}

// NewCoordinator builds a Coordinator. Zero config values take defaults.
func NewCoordinator(
	source Source,
	queue Queue,
	blocks BlockRepository,
	enqueuer UnitEnqueuer,
	metrics CoordinatorMetrics,
	logger *zap.Logger,
	cfg Config,
) (*Coordinator, error) {
	if metrics == nil {
		return nil, errors.New("scan coordinator metrics is required")
	}
	return &Coordinator{
		source:   source,
		queue:    queue,
		blocks:   blocks,
		enqueuer: enqueuer,
		metrics:  metrics,
		logger:   logger.Named("scan_coordinator"),
		cfg:      cfg.withDefaults(),
		sleep:    clock.SleepWithContext,
		now:      time.Now,
		backOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}, nil
}

// Run scans queued blocks until ctx is canceled.
func (c *Coordinator) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		scanned, err := c.ScanNext(ctx)
		if err != nil {
			c.logger.Warn("scan iteration failed", zap.Error(err))
		}
		if scanned && err == nil {
			continue
		}
		if err = c.sleep(ctx, c.cfg.IdleInterval); err != nil {
			return err
		}
	}
}

// RequestRescan reopens height and queues it again.
func (c *Coordinator) RequestRescan(ctx context.Context, height uint64, fullScan bool) error {
	if err := c.blocks.MarkForRescan(ctx, height, fullScan); err != nil {
		return fmt.Errorf("mark for rescan: %w", err)
	}
	if err := c.queue.Push(ctx, height); err != nil {
		return fmt.Errorf("queue rescan: %w", err)
	}
	c.logger.Info("block queued for rescan", zap.Uint64("height", height), zap.Bool("full_scan", fullScan))
	return nil
}

// ScanNext takes the lowest pending block and scans it. It reports whether a
// block was taken.
func (c *Coordinator) ScanNext(ctx context.Context) (bool, error) {
	ready, err := c.queue.Ready(ctx)
	if err != nil {
		return false, fmt.Errorf("ready gate: %w", err)
	}
	if !ready {
		return false, nil
	}

	height, ok, err := c.queue.PopLowest(ctx)
	if err != nil || !ok {
		return false, err
	}

	token, acquired, err := c.queue.AcquireActive(ctx, height, c.cfg.Lease)
	if err != nil || !acquired {
		if pushErr := c.queue.Push(ctx, height); pushErr != nil {
			return false, errors.Join(err, fmt.Errorf("put back block %d: %w", height, pushErr))
		}
		return false, err
	}

	started := time.Now()
	logger := c.logger.With(zap.Uint64("height", height))
	txCount, err := c.scan(ctx, logger, height, token)
	switch {
	case err == nil:
		c.metrics.ObserveBlock(outcomeProcessed, txCount, started)
	case errors.Is(err, errBlockDone):
		c.metrics.ObserveBlock(outcomeSkipped, 0, started)
		err = nil
	case errors.Is(err, ErrLeaseLost):
		// the lease sweep requeues the block
		c.metrics.ObserveBlock(outcomeRequeued, txCount, started)
		return true, err
	default:
		c.metrics.ObserveBlock(outcomeRequeued, txCount, started)
		c.metrics.ObserveRequeue(requeueReason(err))
		if pushErr := c.queue.Push(context.WithoutCancel(ctx), height); pushErr != nil {
			err = errors.Join(err, fmt.Errorf("requeue block %d: %w", height, pushErr))
		}
	}

	if relErr := c.queue.ReleaseActive(context.WithoutCancel(ctx), height, token); relErr != nil {
		err = errors.Join(err, relErr)
	}
	return true, err
}

var errBlockDone = errors.New("block already processed")

func (c *Coordinator) scan(ctx context.Context, logger *zap.Logger, height uint64, token string) (int, error) {
	if err := c.blocks.EnsureBlocks(ctx, []uint64{height}); err != nil {
		return 0, fmt.Errorf("ensure block: %w", err)
	}
	existing, _, err := c.blocks.Block(ctx, height)
	if err != nil {
		return 0, fmt.Errorf("load block: %w", err)
	}
	if existing.Processed && !existing.RequiresFullScan {
		return 0, errBlockDone
	}

	var txCount int
	if err = c.retry(ctx, logger, "block tx count", func() error {
		var countErr error
		txCount, countErr = c.source.BlockTxCount(ctx, height)
		return countErr
	}); err != nil {
		return 0, err
	}
	expected, err := safe.Uint32(txCount)
	if err != nil {
		return 0, fmt.Errorf("block tx count: %w", err)
	}

	if err = c.queue.ResetUnits(ctx, height); err != nil {
		return txCount, err
	}
	block, err := c.blocks.ResetBlockScan(ctx, height, expected)
	if err != nil {
		return txCount, fmt.Errorf("reset block scan: %w", err)
	}
	logger.Info("scanning block", zap.Int("txs", txCount), zap.Bool("full_scan", block.RequiresFullScan))

	pages := make([]int, chain.PageCount(txCount, c.cfg.PageSize))
	for i := range pages {
		pages[i] = i
	}
	err = workerpool.Process(ctx, c.cfg.PageWorkers, pages, func(ctx context.Context, page int) error {
		return c.enqueuePage(ctx, logger, block, page)
	})
	if err != nil {
		return txCount, err
	}

	return txCount, c.await(ctx, logger, height, token, expected)
}

func (c *Coordinator) enqueuePage(ctx context.Context, logger *zap.Logger, block model.Block, page int) error {
	var txs []model.RawTransaction
	if err := c.retry(ctx, logger, "block transactions", func() error {
		var fetchErr error
		txs, fetchErr = c.source.BlockTransactions(ctx, block.Number, page, c.cfg.PageSize)
		return fetchErr
	}); err != nil {
		return err
	}

	units := make([]model.ScanUnit, 0, len(txs))
	for _, tx := range txs {
		units = append(units, model.ScanUnit{Height: block.Number, FullScan: block.RequiresFullScan, Tx: tx})
	}
	if err := c.enqueuer.EnqueueScanUnits(ctx, units); err != nil {
		return fmt.Errorf("enqueue page %d: %w", page, err)
	}
	return nil
}

// await polls the completed unit count, keeping the lease alive, until it
// reaches expected.
func (c *Coordinator) await(ctx context.Context, logger *zap.Logger, height uint64, token string, expected uint32) error {
	deadline := c.now().Add(c.cfg.ScanTimeout)
	for {
		n, err := c.queue.CompletedUnits(ctx, height)
		if err != nil {
			return err
		}
		completed, err := safe.Uint32(n)
		if err != nil {
			return fmt.Errorf("completed units: %w", err)
		}
		if completed > expected {
			completed = expected
		}
		if err = c.blocks.UpdateBlockProgress(ctx, height, completed); err != nil {
			return fmt.Errorf("update progress: %w", err)
		}

		if completed == expected {
			marked, err := c.blocks.MarkBlockProcessed(ctx, height, expected)
			if err != nil {
				return fmt.Errorf("mark processed: %w", err)
			}
			logger.Info("block processed", zap.Uint32("txs", expected), zap.Bool("marked", marked))
			return nil
		}

		if c.now().After(deadline) {
			return fmt.Errorf("%w: %d/%d units", ErrScanTimeout, completed, expected)
		}
		held, err := c.queue.RefreshActive(ctx, height, token, c.cfg.Lease)
		if err != nil {
			return err
		}
		if !held {
			return ErrLeaseLost
		}
		if err = c.sleep(ctx, c.cfg.PollInterval); err != nil {
			return err
		}
	}
}

func (c *Coordinator) retry(ctx context.Context, logger *zap.Logger, op string, fn func() error) error {
	b := backoff.WithContext(backoff.WithMaxRetries(c.backOff(), c.cfg.MaxAttempts-1), ctx)
	err := backoff.RetryNotify(fn, b, func(err error, wait time.Duration) {
		logger.Warn("upstream call failed, retrying", zap.String("op", op), zap.Duration("wait", wait), zap.Error(err))
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s: %w", ErrTransientUpstream, op, err)
	}
	return nil
}

func requeueReason(err error) string {
	switch {
	case errors.Is(err, ErrTransientUpstream):
		return "upstream"
	case errors.Is(err, ErrScanTimeout):
		return "timeout"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
