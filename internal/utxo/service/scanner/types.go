package scanner

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/service/ledger"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Source is the part of the chain source the scanner reads.
	Source interface {
		LatestHeight(ctx context.Context) (uint64, error)
		BlockTxCount(ctx context.Context, height uint64) (int, error)
		BlockTransactions(ctx context.Context, height uint64, page, pageSize int) ([]model.RawTransaction, error)
	}

	// Queue is the shared pending block queue and its leased active slot.
	Queue interface {
		Push(ctx context.Context, heights ...uint64) error
		PopLowest(ctx context.Context) (uint64, bool, error)
		AcquireActive(ctx context.Context, height uint64, lease time.Duration) (string, bool, error)
		RefreshActive(ctx context.Context, height uint64, token string, lease time.Duration) (bool, error)
		ReleaseActive(ctx context.Context, height uint64, token string) error
		ExpiredLeases(ctx context.Context, now time.Time) ([]uint64, error)
		ExpireLease(ctx context.Context, height uint64, now time.Time) (bool, error)
		Ready(ctx context.Context) (bool, error)
		SetReady(ctx context.Context) error
		Cursor(ctx context.Context) (uint64, bool, error)
		SetCursor(ctx context.Context, height uint64) error
		MarkUnitComplete(ctx context.Context, height uint64, txid string) (bool, error)
		CompletedUnits(ctx context.Context, height uint64) (int64, error)
		ResetUnits(ctx context.Context, height uint64) error
	}

	// BlockRepository persists block scan progress.
	BlockRepository interface {
		EnsureBlocks(ctx context.Context, heights []uint64) error
		MarkForRescan(ctx context.Context, height uint64, fullScan bool) error
		ResetBlockScan(ctx context.Context, height uint64, expected uint32) (model.Block, error)
		Block(ctx context.Context, height uint64) (model.Block, bool, error)
		UpdateBlockProgress(ctx context.Context, height uint64, completed uint32) error
		MarkBlockProcessed(ctx context.Context, height uint64, completed uint32) (bool, error)
	}

	// UnitEnqueuer hands scan units to the worker pool.
	UnitEnqueuer interface {
		EnqueueScanUnits(ctx context.Context, units []model.ScanUnit) error
	}

	// Ledger applies a scanned transaction.
	Ledger interface {
		ApplyTransaction(ctx context.Context, tx model.RawTransaction, opts ledger.ApplyOptions) (ledger.ApplyResult, error)
	}

	// CoordinatorMetrics records block scan outcomes.
	CoordinatorMetrics interface {
		ObserveBlock(outcome string, txCount int, started time.Time)
		ObserveRequeue(reason string)
	}

	// FollowerMetrics records follower sync passes.
	FollowerMetrics interface {
		ObserveSync(err error, enqueued int, started time.Time)
	}
)
