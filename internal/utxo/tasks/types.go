package tasks

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/hibiken/asynq"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Client enqueues tasks.
	Client interface {
		EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	}

	// Inspector reads and removes tasks kept by the broker.
	Inspector interface {
		GetTaskInfo(queue, id string) (*asynq.TaskInfo, error)
		DeleteTask(queue, id string) error
	}

	// Journal records wallet history events.
	Journal interface {
		Record(ctx context.Context, events ...model.JournalEvent) error
	}

	// UnitProcessor handles one scanned transaction.
	UnitProcessor interface {
		Process(ctx context.Context, unit model.ScanUnit) error
	}

	// Dispatcher notifies the subscribers of an entry.
	Dispatcher interface {
		Dispatch(ctx context.Context, entry model.LedgerEntry) error
	}

	// Invalidator drops caches touched by mutations.
	Invalidator interface {
		Invalidate(ctx context.Context, mutations ...model.LedgerMutation) error
	}

	// BalanceWarmer refills the balance cache of a wallet.
	BalanceWarmer interface {
		NativeBalance(ctx context.Context, walletID int64) (uint64, error)
	}

	// Retention purges old spent entries.
	Retention interface {
		PurgeSpentBefore(ctx context.Context, cutoff time.Time) (int64, error)
	}

	// Metrics records task handling and enqueueing.
	Metrics interface {
		ObserveTask(taskType string, err error, started time.Time)
		ObserveEnqueue(taskType string, err error)
	}
)
