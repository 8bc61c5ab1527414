package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/service/ledger"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer turns scan units and ledger mutations into tasks.
type Enqueuer struct {
	client    Client
	inspector Inspector
	journal   Journal
	metrics   Metrics
	logger    *zap.Logger
}

// NewEnqueuer builds an Enqueuer. journal may be nil when history is not
// recorded. inspector may be nil, in which case a scan unit whose task id is
// still held by an archived task is not queued again.
func NewEnqueuer(client Client, inspector Inspector, journal Journal, metrics Metrics, logger *zap.Logger) *Enqueuer {
	return &Enqueuer{
		client:    client,
		inspector: inspector,
		journal:   journal,
		metrics:   metrics,
		logger:    logger.Named("enqueuer"),
	}
}

// EnqueueScanUnits queues one scan:tx task per unit.
func (e *Enqueuer) EnqueueScanUnits(ctx context.Context, units []model.ScanUnit) error {
	for _, unit := range units {
		task, err := NewScanUnitTask(unit)
		if err != nil {
			return err
		}
		if err = e.enqueueUnit(ctx, task, ScanUnitTaskID(unit)); err != nil {
			return fmt.Errorf("enqueue unit %d:%s: %w", unit.Height, unit.Tx.TxID, err)
		}
	}
	return nil
}

// Publish implements the ledger mutation sink: caches are always invalidated,
// created and updated entries are notified, and history is journaled.
func (e *Enqueuer) Publish(ctx context.Context, m model.LedgerMutation) error {
	var errs []error

	task, err := NewInvalidateTask(m)
	if err == nil {
		err = e.enqueue(ctx, task)
	}
	if err != nil {
		errs = append(errs, fmt.Errorf("enqueue invalidate: %w", err))
	}

	if m.Kind == model.MutationCreated || m.Kind == model.MutationUpdated {
		task, err = NewNotifyTask(m.Entry)
		if err == nil {
			err = e.enqueue(ctx, task)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("enqueue notify: %w", err))
		}
	}

	if e.journal != nil && m.Kind != model.MutationDeleted {
		if err = e.journal.Record(ctx, ledger.JournalEvents(m)...); err != nil {
			errs = append(errs, fmt.Errorf("journal: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (e *Enqueuer) enqueue(ctx context.Context, task *asynq.Task) error {
	_, err := e.client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
		e.logger.Debug("task already queued", zap.String("type", task.Type()))
		err = nil
	}
	e.metrics.ObserveEnqueue(task.Type(), err)
	return err
}

// enqueueUnit queues a scan unit. A conflicting id that belongs to a finished
// or archived task is released so the unit runs again.
func (e *Enqueuer) enqueueUnit(ctx context.Context, task *asynq.Task, id string) error {
	_, err := e.client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) && e.inspector != nil {
		err = e.requeueFinished(ctx, task, id)
	}
	if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
		e.logger.Debug("task already queued", zap.String("type", task.Type()), zap.String("id", id))
		err = nil
	}
	e.metrics.ObserveEnqueue(task.Type(), err)
	return err
}

func (e *Enqueuer) requeueFinished(ctx context.Context, task *asynq.Task, id string) error {
	info, err := e.inspector.GetTaskInfo(QueueScan, id)
	switch {
	case errors.Is(err, asynq.ErrTaskNotFound):
	case err != nil:
		return fmt.Errorf("inspect task %s: %w", id, err)
	case info.State != asynq.TaskStateArchived && info.State != asynq.TaskStateCompleted:
		return asynq.ErrTaskIDConflict
	default:
		if err = e.inspector.DeleteTask(QueueScan, id); err != nil && !errors.Is(err, asynq.ErrTaskNotFound) {
			return fmt.Errorf("delete finished task %s: %w", id, err)
		}
		e.logger.Info("requeueing finished scan unit", zap.String("id", id), zap.String("state", info.State.String()))
	}
	_, err = e.client.EnqueueContext(ctx, task)
	return err
}
