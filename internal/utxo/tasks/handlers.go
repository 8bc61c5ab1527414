package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Handlers executes tasks against the pipeline components.
type Handlers struct {
	units       UnitProcessor
	dispatcher  Dispatcher
	invalidator Invalidator
	balances    BalanceWarmer
	retention   Retention
	metrics     Metrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewHandlers builds Handlers. balances may be nil to skip refilling caches.
func NewHandlers(
	units UnitProcessor,
	dispatcher Dispatcher,
	invalidator Invalidator,
	balances BalanceWarmer,
	retention Retention,
	metrics Metrics,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		units:       units,
		dispatcher:  dispatcher,
		invalidator: invalidator,
		balances:    balances,
		retention:   retention,
		metrics:     metrics,
		logger:      logger.Named("tasks"),
		now:         time.Now,
	}
}

// Register binds every task type to mux.
func (h *Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeScanUnit, h.observed(TypeScanUnit, h.HandleScanUnit))
	mux.HandleFunc(TypeNotifyEntry, h.observed(TypeNotifyEntry, h.HandleNotify))
	mux.HandleFunc(TypeCacheInvalidate, h.observed(TypeCacheInvalidate, h.HandleInvalidate))
	mux.HandleFunc(TypeLedgerRetention, h.observed(TypeLedgerRetention, h.HandleRetention))
}

// HandleScanUnit applies one block transaction.
func (h *Handlers) HandleScanUnit(ctx context.Context, t *asynq.Task) error {
	var p ScanUnitPayload
	if err := decode(t, &p); err != nil {
		return err
	}
	h.logger.Debug("scan unit",
		zap.String("correlation_id", p.CorrelationID),
		zap.Uint64("height", p.Unit.Height),
		zap.String("txid", p.Unit.Tx.TxID),
	)
	return h.units.Process(ctx, p.Unit)
}

// HandleNotify dispatches one entry.
func (h *Handlers) HandleNotify(ctx context.Context, t *asynq.Task) error {
	var p NotifyPayload
	if err := decode(t, &p); err != nil {
		return err
	}
	h.logger.Debug("notify entry", zap.String("correlation_id", p.CorrelationID), zap.Int64("entry_id", p.Entry.ID))
	return h.dispatcher.Dispatch(ctx, p.Entry)
}

// HandleInvalidate drops caches of one mutation and refills the native
// balances of the wallets it touched.
func (h *Handlers) HandleInvalidate(ctx context.Context, t *asynq.Task) error {
	var p InvalidatePayload
	if err := decode(t, &p); err != nil {
		return err
	}
	logger := h.logger.With(zap.String("correlation_id", p.CorrelationID), zap.String("kind", string(p.Mutation.Kind)))
	logger.Debug("invalidate caches")
	if err := h.invalidator.Invalidate(ctx, p.Mutation); err != nil {
		return err
	}
	if h.balances == nil || p.Mutation.Kind == model.MutationDeleted {
		return nil
	}
	for _, wallet := range p.Mutation.AffectedWallets() {
		if _, err := h.balances.NativeBalance(ctx, wallet); err != nil {
			logger.Warn("refill balance cache failed", zap.Int64("wallet_id", wallet), zap.Error(err))
		}
	}
	return nil
}

// HandleRetention purges spent entries older than the payload keep window.
func (h *Handlers) HandleRetention(ctx context.Context, t *asynq.Task) error {
	var p RetentionPayload
	if err := decode(t, &p); err != nil {
		return err
	}
	deleted, err := h.retention.PurgeSpentBefore(ctx, h.now().Add(-p.Keep))
	if err != nil {
		return err
	}
	h.logger.Info("retention pass finished", zap.Int64("deleted", deleted))
	return nil
}

func (h *Handlers) observed(taskType string, fn asynq.HandlerFunc) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		started := time.Now()
		err := fn(ctx, t)
		h.metrics.ObserveTask(taskType, err, started)
		return err
	}
}

func decode(t *asynq.Task, v any) error {
	if err := json.Unmarshal(t.Payload(), v); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return nil
}
