// Package tasks carries the durable work units of the pipeline over asynq.
package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task types.
const (
	TypeScanUnit        = "scan:tx"
	TypeNotifyEntry     = "notify:entry"
	TypeCacheInvalidate = "cache:invalidate"
	TypeLedgerRetention = "ledger:retention"
)

// Queues.
const (
	QueueScan   = "scan"
	QueueNotify = "notify"
	QueueCache  = "cache"
	QueueLow    = "low"
)

const (
	scanUnitMaxRetry   = 10
	notifyMaxRetry     = 5
	invalidateMaxRetry = 3
	taskTimeout        = 2 * time.Minute
)

// ScanUnitPayload is the body of a scan:tx task.
type ScanUnitPayload struct {
	CorrelationID string         `json:"correlation_id"`
	Unit          model.ScanUnit `json:"unit"`
}

// NotifyPayload is the body of a notify:entry task.
type NotifyPayload struct {
	CorrelationID string            `json:"correlation_id"`
	Entry         model.LedgerEntry `json:"entry"`
}

// InvalidatePayload is the body of a cache:invalidate task.
type InvalidatePayload struct {
	CorrelationID string               `json:"correlation_id"`
	Mutation      model.LedgerMutation `json:"mutation"`
}

// RetentionPayload is the body of a ledger:retention task.
type RetentionPayload struct {
	Keep time.Duration `json:"keep"`
}

func newCorrelationID() string {
	return uuid.NewString()
}

// NewScanUnitTask builds a scan:tx task. The task id makes repeated enqueues
// of the same block transaction collapse while one is pending.
func NewScanUnitTask(unit model.ScanUnit) (*asynq.Task, error) {
	body, err := json.Marshal(ScanUnitPayload{CorrelationID: newCorrelationID(), Unit: unit})
	if err != nil {
		return nil, fmt.Errorf("marshal scan unit: %w", err)
	}
	return asynq.NewTask(TypeScanUnit, body,
		asynq.TaskID(ScanUnitTaskID(unit)),
		asynq.Queue(QueueScan),
		asynq.MaxRetry(scanUnitMaxRetry),
		asynq.Timeout(taskTimeout),
	), nil
}

// ScanUnitTaskID is the broker task id of unit.
func ScanUnitTaskID(unit model.ScanUnit) string {
	return fmt.Sprintf("%s:%d:%s", TypeScanUnit, unit.Height, unit.Tx.TxID)
}

// NewNotifyTask builds a notify:entry task.
func NewNotifyTask(entry model.LedgerEntry) (*asynq.Task, error) {
	body, err := json.Marshal(NotifyPayload{CorrelationID: newCorrelationID(), Entry: entry})
	if err != nil {
		return nil, fmt.Errorf("marshal notify payload: %w", err)
	}
	return asynq.NewTask(TypeNotifyEntry, body,
		asynq.Queue(QueueNotify),
		asynq.MaxRetry(notifyMaxRetry),
		asynq.Timeout(taskTimeout),
	), nil
}

// NewInvalidateTask builds a cache:invalidate task.
func NewInvalidateTask(m model.LedgerMutation) (*asynq.Task, error) {
	body, err := json.Marshal(InvalidatePayload{CorrelationID: newCorrelationID(), Mutation: m})
	if err != nil {
		return nil, fmt.Errorf("marshal invalidate payload: %w", err)
	}
	return asynq.NewTask(TypeCacheInvalidate, body,
		asynq.Queue(QueueCache),
		asynq.MaxRetry(invalidateMaxRetry),
		asynq.Timeout(taskTimeout),
	), nil
}

// NewRetentionTask builds a ledger:retention task keeping spent entries for keep.
func NewRetentionTask(keep time.Duration) (*asynq.Task, error) {
	body, err := json.Marshal(RetentionPayload{Keep: keep})
	if err != nil {
		return nil, fmt.Errorf("marshal retention payload: %w", err)
	}
	return asynq.NewTask(TypeLedgerRetention, body,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(1),
		asynq.Unique(time.Hour),
	), nil
}
