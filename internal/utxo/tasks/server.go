package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ServerConfig tunes the worker server.
type ServerConfig struct {
	Concurrency     int
	ShutdownTimeout time.Duration
}

// NewServer builds an asynq server consuming every pipeline queue.
func NewServer(redis asynq.RedisConnOpt, cfg ServerConfig, logger *zap.Logger) *asynq.Server {
	return asynq.NewServer(redis, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			QueueScan:   6,
			QueueNotify: 4,
			QueueCache:  3,
			QueueLow:    1,
		},
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          NewLogger(logger),
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, t *asynq.Task, err error) {
			logger.Warn("task failed", zap.String("type", t.Type()), zap.Error(err))
		}),
	})
}

// NewScheduler registers the periodic retention task.
func NewScheduler(redis asynq.RedisConnOpt, retentionSpec string, keep time.Duration, logger *zap.Logger) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(redis, &asynq.SchedulerOpts{Logger: NewLogger(logger)})
	task, err := NewRetentionTask(keep)
	if err != nil {
		return nil, err
	}
	if _, err = scheduler.Register(retentionSpec, task); err != nil {
		return nil, fmt.Errorf("register retention schedule: %w", err)
	}
	return scheduler, nil
}
