package tasks

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger adapts zap to the asynq logger interface.
type Logger struct {
	sugar *zap.SugaredLogger
}

// NewLogger wraps logger for asynq.
func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{sugar: logger.Named("asynq").WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (l *Logger) Debug(args ...interface{}) { l.sugar.Debug(fmt.Sprint(args...)) }
func (l *Logger) Info(args ...interface{})  { l.sugar.Info(fmt.Sprint(args...)) }
func (l *Logger) Warn(args ...interface{})  { l.sugar.Warn(fmt.Sprint(args...)) }
func (l *Logger) Error(args ...interface{}) { l.sugar.Error(fmt.Sprint(args...)) }
func (l *Logger) Fatal(args ...interface{}) { l.sugar.Fatal(fmt.Sprint(args...)) }
