// Package clock holds the waiting helpers shared by the pipeline loops.
package clock

import (
	"context"
	"time"
)

// Sleeper waits for a duration or until ctx is done. Loops take one so tests
// can replace real waiting.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepWithContext waits for d or returns ctx.Err() once ctx is done. A
// non-positive d only checks ctx.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Repeat runs pass, then waits interval with sleep, until the wait fails.
// Failures of a pass are the caller's to log; they never stop the loop.
func Repeat(ctx context.Context, interval time.Duration, sleep Sleeper, pass func(context.Context)) error {
	for {
		pass(ctx)
		if err := sleep(ctx, interval); err != nil {
			return err
		}
	}
}
