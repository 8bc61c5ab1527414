// Package workerpool runs bounded concurrent work over a slice.
package workerpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Process calls process for every item with at most workers calls in flight.
// The first error cancels the context passed to the remaining calls, stops
// scheduling new items and is returned.
func Process[T any](ctx context.Context, workers int, items []T, process func(context.Context, T) error) error {
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return process(gctx, item)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
