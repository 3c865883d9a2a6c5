package workflow

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Join starts fn once for every index in [0, n) without waiting between
// starts and without a concurrency limit, then waits for all of them.
//
// The first error cancels the context passed to the remaining tasks and is
// returned once every task has exited. No partial result is implied: callers
// discard whatever the tasks produced when Join fails.
func Join(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeTotal, n)
	}
	g, gctx := errgroup.WithContext(ctx)
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}
