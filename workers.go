package j18n

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// inlineBatch is the batch size under which work runs on the calling
// goroutine.
const inlineBatch = 32

// Workers is the default worker bound for batch operations: the processor
// count minus a small reserve, at least one.
func Workers() int {
	n := runtime.NumCPU() - 2
	if n < 1 {
		return 1
	}
	return n
}

// forEach runs fn for 0..n-1 on at most limit goroutines and waits for all
// of them. ctx is checked between units of work; on cancellation the units
// already done are kept.
func forEach(ctx context.Context, n, limit int, fn func(i int) error) error {
	if n == 0 {
		return ctx.Err()
	}
	if limit < 1 {
		limit = 1
	}
	if n < inlineBatch || limit == 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return ctx.Err()
}
