package app

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Both runs fa and fb concurrently. The first error cancels the other call
// and both results come back zero.
func Both[A, B any](
	ctx context.Context,
	fa func(context.Context) (A, error),
	fb func(context.Context) (B, error),
) (A, B, error) {
	var (
		a A
		b B
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		a, err = fa(gctx)
		return err
	})
	g.Go(func() (err error) {
		b, err = fb(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		var (
			zeroA A
			zeroB B
		)

		return zeroA, zeroB, fmt.Errorf("concurrent read failed: %w", err)
	}

	return a, b, nil
}

// Outcome is one item's result from MapPartial.
type Outcome[T any] struct {
	Value T
	Err   error
}

// MapPartial calls fn for every item concurrently and returns the outcomes
// in item order. A failing item never cancels the others. A positive limit
// bounds the calls in flight; items still waiting for a slot when ctx ends
// are skipped and report ctx.Err().
func MapPartial[In, Out any](
	ctx context.Context,
	limit int,
	items []In,
	fn func(context.Context, In) (Out, error),
) []Outcome[Out] {
	outcomes := make([]Outcome[Out], len(items))

	var sem *semaphore.Weighted
	if limit > 0 {
		sem = semaphore.NewWeighted(int64(limit))
	}

	var wg sync.WaitGroup

	for i, item := range items {
		wg.Go(func() {
			if sem != nil {
				if err := sem.Acquire(ctx, 1); err != nil {
					outcomes[i].Err = err
					return
				}
				defer sem.Release(1)
			}

			v, err := fn(ctx, item)
			outcomes[i] = Outcome[Out]{Value: v, Err: err}
		})
	}

	wg.Wait()

	return outcomes
}
