// Package service provides the retrieval logic between the MCP surface
// and the remote Stardust store.
package service

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Result holds the outcome of one operation run by RunAll. Exactly one of
// Value and Err is meaningful.
type Result[T any] struct {
	Value T
	Err   error
}

// RunAll executes fn(ctx, i) for every i in [0, n) with at most limit
// calls in flight, and returns one Result per input in input order.
// A failing call fills its own slot and never affects siblings. Context
// cancellation surfaces as a per-item error for calls not yet started.
func RunAll[T any](ctx context.Context, limit int, n int, fn func(ctx context.Context, i int) (T, error)) []Result[T] {
	if limit < 1 {
		limit = 1
	}

	results := make([]Result[T], n)
	sem := semaphore.NewWeighted(int64(limit))

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i].Err = err

			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)
			results[i].Value, results[i].Err = fn(ctx, i)
		}(i)
	}
	wg.Wait()

	return results
}

// RunAllFailFast executes fn(ctx, i) for every i in [0, n) with at most
// limit calls in flight. The first error cancels the group context and is
// returned; on success the results are positionally aligned with the
// inputs.
func RunAllFailFast[T any](ctx context.Context, limit int, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	if limit < 1 {
		limit = 1
	}

	results := make([]T, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := 0; i < n; i++ {
		g.Go(func() error {
			v, err := fn(gctx, i)
			if err != nil {
				return err
			}
			results[i] = v

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
