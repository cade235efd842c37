// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

/*
Package parallel provides a bounded-concurrency, order-preserving map
combinator over slices.

It exists because the ePaper pipeline derives page numbers from array
position: result[i] must correspond to input[i] no matter which worker
finishes first. Appending results on completion would scramble that mapping,
so workers write into a pre-sized output slot addressed by the claimed index.

Usage:

	urls, err := parallel.MapIndexed(ctx, 4, pages, func(ctx context.Context, i int, page []byte) (string, error) {
	    return store.Put(ctx, keys.Page(i+1), page, "image/png")
	})
*/
package parallel

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// MapIndexed applies fn to every element of input using at most workers
// concurrent goroutines, returning a result slice index-aligned with input.
//
// # Ordering Guarantee
//
// Workers drain a shared monotonically increasing cursor; each claims the next
// index and writes its result directly into results[index]. Completion order
// never influences result order.
//
// # Failure Semantics
//
// The first error cancels the shared context; workers stop claiming new
// indices and the error (wrapped with its input index) is returned. Results
// produced before the failure are discarded — the operation is all-or-nothing.
func MapIndexed[T any, R any](ctx context.Context, workers int, input []T, fn func(ctx context.Context, index int, item T) (R, error)) ([]R, error) {
	if len(input) == 0 {
		return []R{}, nil
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(input) {
		workers = len(input)
	}

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]R, len(input))

	// cursor hands out indices; firstErr keeps only the earliest failure.
	var cursor atomic.Int64
	var firstErr error
	var errOnce sync.Once

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()

			for {
				index := int(cursor.Add(1)) - 1
				if index >= len(input) {
					return
				}

				if workCtx.Err() != nil {
					return
				}

				result, err := fn(workCtx, index, input[index])
				if err != nil {
					errOnce.Do(func() {
						firstErr = fmt.Errorf("parallel: item %d: %w", index, err)
						cancel()
					})
					return
				}

				// Index-addressed write is what preserves input order.
				results[index] = result
			}
		}()
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// ForEach runs fn over input with bounded concurrency, discarding results.
//
// Unlike [MapIndexed], errors do not abort the run: every element is
// attempted and the first error encountered is returned at the end. This is
// the shape best-effort storage cleanup wants — one failed delete should not
// stop the remaining deletes.
func ForEach[T any](ctx context.Context, workers int, input []T, fn func(ctx context.Context, index int, item T) error) error {
	if len(input) == 0 {
		return nil
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(input) {
		workers = len(input)
	}

	var cursor atomic.Int64
	var firstErr error
	var errOnce sync.Once

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()

			for {
				index := int(cursor.Add(1)) - 1
				if index >= len(input) {
					return
				}

				if err := fn(ctx, index, input[index]); err != nil {
					errOnce.Do(func() {
						firstErr = fmt.Errorf("parallel: item %d: %w", index, err)
					})
				}
			}
		}()
	}

	wg.Wait()

	return firstErr
}
