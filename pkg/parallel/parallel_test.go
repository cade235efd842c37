// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package parallel_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrikahq/patrika/pkg/parallel"
)

/*
TestMapIndexed_OrderPreserved verifies that results stay index-aligned with
inputs even when completion order is deliberately shuffled by random sleeps.
*/
func TestMapIndexed_OrderPreserved(t *testing.T) {
	input := make([]int, 50)
	for i := range input {
		input[i] = i
	}

	results, err := parallel.MapIndexed(context.Background(), 4, input, func(ctx context.Context, index int, item int) (string, error) {
		// Randomized completion order: later items often finish first.
		time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
		return fmt.Sprintf("page-%d", item+1), nil
	})

	require.NoError(t, err)
	require.Len(t, results, len(input))

	// result[i] must correspond to input[i] regardless of completion order.
	for i, result := range results {
		assert.Equal(t, fmt.Sprintf("page-%d", i+1), result)
	}
}

/*
TestMapIndexed_BoundedConcurrency verifies the pool never exceeds its size.
*/
func TestMapIndexed_BoundedConcurrency(t *testing.T) {
	const workers = 4

	var active atomic.Int64
	var peak atomic.Int64

	input := make([]int, 32)
	_, err := parallel.MapIndexed(context.Background(), workers, input, func(ctx context.Context, index int, item int) (struct{}, error) {
		current := active.Add(1)
		defer active.Add(-1)

		// Record the high-water mark of concurrent executions.
		for {
			observed := peak.Load()
			if current <= observed || peak.CompareAndSwap(observed, current) {
				break
			}
		}

		time.Sleep(2 * time.Millisecond)
		return struct{}{}, nil
	})

	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int64(workers))
	assert.Greater(t, peak.Load(), int64(0))
}

/*
TestMapIndexed_FirstErrorAborts verifies all-or-nothing failure semantics.
*/
func TestMapIndexed_FirstErrorAborts(t *testing.T) {
	boom := errors.New("upload failed")

	input := make([]int, 100)
	var calls atomic.Int64

	results, err := parallel.MapIndexed(context.Background(), 4, input, func(ctx context.Context, index int, item int) (int, error) {
		calls.Add(1)
		if index == 10 {
			return 0, boom
		}
		time.Sleep(time.Millisecond)
		return index, nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, results)

	// Cancellation must prevent the full input from being processed.
	assert.Less(t, calls.Load(), int64(len(input)))
}

/*
TestMapIndexed_EmptyInput verifies the zero-work edge case.
*/
func TestMapIndexed_EmptyInput(t *testing.T) {
	results, err := parallel.MapIndexed(context.Background(), 4, []int{}, func(ctx context.Context, index int, item int) (int, error) {
		return item, nil
	})

	require.NoError(t, err)
	assert.Empty(t, results)
}

/*
TestForEach_ContinuesPastFailures verifies best-effort semantics: every
element is attempted and only the first error is reported.
*/
func TestForEach_ContinuesPastFailures(t *testing.T) {
	var attempts atomic.Int64

	input := make([]int, 20)
	err := parallel.ForEach(context.Background(), 4, input, func(ctx context.Context, index int, item int) error {
		attempts.Add(1)
		if index%5 == 0 {
			return fmt.Errorf("delete %d failed", index)
		}
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, int64(len(input)), attempts.Load())
}
