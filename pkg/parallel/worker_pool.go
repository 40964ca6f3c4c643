// Package parallel fans a harness generation out across several
// independent multiqueues at once: each multiqueue in a sweep is driven by
// one goroutine, and no multiqueue method is ever called from more than one
// goroutine at a time.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// PoolConfig configures how ForEach fans its work out.
type PoolConfig struct {
	// MaxWorkers is the maximum number of goroutines running items
	// concurrently. Default: runtime.NumCPU() clamped to [2, 8].
	MaxWorkers int

	// TaskBufferSize is the buffer size of the channel items are queued
	// through. Default: MaxWorkers * 2.
	TaskBufferSize int

	// Timeout bounds the whole ForEach call; zero means no timeout.
	Timeout time.Duration
}

// DefaultPoolConfig returns a pool sized to the host's CPU count, capped at
// 8 workers so a small sweep doesn't pay goroutine overhead for no benefit.
func DefaultPoolConfig() PoolConfig {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	if workers < 2 {
		workers = 2
	}
	return PoolConfig{
		MaxWorkers:     workers,
		TaskBufferSize: workers * 2,
	}
}

// ForEach runs fn over every item in items using up to config.MaxWorkers
// goroutines and blocks until every item has been attempted or ctx is done
// (config.Timeout, when set, bounds ctx); items not yet started by then are
// skipped and no error is reported for them. It returns how many calls to fn
// completed without error and the first error any call returned, if any; an
// error from fn does not stop the remaining items from being attempted.
func ForEach[T any](
	ctx context.Context,
	items []T,
	config PoolConfig,
	fn func(ctx context.Context, item T) error,
) (processed int64, firstError error) {
	if len(items) == 0 {
		return 0, nil
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	numWorkers := config.MaxWorkers
	if numWorkers <= 0 {
		numWorkers = DefaultPoolConfig().MaxWorkers
	}
	if numWorkers > len(items) {
		numWorkers = len(items)
	}
	bufferSize := config.TaskBufferSize
	if bufferSize <= 0 {
		bufferSize = numWorkers * 2
	}

	taskCh := make(chan int, bufferSize)
	var processedCount atomic.Int64
	var errOnce sync.Once
	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-taskCh:
					if !ok {
						return
					}
					if err := fn(ctx, items[idx]); err != nil {
						errOnce.Do(func() { firstError = err })
						continue
					}
					processedCount.Add(1)
				}
			}
		}()
	}

	go func() {
		defer close(taskCh)
		for i := range items {
			select {
			case <-ctx.Done():
				return
			case taskCh <- i:
			}
		}
	}()

	wg.Wait()
	return processedCount.Load(), firstError
}
