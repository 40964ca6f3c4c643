package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultPoolConfig(t *testing.T) {
	cfg := DefaultPoolConfig()
	if cfg.MaxWorkers < 2 {
		t.Errorf("Expected at least 2 workers, got %d", cfg.MaxWorkers)
	}
	if cfg.MaxWorkers > 8 {
		t.Errorf("Expected at most 8 workers, got %d", cfg.MaxWorkers)
	}
	if cfg.TaskBufferSize != cfg.MaxWorkers*2 {
		t.Errorf("Expected buffer size %d, got %d", cfg.MaxWorkers*2, cfg.TaskBufferSize)
	}
}

func TestForEach(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	var sum atomic.Int64

	processed, err := ForEach(
		context.Background(),
		items,
		DefaultPoolConfig(),
		func(ctx context.Context, item int) error {
			sum.Add(int64(item))
			return nil
		},
	)

	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if processed != 5 {
		t.Errorf("Expected 5 processed, got %d", processed)
	}
	if sum.Load() != 15 {
		t.Errorf("Expected sum 15, got %d", sum.Load())
	}
}

func TestForEachEmpty(t *testing.T) {
	processed, err := ForEach(context.Background(), []int{}, DefaultPoolConfig(), func(ctx context.Context, item int) error {
		t.Fatal("fn should not be called for an empty item slice")
		return nil
	})
	if err != nil || processed != 0 {
		t.Errorf("Expected (0, nil), got (%d, %v)", processed, err)
	}
}

func TestForEachRecordsFirstError(t *testing.T) {
	items := []int{1, 2, 3}
	wantErr := errors.New("boom")

	processed, err := ForEach(context.Background(), items, DefaultPoolConfig(), func(ctx context.Context, item int) error {
		if item == 2 {
			return wantErr
		}
		return nil
	})

	if err != wantErr {
		t.Errorf("Expected %v, got %v", wantErr, err)
	}
	if processed != 2 {
		t.Errorf("Expected 2 successful items, got %d", processed)
	}
}

func TestForEachRespectsTimeout(t *testing.T) {
	config := DefaultPoolConfig()
	config.Timeout = 20 * time.Millisecond
	config.MaxWorkers = 1

	items := make([]int, 5)
	start := time.Now()
	ForEach(context.Background(), items, config, func(ctx context.Context, item int) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
			return nil
		}
	})

	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Expected timeout to bound total runtime, took %v", elapsed)
	}
}
