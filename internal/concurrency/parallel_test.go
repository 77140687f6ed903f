package concurrency

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.MaxWorkers != 10 {
		t.Errorf("Expected MaxWorkers to be 10, got %d", opts.MaxWorkers)
	}
}

func TestFetchAll(t *testing.T) {
	ctx := context.Background()

	var courses []string
	var users int
	err := FetchAll(ctx,
		Into(&courses, func(ctx context.Context) ([]string, error) { return []string{"abc", "xyz"}, nil }),
		Into(&users, func(ctx context.Context) (int, error) { return 3, nil }),
	)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(courses) != 2 || users != 3 {
		t.Errorf("Unexpected results: %v, %d", courses, users)
	}

	if err := FetchAll(ctx); err != nil {
		t.Errorf("Expected nil for no fetches, got %v", err)
	}
}

func TestFetchAllFirstErrorCancelsOthers(t *testing.T) {
	boom := errors.New("users: 500")
	start := time.Now()

	var courses []string
	err := FetchAll(context.Background(),
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Second):
				return nil
			}
		},
		Into(&courses, func(ctx context.Context) ([]string, error) { return nil, errors.New("late") }),
	)

	if err == nil {
		t.Fatal("Expected an error")
	}
	if !errors.Is(err, boom) && err.Error() != "late" {
		t.Errorf("Expected one of the fetch errors, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("Expected the slow fetch to be cancelled")
	}
	if courses != nil {
		t.Error("Expected dst untouched on failure")
	}
}

func TestFetchAllParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := FetchAll(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if called {
		t.Error("Expected fetch not to run on a cancelled context")
	}
}

func TestFetchAllWithRespectsLimit(t *testing.T) {
	var running, peak atomic.Int32
	fetches := make([]Fetch, 20)
	for i := range fetches {
		fetches[i] = func(ctx context.Context) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			return nil
		}
	}

	if err := FetchAllWith(context.Background(), ParallelOptions{MaxWorkers: 3}, fetches...); err != nil {
		t.Fatal(err)
	}
	if peak.Load() > 3 {
		t.Errorf("Expected at most 3 concurrent fetches, saw %d", peak.Load())
	}
}
