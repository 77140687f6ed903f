package concurrency

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ParallelOptions tunes batched fetches.
type ParallelOptions struct {
	// MaxWorkers caps simultaneous fetches (0 = no limit).
	MaxWorkers int
}

// DefaultOptions returns the stock options.
func DefaultOptions() ParallelOptions {
	return ParallelOptions{
		MaxWorkers: 10,
	}
}

// Fetch is one independent read. It must honour ctx.
type Fetch func(ctx context.Context) error

// Into adapts a typed read so its result lands in dst. dst is written only
// when fn succeeds.
func Into[T any](dst *T, fn func(ctx context.Context) (T, error)) Fetch {
	return func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// FetchAll runs fetches concurrently with DefaultOptions.
func FetchAll(ctx context.Context, fetches ...Fetch) error {
	return FetchAllWith(ctx, DefaultOptions(), fetches...)
}

// FetchAllWith runs fetches concurrently. All must succeed: the first error
// cancels the context handed to the others and is the one returned.
func FetchAllWith(ctx context.Context, opts ParallelOptions, fetches ...Fetch) error {
	if len(fetches) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if opts.MaxWorkers > 0 {
		g.SetLimit(opts.MaxWorkers)
	}
	for _, f := range fetches {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return f(gctx)
		})
	}
	return g.Wait()
}
