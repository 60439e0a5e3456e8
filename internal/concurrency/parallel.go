package concurrency

import (
	"context"
	"sync"
)

// ParallelOptions bounds fan-out for Map.
type ParallelOptions struct {
	MaxWorkers int
}

func DefaultOptions() ParallelOptions {
	return ParallelOptions{MaxWorkers: 10}
}

type indexed[R any] struct {
	index  int
	result R
	err    error
}

// Map runs fn over items with at most MaxWorkers goroutines and returns
// results in input order. A cancelled context stops dispatch; items already
// in flight still finish. Per-item failures come back in errs without
// aborting the rest of the batch.
func Map[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	fn func(ctx context.Context, index int, item T) (R, error),
) (results []R, errs []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = DefaultOptions().MaxWorkers
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan int)
	out := make(chan indexed[R], len(items))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r, err := fn(ctx, i, items[i])
				out <- indexed[R]{index: i, result: r, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range items {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	results = make([]R, len(items))
	for res := range out {
		if res.err != nil {
			errs = append(errs, res.err)
		}
		results[res.index] = res.result
	}
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return results, errs
}
