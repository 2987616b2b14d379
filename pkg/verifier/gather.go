package verifier

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one entity's capability call, kept alongside the
// entity it belongs to
type Result[K comparable, V any] struct {
	Key   K
	Value V
	Err   error
}

// Gather runs fn for every key concurrently and waits for all of them. Every
// call is dispatched before any result is read; failures (including panics)
// stay in that key's Result and never cancel siblings. Results are returned in
// key order.
func Gather[K comparable, V any](ctx context.Context, keys []K, limit int, fn func(context.Context, K) (V, error)) []Result[K, V] {
	results := make([]Result[K, V], len(keys))

	g := &errgroup.Group{}
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, k := range keys {
		i, k := i, k
		results[i].Key = k

		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					results[i].Err = errors.Errorf("panic: %v", r)
				}
			}()

			results[i].Value, results[i].Err = fn(ctx, k)
			return nil
		})
	}

	g.Wait()

	return results
}

// Index maps results by key
func Index[K comparable, V any](results []Result[K, V]) map[K]Result[K, V] {
	m := make(map[K]Result[K, V], len(results))
	for _, r := range results {
		m[r.Key] = r
	}

	return m
}
