package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BoundedMap applies fn to every item on at most workers goroutines and
// returns the outputs in input order. The first error cancels the items
// still queued and is returned alone.
func BoundedMap[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	out := make([]R, len(items))

	for i, item := range items {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			r, err := fn(gctx, item)
			if err != nil {
				return err
			}

			out[i] = r

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The parent was cancelled before any item failed.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
