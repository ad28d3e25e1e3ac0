package localize

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// minParallelBatch is the smallest batch worth splitting; below this the
// goroutine overhead outweighs the loop.
const minParallelBatch = 65_536

// ConvertFromUTCParallel localizes a large batch across worker
// goroutines. The Localizer is read-only during iteration and each
// worker writes a disjoint slice of dst, so no synchronization beyond
// the errgroup join is needed. Falls back to the sequential path for
// small batches or workers <= 1.
func (l *Localizer) ConvertFromUTCParallel(ctx context.Context, dst, src []int64, workers int) error {
	n := len(src)
	if workers <= 1 || n < minParallelBatch {
		l.ConvertFromUTC(dst, src)
		return nil
	}
	if workers > n {
		workers = n
	}

	g, ctx := errgroup.WithContext(ctx)
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		lo, hi := lo, hi
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			l.ConvertFromUTC(dst[lo:hi], src[lo:hi])
			return nil
		})
	}
	return g.Wait()
}
