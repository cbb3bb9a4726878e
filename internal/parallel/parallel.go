package parallel

import (
	"runtime"

	"github.com/alitto/pond/v2"
)

// DefaultBatchSize is the number of items handed to one task when the caller
// does not choose.
const DefaultBatchSize = 256

// Kernel processes items [start, end).
type Kernel func(start, end int)

// NewPool returns a pond pool with the given concurrency, or one worker per
// CPU when workers <= 0.
func NewPool(workers int) pond.Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return pond.NewPool(workers)
}

// Batches splits [0, n) into contiguous ranges of at most size items.
func Batches(n, size int) [][2]int {
	if size <= 0 {
		size = DefaultBatchSize
	}
	out := make([][2]int, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// For runs every kernel over [0, n) in batches and returns once all of them
// have finished. Kernels passed together run concurrently with each other,
// so they must write disjoint data. A nil pool runs inline.
func For(pool pond.Pool, n, batch int, kernels ...Kernel) error {
	batches := Batches(n, batch)
	if pool == nil {
		for _, k := range kernels {
			for _, b := range batches {
				k(b[0], b[1])
			}
		}
		return nil
	}

	group := pool.NewGroup()
	for _, k := range kernels {
		for _, b := range batches {
			k, start, end := k, b[0], b[1]
			group.Submit(func() {
				k(start, end)
			})
		}
	}
	return group.Wait()
}
