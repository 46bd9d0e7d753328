package sim

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minChunk keeps tiny fighter lists on a single goroutine.
const minChunk = 64

// defaultWorkers is the fan-out used when no worker count is configured.
func defaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// chunkBounds splits n items into at most workers contiguous [lo, hi) ranges.
func chunkBounds(n, workers int) [][2]int {
	if n == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	size := (n + workers - 1) / workers
	if size < minChunk {
		size = minChunk
	}
	var out [][2]int
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		out = append(out, [2]int{lo, hi})
	}
	return out
}

// parallelChunks runs fn once per chunk of ids and waits for all of them.
// Every chunk owns a disjoint slice of ids, and fn must only touch the
// entities of its own chunk. Results are gathered in chunk order, so the
// concatenation is ordered like ids regardless of scheduling.
func parallelChunks[T any](ids []EntityID, workers int, fn func(chunk []EntityID) []T) []T {
	bounds := chunkBounds(len(ids), workers)
	if len(bounds) == 1 {
		return fn(ids)
	}
	parts := make([][]T, len(bounds))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, b := range bounds {
		i, chunk := i, ids[b[0]:b[1]]
		g.Go(func() error {
			parts[i] = fn(chunk)
			return nil
		})
	}
	_ = g.Wait() // workers never fail
	var out []T
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
