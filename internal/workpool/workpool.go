// Package workpool provides the data-parallel work-partitioning
// primitive the rest of the module is built on: disjoint,
// non-overlapping index ranges handed to worker goroutines with no
// shared mutable state across them. poly, sumcheck/parallel, and the
// PCS batch layer's eq_xy expansion all chunk through Range.
package workpool

import (
	"runtime"
	"sync"
)

// Range splits [0, n) into disjoint, contiguous chunks and runs fn(lo, hi)
// for each chunk on its own goroutine, blocking until all complete. fn
// must only touch indices in [lo, hi).
func Range(n int, fn func(lo, hi int)) {
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
