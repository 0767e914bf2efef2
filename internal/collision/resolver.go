package collision

import (
	"runtime"
	"sync"

	"collider/internal/geom"
)

// Placed is a convex shape together with its current placement. The shape is
// read-only during resolution, which is what makes the fan-out safe.
type Placed struct {
	Shape     *Convex
	Transform geom.Transform
}

// Resolver runs the exact SAT test over a set of candidate pairs. Hull and
// SAT calls are pure functions of their inputs, so the natural unit of
// parallelism is one candidate pair: the resolver fans pairs out across a
// bounded number of goroutines and fans the verdicts back in. The sweep
// itself stays single-threaded.
type Resolver struct {
	numWorkers int
	tolerance  float64
}

// minParallelPairs is the pair count below which goroutine overhead exceeds
// the SAT work and resolution runs sequentially.
const minParallelPairs = 16

// NewResolver creates a resolver with the given parallelism. If numWorkers
// is 0 it defaults to NumCPU, capped at a reasonable maximum.
func NewResolver(numWorkers int) *Resolver {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > 16 {
		numWorkers = 16
	}
	return &Resolver{numWorkers: numWorkers, tolerance: DefaultTolerance}
}

// SetTolerance overrides the SAT separation tolerance used by Resolve.
func (r *Resolver) SetTolerance(tol float64) {
	r.tolerance = tol
}

// Resolve returns the subset of candidate pairs whose shapes actually
// overlap. Pair handles index into shapes. The returned slice preserves the
// order of pairs, so output is deterministic regardless of parallelism.
func (r *Resolver) Resolve(shapes []Placed, pairs []Pair) []Pair {
	if len(pairs) == 0 {
		return nil
	}

	verdicts := make([]bool, len(pairs))
	if len(pairs) < minParallelPairs || r.numWorkers == 1 {
		r.resolveRange(shapes, pairs, verdicts, 0, len(pairs))
	} else {
		r.resolveParallel(shapes, pairs, verdicts)
	}

	out := make([]Pair, 0, len(pairs))
	for i, hit := range verdicts {
		if hit {
			out = append(out, pairs[i])
		}
	}
	return out
}

// resolveParallel splits the pair list into one contiguous chunk per worker.
// Workers write disjoint ranges of verdicts, so no locking is needed.
func (r *Resolver) resolveParallel(shapes []Placed, pairs []Pair, verdicts []bool) {
	workers := r.numWorkers
	if workers > len(pairs) {
		workers = len(pairs)
	}
	chunk := (len(pairs) + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < len(pairs); start += chunk {
		end := start + chunk
		if end > len(pairs) {
			end = len(pairs)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			r.resolveRange(shapes, pairs, verdicts, start, end)
		}(start, end)
	}
	wg.Wait()
}

func (r *Resolver) resolveRange(shapes []Placed, pairs []Pair, verdicts []bool, start, end int) {
	for i := start; i < end; i++ {
		a := shapes[pairs[i].A]
		b := shapes[pairs[i].B]
		verdicts[i] = CollidesTol(a.Shape, a.Transform, b.Shape, b.Transform, r.tolerance)
	}
}
