package collision

import (
	"math"
	"sort"
)

// Projecter is the capability an object needs to participate in broadphase
// collision detection: it must expose its encoded axis projections.
type Projecter interface {
	Projections() ProjectedBox
}

// Handle is a stable integer identity the broadphase assigns to each tracked
// object. Handles index an internal arena of projected boxes, so the
// broadphase never holds references into caller-owned geometry.
type Handle uint32

// noOwner marks sentinel endpoints, which bound the sweep sequences but do
// not belong to any tracked object.
const noOwner = ^Handle(0)

// Pair is an unordered pair of tracked objects, stored canonically with
// A < B so equality and map hashing are symmetric for free.
type Pair struct {
	A, B Handle
}

// MakePair returns the canonical Pair for the two handles.
func MakePair(a, b Handle) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// sweepEndpoint is one end of a tracked interval on a sweep axis.
type sweepEndpoint struct {
	owner   Handle
	isStart bool
	val     int64 // encoded coordinate, see EncodeFloat64
}

// SweepAndPrune is an incremental sweep-and-prune broadphase. It keeps one
// sorted endpoint sequence per axis and a set of candidate pairs, updated on
// insertion by tracking endpoint-order changes instead of re-testing all
// pairs: a batch of k objects against n tracked ones costs the sort of 2k
// endpoints plus amortized O(n+k) shifts per axis, not O((n+k)²) pair tests.
//
// Both sequences are permanently bounded by -Inf/+Inf sentinel endpoints.
// The sentinels are never removed and never take part in pair bookkeeping.
//
// A SweepAndPrune must not be mutated concurrently; callers using one from
// multiple goroutines must serialize BatchInsert behind a single writer.
type SweepAndPrune struct {
	xs    []sweepEndpoint
	ys    []sweepEndpoint
	boxes []ProjectedBox // arena, indexed by Handle
	pairs map[Pair]struct{}
}

// NewSweepAndPrune creates an empty broadphase.
func NewSweepAndPrune() *SweepAndPrune {
	return &SweepAndPrune{
		xs:    []sweepEndpoint{minSentinel(), maxSentinel()},
		ys:    []sweepEndpoint{minSentinel(), maxSentinel()},
		pairs: make(map[Pair]struct{}),
	}
}

func minSentinel() sweepEndpoint {
	return sweepEndpoint{owner: noOwner, val: math.MinInt64}
}

func maxSentinel() sweepEndpoint {
	return sweepEndpoint{owner: noOwner, val: math.MaxInt64}
}

// BatchInsert tracks the given objects and updates the candidate pair set.
// Each object's projections are copied into the arena at insertion time;
// later mutation of the caller's geometry does not affect the broadphase.
// Returns the handle assigned to each object, in input order.
//
// An empty batch is a no-op. Box validity is not verified here: malformed
// projections silently yield a stale candidate set, which callers that
// re-verify candidates in the narrowphase will self-correct.
func (s *SweepAndPrune) BatchInsert(objects []Projecter) []Handle {
	if len(objects) == 0 {
		return nil
	}

	handles := make([]Handle, len(objects))
	newXs := make([]sweepEndpoint, 0, 2*len(objects))
	newYs := make([]sweepEndpoint, 0, 2*len(objects))
	for i, obj := range objects {
		h := Handle(len(s.boxes))
		box := obj.Projections()
		s.boxes = append(s.boxes, box)
		handles[i] = h
		newXs = append(newXs,
			sweepEndpoint{owner: h, isStart: true, val: box.X.EncStart()},
			sweepEndpoint{owner: h, isStart: false, val: box.X.EncEnd()},
		)
		newYs = append(newYs,
			sweepEndpoint{owner: h, isStart: true, val: box.Y.EncStart()},
			sweepEndpoint{owner: h, isStart: false, val: box.Y.EncEnd()},
		)
	}

	// Stable sort keeps ties in a consistent order across runs.
	sort.SliceStable(newXs, func(i, j int) bool { return newXs[i].val < newXs[j].val })
	sort.SliceStable(newYs, func(i, j int) bool { return newYs[i].val < newYs[j].val })

	for _, ep := range newXs {
		s.xs = s.insert(s.xs, ep, false)
	}
	for _, ep := range newYs {
		s.ys = s.insert(s.ys, ep, true)
	}

	// Crossing events only surface pairs between an inserted endpoint and
	// endpoints already in the sequence, so pairs internal to this batch
	// can be missed depending on insertion order. Verify those directly;
	// batches are small relative to the tracked population.
	for i := 0; i < len(handles); i++ {
		for j := i + 1; j < len(handles); j++ {
			if s.boxes[handles[i]].Overlaps(s.boxes[handles[j]]) {
				s.pairs[MakePair(handles[i], handles[j])] = struct{}{}
			}
		}
	}

	return handles
}

// insert merges one endpoint into a sorted sequence by walking from the tail
// toward the front, shifting larger elements right until the sorted position
// is found. Equal values are shifted as well, so endpoints of touching boxes
// still cross and closed-interval overlaps are never missed.
//
// On the y axis (bookkeep true) every shift is a crossing event: if the
// inserted endpoint is a start passing another object's end, the two
// intervals now overlap in y-order and the pair is added after a live 2D box
// test confirms it; if an end passes a start, the pair is removed, again
// decided by the live test rather than trusted from crossing order alone.
func (s *SweepAndPrune) insert(seq []sweepEndpoint, ep sweepEndpoint, bookkeep bool) []sweepEndpoint {
	seq = append(seq, sweepEndpoint{})
	i := len(seq) - 2
	for i >= 1 && seq[i].val >= ep.val {
		passed := seq[i]
		seq[i+1] = passed
		i--

		if !bookkeep || passed.owner == noOwner || passed.owner == ep.owner {
			continue
		}
		pair := MakePair(ep.owner, passed.owner)
		overlap := s.boxes[ep.owner].Overlaps(s.boxes[passed.owner])
		switch {
		case ep.isStart && !passed.isStart:
			if overlap {
				s.pairs[pair] = struct{}{}
			}
		case !ep.isStart && passed.isStart:
			if !overlap {
				delete(s.pairs, pair)
			}
		}
	}
	seq[i+1] = ep
	return seq
}

// Tracked returns the number of objects the broadphase tracks.
func (s *SweepAndPrune) Tracked() int {
	return len(s.boxes)
}

// Box returns the projections stored for a handle.
func (s *SweepAndPrune) Box(h Handle) ProjectedBox {
	return s.boxes[h]
}

// Contains reports whether the pair (a, b) is currently a candidate.
func (s *SweepAndPrune) Contains(a, b Handle) bool {
	_, ok := s.pairs[MakePair(a, b)]
	return ok
}

// Pairs returns the current candidate pairs sorted by (A, B) for
// deterministic iteration. The slice is freshly allocated.
func (s *SweepAndPrune) Pairs() []Pair {
	out := make([]Pair, 0, len(s.pairs))
	for p := range s.pairs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// PairCount returns the number of candidate pairs.
func (s *SweepAndPrune) PairCount() int {
	return len(s.pairs)
}
