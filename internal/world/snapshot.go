package world

import (
	"time"

	"collider/internal/collision"
	"collider/internal/geom"
)

// Contact is a colliding pair of bodies, identified by name with A < B.
type Contact struct {
	A string `json:"a"`
	B string `json:"b"`
}

// BodySnapshot is the render- and API-facing view of one body at a tick.
type BodySnapshot struct {
	Name      string      `json:"name"`
	Vertices  []geom.Vec2 `json:"vertices"` // world-space hull
	Min       geom.Vec2   `json:"min"`      // bounding box corners
	Max       geom.Vec2   `json:"max"`
	Colliding bool        `json:"colliding"`
}

// Snapshot is an immutable view of the world after a tick. It is published
// through an atomic pointer: readers never block the tick loop and never see
// a half-written state.
type Snapshot struct {
	Tick         int64          `json:"tick"`
	Bodies       []BodySnapshot `json:"bodies"`
	Candidates   []Contact      `json:"candidates"` // broadphase pairs, pre-narrowphase
	Contacts     []Contact      `json:"contacts"`   // confirmed by SAT
	TickDuration time.Duration  `json:"tickDurationNs"`
}

// Snapshot returns the most recently published snapshot. Never nil.
func (w *World) Snapshot() *Snapshot {
	return w.snapshot.Load()
}

// buildSnapshot materializes the current state. Caller holds the write lock;
// handles index w.order because the sweep was rebuilt from it this tick.
func (w *World) buildSnapshot(candidates, contacts []collision.Pair, d time.Duration) *Snapshot {
	snap := &Snapshot{
		Tick:         w.tickCount,
		Bodies:       make([]BodySnapshot, len(w.order)),
		Candidates:   make([]Contact, 0, len(candidates)),
		Contacts:     make([]Contact, 0, len(contacts)),
		TickDuration: d,
	}

	colliding := make(map[collision.Handle]bool, 2*len(contacts))
	for _, p := range contacts {
		colliding[p.A] = true
		colliding[p.B] = true
	}

	for i, b := range w.order {
		vs := b.Shape.Vertices()
		out := make([]geom.Vec2, len(vs))
		for j, v := range vs {
			out[j] = b.Transform.Apply(v)
		}
		snap.Bodies[i] = BodySnapshot{
			Name:      b.Name,
			Vertices:  out,
			Min:       b.box.Min(),
			Max:       b.box.Max(),
			Colliding: colliding[collision.Handle(i)],
		}
	}

	for _, p := range candidates {
		snap.Candidates = append(snap.Candidates, w.pairNames(p))
	}
	for _, p := range contacts {
		snap.Contacts = append(snap.Contacts, w.pairNames(p))
	}
	return snap
}

func (w *World) pairNames(p collision.Pair) Contact {
	a, b := w.order[p.A].Name, w.order[p.B].Name
	if a > b {
		a, b = b, a
	}
	return Contact{A: a, B: b}
}
