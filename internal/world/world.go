// Package world runs the simulation arena around the collision core: it
// owns the tracked bodies, advances their placements on a fixed tick, and
// runs the broadphase/narrowphase pipeline every tick to produce the current
// contact set.
package world

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"collider/internal/collision"
	"collider/internal/geom"
)

// Limits bounds the resources one world may consume. They are enforced at
// AddBody so a misbehaving client cannot grow the simulation unboundedly.
type Limits struct {
	MaxBodies   int
	MaxVertices int
}

// DefaultLimits returns production-safe resource limits.
func DefaultLimits() Limits {
	return Limits{
		MaxBodies:   256,
		MaxVertices: 64,
	}
}

// Config configures a World.
type Config struct {
	TickRate int     // ticks per second
	Width    float64 // arena width; bodies bounce off the bounds
	Height   float64 // arena height
	Limits   Limits
	Workers  int // narrowphase parallelism, 0 = NumCPU
}

// Body is one tracked rigid body: a convex shape plus its current placement
// and motion. Bodies are owned by the world and mutated only under its lock.
type Body struct {
	Name            string
	Shape           *collision.Convex
	Transform       geom.Transform
	Velocity        geom.Vec2
	AngularVelocity float64

	box *collision.AABB // world-space bounding box, refreshed each tick
}

// BodyOptions carries the optional initial state for AddBody.
type BodyOptions struct {
	Position        geom.Vec2
	Angle           float64
	Velocity        geom.Vec2
	AngularVelocity float64
}

// World is the simulation arena. All body state is guarded by mu; the
// broadphase and its pair set are rebuilt inside the tick under the same
// lock, which serializes every mutation behind a single writer. Narrowphase
// calls are pure and fan out across a worker pool per tick.
type World struct {
	mu     sync.RWMutex
	cfg    Config
	bodies map[string]*Body
	order  []*Body // insertion order; aligned with broadphase handles each tick

	resolver *collision.Resolver

	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}

	tickCount int64
	snapshot  atomic.Pointer[Snapshot]

	// onContact is invoked outside the world lock for every colliding pair
	// found in a tick.
	onContact func(a, b string)
}

// New creates a stopped world. No goroutines run until Start.
func New(cfg Config) *World {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 30
	}
	if cfg.Limits.MaxBodies <= 0 {
		cfg.Limits = DefaultLimits()
	}

	w := &World{
		cfg:      cfg,
		bodies:   make(map[string]*Body),
		order:    make([]*Body, 0, cfg.Limits.MaxBodies),
		resolver: collision.NewResolver(cfg.Workers),
		stopChan: make(chan struct{}),
	}
	w.snapshot.Store(&Snapshot{})
	return w
}

// OnContact registers a callback fired for each colliding pair every tick.
// Must be set before Start.
func (w *World) OnContact(fn func(a, b string)) {
	w.onContact = fn
}

// Start begins the tick loop.
func (w *World) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.ticker = time.NewTicker(time.Second / time.Duration(w.cfg.TickRate))
	w.mu.Unlock()

	go func() {
		for {
			select {
			case <-w.ticker.C:
				w.Tick()
			case <-w.stopChan:
				return
			}
		}
	}()

	log.Printf("🌍 World started at %d TPS (%gx%g arena)", w.cfg.TickRate, w.cfg.Width, w.cfg.Height)
}

// Stop halts the tick loop. Safe to call twice.
func (w *World) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	w.ticker.Stop()
	close(w.stopChan)
	log.Println("🛑 World stopped")
}

// AddBody builds the convex hull of vertices and tracks it under name.
// Hull construction errors (too few points, degenerate input) are returned
// wrapped; the caller decides whether to retry with valid input or skip.
func (w *World) AddBody(name string, vertices []geom.Vec2, opts BodyOptions) (*Body, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if existing, ok := w.bodies[name]; ok {
		return existing, nil
	}
	if len(w.order) >= w.cfg.Limits.MaxBodies {
		return nil, errors.Errorf("world: body limit reached (%d)", w.cfg.Limits.MaxBodies)
	}
	if len(vertices) > w.cfg.Limits.MaxVertices {
		return nil, errors.Errorf("world: too many vertices (%d > %d)", len(vertices), w.cfg.Limits.MaxVertices)
	}

	shape, err := collision.NewConvex(vertices)
	if err != nil {
		return nil, errors.Wrapf(err, "world: body %q", name)
	}

	body := &Body{
		Name:            name,
		Shape:           shape,
		Transform:       geom.NewTransform(opts.Position, geom.NewRotation(opts.Angle)),
		Velocity:        opts.Velocity,
		AngularVelocity: opts.AngularVelocity,
	}
	body.box = shape.AABB(body.Transform)

	w.bodies[name] = body
	w.order = append(w.order, body)
	log.Printf("➕ Body added: %s (%d hull vertices)", name, len(shape.Vertices()))
	return body, nil
}

// RemoveBody stops tracking name. Returns false if it was not tracked.
func (w *World) RemoveBody(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	body, ok := w.bodies[name]
	if !ok {
		return false
	}
	delete(w.bodies, name)
	for i, b := range w.order {
		if b == body {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	log.Printf("➖ Body removed: %s", name)
	return true
}

// Body returns the tracked body or nil.
func (w *World) Body(name string) *Body {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.bodies[name]
}

// BodyCount returns the number of tracked bodies.
func (w *World) BodyCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.order)
}

// Tick advances the simulation one step: integrate placements, rebuild
// bounding boxes, sweep for candidate pairs, resolve them exactly, then
// publish a snapshot. Exported so tests and benchmarks can step the world
// without the ticker.
func (w *World) Tick() {
	start := time.Now()

	w.mu.Lock()
	dt := 1.0 / float64(w.cfg.TickRate)
	w.tickCount++

	shapes := make([]collision.Placed, len(w.order))
	batch := make([]collision.Projecter, len(w.order))
	for i, b := range w.order {
		w.integrate(b, dt)
		b.box = b.Shape.AABB(b.Transform)
		shapes[i] = collision.Placed{Shape: b.Shape, Transform: b.Transform}
		batch[i] = b.box
	}

	// Fresh sweep per tick: every body moved, so this is a full re-sort,
	// and handles come out equal to body indices in insertion order.
	sap := collision.NewSweepAndPrune()
	sap.BatchInsert(batch)
	candidates := sap.Pairs()

	contacts := w.resolver.Resolve(shapes, candidates)

	snap := w.buildSnapshot(candidates, contacts, time.Since(start))
	w.snapshot.Store(snap)
	w.mu.Unlock()

	// Callbacks run outside the lock so handlers may query the world.
	if w.onContact != nil {
		for _, c := range snap.Contacts {
			w.onContact(c.A, c.B)
		}
	}
}

// integrate advances one body and bounces it off the arena bounds. Bounce
// flips the velocity component and is checked against the body's current
// box so rotated shapes stay inside.
func (w *World) integrate(b *Body, dt float64) {
	b.Transform = b.Transform.Translated(b.Velocity.Scale(dt))
	if b.AngularVelocity != 0 {
		b.Transform = b.Transform.Rotated(b.AngularVelocity * dt)
	}

	if w.cfg.Width <= 0 || w.cfg.Height <= 0 {
		return
	}
	min, max := b.box.Min(), b.box.Max()
	if min.X < 0 && b.Velocity.X < 0 {
		b.Velocity.X = -b.Velocity.X
	}
	if max.X > w.cfg.Width && b.Velocity.X > 0 {
		b.Velocity.X = -b.Velocity.X
	}
	if min.Y < 0 && b.Velocity.Y < 0 {
		b.Velocity.Y = -b.Velocity.Y
	}
	if max.Y > w.cfg.Height && b.Velocity.Y > 0 {
		b.Velocity.Y = -b.Velocity.Y
	}
}

// CheckPair runs a one-off exact test between two tracked bodies at their
// current placements.
func (w *World) CheckPair(nameA, nameB string) (bool, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	a, ok := w.bodies[nameA]
	if !ok {
		return false, errors.Errorf("world: unknown body %q", nameA)
	}
	b, ok := w.bodies[nameB]
	if !ok {
		return false, errors.Errorf("world: unknown body %q", nameB)
	}
	return collision.Collides(a.Shape, a.Transform, b.Shape, b.Transform), nil
}
