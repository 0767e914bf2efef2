package world

import (
	"fmt"
	"testing"
	"time"

	"collider/internal/collision"
	"collider/internal/geom"
)

func testConfig() Config {
	return Config{
		TickRate: 30,
		Width:    100,
		Height:   100,
		Limits:   DefaultLimits(),
	}
}

func square(size float64) []geom.Vec2 {
	return []geom.Vec2{
		geom.V(0, 0), geom.V(size, 0), geom.V(size, size), geom.V(0, size),
	}
}

// TestAddBody covers hull construction, the duplicate-name case, and the
// error paths the collision core surfaces through the world.
func TestAddBody(t *testing.T) {
	w := New(testConfig())

	b, err := w.AddBody("crate", square(2), BodyOptions{Position: geom.V(10, 10)})
	if err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	if b.Name != "crate" || len(b.Shape.Vertices()) != 4 {
		t.Errorf("unexpected body: %+v", b)
	}

	// Same name returns the existing body.
	again, err := w.AddBody("crate", square(5), BodyOptions{})
	if err != nil {
		t.Fatalf("AddBody duplicate: %v", err)
	}
	if again != b {
		t.Error("duplicate name should return the existing body")
	}

	// Degenerate input surfaces the core's error.
	_, err = w.AddBody("line", []geom.Vec2{geom.V(0, 0), geom.V(1, 1), geom.V(2, 2)}, BodyOptions{})
	if !collision.IsDegenerate(err) {
		t.Errorf("expected degenerate error, got %v", err)
	}

	// Too few points likewise.
	_, err = w.AddBody("dot", []geom.Vec2{geom.V(0, 0)}, BodyOptions{})
	if !collision.IsTooFewPoints(err) {
		t.Errorf("expected too-few-points error, got %v", err)
	}
}

// TestBodyLimits verifies MaxBodies and MaxVertices are enforced.
func TestBodyLimits(t *testing.T) {
	cfg := testConfig()
	cfg.Limits = Limits{MaxBodies: 2, MaxVertices: 8}
	w := New(cfg)

	for i := 0; i < 2; i++ {
		if _, err := w.AddBody(fmt.Sprintf("b%d", i), square(1), BodyOptions{}); err != nil {
			t.Fatalf("AddBody %d: %v", i, err)
		}
	}
	if _, err := w.AddBody("b2", square(1), BodyOptions{}); err == nil {
		t.Error("expected body limit error")
	}

	big := make([]geom.Vec2, 9)
	for i := range big {
		big[i] = geom.V(float64(i), float64(i*i))
	}
	w2 := New(cfg)
	if _, err := w2.AddBody("big", big, BodyOptions{}); err == nil {
		t.Error("expected vertex limit error")
	}
}

// TestRemoveBody verifies removal and the not-found case.
func TestRemoveBody(t *testing.T) {
	w := New(testConfig())
	w.AddBody("a", square(1), BodyOptions{})

	if !w.RemoveBody("a") {
		t.Error("RemoveBody should report success")
	}
	if w.RemoveBody("a") {
		t.Error("second RemoveBody should report failure")
	}
	if w.BodyCount() != 0 {
		t.Errorf("BodyCount = %d after removal", w.BodyCount())
	}
}

// TestTickContacts seeds two overlapping squares and one far away, steps one
// tick, and expects exactly one contact in the snapshot.
func TestTickContacts(t *testing.T) {
	w := New(testConfig())
	w.AddBody("a", square(2), BodyOptions{Position: geom.V(10, 10)})
	w.AddBody("b", square(2), BodyOptions{Position: geom.V(11, 11)})
	w.AddBody("far", square(2), BodyOptions{Position: geom.V(80, 80)})

	var fired []string
	w.OnContact(func(a, b string) { fired = append(fired, a+"+"+b) })

	w.Tick()

	snap := w.Snapshot()
	if snap.Tick != 1 {
		t.Errorf("snapshot tick = %d, want 1", snap.Tick)
	}
	if len(snap.Contacts) != 1 {
		t.Fatalf("contacts = %v, want exactly a-b", snap.Contacts)
	}
	if got := snap.Contacts[0]; got.A != "a" || got.B != "b" {
		t.Errorf("contact = %+v, want {a b}", got)
	}
	if len(fired) != 1 || fired[0] != "a+b" {
		t.Errorf("callback fired %v, want [a+b]", fired)
	}

	// Candidate set must be a superset of confirmed contacts.
	if len(snap.Candidates) < len(snap.Contacts) {
		t.Error("candidates cannot be fewer than contacts")
	}

	// Per-body colliding flags.
	for _, b := range snap.Bodies {
		wantColliding := b.Name != "far"
		if b.Colliding != wantColliding {
			t.Errorf("body %s colliding = %v, want %v", b.Name, b.Colliding, wantColliding)
		}
	}
}

// TestTickMovesBodies verifies integration: a moving body changes position
// and separates from a static partner over enough ticks.
func TestTickMovesBodies(t *testing.T) {
	w := New(testConfig())
	w.AddBody("static", square(2), BodyOptions{Position: geom.V(10, 10)})
	w.AddBody("mover", square(2), BodyOptions{
		Position: geom.V(11, 10),
		Velocity: geom.V(30, 0), // 1 unit per tick at 30 TPS
	})

	w.Tick()
	if len(w.Snapshot().Contacts) != 1 {
		t.Fatal("bodies should start in contact")
	}

	for i := 0; i < 60; i++ {
		w.Tick()
	}
	if len(w.Snapshot().Contacts) != 0 {
		t.Errorf("mover should have left contact, snapshot: %v", w.Snapshot().Contacts)
	}

	mover := w.Body("mover")
	if mover.Transform.Position().X <= 11 {
		t.Errorf("mover did not move: %v", mover.Transform.Position())
	}
}

// TestBounce verifies a body heading out of the arena has its velocity
// reflected at the bound.
func TestBounce(t *testing.T) {
	cfg := testConfig()
	cfg.Width, cfg.Height = 20, 20
	w := New(cfg)
	w.AddBody("ball", square(2), BodyOptions{
		Position: geom.V(17, 9),
		Velocity: geom.V(60, 0), // 2 units per tick
	})

	for i := 0; i < 10; i++ {
		w.Tick()
	}
	b := w.Body("ball")
	if b.Velocity.X >= 0 {
		t.Errorf("velocity not reflected: %v", b.Velocity)
	}
	if b.Transform.Position().X > 25 {
		t.Errorf("body escaped the arena: %v", b.Transform.Position())
	}
}

// TestStartStop verifies the tick loop runs, produces snapshots, and stops
// cleanly, including a double Stop.
func TestStartStop(t *testing.T) {
	w := New(testConfig())
	w.AddBody("a", square(2), BodyOptions{Position: geom.V(5, 5), Velocity: geom.V(3, 0)})

	w.Start()
	time.Sleep(150 * time.Millisecond)
	w.Stop()
	w.Stop()

	if w.Snapshot().Tick == 0 {
		t.Error("tick loop never ran")
	}
}

// TestCheckPair covers the one-off exact test and its unknown-body errors.
func TestCheckPair(t *testing.T) {
	w := New(testConfig())
	w.AddBody("a", square(2), BodyOptions{Position: geom.V(0, 0)})
	w.AddBody("b", square(2), BodyOptions{Position: geom.V(1, 1)})
	w.AddBody("c", square(2), BodyOptions{Position: geom.V(50, 50)})

	hit, err := w.CheckPair("a", "b")
	if err != nil || !hit {
		t.Errorf("CheckPair(a,b) = %v, %v; want true", hit, err)
	}
	hit, err = w.CheckPair("a", "c")
	if err != nil || hit {
		t.Errorf("CheckPair(a,c) = %v, %v; want false", hit, err)
	}
	if _, err = w.CheckPair("a", "ghost"); err == nil {
		t.Error("expected unknown body error")
	}
}

func BenchmarkWorldTick_50Bodies(b *testing.B)  { benchmarkWorldTick(b, 50) }
func BenchmarkWorldTick_200Bodies(b *testing.B) { benchmarkWorldTick(b, 200) }

func benchmarkWorldTick(b *testing.B, n int) {
	cfg := testConfig()
	cfg.Limits.MaxBodies = n
	w := New(cfg)
	for i := 0; i < n; i++ {
		w.AddBody(fmt.Sprintf("b%d", i), square(2), BodyOptions{
			Position: geom.V(float64(i%10)*10, float64(i/10)*10),
			Velocity: geom.V(float64(i%5), float64(i%3)),
		})
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		w.Tick()
	}
}
