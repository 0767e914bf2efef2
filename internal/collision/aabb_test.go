package collision

import (
	"math"
	"math/rand"
	"testing"

	"collider/internal/geom"
)

// TestNewAABBTooFewPoints verifies the 3-point threshold shared with hull
// construction.
func TestNewAABBTooFewPoints(t *testing.T) {
	tests := []struct {
		name   string
		points []geom.Vec2
	}{
		{"empty", nil},
		{"one point", vset(1, 2)},
		{"two points", vset(1, 2, 3, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewAABB(tt.points); err != ErrTooFewPoints {
				t.Errorf("expected ErrTooFewPoints, got %v", err)
			}
		})
	}
}

// TestAABBContainment verifies every input point lies within
// [min.x,max.x] x [min.y,max.y] inclusive, on randomized point sets.
func TestAABBContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for trial := 0; trial < 50; trial++ {
		points := make([]geom.Vec2, 3+rng.Intn(20))
		for i := range points {
			points[i] = geom.V(rng.Float64()*200-100, rng.Float64()*200-100)
		}

		box, err := NewAABB(points)
		if err != nil {
			t.Fatalf("NewAABB: %v", err)
		}

		min, max := box.Min(), box.Max()
		if min.X > max.X || min.Y > max.Y {
			t.Fatalf("inverted box: min %v max %v", min, max)
		}
		for _, p := range points {
			if p.X < min.X || p.X > max.X || p.Y < min.Y || p.Y > max.Y {
				t.Fatalf("point %v outside box [%v, %v]", p, min, max)
			}
		}
	}
}

// TestAABBTranslate verifies translation shifts both corners without
// changing the box extents, and that the cached projections follow.
func TestAABBTranslate(t *testing.T) {
	box, err := NewAABB(vset(0, 0, 4, 0, 4, 2, 0, 2))
	if err != nil {
		t.Fatalf("NewAABB: %v", err)
	}

	box.Translate(geom.V(10, -5))

	if box.Min() != geom.V(10, -5) {
		t.Errorf("min = %v, want (10,-5)", box.Min())
	}
	if box.Max() != geom.V(14, -3) {
		t.Errorf("max = %v, want (14,-3)", box.Max())
	}
	if got := box.Projections().X.Start(); got != 10 {
		t.Errorf("projected x start = %v, want 10", got)
	}
	if got := box.Projections().Y.End(); got != -3 {
		t.Errorf("projected y end = %v, want -3", got)
	}
}

// TestAABBReconstruct rebuilds a box from a fresh point set and checks both
// the happy path and the too-few-points error leaving the box intact.
func TestAABBReconstruct(t *testing.T) {
	box, _ := NewAABB(vset(0, 0, 1, 0, 1, 1))

	if err := box.Reconstruct(vset(5, 5, 9, 5, 9, 8)); err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if box.Min() != geom.V(5, 5) || box.Max() != geom.V(9, 8) {
		t.Errorf("box [%v, %v] after reconstruct, want [(5,5), (9,8)]", box.Min(), box.Max())
	}

	if err := box.Reconstruct(vset(1, 1)); err != ErrTooFewPoints {
		t.Errorf("expected ErrTooFewPoints, got %v", err)
	}
	if box.Min() != geom.V(5, 5) {
		t.Error("failed reconstruct must not modify the box")
	}
}

// TestAABBOverlaps covers separated, overlapping and touching boxes.
// Touching edges count: the intervals are closed.
func TestAABBOverlaps(t *testing.T) {
	mk := func(x0, y0, x1, y1 float64) *AABB {
		box, err := NewAABB(vset(x0, y0, x1, y0, x1, y1, x0, y1))
		if err != nil {
			t.Fatalf("NewAABB: %v", err)
		}
		return box
	}

	tests := []struct {
		name string
		a, b *AABB
		want bool
	}{
		{"identical", mk(0, 0, 1, 1), mk(0, 0, 1, 1), true},
		{"overlapping", mk(0, 0, 2, 2), mk(1, 1, 3, 3), true},
		{"contained", mk(0, 0, 10, 10), mk(4, 4, 6, 6), true},
		{"separated x", mk(0, 0, 1, 1), mk(2, 0, 3, 1), false},
		{"separated y", mk(0, 0, 1, 1), mk(0, 2, 1, 3), false},
		{"diagonal separated", mk(0, 0, 1, 1), mk(2, 2, 3, 3), false},
		{"touching edge", mk(0, 0, 1, 1), mk(1, 0, 2, 1), true},
		{"touching corner", mk(0, 0, 1, 1), mk(1, 1, 2, 2), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps not symmetric: reverse = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestAABBEqual checks value equality, and that any box holding a NaN
// coordinate is unequal to everything including itself.
func TestAABBEqual(t *testing.T) {
	a, _ := NewAABB(vset(0, 0, 2, 0, 2, 2))
	b, _ := NewAABB(vset(0, 0, 2, 0, 2, 2, 1, 1))
	c, _ := NewAABB(vset(0, 0, 3, 0, 3, 3))

	if !a.Equal(b) {
		t.Error("boxes over the same extents should be equal")
	}
	if a.Equal(c) {
		t.Error("boxes with different extents should not be equal")
	}

	nanBox, _ := NewAABB(vset(math.NaN(), 0, 1, 0, 1, 1))
	if nanBox.Equal(nanBox) {
		t.Error("a NaN box must not equal itself")
	}
	if nanBox.Equal(a) || a.Equal(nanBox) {
		t.Error("a NaN box must not equal any box")
	}
}
