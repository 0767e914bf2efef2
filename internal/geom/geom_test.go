package geom

import (
	"math"
	"testing"
)

func almostEqual(a, b Vec2) bool {
	const eps = 1e-12
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestVec2Ops(t *testing.T) {
	v := V(3, 4)

	if got := v.Add(V(1, -2)); got != (Vec2{4, 2}) {
		t.Errorf("Add = %v", got)
	}
	if got := v.Sub(V(1, 1)); got != (Vec2{2, 3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := v.Scale(2); got != (Vec2{6, 8}) {
		t.Errorf("Scale = %v", got)
	}
	if got := v.Dot(V(2, 1)); got != 10 {
		t.Errorf("Dot = %v", got)
	}
	if got := v.Cross(V(1, 0)); got != -4 {
		t.Errorf("Cross = %v", got)
	}
	if got := v.Len(); got != 5 {
		t.Errorf("Len = %v", got)
	}
	if got := v.Normalize(); !almostEqual(got, V(0.6, 0.8)) {
		t.Errorf("Normalize = %v", got)
	}
	if got := Zero().Normalize(); got != Zero() {
		t.Errorf("Normalize of zero = %v, want zero", got)
	}
}

func TestRotationApply(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
		in    Vec2
		want  Vec2
	}{
		{"identity", 0, V(1, 2), V(1, 2)},
		{"quarter turn", math.Pi / 2, V(1, 0), V(0, 1)},
		{"half turn", math.Pi, V(1, 2), V(-1, -2)},
		{"full turn", 2 * math.Pi, V(3, -4), V(3, -4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewRotation(tt.angle).Apply(tt.in); !almostEqual(got, tt.want) {
				t.Errorf("Apply = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRotationAngleRoundTrip(t *testing.T) {
	for _, angle := range []float64{0, 0.5, -1.2, math.Pi / 3} {
		r := NewRotation(angle)
		if math.Abs(r.Angle()-angle) > 1e-12 {
			t.Errorf("Angle() = %v, want %v", r.Angle(), angle)
		}
	}
}

func TestTransformApply(t *testing.T) {
	// Rotate a quarter turn then translate by (10, 0): (1,0) -> (0,1) -> (10,1).
	tr := NewTransform(V(10, 0), NewRotation(math.Pi/2))
	if got := tr.Apply(V(1, 0)); !almostEqual(got, V(10, 1)) {
		t.Errorf("Apply = %v, want (10,1)", got)
	}

	if got := IdentityTransform().Apply(V(7, -3)); got != V(7, -3) {
		t.Errorf("identity transform moved the point: %v", got)
	}
}

func TestTransformTranslatedRotated(t *testing.T) {
	tr := IdentityTransform().Translated(V(5, 5))
	if tr.Position() != V(5, 5) {
		t.Errorf("Translated position = %v", tr.Position())
	}

	tr = tr.Rotated(math.Pi / 2)
	if math.Abs(tr.Rotation().Angle()-math.Pi/2) > 1e-12 {
		t.Errorf("Rotated angle = %v", tr.Rotation().Angle())
	}
	// Rotation must not disturb the position.
	if tr.Position() != V(5, 5) {
		t.Errorf("Rotated moved the position: %v", tr.Position())
	}
}
