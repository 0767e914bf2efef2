package geom

import "math"

// Rotation is a 2D rotation with cached sine and cosine so applying it
// repeatedly (once per vertex) costs no trig calls.
type Rotation struct {
	sin, cos float64
}

// NewRotation creates a rotation of angle radians.
func NewRotation(angle float64) Rotation {
	return Rotation{sin: math.Sin(angle), cos: math.Cos(angle)}
}

// IdentityRotation returns the zero rotation.
func IdentityRotation() Rotation {
	return Rotation{sin: 0, cos: 1}
}

// Angle returns the rotation angle in radians in (-π, π].
func (r Rotation) Angle() float64 {
	return math.Atan2(r.sin, r.cos)
}

// Sin returns the cached sine of the rotation angle.
func (r Rotation) Sin() float64 { return r.sin }

// Cos returns the cached cosine of the rotation angle.
func (r Rotation) Cos() float64 { return r.cos }

// Apply rotates direction vector v. Direction vectors only rotate, they
// never translate, so this is also how edge normals are transformed.
func (r Rotation) Apply(v Vec2) Vec2 {
	return Vec2{
		X: r.cos*v.X - r.sin*v.Y,
		Y: r.sin*v.X + r.cos*v.Y,
	}
}

// Transform is a rigid 2D placement: a rotation followed by a translation.
type Transform struct {
	position Vec2
	rotation Rotation
}

// NewTransform creates a transform from a position and rotation.
func NewTransform(position Vec2, rotation Rotation) Transform {
	return Transform{position: position, rotation: rotation}
}

// IdentityTransform returns the transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{rotation: IdentityRotation()}
}

// Position returns the translation component.
func (t Transform) Position() Vec2 { return t.position }

// Rotation returns the rotation component.
func (t Transform) Rotation() Rotation { return t.rotation }

// Apply maps a local-space point to world space: rotate, then translate.
func (t Transform) Apply(v Vec2) Vec2 {
	return t.rotation.Apply(v).Add(t.position)
}

// Translated returns a copy of t with delta added to its position.
func (t Transform) Translated(delta Vec2) Transform {
	return Transform{position: t.position.Add(delta), rotation: t.rotation}
}

// Rotated returns a copy of t with angle radians added to its rotation.
func (t Transform) Rotated(angle float64) Transform {
	return Transform{
		position: t.position,
		rotation: NewRotation(t.rotation.Angle() + angle),
	}
}
