package collision

import (
	"math"

	"collider/internal/geom"
)

// AABB is an axis-aligned bounding box stored as a center plus half-extents,
// with its encoded axis projections cached so broadphase insertion never
// re-encodes endpoints.
type AABB struct {
	center    geom.Vec2
	halfX     float64
	halfY     float64
	projected ProjectedBox
}

// NewAABB builds the bounding box of the given points. It returns
// ErrTooFewPoints when fewer than 3 points are supplied: a box over fewer
// points would describe a degenerate shape the narrowphase cannot handle.
func NewAABB(points []geom.Vec2) (*AABB, error) {
	if len(points) < 3 {
		return nil, ErrTooFewPoints
	}
	box := &AABB{}
	box.set(points)
	return box, nil
}

func (a *AABB) set(points []geom.Vec2) {
	xmin, xmax := points[0].X, points[0].X
	ymin, ymax := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.X < xmin {
			xmin = p.X
		}
		if p.X > xmax {
			xmax = p.X
		}
		if p.Y < ymin {
			ymin = p.Y
		}
		if p.Y > ymax {
			ymax = p.Y
		}
	}

	a.center = geom.V((xmin+xmax)/2, (ymin+ymax)/2)
	a.halfX = (xmax - xmin) / 2
	a.halfY = (ymax - ymin) / 2
	a.projected = ProjectedBox{
		X: NewProjection(xmin, xmax),
		Y: NewProjection(ymin, ymax),
	}
}

// Center returns the box center.
func (a *AABB) Center() geom.Vec2 { return a.center }

// Min returns the (min x, min y) corner.
func (a *AABB) Min() geom.Vec2 {
	return geom.V(a.center.X-a.halfX, a.center.Y-a.halfY)
}

// Max returns the (max x, max y) corner.
func (a *AABB) Max() geom.Vec2 {
	return geom.V(a.center.X+a.halfX, a.center.Y+a.halfY)
}

// Projections returns the box's encoded axis projections.
func (a *AABB) Projections() ProjectedBox { return a.projected }

// Translate shifts the box by delta in O(1), preserving its extents, and
// refreshes the cached projections.
func (a *AABB) Translate(delta geom.Vec2) {
	a.center = a.center.Add(delta)
	a.projected = ProjectedBox{
		X: NewProjection(a.center.X-a.halfX, a.center.X+a.halfX),
		Y: NewProjection(a.center.Y-a.halfY, a.center.Y+a.halfY),
	}
}

// Reconstruct fully rebuilds the box from a fresh point set, e.g. after the
// shape's vertices have been re-transformed. Same validity rule as NewAABB.
func (a *AABB) Reconstruct(points []geom.Vec2) error {
	if len(points) < 3 {
		return ErrTooFewPoints
	}
	a.set(points)
	return nil
}

// Overlaps reports whether a and b intersect. Touching edges count:
// the test is over closed intervals on both axes.
func (a *AABB) Overlaps(b *AABB) bool {
	return a.projected.Overlaps(b.projected)
}

// Equal reports whether a and b describe the same box. A box holding a NaN
// coordinate compares unequal to everything, itself included, so equality
// stays consistent with the box being unusable for ordering.
func (a *AABB) Equal(b *AABB) bool {
	if a.hasNaN() || b.hasNaN() {
		return false
	}
	return a.center == b.center && a.halfX == b.halfX && a.halfY == b.halfY
}

func (a *AABB) hasNaN() bool {
	return math.IsNaN(a.center.X) || math.IsNaN(a.center.Y) ||
		math.IsNaN(a.halfX) || math.IsNaN(a.halfY)
}
