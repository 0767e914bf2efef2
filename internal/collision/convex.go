package collision

import (
	"math"
	"sort"

	"collider/internal/geom"
)

// Convex is a convex polygon in local space: counter-clockwise vertices and,
// for each edge (vertices[i], vertices[i+1 mod n]), its outward unit normal
// at the same index. Construction guarantees no duplicate vertices and no
// three consecutive collinear vertices, so every edge has positive length.
type Convex struct {
	vertices []geom.Vec2
	normals  []geom.Vec2
}

// NewConvex builds the minimal convex hull of the given points using
// DefaultTolerance for collinearity classification. Only hull vertices are
// kept; interior and redundant collinear points are dropped.
func NewConvex(points []geom.Vec2) (*Convex, error) {
	return NewConvexTol(points, DefaultTolerance)
}

// NewConvexTol is NewConvex with an explicit collinearity tolerance.
func NewConvexTol(points []geom.Vec2, tol float64) (*Convex, error) {
	hull, err := grahamScan(points, tol)
	if err != nil {
		return nil, err
	}

	normals := make([]geom.Vec2, len(hull))
	for i := range hull {
		next := (i + 1) % len(hull)
		edge := hull[next].Sub(hull[i])
		// Outward normal of a CCW edge is the edge rotated -90°.
		normals[i] = geom.V(edge.Y, -edge.X).Normalize()
	}

	return &Convex{vertices: hull, normals: normals}, nil
}

// Vertices returns the hull vertices in counter-clockwise order.
// Callers must not modify the returned slice.
func (c *Convex) Vertices() []geom.Vec2 { return c.vertices }

// Normals returns the outward unit edge normals, normals[i] belonging to
// edge (vertices[i], vertices[i+1 mod n]).
func (c *Convex) Normals() []geom.Vec2 { return c.normals }

// AABB returns the bounding box of the polygon placed by t.
func (c *Convex) AABB(t geom.Transform) *AABB {
	pts := make([]geom.Vec2, len(c.vertices))
	for i, v := range c.vertices {
		pts[i] = t.Apply(v)
	}
	// A hull always has at least 3 vertices, so construction cannot fail.
	box, _ := NewAABB(pts)
	return box
}

// Collides reports whether the two placed polygons overlap, using the
// separating axis test over both polygons' edge normals with
// DefaultTolerance.
func Collides(a *Convex, at geom.Transform, b *Convex, bt geom.Transform) bool {
	return CollidesTol(a, at, b, bt, DefaultTolerance)
}

// CollidesTol is Collides with an explicit separation tolerance. Shapes
// whose best separating value is within tol are classified as touching,
// i.e. colliding, which keeps contact classification stable under
// floating-point jitter.
//
// Both polygons' normal sets must be checked: a single direction misses
// deep-penetration cases where the separating axis belongs to the other
// polygon.
func CollidesTol(a *Convex, at geom.Transform, b *Convex, bt geom.Transform, tol float64) bool {
	if _, sep := maxSeparation(a, at, b, bt); sep > tol {
		return false
	}
	if _, sep := maxSeparation(b, bt, a, at); sep > tol {
		return false
	}
	return true
}

// maxSeparation finds, over all edges of a, the maximum signed distance from
// b's support point to the edge line along the edge normal, with both
// polygons placed in world space. A positive result means the edge's normal
// is a separating axis. Returns the index of the best edge and the value.
//
// Algorithm from Dirk Gregorius' GDC talk on game physics:
// http://gdcvault.com/play/1017646/Physics-for-Game-Programmers-The
func maxSeparation(a *Convex, at geom.Transform, b *Convex, bt geom.Transform) (int, float64) {
	bestIdx := 0
	maxSep := math.Inf(-1)

	for i, n := range a.normals {
		vertexA := at.Apply(a.vertices[i])
		normal := at.Rotation().Apply(n) // unit vector: rotation only, no translation
		negNormal := normal.Neg()

		// Support point of b: the vertex with the maximum projection onto
		// the negated normal, i.e. the vertex of b closest to a's edge
		// along the axis.
		bestProj := math.Inf(-1)
		var support geom.Vec2
		for _, v := range b.vertices {
			w := bt.Apply(v)
			if proj := negNormal.Dot(w); proj > bestProj {
				bestProj = proj
				support = w
			}
		}

		// Signed distance of the support point to the edge line. Least
		// negative over all edges when the polygons intersect.
		if sep := normal.Dot(support.Sub(vertexA)); sep > maxSep {
			bestIdx = i
			maxSep = sep
		}
	}

	return bestIdx, maxSep
}

// turnDir classifies the turn three consecutive points make.
type turnDir int

const (
	turnCollinear turnDir = iota
	turnClockwise
	turnCounterClockwise
)

// turn classifies the turn from p1 via p2 to p3 by the sign of the 2D cross
// product of (p2-p1) and (p3-p1). Magnitudes within tol are classified as
// collinear so floating-point noise cannot flip the turn direction.
func turn(p1, p2, p3 geom.Vec2, tol float64) turnDir {
	cross := p2.Sub(p1).Cross(p3.Sub(p1))
	if math.Abs(cross) < tol {
		return turnCollinear
	}
	if cross < 0 {
		return turnClockwise
	}
	return turnCounterClockwise
}

// grahamScan computes the CCW convex hull of points. It returns
// ErrTooFewPoints for fewer than 3 inputs and ErrDegenerate when the inputs
// are collinear or coincident and no positive-area hull exists.
func grahamScan(points []geom.Vec2, tol float64) ([]geom.Vec2, error) {
	if len(points) < 3 {
		return nil, ErrTooFewPoints
	}

	// Pivot: lowest y, ties broken by lowest x.
	pivot := points[0]
	for _, p := range points[1:] {
		if p.Y < pivot.Y || (p.Y == pivot.Y && p.X < pivot.X) {
			pivot = p
		}
	}

	// Collect the rest, dropping exact duplicates of the pivot, which carry
	// no angle information and would confuse the polar sort.
	rest := make([]geom.Vec2, 0, len(points)-1)
	for _, p := range points {
		if p != pivot {
			rest = append(rest, p)
		}
	}

	// Sort by polar angle about the pivot. Collinear (angle-equal) points
	// are ordered by descending distance so the farthest one comes first
	// and the nearer ones can be dropped before the scan.
	sort.SliceStable(rest, func(i, j int) bool {
		switch turn(pivot, rest[i], rest[j], tol) {
		case turnCounterClockwise:
			return true
		case turnClockwise:
			return false
		default:
			return pivot.DistSq(rest[i]) > pivot.DistSq(rest[j])
		}
	})

	// Keep only the first (farthest) point of each collinear run.
	kept := make([]geom.Vec2, 0, len(rest)+1)
	kept = append(kept, pivot)
	for i := 0; i < len(rest); {
		kept = append(kept, rest[i])
		j := i + 1
		for j < len(rest) && turn(pivot, rest[i], rest[j], tol) == turnCollinear {
			j++
		}
		i = j
	}

	// All points coincident with or collinear through the pivot.
	if len(kept) < 3 {
		return nil, ErrDegenerate
	}

	// Scan: pop while the last two stack points and the candidate do not
	// make a strict counter-clockwise turn. Popping collinear turns as well
	// as clockwise ones guarantees no three consecutive hull vertices are
	// collinear.
	hull := kept[:2:2]
	for _, p := range kept[2:] {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], p, tol) != turnCounterClockwise {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	if len(hull) < 3 {
		return nil, ErrDegenerate
	}
	return hull, nil
}
