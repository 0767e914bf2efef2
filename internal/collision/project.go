package collision

// Projection is the projection of a shape onto one axis of the 2D plane:
// a closed interval [start, end]. Endpoints are stored encoded (see
// EncodeFloat64) so interval tests are integer comparisons.
type Projection struct {
	start int64
	end   int64
}

// NewProjection builds a Projection from decoded (float) endpoints.
// Callers must pass start <= end; the broadphase does not re-validate.
func NewProjection(start, end float64) Projection {
	return Projection{
		start: EncodeFloat64(start),
		end:   EncodeFloat64(end),
	}
}

// Start returns the decoded start endpoint.
func (p Projection) Start() float64 { return DecodeFloat64(p.start) }

// End returns the decoded end endpoint.
func (p Projection) End() float64 { return DecodeFloat64(p.end) }

// EncStart returns the encoded start endpoint.
func (p Projection) EncStart() int64 { return p.start }

// EncEnd returns the encoded end endpoint.
func (p Projection) EncEnd() int64 { return p.end }

// Overlaps reports whether the closed intervals p and q share at least one
// point. Touching endpoints count as overlapping.
func (p Projection) Overlaps(q Projection) bool {
	return p.start <= q.end && q.start <= p.end
}

// ProjectedBox is the projection of a bounding box onto both axes.
// Two boxes intersect iff their projections overlap on both axes.
type ProjectedBox struct {
	X Projection
	Y Projection
}

// Overlaps reports whether b and o intersect in 2D.
func (b ProjectedBox) Overlaps(o ProjectedBox) bool {
	return b.X.Overlaps(o.X) && b.Y.Overlaps(o.Y)
}
