// Package collision implements the 2D collision-detection core: an
// order-preserving float codec, convex hull construction, axis-aligned
// bounding boxes with encoded axis projections, a sweep-and-prune
// broadphase, and a separating-axis narrowphase for convex polygons.
//
// The package is a pure library. It does not log, performs no I/O, and all
// operations complete in time proportional to their input size.
package collision

import "math"

// EncodeFloat64 maps a float64 to an int64 such that the integer order
// matches the floating-point order. Interval endpoints are stored encoded so
// the broadphase compares them with cheap integer comparisons instead of
// FPU comparisons.
//
// The mapping reinterprets the float's bit pattern as a signed integer and
// flips the low 63 bits for negative values, so more-negative floats map to
// smaller integers. It is exact and bijective: DecodeFloat64 recovers the
// original bits for every input, NaNs included.
//
// The encoded order is a total order that refines the IEEE order: -0.0 sorts
// immediately below +0.0, NaNs with the sign bit clear sort above +Inf, and
// NaNs with the sign bit set sort below -Inf. For all ordered (non-NaN)
// a < b, EncodeFloat64(a) < EncodeFloat64(b).
func EncodeFloat64(f float64) int64 {
	i := int64(math.Float64bits(f))
	if i < 0 {
		i ^= math.MaxInt64
	}
	return i
}

// DecodeFloat64 inverts EncodeFloat64.
func DecodeFloat64(i int64) float64 {
	if i < 0 {
		i ^= math.MaxInt64
	}
	return math.Float64frombits(uint64(i))
}
