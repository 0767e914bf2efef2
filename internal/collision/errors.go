package collision

import "github.com/pkg/errors"

// Construction failures are returned to the immediate caller and are never
// fatal: the caller supplies valid input or skips the object.
var (
	// ErrTooFewPoints is returned when fewer than 3 points are passed to
	// hull or bounding-box construction.
	ErrTooFewPoints = errors.New("collision: need at least 3 points")

	// ErrDegenerate is returned when all input points are collinear or
	// coincident, so no positive-area convex hull exists.
	ErrDegenerate = errors.New("collision: degenerate point set, no positive-area hull")
)

// IsTooFewPoints reports whether err is ErrTooFewPoints, unwrapping any
// context added by callers.
func IsTooFewPoints(err error) bool {
	return errors.Cause(err) == ErrTooFewPoints
}

// IsDegenerate reports whether err is ErrDegenerate, unwrapping any context
// added by callers.
func IsDegenerate(err error) bool {
	return errors.Cause(err) == ErrDegenerate
}

// DefaultTolerance is the absolute tolerance used to classify near-zero
// cross products as collinear and near-zero SAT separations as touching.
// Routines with a ...Tol variant accept it explicitly so call sites and
// tests can vary it.
const DefaultTolerance = 1e-10
