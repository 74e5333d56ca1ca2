package kmeans

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is returned when a run parameter is out of range
	// (k outside [1, n], negative epsilon, non-positive iteration bound).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidInput is returned for empty or malformed datasets and centroid
	// sets.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDidNotConverge is returned when the iteration bound is reached before
	// the centroids settle.
	ErrDidNotConverge = errors.New("did not converge")
)

// DimensionMismatchError reports a vector whose length differs from the
// dimensionality established by the first point.
type DimensionMismatchError struct {
	Index    int
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("invalid input: vector %d has dimension %d, expected %d", e.Index, e.Actual, e.Expected)
}

// Unwrap returns ErrInvalidInput.
func (e *DimensionMismatchError) Unwrap() error { return ErrInvalidInput }

// ConvergenceError is returned when Refine hits its iteration bound.
type ConvergenceError struct {
	Iterations int
	// Norm is the centroid movement of the last completed iteration.
	Norm float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("did not converge: %d iterations, last movement %g", e.Iterations, e.Norm)
}

// Unwrap returns ErrDidNotConverge.
func (e *ConvergenceError) Unwrap() error { return ErrDidNotConverge }
