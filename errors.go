package clustergo

import (
	"github.com/hupe1980/clustergo/internal/kmeans"
)

var (
	// ErrInvalidParameter is returned for a bad k, epsilon, iteration bound
	// or strategy.
	ErrInvalidParameter = kmeans.ErrInvalidParameter

	// ErrInvalidInput is returned for an empty or malformed dataset.
	ErrInvalidInput = kmeans.ErrInvalidInput

	// ErrDidNotConverge is returned when refinement exhausts its iteration
	// bound.
	ErrDidNotConverge = kmeans.ErrDidNotConverge
)

// DimensionMismatchError reports a point whose dimensionality differs from
// the first point. It matches ErrInvalidInput.
type DimensionMismatchError = kmeans.DimensionMismatchError

// ConvergenceError reports the state of a refinement that hit its iteration
// bound. It matches ErrDidNotConverge.
type ConvergenceError = kmeans.ConvergenceError
