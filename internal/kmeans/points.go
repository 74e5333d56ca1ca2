package kmeans

import (
	"fmt"
	"math"
)

// Point is a fixed-length coordinate vector.
type Point = []float64

// CentroidSet is an ordered set of k centroids. The index of a centroid is the
// identity of its cluster.
type CentroidSet = [][]float64

// Validate checks that points is a non-empty set of finite vectors sharing one
// non-zero dimensionality, and returns that dimensionality. Coordinates must
// also be small enough that squared distances and cluster sums over the whole
// set stay finite.
func Validate(points []Point) (int, error) {
	dim, maxAbs, err := validate(points)
	if err != nil {
		return 0, err
	}
	if err := checkMagnitude(maxAbs, len(points), dim); err != nil {
		return 0, err
	}
	return dim, nil
}

// validate is Validate without the magnitude bound. It also returns the
// largest absolute coordinate.
func validate(points []Point) (int, float64, error) {
	if len(points) == 0 {
		return 0, 0, fmt.Errorf("%w: empty dataset", ErrInvalidInput)
	}
	dim := len(points[0])
	if dim == 0 {
		return 0, 0, fmt.Errorf("%w: zero-dimensional points", ErrInvalidInput)
	}
	var maxAbs float64
	for i, p := range points {
		if len(p) != dim {
			return 0, 0, &DimensionMismatchError{Index: i, Expected: dim, Actual: len(p)}
		}
		for j, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, 0, fmt.Errorf("%w: vector %d coordinate %d is not finite", ErrInvalidInput, i, j)
			}
			maxAbs = max(maxAbs, math.Abs(v))
		}
	}
	return dim, maxAbs, nil
}

// checkMagnitude rejects coordinates whose pairwise squared distances, summed
// over n points, would overflow. Any two vectors bounded by maxAbs are at most
// 4·maxAbs²·dim apart squared.
func checkMagnitude(maxAbs float64, n, dim int) error {
	if math.IsInf(4*maxAbs*maxAbs*float64(dim)*float64(n), 0) {
		return fmt.Errorf("%w: coordinate magnitude %g overflows squared distances", ErrInvalidInput, maxAbs)
	}
	return nil
}

func checkK(n, k int) error {
	if k < 1 {
		return fmt.Errorf("%w: k must be at least 1, got %d", ErrInvalidParameter, k)
	}
	if k > n {
		return fmt.Errorf("%w: k (%d) exceeds dataset size (%d)", ErrInvalidParameter, k, n)
	}
	return nil
}

// CloneSet returns a deep copy of set.
func CloneSet(set CentroidSet) CentroidSet {
	if set == nil {
		return nil
	}
	data := make([]float64, 0, len(set)*dimOf(set))
	out := make(CentroidSet, len(set))
	for i, c := range set {
		start := len(data)
		data = append(data, c...)
		out[i] = data[start:len(data):len(data)]
	}
	return out
}

func dimOf(set CentroidSet) int {
	if len(set) == 0 {
		return 0
	}
	return len(set[0])
}
