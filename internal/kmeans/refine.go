package kmeans

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/clustergo/distance"
)

// DefaultMaxIterations bounds Refine when no bound is configured.
const DefaultMaxIterations = 300

// Options configures Refine.
type Options struct {
	// Epsilon is the convergence threshold on centroid movement, measured as
	// the Euclidean distance between consecutive centroid sets flattened into
	// single vectors. Must be >= 0.
	Epsilon float64

	// MaxIterations is the number of update passes after which Refine gives
	// up with ErrDidNotConverge. Must be >= 1.
	MaxIterations int

	// Observer, if set, is called after every completed iteration.
	Observer func(IterationStats)
}

// DefaultOptions are the options used by Refine before any option function is
// applied.
var DefaultOptions = Options{
	Epsilon:       0,
	MaxIterations: DefaultMaxIterations,
}

// IterationStats describes one completed iteration.
type IterationStats struct {
	// Iteration is 1-based.
	Iteration int
	// Norm is the movement of the centroid set during this iteration.
	Norm float64
	// Inertia is the within-cluster sum of squares after the update.
	Inertia float64
	// Empty is the number of clusters that had no members and kept their
	// previous position.
	Empty int
}

// Result is the outcome of a converged refinement.
type Result struct {
	// Centroids is the final centroid set.
	Centroids CentroidSet
	// History holds the seed centroids followed by the centroid set produced
	// by every iteration. len(History) == Iterations+1.
	History []CentroidSet
	// Assignment maps every point to the index of its nearest final centroid.
	Assignment []int
	// Iterations is the number of update passes that produced a new
	// centroid set.
	Iterations int
}

// Refine runs Lloyd's algorithm from the given seed centroids until the
// centroid movement drops to Epsilon or below.
//
// Each pass assigns every point to its nearest centroid (lowest index wins
// ties) and moves each centroid to the mean of its members. A centroid without
// members keeps its previous position. When a pass reproduces the previous
// assignment the centroids are already a fixed point and the loop stops
// without recording a duplicate snapshot.
//
// Neither points nor initial is modified.
func Refine(ctx context.Context, points []Point, initial CentroidSet, optFns ...func(o *Options)) (*Result, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxIterations < 1 {
		return nil, fmt.Errorf("%w: max iterations must be at least 1, got %d", ErrInvalidParameter, opts.MaxIterations)
	}
	if opts.Epsilon < 0 || math.IsNaN(opts.Epsilon) {
		return nil, fmt.Errorf("%w: epsilon must be >= 0, got %v", ErrInvalidParameter, opts.Epsilon)
	}

	dim, maxAbs, err := validate(points)
	if err != nil {
		return nil, err
	}
	if len(initial) == 0 {
		return nil, fmt.Errorf("%w: empty centroid set", ErrInvalidInput)
	}
	for i, c := range initial {
		if len(c) != dim {
			return nil, &DimensionMismatchError{Index: i, Expected: dim, Actual: len(c)}
		}
		for j, v := range c {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: centroid %d coordinate %d is not finite", ErrInvalidInput, i, j)
			}
			maxAbs = max(maxAbs, math.Abs(v))
		}
	}
	if err := checkMagnitude(maxAbs, len(points), dim); err != nil {
		return nil, err
	}
	if err := checkK(len(points), len(initial)); err != nil {
		return nil, err
	}

	r := &refiner{
		points:     points,
		k:          len(initial),
		dim:        dim,
		assignment: make([]int, len(points)),
		previous:   make([]int, len(points)),
		sums:       make([]float64, len(initial)*dim),
		counts:     make([]int, len(initial)),
	}

	centroids := CloneSet(initial)
	history := []CentroidSet{CloneSet(initial)}
	iterations := 0
	norm := math.Inf(1)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r.assign(centroids)
		if iterations > 0 && slices.Equal(r.assignment, r.previous) {
			break
		}
		if iterations >= opts.MaxIterations {
			return nil, &ConvergenceError{Iterations: iterations, Norm: norm}
		}

		next, empty := r.update(centroids)
		history = append(history, next)
		iterations++
		norm = distance.FlatEuclidean(next, centroids)
		centroids = next

		if opts.Observer != nil {
			opts.Observer(IterationStats{
				Iteration: iterations,
				Norm:      norm,
				Inertia:   Inertia(points, centroids),
				Empty:     empty,
			})
		}

		if norm <= opts.Epsilon {
			if norm > 0 {
				// Within epsilon but moved; re-assign against the final set.
				r.assign(centroids)
			}
			break
		}
		copy(r.previous, r.assignment)
	}

	return &Result{
		Centroids:  CloneSet(centroids),
		History:    history,
		Assignment: r.assignment,
		Iterations: iterations,
	}, nil
}

// refiner holds the per-run working set of Refine.
type refiner struct {
	points     []Point
	k, dim     int
	assignment []int
	previous   []int
	sums       []float64
	counts     []int
}

// assign writes the nearest centroid of every point into r.assignment.
func (r *refiner) assign(centroids CentroidSet) {
	for i, p := range r.points {
		r.assignment[i], _ = distance.Nearest(p, centroids)
	}
}

// update returns a freshly allocated centroid set holding the mean of every
// cluster, and the number of clusters that had no members.
func (r *refiner) update(centroids CentroidSet) (CentroidSet, int) {
	clear(r.sums)
	clear(r.counts)

	for i, p := range r.points {
		c := r.assignment[i]
		sum := r.sums[c*r.dim : (c+1)*r.dim]
		for d, v := range p {
			sum[d] += v
		}
		r.counts[c]++
	}

	data := make([]float64, r.k*r.dim)
	next := make(CentroidSet, r.k)
	empty := 0
	for c := range next {
		dst := data[c*r.dim : (c+1)*r.dim : (c+1)*r.dim]
		if r.counts[c] == 0 {
			copy(dst, centroids[c])
			empty++
		} else {
			count := float64(r.counts[c])
			for d, s := range r.sums[c*r.dim : (c+1)*r.dim] {
				dst[d] = s / count
			}
		}
		next[c] = dst
	}
	return next, empty
}

// Assign returns the index of the nearest centroid for every point. Ties
// resolve to the lowest index.
func Assign(points []Point, centroids CentroidSet) []int {
	out := make([]int, len(points))
	for i, p := range points {
		out[i], _ = distance.Nearest(p, centroids)
	}
	return out
}

// Inertia returns the sum of squared distances from every point to its
// nearest centroid.
func Inertia(points []Point, centroids CentroidSet) float64 {
	var sum float64
	for _, p := range points {
		_, d := distance.Nearest(p, centroids)
		sum += d
	}
	return sum
}

// Sizes returns the number of points assigned to each of k clusters.
func Sizes(assignment []int, k int) []int {
	sizes := make([]int, k)
	for _, c := range assignment {
		sizes[c]++
	}
	return sizes
}
