// Package distance provides the Euclidean distance primitives shared by the
// initializers and the refinement loop.
//
// # Functions
//
//   - Euclidean: L2 norm of a - b
//   - SquaredEuclidean: squared L2 norm of a - b (k-means++ weights, inertia)
//   - FlatEuclidean: L2 norm between two centroid sets, each treated as one
//     flattened vector (convergence check)
//
// All functions assume equal-length inputs; callers validate dimensionality
// up front and mismatches panic.
package distance
