package distance

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Euclidean returns the L2 distance between a and b.
func Euclidean(a, b []float64) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("distance: length mismatch %d != %d", len(a), len(b)))
	}
	return floats.Distance(a, b, 2)
}

// SquaredEuclidean returns the squared L2 distance between a and b.
func SquaredEuclidean(a, b []float64) float64 {
	d := Euclidean(a, b)
	return d * d
}

// FlatEuclidean returns the L2 distance between two vector sets as if each set
// were concatenated into a single vector.
func FlatEuclidean(as, bs [][]float64) float64 {
	if len(as) != len(bs) {
		panic(fmt.Sprintf("distance: set size mismatch %d != %d", len(as), len(bs)))
	}
	var norm float64
	for i := range as {
		norm = math.Hypot(norm, Euclidean(as[i], bs[i]))
	}
	return norm
}

// Nearest returns the index of the vector in set closest to v together with
// its squared distance. Ties resolve to the lowest index, including ties at
// +Inf. It returns -1 for an empty set.
func Nearest(v []float64, set [][]float64) (int, float64) {
	if len(set) == 0 {
		return -1, math.Inf(1)
	}
	best := 0
	bestDist := SquaredEuclidean(v, set[0])
	for i := 1; i < len(set); i++ {
		if d := SquaredEuclidean(v, set[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}
