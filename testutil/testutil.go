package testutil

import (
	"math/rand/v2"
	"sync"
)

// RNG encapsulates a seeded random number generator.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewPCG(r.seed, r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// IntN returns a non-negative pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// UniformVectors generates random vectors with values in range [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformVectors(num int, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dimensions)
	vectors := make([][]float64, num)
	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float64()
		}
		vectors[i] = vec
	}
	return vectors
}

// Blobs generates perPoint gaussian samples around every center with the
// given standard deviation. It returns the points, grouped by center, and the
// index of the center each point was drawn from.
func (r *RNG) Blobs(centers [][]float64, perCenter int, stddev float64) ([][]float64, []int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	points := make([][]float64, 0, len(centers)*perCenter)
	labels := make([]int, 0, len(centers)*perCenter)
	for c, center := range centers {
		for range perCenter {
			p := make([]float64, len(center))
			for d, v := range center {
				p[d] = v + r.rand.NormFloat64()*stddev
			}
			points = append(points, p)
			labels = append(labels, c)
		}
	}
	return points, labels
}

// Shuffle permutes points and labels in place with the same permutation.
func (r *RNG) Shuffle(points [][]float64, labels []int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rand.Shuffle(len(points), func(i, j int) {
		points[i], points[j] = points[j], points[i]
		if labels != nil {
			labels[i], labels[j] = labels[j], labels[i]
		}
	})
}

// CountingSource wraps a rand.Source and counts how many values were drawn.
// Tests use it to assert that a code path consumes no randomness.
type CountingSource struct {
	Source rand.Source
	Calls  int
}

// Uint64 implements rand.Source.
func (s *CountingSource) Uint64() uint64 {
	s.Calls++
	return s.Source.Uint64()
}
