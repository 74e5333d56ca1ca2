package kmeans

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/clustergo/distance"
)

// Initializer produces the seed centroids of a run.
//
// Implementations must not mutate points and must draw all randomness from
// rng so that a run is reproducible from its seed.
type Initializer interface {
	Initialize(points []Point, k int, rng *rand.Rand) (CentroidSet, error)
}

// Strategy selects an Initializer by name.
type Strategy int

const (
	// StrategyUniform picks k distinct points uniformly at random.
	StrategyUniform Strategy = iota
	// StrategyKMeansPlusPlus seeds with k-means++ D² sampling.
	StrategyKMeansPlusPlus
	// StrategyFixed labels runs seeded by a Fixed initializer.
	StrategyFixed
	// StrategyCustom labels runs seeded by any other caller-supplied
	// Initializer.
	StrategyCustom
)

func (s Strategy) String() string {
	switch s {
	case StrategyUniform:
		return "uniform"
	case StrategyKMeansPlusPlus:
		return "kmeans++"
	case StrategyFixed:
		return "fixed"
	case StrategyCustom:
		return "custom"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Initializer returns the Initializer implementing s.
func (s Strategy) Initializer() (Initializer, error) {
	switch s {
	case StrategyUniform:
		return Uniform{}, nil
	case StrategyKMeansPlusPlus:
		return PlusPlus{}, nil
	case StrategyFixed, StrategyCustom:
		return nil, fmt.Errorf("%w: strategy %v needs caller-supplied centroids or initializer", ErrInvalidParameter, s)
	default:
		return nil, fmt.Errorf("%w: unknown strategy %v", ErrInvalidParameter, s)
	}
}

// StrategyOf reports the Strategy label for initializer.
func StrategyOf(initializer Initializer) Strategy {
	switch initializer.(type) {
	case Uniform, *Uniform:
		return StrategyUniform
	case PlusPlus, *PlusPlus:
		return StrategyKMeansPlusPlus
	case Fixed:
		return StrategyFixed
	default:
		return StrategyCustom
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if s < StrategyUniform || s > StrategyCustom {
		return nil, fmt.Errorf("%w: unknown strategy %v", ErrInvalidParameter, s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStrategy parses a strategy name. It accepts "uniform" and "random" for
// StrategyUniform and "kmeans++", "k-means++", "kpp" and "plusplus" for
// StrategyKMeansPlusPlus, case-insensitively. "fixed" and "custom" parse so
// that stored results decode, but have no Initializer.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "uniform", "random":
		return StrategyUniform, nil
	case "kmeans++", "k-means++", "kpp", "plusplus":
		return StrategyKMeansPlusPlus, nil
	case "fixed":
		return StrategyFixed, nil
	case "custom":
		return StrategyCustom, nil
	default:
		return 0, fmt.Errorf("%w: unknown strategy %q", ErrInvalidParameter, name)
	}
}

func checkInit(points []Point, k int, rng *rand.Rand) error {
	if _, err := Validate(points); err != nil {
		return err
	}
	if err := checkK(len(points), k); err != nil {
		return err
	}
	if rng == nil {
		return fmt.Errorf("%w: nil random source", ErrInvalidParameter)
	}
	return nil
}

// Uniform draws k distinct points without replacement. With k == n every
// point becomes a centroid.
type Uniform struct{}

// Initialize implements Initializer.
func (Uniform) Initialize(points []Point, k int, rng *rand.Rand) (CentroidSet, error) {
	if err := checkInit(points, k, rng); err != nil {
		return nil, err
	}

	perm := rng.Perm(len(points))
	centroids := make(CentroidSet, k)
	for i := range centroids {
		centroids[i] = slices.Clone(points[perm[i]])
	}
	return centroids, nil
}

// PlusPlus is the k-means++ seeding strategy.
//
// The first centroid is always points[0], so a k == 1 run consumes no
// randomness. Each further centroid is sampled with probability proportional
// to the squared distance of a point to its nearest chosen centroid. When all
// remaining weight is zero (every candidate coincides with a centroid) the
// next centroid is drawn uniformly from the points not chosen yet.
type PlusPlus struct{}

// Initialize implements Initializer.
func (PlusPlus) Initialize(points []Point, k int, rng *rand.Rand) (CentroidSet, error) {
	if err := checkInit(points, k, rng); err != nil {
		return nil, err
	}
	n := len(points)
	if uint64(n) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: dataset too large for k-means++ (%d points)", ErrInvalidInput, n)
	}

	chosen := roaring.New()
	centroids := make(CentroidSet, 0, k)
	centroids = append(centroids, slices.Clone(points[0]))
	chosen.Add(0)

	// weights[i] is D(x_i)², kept current as centroids are added.
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = math.Inf(1)
	}

	for len(centroids) < k {
		last := centroids[len(centroids)-1]

		var total float64
		for i, p := range points {
			if chosen.Contains(uint32(i)) {
				weights[i] = 0
				continue
			}
			if d := distance.SquaredEuclidean(p, last); d < weights[i] {
				weights[i] = d
			}
			total += weights[i]
		}

		var next int
		if total > 0 && !math.IsInf(total, 0) {
			next = sampleWeighted(weights, total, rng)
		} else {
			next = sampleRemaining(chosen, n, rng)
		}

		chosen.Add(uint32(next))
		centroids = append(centroids, slices.Clone(points[next]))
	}

	return centroids, nil
}

// sampleWeighted draws an index with probability weights[i]/total.
func sampleWeighted(weights []float64, total float64, rng *rand.Rand) int {
	target := rng.Float64() * total

	var cum float64
	last := -1
	for i, w := range weights {
		if w == 0 {
			continue
		}
		cum += w
		last = i
		if target < cum {
			return i
		}
	}
	// Rounding can leave target just above the final cumulative sum.
	return last
}

// sampleRemaining draws uniformly among the indexes in [0, n) not in chosen.
func sampleRemaining(chosen *roaring.Bitmap, n int, rng *rand.Rand) int {
	remaining := roaring.Flip(chosen, 0, uint64(n))
	r := rng.IntN(int(remaining.GetCardinality()))
	idx, err := remaining.Select(uint32(r))
	if err != nil {
		// r < cardinality, so Select cannot fail.
		panic(err)
	}
	return int(idx)
}

// Fixed seeds a run with predetermined centroids, for warm starts from an
// earlier result. It ignores rng.
type Fixed CentroidSet

// Initialize implements Initializer.
func (f Fixed) Initialize(points []Point, k int, _ *rand.Rand) (CentroidSet, error) {
	dim, err := Validate(points)
	if err != nil {
		return nil, err
	}
	if err := checkK(len(points), k); err != nil {
		return nil, err
	}
	if len(f) != k {
		return nil, fmt.Errorf("%w: %d fixed centroids for k = %d", ErrInvalidParameter, len(f), k)
	}
	for i, c := range f {
		if len(c) != dim {
			return nil, &DimensionMismatchError{Index: i, Expected: dim, Actual: len(c)}
		}
	}
	return CloneSet(CentroidSet(f)), nil
}
