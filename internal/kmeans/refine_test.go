package kmeans

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/hupe1980/clustergo/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefine_TwoClusters(t *testing.T) {
	ctx := context.Background()
	points := []Point{{0, 0}, {0, 1}, {10, 0}, {10, 1}}
	initial := CentroidSet{{0, 0}, {10, 0}}

	res, err := Refine(ctx, points, initial)
	require.NoError(t, err)

	assert.Equal(t, CentroidSet{{0, 0.5}, {10, 0.5}}, res.Centroids)
	assert.Equal(t, []int{0, 0, 1, 1}, res.Assignment)
	assert.Equal(t, 1, res.Iterations)
	require.Len(t, res.History, 2)
	assert.Equal(t, initial, res.History[0])
	assert.Equal(t, res.Centroids, res.History[1])

	// Inputs are untouched.
	assert.Equal(t, CentroidSet{{0, 0}, {10, 0}}, initial)
	assert.Equal(t, []Point{{0, 0}, {0, 1}, {10, 0}, {10, 1}}, points)
}

func TestRefine_MultipleIterations(t *testing.T) {
	points := []Point{{0}, {1}, {2}, {10}, {11}}

	res, err := Refine(context.Background(), points, CentroidSet{{0}, {1}})
	require.NoError(t, err)

	assert.Equal(t, CentroidSet{{1}, {10.5}}, res.Centroids)
	assert.Equal(t, []int{0, 0, 0, 1, 1}, res.Assignment)
	assert.Equal(t, 2, res.Iterations)
	assert.Equal(t, CentroidSet{{0}, {6}}, res.History[1])
	assert.Len(t, res.History, res.Iterations+1)
}

func TestRefine_DidNotConverge(t *testing.T) {
	points := []Point{{0}, {1}, {2}, {10}, {11}}

	res, err := Refine(context.Background(), points, CentroidSet{{0}, {1}}, func(o *Options) {
		o.MaxIterations = 1
	})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrDidNotConverge)

	var convErr *ConvergenceError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, 1, convErr.Iterations)
	assert.Greater(t, convErr.Norm, 0.0)
}

func TestRefine_Epsilon(t *testing.T) {
	points := []Point{{0}, {1}, {2}, {10}, {11}}

	res, err := Refine(context.Background(), points, CentroidSet{{0}, {1}}, func(o *Options) {
		o.Epsilon = 1e9
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Iterations)
	assert.Equal(t, CentroidSet{{0}, {6}}, res.Centroids)
	// The assignment refers to the final centroids, not the ones it was
	// computed from during the last pass.
	assert.Equal(t, []int{0, 0, 0, 1, 1}, res.Assignment)
}

func TestRefine_EmptyClusterKeepsPreviousCentroid(t *testing.T) {
	points := []Point{{0, 0}, {1, 0}, {0, 1}}
	initial := CentroidSet{{0, 0}, {100, 100}}

	var stats []IterationStats
	res, err := Refine(context.Background(), points, initial, func(o *Options) {
		o.Observer = func(s IterationStats) { stats = append(stats, s) }
	})
	require.NoError(t, err)

	for _, c := range res.Centroids {
		for _, v := range c {
			assert.False(t, math.IsNaN(v))
		}
	}
	assert.Equal(t, []float64{100, 100}, res.Centroids[1])
	assert.InDelta(t, 1.0/3, res.Centroids[0][0], 1e-12)
	assert.InDelta(t, 1.0/3, res.Centroids[0][1], 1e-12)
	assert.Equal(t, []int{0, 0, 0}, res.Assignment)

	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].Iteration)
	assert.Equal(t, 1, stats[0].Empty)
}

func TestRefine_TiesGoToLowestIndex(t *testing.T) {
	points := []Point{{0}, {2}, {1}}

	assert.Equal(t, []int{0, 1, 0}, Assign(points, CentroidSet{{0}, {2}}))

	res, err := Refine(context.Background(), points, CentroidSet{{0}, {2}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, res.Assignment)
	assert.Equal(t, CentroidSet{{0.5}, {2}}, res.Centroids)
}

func TestRefine_InertiaNonIncreasing(t *testing.T) {
	rng := testutil.NewRNG(11)
	centers := [][]float64{{0, 0}, {5, 5}, {-5, 5}, {5, -5}}
	points, _ := rng.Blobs(centers, 60, 2.0)
	rng.Shuffle(points, nil)

	for seed := range uint64(10) {
		initial, err := Uniform{}.Initialize(points, 4, newRand(seed))
		require.NoError(t, err)

		var observed []float64
		res, err := Refine(context.Background(), points, initial, func(o *Options) {
			o.Observer = func(s IterationStats) { observed = append(observed, s.Inertia) }
		})
		require.NoError(t, err)
		require.Len(t, observed, res.Iterations)

		prev := math.Inf(1)
		for i, c := range res.History {
			inertia := Inertia(points, c)
			assert.LessOrEqual(t, inertia, prev+1e-9, "seed %d: inertia increased at snapshot %d", seed, i)
			if i > 0 {
				assert.InDelta(t, observed[i-1], inertia, 1e-9)
			}
			prev = inertia
		}
	}
}

func TestRefine_Idempotent(t *testing.T) {
	rng := testutil.NewRNG(5)
	points, _ := rng.Blobs([][]float64{{0, 0, 0}, {10, 10, 10}, {20, 0, 20}}, 40, 1.5)

	initial, err := PlusPlus{}.Initialize(points, 3, newRand(1))
	require.NoError(t, err)

	first, err := Refine(context.Background(), points, initial)
	require.NoError(t, err)

	second, err := Refine(context.Background(), points, first.Centroids)
	require.NoError(t, err)

	assert.LessOrEqual(t, second.Iterations, 1)
	assert.Equal(t, first.Centroids, second.Centroids)
	assert.Equal(t, first.Assignment, second.Assignment)
}

func TestRefine_Properties(t *testing.T) {
	rng := testutil.NewRNG(99)
	points := rng.UniformVectors(120, 3)

	for k := 1; k <= 6; k++ {
		for _, strategy := range []Strategy{StrategyUniform, StrategyKMeansPlusPlus} {
			initializer, err := strategy.Initializer()
			require.NoError(t, err)

			initial, err := initializer.Initialize(points, k, newRand(uint64(k)))
			require.NoError(t, err)

			res, err := Refine(context.Background(), points, initial)
			require.NoError(t, err, "k=%d strategy=%v", k, strategy)

			assert.Len(t, res.Centroids, k)
			assert.Len(t, res.Assignment, len(points))
			for _, a := range res.Assignment {
				assert.GreaterOrEqual(t, a, 0)
				assert.Less(t, a, k)
			}
			assert.Len(t, res.History, res.Iterations+1)
			assert.Equal(t, initial, res.History[0])
			assert.Equal(t, Assign(points, res.Centroids), res.Assignment)
		}
	}
}

func TestRefine_SnapshotsAreIndependent(t *testing.T) {
	points := []Point{{0, 0}, {0, 1}, {10, 0}, {10, 1}}

	res, err := Refine(context.Background(), points, CentroidSet{{0, 0}, {10, 0}})
	require.NoError(t, err)

	res.Centroids[0][0] = 42
	assert.Equal(t, 0.0, res.History[len(res.History)-1][0][0])
}

func TestRefine_InvalidInput(t *testing.T) {
	ctx := context.Background()
	points := []Point{{0, 0}, {0, 1}, {10, 0}, {10, 1}}

	tests := []struct {
		name    string
		points  []Point
		initial CentroidSet
		target  error
	}{
		{"EmptyDataset", nil, CentroidSet{{0, 0}}, ErrInvalidInput},
		{"ZeroDimension", []Point{{}, {}}, CentroidSet{{}}, ErrInvalidInput},
		{"MismatchedPoints", []Point{{0, 0}, {1, 2, 3}}, CentroidSet{{0, 0}}, ErrInvalidInput},
		{"InfiniteCoordinate", []Point{{0, math.Inf(1)}}, CentroidSet{{0, 0}}, ErrInvalidInput},
		{"EmptyCentroids", points, CentroidSet{}, ErrInvalidInput},
		{"MismatchedCentroid", points, CentroidSet{{0, 0}, {1}}, ErrInvalidInput},
		{"NaNCentroid", points, CentroidSet{{0, math.NaN()}}, ErrInvalidInput},
		{"TooManyCentroids", points, CentroidSet{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 2}}, ErrInvalidParameter},
		{"OverflowingPoints", []Point{{0}, {1e200}}, CentroidSet{{0}}, ErrInvalidInput},
		{"OverflowingCentroid", points, CentroidSet{{0, 0}, {1e200, 0}}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Refine(ctx, tt.points, tt.initial)
			assert.ErrorIs(t, err, tt.target)
			assert.Nil(t, res)
		})
	}
}

func TestRefine_OverflowingDistances(t *testing.T) {
	ctx := context.Background()
	points := []Point{{0}, {1e200}, {-1e200}, {2e200}}

	_, err := Validate(points)
	require.ErrorIs(t, err, ErrInvalidInput)

	// Every squared distance from 2e200 to these centroids is +Inf.
	assert.NotPanics(t, func() {
		res, err := Refine(ctx, points, CentroidSet{{-1e200}, {0}, {1e200}})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Nil(t, res)
	})
}

func TestRefine_LargeFiniteCoordinates(t *testing.T) {
	points := []Point{{-1e100}, {-1e100}, {1e100}, {1e100}}

	res, err := Refine(context.Background(), points, CentroidSet{{-1e100}, {1e100}})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 1, 1}, res.Assignment)
	assert.False(t, math.IsInf(Inertia(points, res.Centroids), 0))
}

func TestRefine_InvalidOptions(t *testing.T) {
	ctx := context.Background()
	points := []Point{{0}, {1}}

	_, err := Refine(ctx, points, CentroidSet{{0}}, func(o *Options) { o.Epsilon = -1 })
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = Refine(ctx, points, CentroidSet{{0}}, func(o *Options) { o.Epsilon = math.NaN() })
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = Refine(ctx, points, CentroidSet{{0}}, func(o *Options) { o.MaxIterations = 0 })
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestRefine_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	points := testutil.NewRNG(1).UniformVectors(100, 2)
	_, err := Refine(ctx, points, CentroidSet{points[0], points[1]})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSizes(t *testing.T) {
	assert.Equal(t, []int{2, 0, 1}, Sizes([]int{0, 2, 0}, 3))
}

func TestCloneSet(t *testing.T) {
	set := CentroidSet{{1, 2}, {3, 4}}
	clone := CloneSet(set)
	require.Equal(t, set, clone)

	clone[0][0] = 9
	clone[0] = append(clone[0], 5)
	assert.Equal(t, CentroidSet{{1, 2}, {3, 4}}, set)
	assert.Nil(t, CloneSet(nil))
}
