package clustergo

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/clustergo/dataset"
	"github.com/hupe1980/clustergo/internal/kmeans"
)

// Strategy selects how the seed centroids are chosen.
type Strategy = kmeans.Strategy

const (
	// StrategyUniform picks k distinct points uniformly at random.
	StrategyUniform = kmeans.StrategyUniform
	// StrategyKMeansPlusPlus seeds with k-means++ D² sampling.
	StrategyKMeansPlusPlus = kmeans.StrategyKMeansPlusPlus
	// StrategyFixed labels results seeded with Fixed centroids.
	StrategyFixed = kmeans.StrategyFixed
	// StrategyCustom labels results seeded by any other Initializer passed
	// to WithInitializer.
	StrategyCustom = kmeans.StrategyCustom
)

// ParseStrategy parses a strategy name such as "uniform" or "kmeans++".
func ParseStrategy(name string) (Strategy, error) {
	return kmeans.ParseStrategy(name)
}

// Initializer produces seed centroids from a dataset.
type Initializer = kmeans.Initializer

// Fixed seeds runs with predetermined centroids. Use it with
// WithInitializer to warm start from an earlier Result.
type Fixed = kmeans.Fixed

// IterationStats describes one completed refinement pass.
type IterationStats = kmeans.IterationStats

// Result is the outcome of a converged run.
type Result struct {
	// ID uniquely identifies the run.
	ID string `json:"id"`
	// Seed reproduces the run when passed to WithSeed.
	Seed     uint64   `json:"seed"`
	Strategy Strategy `json:"strategy"`
	K        int      `json:"k"`
	// Dimension is the dimensionality of the points.
	Dimension int `json:"dimension"`

	Centroids [][]float64 `json:"centroids"`
	// History holds the seed centroids followed by the centroid set after
	// every iteration.
	History    [][][]float64 `json:"history"`
	Assignment []int         `json:"assignment"`
	Iterations int           `json:"iterations"`
	// Inertia is the sum of squared distances from each point to its
	// centroid.
	Inertia float64 `json:"inertia"`
	// Sizes holds the number of points per cluster.
	Sizes    []int         `json:"sizes"`
	Duration time.Duration `json:"duration"`
}

// newRNG returns the generator for seed. Every run owns its generator.
func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Run partitions points into k clusters.
//
// Seeds are chosen with the configured strategy, then refined with Lloyd's
// algorithm until the centroids move by no more than the configured epsilon.
// points is not modified.
func Run(ctx context.Context, points [][]float64, k int, optFns ...Option) (*Result, error) {
	return run(ctx, points, k, applyOptions(optFns))
}

func run(ctx context.Context, points [][]float64, k int, o options) (*Result, error) {
	start := time.Now()

	seed := o.seed
	if !o.seeded {
		seed = rand.Uint64()
	}
	res := &Result{
		ID:       uuid.NewString(),
		Seed:     seed,
		Strategy: o.strategy,
		K:        k,
	}
	if o.initializer != nil {
		res.Strategy = kmeans.StrategyOf(o.initializer)
	}
	logger := o.logger.WithRunID(res.ID).WithK(k)

	fail := func(err error) (*Result, error) {
		o.metricsCollector.RecordRun(0, time.Since(start), err)
		logger.LogRun(ctx, nil, err)
		return nil, err
	}

	dim, err := kmeans.Validate(points)
	if err != nil {
		return fail(err)
	}
	res.Dimension = dim
	logger = logger.WithDimension(dim)

	seeder := o.initializer
	if seeder == nil {
		if seeder, err = o.strategy.Initializer(); err != nil {
			return fail(err)
		}
	}

	seeds, err := seeder.Initialize(points, k, newRNG(seed))
	if err != nil {
		return fail(err)
	}

	refined, err := kmeans.Refine(ctx, points, seeds, func(ko *kmeans.Options) {
		ko.Epsilon = o.epsilon
		ko.MaxIterations = o.maxIterations
		ko.Observer = observer(ctx, o.metricsCollector, logger)
	})
	if err != nil {
		return fail(err)
	}

	res.Centroids = refined.Centroids
	res.History = refined.History
	res.Assignment = refined.Assignment
	res.Iterations = refined.Iterations
	res.Inertia = kmeans.Inertia(points, refined.Centroids)
	res.Sizes = kmeans.Sizes(refined.Assignment, k)
	res.Duration = time.Since(start)

	o.metricsCollector.RecordRun(res.Iterations, res.Duration, nil)
	logger.LogRun(ctx, res, nil)
	return res, nil
}

// observer returns the per-iteration hook for Refine, or nil when neither the
// collector nor the logger would consume the stats. A nil hook spares Refine
// the per-iteration inertia pass.
func observer(ctx context.Context, mc MetricsCollector, logger *Logger) func(kmeans.IterationStats) {
	_, noop := mc.(NoopMetricsCollector)
	debug := logger.Enabled(ctx, slog.LevelDebug)
	if noop && !debug {
		return nil
	}
	return func(stats kmeans.IterationStats) {
		mc.RecordIteration(stats.Norm, stats.Empty)
		if debug {
			logger.LogIteration(ctx, stats)
		}
	}
}

// RunSource loads the dataset at uri and runs it. See dataset.OpenURI for the
// supported URIs.
func RunSource(ctx context.Context, uri string, k int, optFns ...Option) (*Result, error) {
	o := applyOptions(optFns)

	points, err := load(ctx, uri, o)
	if err != nil {
		return nil, err
	}
	return run(ctx, points, k, o)
}

// Load reads the dataset at uri, logging and recording the load with the
// configured Logger and MetricsCollector.
func Load(ctx context.Context, uri string, optFns ...Option) (dataset.Dataset, error) {
	return load(ctx, uri, applyOptions(optFns))
}

func load(ctx context.Context, uri string, o options) (dataset.Dataset, error) {
	start := time.Now()

	loadOpts := o.datasetOptions
	if o.controller != nil {
		loadOpts = append([]dataset.Option{dataset.WithController(o.controller)}, loadOpts...)
	}
	points, err := dataset.LoadURI(ctx, uri, loadOpts...)

	o.metricsCollector.RecordLoad(points.Len(), time.Since(start), err)
	o.logger.LogLoad(ctx, uri, points.Len(), err)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", uri, err)
	}
	return points, nil
}
