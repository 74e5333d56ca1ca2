package clustergo

import (
	"log/slog"

	"github.com/hupe1980/clustergo/dataset"
	"github.com/hupe1980/clustergo/internal/kmeans"
	"github.com/hupe1980/clustergo/resource"
)

type options struct {
	strategy         Strategy
	initializer      Initializer
	seed             uint64
	seeded           bool
	epsilon          float64
	maxIterations    int
	metricsCollector MetricsCollector
	logger           *Logger
	controller       *resource.Controller
	datasetOptions   []dataset.Option
}

// Option configures Run, RunSource and RunBatch.
type Option func(*options)

// WithStrategy selects the seeding strategy. The default is
// StrategyKMeansPlusPlus.
func WithStrategy(s Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithInitializer seeds runs with a custom Initializer, taking precedence
// over WithStrategy.
func WithInitializer(initializer Initializer) Option {
	return func(o *options) {
		o.initializer = initializer
	}
}

// WithSeed fixes the random seed. Runs with the same seed, data and options
// produce identical results. Without a seed a random one is drawn and
// recorded in Result.Seed.
//
// RunBatch derives the seed of run i as seed+i.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithEpsilon sets the convergence threshold on centroid movement.
// The default of 0 iterates until the centroids stop moving.
func WithEpsilon(epsilon float64) Option {
	return func(o *options) {
		o.epsilon = epsilon
	}
}

// WithMaxIterations bounds the number of refinement passes. A run that does
// not converge within the bound fails with ErrDidNotConverge.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &clustergo.BasicMetricsCollector{}
//	res, _ := clustergo.Run(ctx, points, 3, clustergo.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Runs: %d, Avg latency: %dns\n", stats.RunCount, stats.RunAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for runs.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := clustergo.NewJSONLogger(slog.LevelInfo)
//	res, _ := clustergo.Run(ctx, points, 3, clustergo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithController bounds RunBatch concurrency and throttles dataset reads in
// RunSource.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithDatasetOptions passes options to the dataset loader used by RunSource.
func WithDatasetOptions(opts ...dataset.Option) Option {
	return func(o *options) {
		o.datasetOptions = append(o.datasetOptions, opts...)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		strategy:         StrategyKMeansPlusPlus,
		epsilon:          kmeans.DefaultOptions.Epsilon,
		maxIterations:    kmeans.DefaultMaxIterations,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
