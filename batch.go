package clustergo

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"github.com/hupe1980/clustergo/internal/kmeans"
	"github.com/hupe1980/clustergo/resource"
	"golang.org/x/sync/errgroup"
)

// BatchResult holds the results of independent runs over the same data.
type BatchResult struct {
	// Runs is ordered by run index; run i used seed BaseSeed+i.
	Runs     []*Result `json:"runs"`
	BaseSeed uint64    `json:"base_seed"`
	// Best is the index of the run with the lowest inertia. Ties go to the
	// lower index.
	Best int `json:"best"`
}

// BestResult returns Runs[Best].
func (b *BatchResult) BestResult() *Result {
	return b.Runs[b.Best]
}

// RunBatch performs runs independent clusterings of points and reports the
// one with the lowest inertia. Repeated seeding exposes local optima that a
// single run may settle in.
//
// Runs execute concurrently, bounded by the Controller set with
// WithController or by GOMAXPROCS otherwise. The first failing run cancels
// the others and its error is returned.
func RunBatch(ctx context.Context, points [][]float64, k, runs int, optFns ...Option) (*BatchResult, error) {
	o := applyOptions(optFns)

	if runs < 1 {
		return nil, fmt.Errorf("%w: runs must be at least 1, got %d", kmeans.ErrInvalidParameter, runs)
	}
	if _, err := kmeans.Validate(points); err != nil {
		return nil, err
	}

	base := o.seed
	if !o.seeded {
		base = rand.Uint64()
	}

	rc := o.controller
	if rc == nil {
		rc = resource.NewController(resource.Config{MaxWorkers: int64(runtime.GOMAXPROCS(0))})
	}

	results := make([]*Result, runs)

	g, gctx := errgroup.WithContext(ctx)
	for i := range runs {
		if err := rc.AcquireWorker(gctx); err != nil {
			break
		}
		g.Go(func() error {
			defer rc.ReleaseWorker()

			ro := o
			ro.seed = base + uint64(i)
			ro.seeded = true

			res, err := run(gctx, points, k, ro)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		o.logger.LogBatch(ctx, runs, nil, err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		o.logger.LogBatch(ctx, runs, nil, err)
		return nil, err
	}

	best := 0
	for i, res := range results {
		if res.Inertia < results[best].Inertia {
			best = i
		}
	}

	out := &BatchResult{Runs: results, BaseSeed: base, Best: best}
	o.logger.LogBatch(ctx, runs, out.BestResult(), nil)
	return out, nil
}
