// Command clustergo clusters a dataset with k-means.
//
// Usage:
//
//	clustergo -data points.txt -k 3 [-strategy kmeans++] [-seed 42] [-runs 20]
//	          [-out result.result.zst] [-plot chart.html] [-plot-sizes sizes.html]
//	          [-export points.txt] [-config job.toml]
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/hupe1980/clustergo"
	"github.com/hupe1980/clustergo/dataset"
	"github.com/hupe1980/clustergo/plot"
	"github.com/hupe1980/clustergo/resource"
	"github.com/hupe1980/clustergo/resultstore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "clustergo:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := newFlags("clustergo").parse(args)
	if err != nil {
		return err
	}

	opts, err := options(cfg)
	if err != nil {
		return err
	}

	points, err := clustergo.Load(ctx, cfg.Data, opts...)
	if err != nil {
		return err
	}

	if cfg.Export != "" {
		if err := exportDataset(ctx, cfg.Export, points); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}

	var (
		res    *clustergo.Result
		output any
	)
	if cfg.Runs > 1 {
		batch, err := clustergo.RunBatch(ctx, points, cfg.K, cfg.Runs, opts...)
		if err != nil {
			return err
		}
		res, output = batch.BestResult(), batch
		fmt.Fprintf(stdout, "best of %d runs: run %d\n", len(batch.Runs), batch.Best)
	} else {
		if res, err = clustergo.Run(ctx, points, cfg.K, opts...); err != nil {
			return err
		}
		output = res
	}

	printResult(stdout, res)

	if cfg.Out != "" {
		store, name, err := dataset.OpenURI(ctx, cfg.Out)
		if err != nil {
			return err
		}
		if err := resultstore.Put(ctx, store, name, output, nil); err != nil {
			return err
		}
	}

	if cfg.Plot != "" {
		err := writeChart(cfg.Plot, func(w io.Writer) error {
			return plot.Render(w, points, res.History, res.Assignment)
		})
		if err != nil {
			return fmt.Errorf("plot: %w", err)
		}
	}
	if cfg.PlotSizes != "" {
		err := writeChart(cfg.PlotSizes, func(w io.Writer) error {
			return plot.RenderSizes(w, res.Sizes, plot.WithTitle("Cluster sizes"))
		})
		if err != nil {
			return fmt.Errorf("plot sizes: %w", err)
		}
	}
	return nil
}

func options(cfg *Config) ([]clustergo.Option, error) {
	strategy, err := clustergo.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}

	logger := clustergo.NewTextLogger(level)
	if cfg.Log.JSON {
		logger = clustergo.NewJSONLogger(level)
	}

	opts := []clustergo.Option{
		clustergo.WithStrategy(strategy),
		clustergo.WithEpsilon(cfg.Epsilon),
		clustergo.WithMaxIterations(cfg.MaxIterations),
		clustergo.WithLogger(logger),
		clustergo.WithDatasetOptions(
			dataset.WithSkipRows(cfg.Dataset.SkipRows),
			dataset.WithColumns(cfg.Dataset.Columns...),
		),
	}
	if cfg.seeded {
		opts = append(opts, clustergo.WithSeed(cfg.Seed))
	}
	if cfg.Resources.Workers > 0 || cfg.Resources.IOLimitBytesPerSec > 0 {
		workers := cfg.Resources.Workers
		if workers <= 0 {
			workers = int64(runtime.GOMAXPROCS(0))
		}
		opts = append(opts, clustergo.WithController(resource.NewController(resource.Config{
			MaxWorkers:         workers,
			IOLimitBytesPerSec: cfg.Resources.IOLimitBytesPerSec,
		})))
	}
	return opts, nil
}

func printResult(w io.Writer, res *clustergo.Result) {
	fmt.Fprintf(w, "run %s strategy=%s seed=%d iterations=%d inertia=%g\n",
		res.ID, res.Strategy, res.Seed, res.Iterations, res.Inertia)
	for i, c := range res.Centroids {
		fmt.Fprintf(w, "cluster %d size=%d centroid=%v\n", i, res.Sizes[i], c)
	}
}

func writeChart(path string, render func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// exportDataset writes points, after decompression and column selection, as
// plain whitespace-separated text to a path or URI.
func exportDataset(ctx context.Context, uri string, points dataset.Dataset) error {
	store, name, err := dataset.OpenURI(ctx, uri)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := dataset.Format(&buf, points); err != nil {
		return err
	}
	return store.Put(ctx, name, buf.Bytes())
}
