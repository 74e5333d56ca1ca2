package clustergo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    runCounter    prometheus.Counter
//	    iterHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordRun(iterations int, duration time.Duration, err error) {
//	    p.runCounter.Inc()
//	    p.iterHistogram.Observe(float64(iterations))
//	}
type MetricsCollector interface {
	// RecordRun is called after each run. iterations is zero if err is set.
	RecordRun(iterations int, duration time.Duration, err error)

	// RecordIteration is called after each refinement pass. norm is the
	// centroid movement, empty the number of clusters without members.
	RecordIteration(norm float64, empty int)

	// RecordLoad is called after each dataset load.
	RecordLoad(points int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRun(int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordIteration(float64, int)         {}
func (NoopMetricsCollector) RecordLoad(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RunCount       atomic.Int64
	RunErrors      atomic.Int64
	RunTotalNanos  atomic.Int64
	IterationCount atomic.Int64
	EmptyClusters  atomic.Int64
	LoadCount      atomic.Int64
	LoadErrors     atomic.Int64
	LoadPoints     atomic.Int64
	LoadTotalNanos atomic.Int64
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(iterations int, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// RecordIteration implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIteration(norm float64, empty int) {
	b.IterationCount.Add(1)
	b.EmptyClusters.Add(int64(empty))
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(points int, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadPoints.Add(int64(points))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RunCount:       b.RunCount.Load(),
		RunErrors:      b.RunErrors.Load(),
		RunAvgNanos:    avg(b.RunTotalNanos.Load(), b.RunCount.Load()),
		IterationCount: b.IterationCount.Load(),
		EmptyClusters:  b.EmptyClusters.Load(),
		LoadCount:      b.LoadCount.Load(),
		LoadErrors:     b.LoadErrors.Load(),
		LoadPoints:     b.LoadPoints.Load(),
		LoadAvgNanos:   avg(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RunCount       int64
	RunErrors      int64
	RunAvgNanos    int64
	IterationCount int64
	EmptyClusters  int64
	LoadCount      int64
	LoadErrors     int64
	LoadPoints     int64
	LoadAvgNanos   int64
}
