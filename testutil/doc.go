// Package testutil provides testing utilities for clustergo.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random generator and helpers for
// building synthetic datasets with known cluster structure.
//
// # Random Datasets
//
//	rng := testutil.NewRNG(seed)
//	points := rng.UniformVectors(1000, 2)                  // uniform [0, 1)
//	blobs, labels := rng.Blobs(centers, 100, 0.5)          // gaussian blobs
package testutil
