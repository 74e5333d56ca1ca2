// Package clustergo partitions points into k clusters with Lloyd's algorithm.
//
// A run seeds k centroids, either uniformly at random or with k-means++, and
// then alternates between assigning every point to its nearest centroid and
// moving every centroid to the mean of its points until the centroids settle.
//
// # Quick Start
//
//	ctx := context.Background()
//	res, _ := clustergo.Run(ctx, points, 3, clustergo.WithSeed(42))
//	fmt.Println(res.Centroids, res.Assignment)
//
// Datasets can be loaded from local files, S3 or MinIO:
//
//	res, _ := clustergo.RunSource(ctx, "s3://bucket/points.txt.zst", 3)
//
// # Reproducibility
//
// All randomness comes from a generator seeded per run. The seed is recorded
// in Result.Seed, and passing it back through WithSeed reproduces the run.
//
// # Local Optima
//
// Lloyd's algorithm converges to a local optimum that depends on the seeds.
// RunBatch performs many runs concurrently and picks the lowest inertia:
//
//	batch, _ := clustergo.RunBatch(ctx, points, 3, 50)
//	best := batch.BestResult()
//
// # Errors
//
// Failures wrap one of ErrInvalidParameter, ErrInvalidInput or
// ErrDidNotConverge and can be tested with errors.Is. No partial result is
// returned on error.
package clustergo
