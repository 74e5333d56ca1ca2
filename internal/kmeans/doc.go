// Package kmeans implements Lloyd's algorithm and its seeding strategies.
//
// The package is split along the two phases of a run:
//
//   - Initializer: Uniform (k distinct points drawn without replacement) and
//     PlusPlus (k-means++ D² weighted sampling, first seed is point 0).
//   - Refine: the assignment/update loop. It records every centroid set in
//     History, keeps the previous centroid for clusters that lose all of their
//     members, and gives up with ErrDidNotConverge after MaxIterations.
//
// Everything here is single-threaded and deterministic for a fixed random
// source. Callers that want many runs create one *rand.Rand per run.
package kmeans
