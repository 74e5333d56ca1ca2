// Package dataset loads point sets for clustering.
//
// The text format is the one produced by numpy.savetxt and plain CSV: one
// point per line, coordinates separated by whitespace, commas or semicolons,
// '#' starting a comment. Every point must have the same number of
// coordinates.
//
//	# x    y
//	1.0    2.5
//	3.2,   4.1
//
// Files ending in .zst or .lz4 are decompressed while reading. Sources are
// any blobstore.Store; OpenURI resolves local paths, file://, s3:// and
// minio:// URIs to a store and a blob name.
package dataset
