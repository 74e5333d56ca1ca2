// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "datasets/")
//
//	points, err := dataset.Load(ctx, store, "pts2.txt")
//
// # Features
//
//   - Range reads for partial fetches
//   - Managed (multipart) uploads for large result files
//   - Automatic pagination for listing
//   - Configurable key prefix
package s3
