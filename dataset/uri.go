package dataset

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/hupe1980/clustergo/blobstore"
	"github.com/hupe1980/clustergo/blobstore/minio"
	"github.com/hupe1980/clustergo/blobstore/s3"
)

// OpenURI resolves uri to a store and the blob name within it.
//
// Supported forms:
//
//	/path/to/points.txt           local file
//	file:///path/to/points.txt    local file
//	s3://bucket/key               Amazon S3, default AWS credential chain
//	minio://endpoint/bucket/key   MinIO or any S3-compatible endpoint
func OpenURI(ctx context.Context, uri string) (blobstore.Store, string, error) {
	if !strings.Contains(uri, "://") {
		return openLocal(uri)
	}

	u, err := url.Parse(uri)
	if err != nil {
		return nil, "", fmt.Errorf("dataset: parse uri %q: %w", uri, err)
	}

	switch u.Scheme {
	case "file":
		return openLocal(u.Path)
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, "", fmt.Errorf("dataset: uri %q: want s3://bucket/key", uri)
		}
		store, err := s3.New(ctx, u.Host, "")
		if err != nil {
			return nil, "", fmt.Errorf("dataset: %w", err)
		}
		return store, key, nil
	case "minio":
		bucket, key, ok := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if u.Host == "" || !ok || bucket == "" || key == "" {
			return nil, "", fmt.Errorf("dataset: uri %q: want minio://endpoint/bucket/key", uri)
		}
		store, err := minio.Open(u.Host, bucket, "")
		if err != nil {
			return nil, "", fmt.Errorf("dataset: %w", err)
		}
		return store, key, nil
	default:
		return nil, "", fmt.Errorf("dataset: unsupported scheme %q", u.Scheme)
	}
}

func openLocal(path string) (blobstore.Store, string, error) {
	if path == "" {
		return nil, "", fmt.Errorf("dataset: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("dataset: %w", err)
	}
	return blobstore.NewLocalStore(filepath.Dir(abs)), filepath.Base(abs), nil
}

// LoadURI resolves uri with OpenURI and loads the dataset it names.
func LoadURI(ctx context.Context, uri string, optFns ...Option) (Dataset, error) {
	store, name, err := OpenURI(ctx, uri)
	if err != nil {
		return nil, err
	}
	return Load(ctx, store, name, optFns...)
}
