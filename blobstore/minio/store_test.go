package minio

import (
	"context"
	"os"
	"testing"

	"github.com/hupe1980/clustergo/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ blobstore.Store = (*Store)(nil)

func TestOpen_BuildsClient(t *testing.T) {
	t.Setenv("MINIO_ACCESS_KEY", "access")
	t.Setenv("MINIO_SECRET_KEY", "secret")
	t.Setenv("MINIO_INSECURE", "true")

	store, err := Open("localhost:9000", "datasets", "runs")
	require.NoError(t, err)
	assert.Equal(t, "runs/pts.txt", store.key("pts.txt"))
	assert.Equal(t, "datasets", store.bucket)
}

func TestOpen_InvalidEndpoint(t *testing.T) {
	_, err := Open("http://localhost:9000/with/path", "datasets", "")
	assert.Error(t, err)
}

// TestStore_Integration runs against a live server when MINIO_ENDPOINT is set.
func TestStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	bucket := os.Getenv("MINIO_BUCKET")
	if endpoint == "" || bucket == "" {
		t.Skip("MINIO_ENDPOINT and MINIO_BUCKET not set")
	}

	store, err := Open(endpoint, bucket, "clustergo-test")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "points.txt", []byte("0 0\n1 1\n")))
	t.Cleanup(func() { _ = store.Delete(ctx, "points.txt") })

	data, err := blobstore.ReadAll(ctx, store, "points.txt")
	require.NoError(t, err)
	assert.Equal(t, "0 0\n1 1\n", string(data))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "points.txt")

	_, err = store.Open(ctx, "missing.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
