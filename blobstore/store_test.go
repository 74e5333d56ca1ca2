package blobstore

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"testing/iotest"

	atomicfs "github.com/hupe1980/clustergo/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Open(ctx, "missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "data/points.txt", []byte("0 0\n0 1\n")))
	require.NoError(t, s.Put(ctx, "data/other.txt", []byte("1 1\n")))
	require.NoError(t, s.Put(ctx, "results/run.json", []byte("{}")))

	names, err := s.List(ctx, "data/")
	require.NoError(t, err)
	assert.Equal(t, []string{"data/other.txt", "data/points.txt"}, names)

	b, err := s.Open(ctx, "data/points.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(8), b.Size())

	buf := make([]byte, 3)
	n, err := b.ReadAt(ctx, buf, 4)
	require.NoError(t, err)
	assert.Equal(t, "0 1", string(buf[:n]))

	rc, err := b.ReadRange(ctx, 2, 100)
	require.NoError(t, err)
	rest, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "0\n0 1\n", string(rest))
	require.NoError(t, rc.Close())
	require.NoError(t, b.Close())

	data, err := ReadAll(ctx, s, "data/points.txt")
	require.NoError(t, err)
	assert.Equal(t, "0 0\n0 1\n", string(data))

	// Put replaces.
	require.NoError(t, s.Put(ctx, "data/points.txt", []byte("5 5\n")))
	data, err = ReadAll(ctx, s, "data/points.txt")
	require.NoError(t, err)
	assert.Equal(t, "5 5\n", string(data))

	require.NoError(t, s.Delete(ctx, "data/points.txt"))
	require.NoError(t, s.Delete(ctx, "data/points.txt"))
	_, err = s.Open(ctx, "data/points.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore(t *testing.T) {
	testStore(t, NewLocalStore(t.TempDir()))
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestReadAll_EmptyBlob(t *testing.T) {
	ctx := context.Background()
	for _, s := range []Store{NewLocalStore(t.TempDir()), NewMemoryStore()} {
		require.NoError(t, s.Put(ctx, "empty", nil))
		data, err := ReadAll(ctx, s, "empty")
		require.NoError(t, err)
		assert.Empty(t, data)
	}
}

func TestNewReader(t *testing.T) {
	ctx := context.Background()
	content := []byte("0 0\n0 1\n10 0\n10 1\n")

	for _, s := range []Store{NewLocalStore(t.TempDir()), NewMemoryStore()} {
		require.NoError(t, s.Put(ctx, "points.txt", content))

		b, err := s.Open(ctx, "points.txt")
		require.NoError(t, err)

		r, err := NewReader(ctx, b)
		require.NoError(t, err)
		assert.NoError(t, iotest.TestReader(r, content))
		require.NoError(t, r.Close())

		rc, err := b.ReadRange(ctx, 4, 4)
		require.NoError(t, err)
		assert.NoError(t, iotest.TestReader(rc, content[4:8]))
		require.NoError(t, rc.Close())

		rc, err = b.ReadRange(ctx, b.Size(), 10)
		require.NoError(t, err)
		rest, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Empty(t, rest)
		require.NoError(t, b.Close())
	}
}

func TestMemoryStore_PutCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, s.Put(ctx, "x", data))
	data[0] = 'z'

	got, err := ReadAll(ctx, s, "x")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestLocalStore_PutFailureKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	fsys := atomicfs.NewFaultyFS(nil)
	s := newLocalStoreFS(root, fsys)
	require.NoError(t, s.Put(ctx, "results/run.result", []byte("v1")))

	fsys.AddRule("results", atomicfs.Fault{FailAfterBytes: -1, FailOnSync: true})
	err := s.Put(ctx, "results/run.result", []byte("v2"))
	assert.ErrorIs(t, err, atomicfs.ErrInjected)

	got, err := ReadAll(ctx, s, "results/run.result")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	names, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"results/run.result"}, names)
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	s := NewLocalStore(filepath.Join(t.TempDir(), "absent"))
	names, err := s.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}
