package resultstore

import (
	"context"
	"testing"

	"github.com/hupe1980/clustergo/blobstore"
	"github.com/hupe1980/clustergo/codec"
	"github.com/hupe1980/clustergo/internal/compress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID         string      `json:"id"`
	Centroids  [][]float64 `json:"centroids"`
	Assignment []int       `json:"assignment"`
	Iterations int         `json:"iterations"`
}

func sample(id string) record {
	return record{
		ID:         id,
		Centroids:  [][]float64{{0, 0.5}, {10, 0.5}},
		Assignment: []int{0, 0, 1, 1},
		Iterations: 1,
	}
}

func TestEncodeDecode(t *testing.T) {
	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		for _, typ := range []compress.Type{compress.None, compress.LZ4, compress.Zstd} {
			t.Run(c.Name()+"/"+typ.String(), func(t *testing.T) {
				data, err := Encode(sample("a"), c, typ)
				require.NoError(t, err)

				var got record
				require.NoError(t, Decode(data, typ, &got))
				assert.Equal(t, sample("a"), got)
			})
		}
	}
}

func TestDecode_Header(t *testing.T) {
	data, err := Encode(sample("a"), codec.JSON{}, compress.None)
	require.NoError(t, err)
	assert.Contains(t, string(data), "CLUSTERGO 1 json\n")

	var got record
	assert.ErrorIs(t, Decode([]byte(`{"id":"a"}`), compress.None, &got), ErrBadHeader)
	assert.ErrorIs(t, Decode([]byte("CLUSTERGO 9 json\n{}"), compress.None, &got), ErrUnsupportedVersion)
	assert.ErrorIs(t, Decode([]byte("CLUSTERGO 1 gob\n{}"), compress.None, &got), ErrUnknownCodec)
	assert.Error(t, Decode([]byte("CLUSTERGO 1 json\n{"), compress.None, &got))
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	stores := map[string]blobstore.Store{
		"memory": blobstore.NewMemoryStore(),
		"local":  blobstore.NewLocalStore(t.TempDir()),
	}
	for name, blobs := range stores {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Put(ctx, blobs, "out/run.result.zst", sample("x"), nil))

			var got record
			require.NoError(t, Get(ctx, blobs, "out/run.result.zst", &got))
			assert.Equal(t, sample("x"), got)

			assert.ErrorIs(t, Get(ctx, blobs, "out/missing.result", &got), blobstore.ErrNotFound)
		})
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	s := New(blobs, "results", func(o *Options) {
		o.Codec = codec.JSON{}
		o.Compression = compress.LZ4
	})

	var got record
	_, err := s.LoadCurrent(ctx, &got)
	assert.ErrorIs(t, err, ErrNoCurrent)

	name, err := s.Save(ctx, "run-b", sample("run-b"))
	require.NoError(t, err)
	assert.Equal(t, "results/run-b.result.lz4", name)

	_, err = s.Save(ctx, "run-a", sample("run-a"))
	require.NoError(t, err)

	current, err := s.LoadCurrent(ctx, &got)
	require.NoError(t, err)
	assert.Equal(t, "results/run-a.result.lz4", current)
	assert.Equal(t, "run-a", got.ID)

	require.NoError(t, s.Load(ctx, "run-b", &got))
	assert.Equal(t, "run-b", got.ID)

	ids, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-a", "run-b"}, ids)

	_, err = s.Save(ctx, "../escape", sample("x"))
	assert.Error(t, err)
}
