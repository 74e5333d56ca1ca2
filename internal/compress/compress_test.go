package compress

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	data := []byte(strings.Repeat("0.5 1.5\n10 11\n", 200))

	for _, typ := range []Type{None, LZ4, Zstd} {
		t.Run(typ.String(), func(t *testing.T) {
			packed, err := Compress(data, typ)
			require.NoError(t, err)
			if typ != None {
				assert.Less(t, len(packed), len(data))
			}

			unpacked, err := Decompress(packed, typ)
			require.NoError(t, err)
			assert.Equal(t, data, unpacked)

			r, err := NewReader(bytes.NewReader(packed), typ)
			require.NoError(t, err)
			streamed, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, data, streamed)
		})
	}
}

func TestFromName(t *testing.T) {
	assert.Equal(t, LZ4, FromName("points.txt.lz4"))
	assert.Equal(t, Zstd, FromName("s3/points.ZST"))
	assert.Equal(t, Zstd, FromName("result.json.zstd"))
	assert.Equal(t, None, FromName("points.txt"))
}

func TestParse(t *testing.T) {
	for name, expected := range map[string]Type{"": None, "none": None, "LZ4": LZ4, "zstd": Zstd, "zst": Zstd} {
		got, err := Parse(name)
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	}

	_, err := Parse("gzip")
	assert.Error(t, err)

	assert.Equal(t, ".zst", Zstd.Extension())
	assert.Equal(t, ".lz4", LZ4.Extension())
	assert.Equal(t, "", None.Extension())
	assert.Equal(t, "Unknown(9)", Type(9).String())
}

func TestUnknownType(t *testing.T) {
	_, err := NewReader(bytes.NewReader(nil), Type(9))
	assert.Error(t, err)

	_, err = NewWriter(io.Discard, Type(9))
	assert.Error(t, err)
}
