package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "run.result")

	require.NoError(t, WriteFileAtomic(Default, path, []byte("first"), ".tmp-*"))
	require.NoError(t, WriteFileAtomic(Default, path, []byte("second"), ".tmp-*"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assertNoTemp(t, filepath.Dir(path))
}

func TestWriteFileAtomic_Faults(t *testing.T) {
	custom := errors.New("disk full")

	tests := []struct {
		name  string
		fault Fault
		want  error
	}{
		{name: "write", fault: Fault{FailAfterBytes: 3, Err: custom}, want: custom},
		{name: "sync", fault: Fault{FailAfterBytes: -1, FailOnSync: true}, want: ErrInjected},
		{name: "close", fault: Fault{FailAfterBytes: -1, FailOnClose: true}, want: ErrInjected},
		{name: "rename", fault: Fault{FailAfterBytes: -1, FailOnRename: true}, want: ErrInjected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "run.result")
			require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

			fsys := NewFaultyFS(nil)
			fsys.AddRule(dir, tt.fault)

			err := WriteFileAtomic(fsys, path, []byte("new contents"), ".tmp-*")
			assert.ErrorIs(t, err, tt.want)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "old", string(data))
			assertNoTemp(t, dir)
		})
	}
}

func TestFaultyFS_NoRule(t *testing.T) {
	dir := t.TempDir()
	fsys := NewFaultyFS(nil)
	fsys.AddRule("elsewhere", Fault{FailOnSync: true})

	path := filepath.Join(dir, "ok.txt")
	require.NoError(t, WriteFileAtomic(fsys, path, []byte("ok"), ".tmp-*"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}

func assertNoTemp(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
