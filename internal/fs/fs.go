package fs

import (
	"io"
	"os"
	"path/filepath"
)

// File is a file opened for writing.
type File interface {
	io.Writer
	Name() string
	Sync() error
	Close() error
}

// FileSystem is the subset of file operations used to publish files
// atomically.
type FileSystem interface {
	CreateTemp(dir, pattern string) (File, error)
	Rename(oldpath, newpath string) error
	Remove(name string) error
	MkdirAll(path string, perm os.FileMode) error
}

// LocalFS implements FileSystem using the local os package.
type LocalFS struct{}

func (LocalFS) CreateTemp(dir, pattern string) (File, error) {
	return os.CreateTemp(dir, pattern)
}

func (LocalFS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }
func (LocalFS) Remove(name string) error             { return os.Remove(name) }
func (LocalFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Default is the default local file system.
var Default FileSystem = LocalFS{}

// WriteFileAtomic writes data to a temporary file next to path, syncs it and
// renames it into place. On failure the temporary file is removed and path is
// left untouched.
func WriteFileAtomic(fsys FileSystem, path string, data []byte, tmpPattern string) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := fsys.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = fsys.Remove(name)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = fsys.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = fsys.Remove(name)
		return err
	}
	if err := fsys.Rename(name, path); err != nil {
		_ = fsys.Remove(name)
		return err
	}
	return nil
}
