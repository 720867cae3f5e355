// Package fsys adapts an afero filesystem to the capability the stream
// engine uses for output path validation.
package fsys

import (
	"github.com/spf13/afero"

	"github.com/amstokely/xml-stream-parser/engine/stream"
)

const dirPerm = 0o755

// FS implements stream.FileSystem on top of afero. Every failure is reported
// through the boolean result.
type FS struct {
	fs afero.Fs
}

var _ stream.FileSystem = (*FS)(nil)

func New(fs afero.Fs) *FS {
	return &FS{fs: fs}
}

// NewOS returns an FS backed by the host filesystem.
func NewOS() *FS {
	return New(afero.NewOsFs())
}

func (f *FS) Exists(path string) bool {
	ok, err := afero.Exists(f.fs, path)
	return err == nil && ok
}

// CreateDirectories creates path with any missing parents. A path that
// already exists as a directory counts as success.
func (f *FS) CreateDirectories(path string) bool {
	if err := f.fs.MkdirAll(path, dirPerm); err != nil {
		return false
	}
	ok, err := afero.IsDir(f.fs, path)
	return err == nil && ok
}

// CanWrite reports whether any write permission bit is set on path.
func (f *FS) CanWrite(path string) bool {
	info, err := f.fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().Perm()&0o222 != 0
}
