package stream

import (
	"path/filepath"
	"strings"
)

// FileSystem is the filesystem capability used for output path checks.
// Every method reports failure through its return value.
type FileSystem interface {
	Exists(path string) bool
	// CreateDirectories creates path and its parents. It returns true when
	// the directory exists afterwards, including when it already existed.
	CreateDirectories(path string) bool
	CanWrite(path string) bool
}

// OutputDirectory returns the directory portion of a filename template, or
// "" when the template has none. Placeholders such as $Y are left as is.
func OutputDirectory(filenameTemplate string) string {
	if !strings.ContainsRune(filenameTemplate, '/') {
		return ""
	}
	return filepath.Dir(filenameTemplate)
}

// ValidateOutputPath makes sure an output-capable stream can write into the
// directory of its filename template, creating it when missing. Input-only
// streams and templates without a directory never touch the filesystem.
func ValidateOutputPath(fs FileSystem, r Resolved) error {
	if !r.Direction.Writes() {
		return nil
	}
	dir := OutputDirectory(r.FilenameTemplate)
	if dir == "" {
		return nil
	}
	if !fs.Exists(dir) && !fs.CreateDirectories(dir) {
		return &Error{Code: CodeDirectoryCreateFailed, StreamID: r.StreamID, Attribute: AttrFilenameTemplate, Path: dir}
	}
	if !fs.CanWrite(dir) {
		return &Error{Code: CodeDirectoryNotWritable, StreamID: r.StreamID, Attribute: AttrFilenameTemplate, Path: dir}
	}
	return nil
}
