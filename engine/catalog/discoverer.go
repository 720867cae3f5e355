package catalog

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// DefaultExcludes skips editor and backup artifacts that often sit next to
// stream documents.
var DefaultExcludes = []string{
	"**/.#*",
	"**/*~",
	"**/*.bak",
	"**/*.swp",
	"**/*.tmp",
	"**/._*",
}

// Discoverer finds stream documents under the root of a filesystem.
type Discoverer struct {
	fs afero.Fs
}

func NewDiscoverer(fs afero.Fs) *Discoverer {
	return &Discoverer{fs: fs}
}

// Discover returns the sorted, de-duplicated set of files that match any
// include pattern and no exclude pattern. Patterns use doublestar syntax and
// are relative to the filesystem root.
func (d *Discoverer) Discover(includes, excludes []string) ([]string, error) {
	if len(includes) == 0 {
		return []string{}, nil
	}
	iofs := afero.NewIOFS(d.fs)
	seen := make(map[string]struct{})
	for _, pattern := range includes {
		clean, err := validatePattern(pattern)
		if err != nil {
			return nil, err
		}
		matches, err := doublestar.Glob(iofs, clean, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			seen[match] = struct{}{}
		}
	}
	patterns := slices.Concat(DefaultExcludes, excludes)
	files := make([]string, 0, len(seen))
	for file := range seen {
		if excluded(file, patterns) {
			continue
		}
		files = append(files, file)
	}
	slices.Sort(files)
	return files, nil
}

// Match reports whether the slash separated file, relative to the root,
// would be discovered with the given patterns. Invalid include patterns
// match nothing.
func (d *Discoverer) Match(file string, includes, excludes []string) bool {
	file = path.Clean(strings.ReplaceAll(file, "\\", "/"))
	for _, pattern := range includes {
		clean, err := validatePattern(pattern)
		if err != nil {
			continue
		}
		if ok, err := doublestar.Match(clean, file); err == nil && ok {
			return !excluded(file, slices.Concat(DefaultExcludes, excludes))
		}
	}
	return false
}

// validatePattern rejects patterns that could escape the root.
func validatePattern(pattern string) (string, error) {
	slashed := strings.ReplaceAll(pattern, "\\", "/")
	if strings.HasPrefix(slashed, "/") {
		return "", fmt.Errorf("INVALID_PATTERN: absolute paths not allowed: %s", pattern)
	}
	clean := path.Clean(slashed)
	if slices.Contains(strings.Split(clean, "/"), "..") {
		return "", fmt.Errorf("INVALID_PATTERN: parent directory references not allowed: %s", pattern)
	}
	if !doublestar.ValidatePattern(clean) {
		return "", fmt.Errorf("INVALID_PATTERN: malformed glob: %s", pattern)
	}
	return clean, nil
}

func excluded(file string, patterns []string) bool {
	base := path.Base(file)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, file); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}
