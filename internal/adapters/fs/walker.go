// Package fs provides file system adapters for collecting and fingerprinting inputs.
package fs

import (
	"io/fs"
	"path/filepath"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Walk calls fn for every non-directory entry below root in lexical order,
// skipping entries whose base name matches one of the ignore patterns.
// It returns the first enumeration error, classified as domain.ErrIO, or the
// first error returned by fn.
func (w *Walker) Walk(root string, ignores []string, fn func(path string, d fs.DirEntry) error) error {
	var fnErr error
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return ioError(err, "failed to enumerate input directory", path)
		}

		if path != root && w.isIgnored(d.Name(), ignores) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if err := fn(path, d); err != nil {
			fnErr = err
			return filepath.SkipAll
		}
		return nil
	})
	if fnErr != nil {
		return fnErr
	}
	return walkErr
}

// isIgnored checks if a name matches one of the ignore patterns.
func (w *Walker) isIgnored(name string, ignores []string) bool {
	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}
