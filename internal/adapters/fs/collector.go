package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/texbox/internal/core/domain"
	"go.trai.ch/texbox/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Collector = (*Collector)(nil)

// Collector reads files and directory trees into an InputSet.
//
// Logical paths keep the path as given when it is local (relative and
// without ".." segments). Otherwise they are made relative to the parent of
// the collected path, so a directory keeps its own name as first segment.
type Collector struct {
	walker  *Walker
	ignores []string
	base    string
}

// NewCollector creates a new Collector. Entries whose base name matches one
// of the ignore patterns are skipped while walking directories.
func NewCollector(walker *Walker, ignores ...string) *Collector {
	return &Collector{walker: walker, ignores: ignores}
}

// Scoped returns a collector that names inputs lying below base relative to
// base, and that additionally skips entries matching ignores.
func (c *Collector) Scoped(base string, ignores ...string) ports.Collector {
	abs, err := filepath.Abs(base)
	if err != nil {
		abs = filepath.Clean(base)
	}
	merged := make([]string, 0, len(c.ignores)+len(ignores))
	merged = append(merged, c.ignores...)
	merged = append(merged, ignores...)
	return &Collector{walker: c.walker, ignores: merged, base: abs}
}

// Collect adds the file or directory at path to set.
// A path that does not exist, or that is neither a regular file nor a
// directory, contributes nothing.
func (c *Collector) Collect(set *domain.InputSet, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil
		}
		return ioError(err, "failed to stat input", path)
	}

	switch {
	case info.Mode().IsRegular():
		return c.AddFile(set, path)
	case info.IsDir():
		return c.AddFolder(set, path)
	default:
		return nil
	}
}

// CollectAll collects every path into a new InputSet.
func (c *Collector) CollectAll(paths ...string) (*domain.InputSet, error) {
	set := domain.NewInputSet()
	for _, path := range paths {
		if err := c.Collect(set, path); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// AddFile reads a single file into set.
func (c *Collector) AddFile(set *domain.InputSet, path string) error {
	return c.addFile(set, path, c.logicalBase(path))
}

// AddFolder reads every file below dir into set, keeping the directory
// structure in the logical paths. Symlinks to files and directories are
// followed; a link back into a directory being walked is skipped.
func (c *Collector) AddFolder(set *domain.InputSet, dir string) error {
	return c.addFolder(set, dir, c.logicalBase(dir), nil)
}

func (c *Collector) addFolder(set *domain.InputSet, dir, logical string, walking []string) error {
	root, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return ioError(err, "failed to resolve input directory", dir)
	}
	if root, err = filepath.Abs(root); err != nil {
		return ioError(err, "failed to resolve input directory", dir)
	}
	walking = append(walking, root)

	return c.walker.Walk(root, c.ignores, func(path string, d iofs.DirEntry) error {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return ioError(err, "failed to relativize input", path)
		}
		target := filepath.Join(logical, rel)

		if d.Type().IsRegular() {
			return c.addFile(set, path, target)
		}

		// Dangling links and special files contribute nothing.
		info, err := os.Stat(path)
		switch {
		case err != nil:
			return nil
		case info.Mode().IsRegular():
			return c.addFile(set, path, target)
		case !info.IsDir():
			return nil
		}

		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return ioError(err, "failed to resolve input directory", path)
		}
		if within(resolved, filepath.Dir(path)) {
			return nil
		}
		for _, ancestor := range walking {
			if within(resolved, ancestor) {
				return nil
			}
		}
		return c.addFolder(set, path, target, walking)
	})
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && filepath.IsLocal(rel)
}

func (c *Collector) addFile(set *domain.InputSet, path, logical string) error {
	//nolint:gosec // Input paths are chosen by the user
	content, err := os.ReadFile(path)
	if err != nil {
		return ioError(err, "failed to read input", path)
	}
	return set.Add(filepath.ToSlash(logical), content)
}

// logicalBase returns the logical name for a collected root path.
func (c *Collector) logicalBase(path string) string {
	if c.base != "" {
		if abs, err := filepath.Abs(path); err == nil {
			if rel, err := filepath.Rel(c.base, abs); err == nil && filepath.IsLocal(rel) {
				return rel
			}
		}
	}

	cleaned := filepath.Clean(path)
	if filepath.IsLocal(cleaned) {
		return cleaned
	}
	return filepath.Base(cleaned)
}

// ioError classifies err as domain.ErrIO while keeping the OS cause reachable.
func ioError(err error, msg, path string) error {
	return zerr.With(zerr.Wrap(errors.Join(domain.ErrIO, err), msg), "path", path)
}
