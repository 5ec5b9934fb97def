// Package workspace provides the ephemeral directories compilers run in.
package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/google/uuid"
	"go.trai.ch/texbox/internal/core/domain"
	"go.trai.ch/texbox/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.WorkspaceFactory = (*Factory)(nil)
	_ ports.Workspace        = (*Workspace)(nil)
)

// Factory creates uniquely named workspaces below a base directory.
type Factory struct {
	baseDir string
}

// NewFactory creates a Factory. An empty baseDir selects os.TempDir.
func NewFactory(baseDir string) *Factory {
	return &Factory{baseDir: baseDir}
}

// Create allocates a fresh, empty workspace directory.
func (f *Factory) Create() (ports.Workspace, error) {
	base := f.baseDir
	if base == "" {
		base = os.TempDir()
	}

	root := filepath.Join(base, domain.WorkspacePrefix+uuid.NewString())
	if err := os.Mkdir(root, 0o700); err != nil {
		return nil, ioError(err, "failed to create workspace", root)
	}

	// Resolve symlinked temp dirs (macOS /var -> /private/var) so Root matches
	// what the compiler sees as its working directory.
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	return &Workspace{root: root}, nil
}

// Workspace is a directory exclusively owned by one compiler run.
type Workspace struct {
	root string

	destroyOnce sync.Once
	destroyErr  error
}

// Root returns the absolute workspace path.
func (w *Workspace) Root() string {
	return w.root
}

// Path resolves a logical path below the root. It does not touch the disk.
func (w *Workspace) Path(logical string) (string, error) {
	cleaned, err := domain.CleanLogicalPath(logical)
	if err != nil {
		return "", err
	}
	return filepath.Join(w.root, filepath.FromSlash(cleaned)), nil
}

// Stage writes content at the logical path, creating parent directories.
// Symlinks already present in the workspace are resolved inside the root.
func (w *Workspace) Stage(logical string, content []byte) error {
	cleaned, err := domain.CleanLogicalPath(logical)
	if err != nil {
		return err
	}

	target, err := securejoin.SecureJoin(w.root, filepath.FromSlash(cleaned))
	if err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrPathEscape, err), "failed to resolve staged path"), "path", logical)
	}

	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return ioError(err, "failed to create staging directory", target)
	}

	if err := os.WriteFile(target, content, domain.FilePerm); err != nil {
		return ioError(err, "failed to stage input", target)
	}
	return nil
}

// Destroy removes the workspace tree. Later calls return the first result.
func (w *Workspace) Destroy() error {
	w.destroyOnce.Do(func() {
		if err := os.RemoveAll(w.root); err != nil {
			w.destroyErr = ioError(err, "failed to remove workspace", w.root)
		}
	})
	return w.destroyErr
}

func ioError(err error, msg, path string) error {
	return zerr.With(zerr.Wrap(errors.Join(domain.ErrIO, err), msg), "path", path)
}
