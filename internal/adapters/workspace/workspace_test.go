package workspace_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/texbox/internal/adapters/workspace"
	"go.trai.ch/texbox/internal/core/domain"
)

func TestFactory_Create_Unique(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	factory := workspace.NewFactory(base)

	w1, err := factory.Create()
	require.NoError(t, err)
	w2, err := factory.Create()
	require.NoError(t, err)

	assert.NotEqual(t, w1.Root(), w2.Root())
	assert.True(t, strings.HasPrefix(filepath.Base(w1.Root()), domain.WorkspacePrefix))
	assert.DirExists(t, w1.Root())

	entries, err := os.ReadDir(w1.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFactory_Create_MissingBase(t *testing.T) {
	t.Parallel()

	_, err := workspace.NewFactory(filepath.Join(t.TempDir(), "missing")).Create()
	require.ErrorIs(t, err, domain.ErrIO)
}

func TestWorkspace_Stage(t *testing.T) {
	t.Parallel()

	ws, err := workspace.NewFactory(t.TempDir()).Create()
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Destroy() })

	require.NoError(t, ws.Stage("main.tex", []byte("top")))
	require.NoError(t, ws.Stage("assets/nested/main.tex", []byte("nested")))

	got, err := os.ReadFile(filepath.Join(ws.Root(), "main.tex"))
	require.NoError(t, err)
	assert.Equal(t, "top", string(got))

	got, err = os.ReadFile(filepath.Join(ws.Root(), "assets", "nested", "main.tex"))
	require.NoError(t, err)
	assert.Equal(t, "nested", string(got))
}

func TestWorkspace_Stage_Rejects(t *testing.T) {
	t.Parallel()

	ws, err := workspace.NewFactory(t.TempDir()).Create()
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Destroy() })

	require.ErrorIs(t, ws.Stage("../escape.tex", nil), domain.ErrPathEscape)
	require.ErrorIs(t, ws.Stage("/abs.tex", nil), domain.ErrPathEscape)
	require.ErrorIs(t, ws.Stage("", nil), domain.ErrEmptyPath)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(ws.Root()), "escape.tex"))
}

func TestWorkspace_Stage_SymlinkStaysInside(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	outside := filepath.Join(base, "outside")
	require.NoError(t, os.Mkdir(outside, 0o750))

	ws, err := workspace.NewFactory(base).Create()
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Destroy() })

	require.NoError(t, os.Symlink(outside, filepath.Join(ws.Root(), "link")))
	require.NoError(t, ws.Stage("link/file.tex", []byte("x")))

	assert.NoFileExists(t, filepath.Join(outside, "file.tex"))
}

func TestWorkspace_Path(t *testing.T) {
	t.Parallel()

	ws, err := workspace.NewFactory(t.TempDir()).Create()
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Destroy() })

	p, err := ws.Path("out/main.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ws.Root(), "out", "main.pdf"), p)

	_, err = ws.Path("../main.pdf")
	require.ErrorIs(t, err, domain.ErrPathEscape)
}

func TestWorkspace_Destroy(t *testing.T) {
	t.Parallel()

	ws, err := workspace.NewFactory(t.TempDir()).Create()
	require.NoError(t, err)
	require.NoError(t, ws.Stage("a/b/c.tex", []byte("x")))

	require.NoError(t, ws.Destroy())
	assert.NoDirExists(t, ws.Root())
	require.NoError(t, ws.Destroy())
}
