package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/texbox/internal/adapters/cas"
	"go.trai.ch/texbox/internal/adapters/fs"
	"go.trai.ch/texbox/internal/adapters/workspace"
	"go.trai.ch/texbox/internal/app"
	"go.trai.ch/texbox/internal/core/domain"
	"go.trai.ch/texbox/internal/core/ports"
	"go.trai.ch/texbox/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// fakeCompile writes "%PDF " followed by the staged entry as the artifact.
func fakeCompile(_ context.Context, inv *domain.Invocation, _, _ io.Writer) error {
	entry := inv.Command[len(inv.Command)-1]
	content, err := os.ReadFile(filepath.Join(inv.WorkingDir, filepath.FromSlash(entry)))
	if err != nil {
		return err
	}
	artifact := filepath.Join(inv.WorkingDir, domain.ArtifactName(entry, ".pdf"))
	return os.WriteFile(artifact, append([]byte("%PDF "), content...), 0o600)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newProject(t *testing.T, names ...string) *domain.Project {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "shared", "preamble.tex"), `\usepackage{graphicx}`)

	project := &domain.Project{
		Root:       root,
		ConfigPath: filepath.Join(root, domain.ConfigFileName),
		Documents:  map[string]*domain.Document{},
	}
	for _, name := range names {
		writeFile(t, filepath.Join(root, name+".tex"), "Hello ##name## by ##author##")
		project.Documents[name] = &domain.Document{
			Name:   name,
			Main:   name + ".tex",
			Inputs: []string{filepath.Join(root, name+".tex"), filepath.Join(root, "shared")},
			Output: filepath.Join(root, "out", name+".pdf"),
			Vars:   domain.Vars{"name": name, "author": "Jane"},
			Compiler: domain.CompilerSettings{
				Command:   domain.DefaultCommand(),
				OutputExt: domain.DefaultOutputExt,
			},
		}
		project.Order = append(project.Order, name)
	}
	return project
}

type fixture struct {
	loader   *mocks.MockConfigLoader
	executor *mocks.MockExecutor
	watchers *mocks.MockWatcherFactory
	logger   *mocks.MockLogger
	stdout   *syncBuffer
	stderr   *syncBuffer
	app      *app.App
}

// syncBuffer is written by the renderer while watch tests read it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		loader:   mocks.NewMockConfigLoader(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		watchers: mocks.NewMockWatcherFactory(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		stdout:   new(syncBuffer),
		stderr:   new(syncBuffer),
	}
	f.app = app.New(
		f.loader,
		fs.NewCollector(fs.NewWalker(), fs.DefaultIgnores...),
		fs.NewFingerprinter(),
		cas.NewStore(),
		f.executor,
		workspace.NewFactory(t.TempDir()),
		f.watchers,
		f.logger,
	).WithOutput(f.stdout, f.stderr)
	return f
}

// countRuns makes the executor compile with fakeCompile and counts invocations.
func (f *fixture) countRuns() *atomic.Int32 {
	var runs atomic.Int32
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, inv *domain.Invocation, stdout, stderr io.Writer) error {
			runs.Add(1)
			return fakeCompile(ctx, inv, stdout, stderr)
		}).AnyTimes()
	return &runs
}

var plain = app.BuildOptions{OutputMode: "plain", Jobs: 2}

func TestApp_Build(t *testing.T) {
	f := newFixture(t)
	project := newProject(t, "card", "letter")
	f.loader.EXPECT().Load(".").Return(project, nil).Times(2)
	runs := f.countRuns()

	require.NoError(t, f.app.Build(context.Background(), nil, plain))
	assert.Equal(t, int32(4), runs.Load())
	assert.Equal(t, "%PDF Hello card by Jane", readFile(t, project.Documents["card"].Output))
	assert.Equal(t, "%PDF Hello letter by Jane", readFile(t, project.Documents["letter"].Output))

	report := f.stderr.String()
	assert.Contains(t, report, "Building 2 document(s): card, letter\n")
	assert.Contains(t, report, "[card] ✓ Built in")
	assert.Contains(t, report, "[letter] ✓ Built in")
	assert.Empty(t, f.stdout.String())

	f.stderr.Reset()
	require.NoError(t, f.app.Build(context.Background(), []string{"card"}, plain))
	assert.Equal(t, int32(4), runs.Load())
	assert.Contains(t, f.stderr.String(), "[card] ~ Up to date\n")
}

func TestApp_Build_Verbose(t *testing.T) {
	f := newFixture(t)
	project := newProject(t, "card")
	f.loader.EXPECT().Load(".").Return(project, nil)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, inv *domain.Invocation, stdout, stderr io.Writer) error {
			_, _ = io.WriteString(stdout, "This is pdfTeX\n")
			return fakeCompile(ctx, inv, stdout, stderr)
		}).Times(2)

	opts := plain
	opts.Verbose = true
	require.NoError(t, f.app.Build(context.Background(), nil, opts))
	assert.Equal(t, "[card] This is pdfTeX\n[card] This is pdfTeX\n", f.stdout.String())
}

func TestApp_Build_SetOverridesVars(t *testing.T) {
	f := newFixture(t)
	project := newProject(t, "card")
	f.loader.EXPECT().Load("texbox.yaml").Return(project, nil)
	f.countRuns()

	opts := plain
	opts.ConfigPath = "texbox.yaml"
	opts.Set = domain.Vars{"author": "Max"}
	require.NoError(t, f.app.Build(context.Background(), nil, opts))
	assert.Equal(t, "%PDF Hello card by Max", readFile(t, project.Documents["card"].Output))
}

func TestApp_Build_InvalidSet(t *testing.T) {
	f := newFixture(t)

	opts := plain
	opts.Set = domain.Vars{"not valid": "x"}
	err := f.app.Build(context.Background(), nil, opts)
	require.ErrorIs(t, err, domain.ErrInvalidVarKey)
}

func TestApp_Build_UnknownDocument(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(".").Return(newProject(t, "card"), nil)

	err := f.app.Build(context.Background(), []string{"missing"}, plain)
	require.ErrorIs(t, err, domain.ErrDocumentNotFound)
	assert.NotErrorIs(t, err, domain.ErrBuildExecutionFailed)
	assert.Empty(t, f.stderr.String())
}

func TestApp_Build_ConfigLoaderError(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(".").Return(nil, domain.ErrConfigNotFound)

	err := f.app.Build(context.Background(), nil, plain)
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestApp_Build_ExecutionFailed(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(".").Return(newProject(t, "card"), nil)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *domain.Invocation, stdout, _ io.Writer) error {
			_, _ = io.WriteString(stdout, "! Undefined control sequence.\n")
			return nil
		}).Times(2)

	err := f.app.Build(context.Background(), nil, plain)
	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	require.ErrorIs(t, err, domain.ErrCompilation)

	report := f.stderr.String()
	assert.Contains(t, report, "[card] ✗ Failed after")
	assert.Contains(t, report, "[card]   ! Undefined control sequence.\n")
}

func TestApp_Compile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "card.tex"), "Dear ##name##")
	writeFile(t, filepath.Join(dir, "assets", "logo.png"), "png")

	f := newFixture(t)
	var staged []string
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, inv *domain.Invocation, stdout, stderr io.Writer) error {
			assert.Equal(t, []string{"lualatex", "--shell-escape", "card.tex"}, inv.Command)
			staged = staged[:0]
			entries, _ := os.ReadDir(inv.WorkingDir)
			for _, e := range entries {
				staged = append(staged, e.Name())
			}
			return fakeCompile(ctx, inv, stdout, stderr)
		}).Times(2)

	err := f.app.Compile(context.Background(), app.CompileOptions{
		Entry:      "card.tex",
		Inputs:     []string{"card.tex", "assets"},
		Set:        domain.Vars{"name": "Ada"},
		Command:    domain.CommandSpec{Name: "lualatex", Args: []string{"--shell-escape"}},
		OutputMode: "plain",
	})
	require.NoError(t, err)

	assert.Equal(t, "%PDF Dear Ada", readFile(t, filepath.Join(dir, "card.pdf")))
	assert.Contains(t, staged, "assets")
	assert.Contains(t, staged, "card.tex")
	assert.NoDirExists(t, filepath.Join(dir, domain.TexboxDirName))
}

func TestApp_Compile_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "src", "letter.tex"), "Hi ##name##!")
	out := filepath.Join(t.TempDir(), "letter-final.pdf")

	f := newFixture(t)
	f.logger.EXPECT().Warn("src/letter.tex: no value for placeholder ##name##")
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, inv *domain.Invocation, stdout, stderr io.Writer) error {
			assert.Equal(t, domain.DefaultCommand().Argv("src/letter.tex"), inv.Command)
			return fakeCompile(ctx, inv, stdout, stderr)
		}).Times(2)

	err := f.app.Compile(context.Background(), app.CompileOptions{
		Entry:      filepath.Join(dir, "src", "letter.tex"),
		Output:     out,
		OutputMode: "plain",
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF Hi !", readFile(t, out))
}

func TestApp_Compile_Errors(t *testing.T) {
	t.Chdir(t.TempDir())
	f := newFixture(t)

	err := f.app.Compile(context.Background(), app.CompileOptions{Entry: "../card.tex"})
	require.ErrorIs(t, err, domain.ErrPathEscape)

	err = f.app.Compile(context.Background(), app.CompileOptions{Entry: "card.tex", Set: domain.Vars{"a b": ""}})
	require.ErrorIs(t, err, domain.ErrInvalidVarKey)

	// Nothing to collect.
	err = f.app.Compile(context.Background(), app.CompileOptions{Entry: "card.tex", OutputMode: "plain"})
	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	require.ErrorIs(t, err, domain.ErrNoInput)
}

func TestApp_Clean(t *testing.T) {
	f := newFixture(t)
	project := newProject(t, "card")
	writeFile(t, filepath.Join(project.Root, domain.DefaultStorePath(), "info.json"), "{}")
	writeFile(t, project.Documents["card"].Output, "%PDF")

	f.loader.EXPECT().Load(".").Return(project, nil).Times(2)
	f.logger.EXPECT().Info(gomock.Any()).Times(2)

	require.NoError(t, f.app.Clean(context.Background(), app.CleanOptions{}))
	assert.NoDirExists(t, filepath.Join(project.Root, domain.TexboxDirName))
	assert.FileExists(t, project.Documents["card"].Output)

	f.logger.EXPECT().Info(gomock.Any()).Times(4)
	require.NoError(t, f.app.Clean(context.Background(), app.CleanOptions{Outputs: true}))
	assert.NoFileExists(t, project.Documents["card"].Output)
}

func TestApp_Clean_ConfigError(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load("elsewhere").Return(nil, domain.ErrConfigNotFound)

	err := f.app.Clean(context.Background(), app.CleanOptions{ConfigPath: "elsewhere"})
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}

// fakeWatcher feeds events from a channel until stopped.
type fakeWatcher struct {
	events chan ports.WatchEvent
	paths  chan []string
	once   sync.Once
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{events: make(chan ports.WatchEvent), paths: make(chan []string, 1)}
}

func (w *fakeWatcher) Start(_ context.Context, paths []string) error {
	w.paths <- paths
	return nil
}

func (w *fakeWatcher) Stop() error {
	w.once.Do(func() { close(w.events) })
	return nil
}

func (w *fakeWatcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

func TestApp_Watch(t *testing.T) {
	f := newFixture(t)
	f.app.WithDebounceWindow(10 * time.Millisecond)
	project := newProject(t, "card", "letter")
	root := project.Root
	runs := f.countRuns()

	w := newFakeWatcher()
	f.watchers.EXPECT().NewWatcher().Return(w, nil)
	f.loader.EXPECT().Load(".").Return(project, nil)
	f.loader.EXPECT().Load(project.ConfigPath).Return(project, nil)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() {
		errCh <- f.app.Watch(ctx, nil, plain)
	}()

	paths := <-w.paths
	assert.Equal(t, []string{
		project.ConfigPath,
		filepath.Join(root, "card.tex"),
		filepath.Join(root, "shared"),
		filepath.Join(root, "letter.tex"),
	}, paths)
	assert.Equal(t, int32(4), runs.Load())

	// An edit rebuilds the affected document only.
	writeFile(t, filepath.Join(root, "card.tex"), "Changed ##name##")
	w.events <- ports.WatchEvent{Path: filepath.Join(root, "card.tex"), Operation: ports.OpWrite}
	w.events <- ports.WatchEvent{Path: filepath.Join(root, "card.tex"), Operation: ports.OpWrite}
	require.Eventually(t, func() bool { return runs.Load() == 6 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "%PDF Changed card", readFile(t, project.Documents["card"].Output))

	// Outputs and unrelated paths are ignored.
	w.events <- ports.WatchEvent{Path: project.Documents["card"].Output, Operation: ports.OpWrite}
	w.events <- ports.WatchEvent{Path: filepath.Join(root, "notes.txt"), Operation: ports.OpCreate}

	// A shared input affects both documents.
	writeFile(t, filepath.Join(root, "shared", "preamble.tex"), `\usepackage{tikz}`)
	w.events <- ports.WatchEvent{Path: filepath.Join(root, "shared", "preamble.tex"), Operation: ports.OpWrite}
	require.Eventually(t, func() bool { return runs.Load() == 10 }, 5*time.Second, 10*time.Millisecond)

	// The config file reloads the project; nothing changed, so all is cached.
	w.events <- ports.WatchEvent{Path: project.ConfigPath, Operation: ports.OpWrite}
	require.Eventually(t, func() bool {
		return strings.Contains(f.stderr.String(), "[letter] ~ Up to date")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.Equal(t, int32(10), runs.Load())
}

func TestApp_Watch_WatcherError(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(".").Return(newProject(t, "card"), nil)
	f.countRuns()
	errBoom := errors.New("too many open files")
	f.watchers.EXPECT().NewWatcher().Return(nil, errBoom)

	err := f.app.Watch(context.Background(), nil, plain)
	require.ErrorIs(t, err, errBoom)
}

func TestApp_Watch_UnknownDocument(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(".").Return(newProject(t, "card"), nil)

	err := f.app.Watch(context.Background(), []string{"missing"}, plain)
	require.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestApp_Watch_StartError(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(".").Return(newProject(t, "card"), nil)
	f.countRuns()

	ctrl := gomock.NewController(t)
	w := mocks.NewMockWatcher(ctrl)
	errBoom := errors.New("inotify limit reached")
	w.EXPECT().Start(gomock.Any(), gomock.Any()).Return(errBoom)
	w.EXPECT().Stop().Return(nil)
	f.watchers.EXPECT().NewWatcher().Return(w, nil)

	err := f.app.Watch(context.Background(), []string{"card"}, plain)
	require.ErrorIs(t, err, errBoom)
}
