package shell_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/texbox/internal/adapters/shell"
	"go.trai.ch/texbox/internal/core/domain"
	"go.trai.ch/texbox/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newExecutor(t *testing.T) *shell.Executor {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()
	return shell.NewExecutor(mockLogger)
}

func TestExecutor_Execute_MultiLineOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	gomock.InOrder(
		mockLogger.EXPECT().Debug("line1"),
		mockLogger.EXPECT().Debug("line2"),
	)

	executor := shell.NewExecutor(mockLogger)
	inv := &domain.Invocation{
		Command:    []string{"sh", "-c", "echo line1; echo line2"},
		WorkingDir: t.TempDir(),
	}

	var stdout bytes.Buffer
	require.NoError(t, executor.Execute(context.Background(), inv, &stdout, io.Discard))
	assert.Equal(t, "line1\nline2\n", stdout.String())
}

func TestExecutor_Execute_FragmentedOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug("part1part2").Times(1)

	executor := shell.NewExecutor(mockLogger)
	inv := &domain.Invocation{
		Command:    []string{"sh", "-c", "printf part1; sleep 0.1; echo part2"},
		WorkingDir: t.TempDir(),
	}

	require.NoError(t, executor.Execute(context.Background(), inv, io.Discard, io.Discard))
}

func TestExecutor_Execute_UnterminatedLineIsFlushed(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug("no newline").Times(1)

	executor := shell.NewExecutor(mockLogger)
	inv := &domain.Invocation{Command: []string{"sh", "-c", "printf 'no newline'"}}

	require.NoError(t, executor.Execute(context.Background(), inv, io.Discard, io.Discard))
}

func TestExecutor_Execute_StderrIsLoggedAsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		var zErr *zerr.Error
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, "warning", zErr.Message())
	}).Times(1)

	executor := shell.NewExecutor(mockLogger)
	inv := &domain.Invocation{Command: []string{"sh", "-c", "echo warning >&2"}}

	var stderr bytes.Buffer
	require.NoError(t, executor.Execute(context.Background(), inv, io.Discard, &stderr))
	assert.Equal(t, "warning\n", stderr.String())
}

func TestExecutor_Execute_WorkingDir(t *testing.T) {
	executor := newExecutor(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.tex"), []byte("x"), 0o600))

	inv := &domain.Invocation{
		Command:    []string{"sh", "-c", "ls"},
		WorkingDir: dir,
	}

	var stdout bytes.Buffer
	require.NoError(t, executor.Execute(context.Background(), inv, &stdout, io.Discard))
	assert.Contains(t, stdout.String(), "main.tex")
}

func TestExecutor_Execute_Environment(t *testing.T) {
	t.Setenv("BIBINPUTS", "/srv/bib")
	t.Setenv("TEXMFCNF", "/srv/texmf-cnf")
	t.Setenv("TEXINPUTS", "/usr/share/texmf")
	executor := newExecutor(t)

	inv := &domain.Invocation{
		Command:     []string{"sh", "-c", `echo "$BIBINPUTS|$TEXMFCNF|$TEXINPUTS"`},
		Environment: map[string]string{"TEXINPUTS": ".:./styles:"},
	}

	var stdout bytes.Buffer
	require.NoError(t, executor.Execute(context.Background(), inv, &stdout, io.Discard))
	assert.Equal(t, "/srv/bib|/srv/texmf-cnf|.:./styles:\n", stdout.String())
}

func TestExecutor_Execute_NonZeroExit(t *testing.T) {
	executor := newExecutor(t)
	inv := &domain.Invocation{Command: []string{"sh", "-c", "exit 42"}}

	err := executor.Execute(context.Background(), inv, io.Discard, io.Discard)
	require.ErrorIs(t, err, domain.ErrCommandFailed)
	assert.NotErrorIs(t, err, domain.ErrProcessInvocation)
	assert.Contains(t, err.Error(), "command failed")
}

func TestExecutor_Execute_InvalidCommand(t *testing.T) {
	executor := newExecutor(t)
	inv := &domain.Invocation{Command: []string{"nonexistent-command-xyz123"}}

	err := executor.Execute(context.Background(), inv, io.Discard, io.Discard)
	require.ErrorIs(t, err, domain.ErrProcessInvocation)
	assert.NotErrorIs(t, err, domain.ErrCommandFailed)
}

func TestExecutor_Execute_NotExecutable(t *testing.T) {
	executor := newExecutor(t)
	script := filepath.Join(t.TempDir(), "compiler")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho hi\n"), 0o600))

	err := executor.Execute(context.Background(), &domain.Invocation{Command: []string{script}}, io.Discard, io.Discard)
	require.ErrorIs(t, err, domain.ErrProcessInvocation)
}

func TestExecutor_Execute_EmptyCommand(t *testing.T) {
	executor := newExecutor(t)

	err := executor.Execute(context.Background(), &domain.Invocation{}, io.Discard, io.Discard)
	require.ErrorIs(t, err, domain.ErrEmptyCommand)
}

func TestExecutor_Execute_AbsolutePath(t *testing.T) {
	executor := newExecutor(t)
	inv := &domain.Invocation{Command: []string{"/bin/sh", "-c", "echo test"}}

	require.NoError(t, executor.Execute(context.Background(), inv, io.Discard, io.Discard))
}

func TestExecutor_Execute_ResolvesFromInvocationPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug("success").Times(1)

	binDir := t.TempDir()
	//nolint:gosec // Test requires executable file
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "fakelatex"), []byte("#!/bin/sh\necho success\n"), 0o700))

	executor := shell.NewExecutor(mockLogger)
	inv := &domain.Invocation{
		Command:     []string{"fakelatex"},
		Environment: map[string]string{"PATH": binDir + string(os.PathListSeparator) + "/bin:/usr/bin"},
	}

	require.NoError(t, executor.Execute(context.Background(), inv, io.Discard, io.Discard))
}

func TestExecutor_Execute_ContextCanceled(t *testing.T) {
	executor := newExecutor(t)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	inv := &domain.Invocation{Command: []string{"sh", "-c", "exec sleep 10"}}

	start := time.Now()
	err := executor.Execute(ctx, inv, io.Discard, io.Discard)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExecutor_Execute_Terminal(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty not available: %v", err)
	}
	_ = tty.Close()
	_ = ptmx.Close()

	executor := newExecutor(t)
	inv := &domain.Invocation{
		Command:  []string{"sh", "-c", "if [ -t 1 ]; then echo tty; else echo pipe; fi; echo err >&2"},
		Terminal: true,
	}

	var stdout bytes.Buffer
	require.NoError(t, executor.Execute(context.Background(), inv, &stdout, io.Discard))

	out := strings.ReplaceAll(stdout.String(), "\r", "")
	assert.Contains(t, out, "tty\n")
	assert.Contains(t, out, "err\n")
}
