package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/texbox/internal/adapters/fs"
	"go.trai.ch/texbox/internal/adapters/workspace"
	"go.trai.ch/texbox/internal/app"
	"go.trai.ch/texbox/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	loader   *mocks.MockConfigLoader
	logger   *mocks.MockLogger
	provider ComponentProvider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		loader: mocks.NewMockConfigLoader(ctrl),
		logger: mocks.NewMockLogger(ctrl),
	}
	application := app.New(
		f.loader,
		fs.NewCollector(fs.NewWalker(), fs.DefaultIgnores...),
		fs.NewFingerprinter(),
		mocks.NewMockBuildInfoStore(ctrl),
		mocks.NewMockExecutor(ctrl),
		workspace.NewFactory(t.TempDir()),
		mocks.NewMockWatcherFactory(ctrl),
		f.logger,
	)
	f.provider = func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: f.logger}, func() {}, nil
	}
	return f
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	f := newFixture(t)

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, f.provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that errors are logged and exit with 1.
func TestRun_ExecutionError(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(".").Return(nil, errors.New("load failed"))
	f.logger.EXPECT().Error(gomock.Any()).Times(1)

	exitCode := run(context.Background(), []string{"build"}, new(bytes.Buffer), f.provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_BuildFailureIsNotLoggedTwice verifies that failed documents are
// reported by the renderer only.
func TestRun_BuildFailureIsNotLoggedTwice(t *testing.T) {
	t.Chdir(t.TempDir())
	f := newFixture(t)

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(),
		[]string{"compile", "missing.tex", "--output", "plain"},
		stderr,
		f.provider,
	)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "[missing] ✗ Failed")
}
