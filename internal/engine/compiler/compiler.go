// Package compiler orchestrates a single isolated build: it stages the
// substituted inputs into a fresh workspace, runs the compiler twice and
// reads back the artifact.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"sync"
	"unicode/utf8"

	"go.trai.ch/texbox/internal/adapters/shell"
	"go.trai.ch/texbox/internal/adapters/telemetry"
	"go.trai.ch/texbox/internal/adapters/template"
	"go.trai.ch/texbox/internal/adapters/workspace"
	"go.trai.ch/texbox/internal/core/domain"
	"go.trai.ch/texbox/internal/core/ports"
	"go.trai.ch/zerr"
)

// Passes is the number of compiler invocations per run. The second pass
// resolves the references recorded in the auxiliary files of the first.
const Passes = 2

// Span names emitted by Run.
const (
	SpanStage   = "workspace.stage"
	SpanPass    = "compile.pass"
	SpanCollect = "artifact.collect"
)

// Compiler owns one workspace and compiles exactly one document in it.
type Compiler struct {
	vars        domain.Vars
	command     domain.CommandSpec
	outputExt   string
	environment map[string]string
	terminal    bool
	strict      bool
	tempDir     string

	executor    ports.Executor
	tracer      ports.Tracer
	logger      ports.Logger
	substituter ports.Substituter
	factory     ports.WorkspaceFactory

	workspace ports.Workspace
	cleanup   runtime.Cleanup

	mu      sync.Mutex
	state   domain.BuildState
	running bool
	closed  bool
}

// New creates a Compiler and allocates its workspace. The workspace is
// removed by Close, or by the garbage collector once an unclosed Compiler
// becomes unreachable.
func New(vars domain.Vars, opts ...Option) (*Compiler, error) {
	if err := vars.Validate(); err != nil {
		return nil, err
	}

	c := &Compiler{
		vars:      vars,
		command:   domain.DefaultCommand(),
		outputExt: domain.DefaultOutputExt,
		state:     domain.BuildStateConfigured,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.applyDefaults()

	if c.command.IsZero() {
		return nil, domain.ErrEmptyCommand
	}

	ws, err := c.factory.Create()
	if err != nil {
		return nil, err
	}
	c.workspace = ws
	c.cleanup = runtime.AddCleanup(c, destroyWorkspace, ws)

	return c, nil
}

func (c *Compiler) applyDefaults() {
	if c.logger == nil {
		c.logger = discardLogger{}
	}
	if c.tracer == nil {
		c.tracer = telemetry.NewNoOpTracer()
	}
	if c.executor == nil {
		c.executor = shell.NewExecutor(c.logger)
	}
	if c.substituter == nil {
		if c.strict {
			c.substituter = template.New(template.WithStrict())
		} else {
			c.substituter = template.New()
		}
	}
	if c.factory == nil {
		c.factory = workspace.NewFactory(c.tempDir)
	}
}

// Root returns the workspace directory.
func (c *Compiler) Root() string {
	return c.workspace.Root()
}

// State returns the current lifecycle state.
func (c *Compiler) State() domain.BuildState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Run stages inputs, compiles entry twice and returns the artifact bytes.
//
// A Compiler runs at most once. The artifact lives in the workspace and is
// removed by Close, so callers must persist the returned bytes themselves.
func (c *Compiler) Run(ctx context.Context, entry string, inputs *domain.InputSet) (artifact []byte, err error) {
	if inputs.IsEmpty() {
		return nil, domain.ErrNoInput
	}

	logical, err := domain.CleanLogicalPath(entry)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid entry"), "entry", entry)
	}

	if err := c.acquire(); err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			c.release(domain.BuildStateFailed)
		} else {
			c.release(domain.BuildStateSucceeded)
		}
	}()

	if err := c.stage(ctx, inputs); err != nil {
		return nil, err
	}
	c.setState(domain.BuildStateStaged)

	for pass := 1; pass <= Passes; pass++ {
		if err := c.compile(ctx, logical, pass); err != nil {
			return nil, err
		}
	}

	return c.collect(ctx, logical)
}

// Close removes the workspace. It is safe to call more than once and while a
// run is in progress, in which case removal happens when the run returns.
func (c *Compiler) Close() error {
	c.mu.Lock()
	c.closed = true
	running := c.running
	c.mu.Unlock()

	if running {
		return nil
	}
	return c.destroy()
}

func (c *Compiler) destroy() error {
	if err := c.workspace.Destroy(); err != nil {
		return err
	}
	c.cleanup.Stop()
	return nil
}

func destroyWorkspace(ws ports.Workspace) {
	_ = ws.Destroy()
}

func (c *Compiler) acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return domain.ErrCompilerClosed
	case c.running:
		return domain.ErrCompilerBusy
	case c.state.IsTerminal():
		return domain.ErrCompilerUsed
	}

	c.running = true
	return nil
}

func (c *Compiler) release(state domain.BuildState) {
	c.mu.Lock()
	c.state = state
	c.running = false
	closed := c.closed
	c.mu.Unlock()

	if closed {
		if err := c.destroy(); err != nil {
			c.logger.Error(err)
		}
	}
}

func (c *Compiler) setState(state domain.BuildState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

func (c *Compiler) stage(ctx context.Context, inputs *domain.InputSet) error {
	_, span := c.tracer.Start(ctx, SpanStage)
	defer span.End()

	span.SetAttribute("texbox.inputs", inputs.Len())

	for _, in := range inputs.Entries() {
		c.warnUnresolved(in)
		content, err := c.substituter.Substitute(in.Content, c.vars)
		if err != nil {
			err = zerr.With(zerr.Wrap(err, "failed to substitute input"), "path", in.Path)
			span.RecordError(err)
			return err
		}
		if err := c.workspace.Stage(in.Path, content); err != nil {
			span.RecordError(err)
			return err
		}
	}
	return nil
}

// warnUnresolved reports placeholders in a text input that have no value and
// will therefore be removed.
func (c *Compiler) warnUnresolved(in domain.Input) {
	if !utf8.Valid(in.Content) {
		return
	}
	seen := make(map[string]struct{})
	for _, key := range template.Keys(in.Content) {
		if _, ok := c.vars[key]; ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		c.logger.Warn(fmt.Sprintf("%s: no value for placeholder %s%s%s", in.Path, template.Delimiter, key, template.Delimiter))
	}
}

func (c *Compiler) compile(ctx context.Context, entry string, pass int) error {
	ctx, span := c.tracer.Start(ctx, SpanPass)
	defer span.End()

	span.SetAttribute("texbox.pass", pass)
	span.SetAttribute("texbox.entry", entry)

	inv := &domain.Invocation{
		Command:     c.command.Argv(entry),
		WorkingDir:  c.workspace.Root(),
		Environment: c.environment,
		Terminal:    c.terminal,
	}

	err := c.executor.Execute(ctx, inv, span, span)
	switch {
	case err == nil:
		return nil
	case ctx.Err() == nil && errors.Is(err, domain.ErrCommandFailed):
		// Compilers exit non-zero on recoverable errors; the artifact decides.
		span.SetAttribute("texbox.exit_error", err.Error())
		c.logger.Warn(fmt.Sprintf("%s: pass %d exited with an error: %v", entry, pass, err))
		return nil
	default:
		err = zerr.With(zerr.With(zerr.Wrap(err, "compiler pass failed"), "entry", entry), "pass", pass)
		span.RecordError(err)
		return err
	}
}

func (c *Compiler) collect(ctx context.Context, entry string) ([]byte, error) {
	_, span := c.tracer.Start(ctx, SpanCollect)
	defer span.End()

	name := domain.ArtifactName(entry, c.outputExt)
	span.SetAttribute("texbox.artifact", name)

	path, err := c.workspace.Path(name)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		err = zerr.With(zerr.With(zerr.Wrap(domain.ErrCompilation, "artifact not found"), "entry", entry), "artifact", name)
		span.RecordError(err)
		return nil, err
	case err != nil:
		err = zerr.With(zerr.Wrap(errors.Join(domain.ErrIO, err), "failed to read artifact"), "path", path)
		span.RecordError(err)
		return nil, err
	}

	return data, nil
}

// Compile runs a throwaway Compiler: New, Run and Close.
func Compile(ctx context.Context, vars domain.Vars, entry string, inputs *domain.InputSet, opts ...Option) (artifact []byte, err error) {
	c, err := New(vars, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := c.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return c.Run(ctx, entry, inputs)
}

type discardLogger struct{}

func (discardLogger) Debug(string) {}
func (discardLogger) Info(string)  {}
func (discardLogger) Warn(string)  {}
func (discardLogger) Error(error)  {}
