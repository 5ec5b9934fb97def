package compiler

import (
	"maps"

	"go.trai.ch/texbox/internal/core/domain"
	"go.trai.ch/texbox/internal/core/ports"
)

// Option configures a Compiler before its workspace is created.
type Option func(*Compiler)

// WithCommand sets the compiler executable and its leading arguments.
func WithCommand(cmd domain.CommandSpec) Option {
	return func(c *Compiler) {
		c.command = cmd
	}
}

// WithOutputExt sets the extension of the artifact read back after both passes.
func WithOutputExt(ext string) Option {
	return func(c *Compiler) {
		if ext != "" {
			c.outputExt = ext
		}
	}
}

// WithEnvironment sets variables added to the compiler environment.
func WithEnvironment(env map[string]string) Option {
	return func(c *Compiler) {
		c.environment = maps.Clone(env)
	}
}

// WithTerminal runs the compiler attached to a pseudo-terminal.
func WithTerminal(enabled bool) Option {
	return func(c *Compiler) {
		c.terminal = enabled
	}
}

// WithStrictEncoding rejects non-UTF-8 inputs that contain placeholders.
// It has no effect together with WithSubstituter.
func WithStrictEncoding(enabled bool) Option {
	return func(c *Compiler) {
		c.strict = enabled
	}
}

// WithSettings applies every field of a document's compiler settings.
func WithSettings(settings domain.CompilerSettings) Option {
	return func(c *Compiler) {
		if !settings.Command.IsZero() {
			c.command = settings.Command
		}
		WithOutputExt(settings.OutputExt)(c)
		WithEnvironment(settings.Environment)(c)
		c.terminal = settings.Terminal
		c.strict = settings.StrictEncoding
	}
}

// WithExecutor replaces the process executor.
func WithExecutor(executor ports.Executor) Option {
	return func(c *Compiler) {
		c.executor = executor
	}
}

// WithTracer records the lifecycle steps as spans.
func WithTracer(tracer ports.Tracer) Option {
	return func(c *Compiler) {
		c.tracer = tracer
	}
}

// WithLogger sets the logger used for warnings and compiler output.
func WithLogger(logger ports.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithSubstituter replaces the placeholder engine.
func WithSubstituter(substituter ports.Substituter) Option {
	return func(c *Compiler) {
		c.substituter = substituter
	}
}

// WithWorkspaceFactory replaces the workspace allocator.
func WithWorkspaceFactory(factory ports.WorkspaceFactory) Option {
	return func(c *Compiler) {
		c.factory = factory
	}
}

// WithTempDir creates the workspace below dir instead of the system temp directory.
func WithTempDir(dir string) Option {
	return func(c *Compiler) {
		c.tempDir = dir
	}
}
