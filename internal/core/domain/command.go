package domain

import "slices"

const (
	// DefaultCompiler is the executable invoked when no command is configured.
	DefaultCompiler = "pdflatex"

	// DefaultCompilerFlag keeps the compiler from waiting for terminal input on errors.
	DefaultCompilerFlag = "-interaction=nonstopmode"

	// DefaultOutputExt is the extension of the artifact produced by the default compiler.
	DefaultOutputExt = ".pdf"
)

// CommandSpec describes the compiler executable and its leading arguments.
//
// A CommandSpec is a value: every With*/Add* call returns a new spec and
// never mutates the arguments of the receiver.
type CommandSpec struct {
	Name string
	Args []string
}

// DefaultCommand returns the non-interactive pdflatex invocation.
func DefaultCommand() CommandSpec {
	return CommandSpec{
		Name: DefaultCompiler,
		Args: []string{DefaultCompilerFlag},
	}
}

// WithCmd returns a copy of the spec using a different executable.
func (c CommandSpec) WithCmd(name string) CommandSpec {
	return CommandSpec{Name: name, Args: slices.Clone(c.Args)}
}

// WithArgs returns a copy of the spec whose argument list is replaced by args.
func (c CommandSpec) WithArgs(args ...string) CommandSpec {
	return CommandSpec{Name: c.Name, Args: slices.Clone(args)}
}

// AddArg returns a copy of the spec with arg appended to the argument list.
func (c CommandSpec) AddArg(arg string) CommandSpec {
	args := make([]string, 0, len(c.Args)+1)
	args = append(args, c.Args...)
	return CommandSpec{Name: c.Name, Args: append(args, arg)}
}

// Argv returns the full command line for compiling entry.
func (c CommandSpec) Argv(entry string) []string {
	argv := make([]string, 0, len(c.Args)+2)
	argv = append(argv, c.Name)
	argv = append(argv, c.Args...)
	return append(argv, entry)
}

// IsZero reports whether no executable is set.
func (c CommandSpec) IsZero() bool {
	return c.Name == ""
}
