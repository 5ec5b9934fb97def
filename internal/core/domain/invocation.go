package domain

// Invocation describes one external process run.
type Invocation struct {
	// Command is the executable followed by its arguments.
	Command []string
	// WorkingDir is the directory the process starts in.
	WorkingDir string
	// Environment overrides the inherited environment.
	Environment map[string]string
	// Terminal runs the process attached to a pseudo-terminal.
	Terminal bool
}
