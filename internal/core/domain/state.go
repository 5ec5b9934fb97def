package domain

// BuildState is the lifecycle state of a single compiler run.
type BuildState string

const (
	// BuildStateConfigured means the workspace exists and nothing has been staged yet.
	BuildStateConfigured BuildState = "configured"
	// BuildStateStaged means every input was written into the workspace.
	BuildStateStaged BuildState = "staged"
	// BuildStateSucceeded means both passes ran and the artifact was read back.
	BuildStateSucceeded BuildState = "succeeded"
	// BuildStateFailed means the run ended with an error.
	BuildStateFailed BuildState = "failed"
)

// IsTerminal reports whether no further transition is possible.
func (s BuildState) IsTerminal() bool {
	return s == BuildStateSucceeded || s == BuildStateFailed
}

// String returns the state name.
func (s BuildState) String() string {
	return string(s)
}
