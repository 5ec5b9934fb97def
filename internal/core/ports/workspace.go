package ports

// Workspace is an ephemeral directory owned by a single compiler run.
//
//go:generate go run go.uber.org/mock/mockgen -source=workspace.go -destination=mocks/mock_workspace.go -package=mocks
type Workspace interface {
	// Root returns the absolute path of the workspace directory.
	Root() string
	// Stage writes content at the logical path, creating parent directories.
	Stage(logical string, content []byte) error
	// Path resolves a logical path against the root without touching the file system.
	Path(logical string) (string, error)
	// Destroy removes the workspace tree. It is safe to call more than once.
	Destroy() error
}

// WorkspaceFactory allocates fresh workspaces.
type WorkspaceFactory interface {
	Create() (Workspace, error)
}
