package domain

import "path/filepath"

const (
	// TexboxDirName is the name of the internal state directory next to texbox.yaml.
	TexboxDirName = ".texbox"

	// StoreDirName is the name of the build info store directory.
	StoreDirName = "store"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "texbox.yaml"

	// WorkspacePrefix prefixes every ephemeral workspace directory name.
	WorkspacePrefix = "texbox-"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultTexboxPath returns the state directory relative to the project root.
func DefaultTexboxPath() string {
	return TexboxDirName
}

// DefaultStorePath returns the build info store path relative to the project root.
// It joins .texbox and store.
func DefaultStorePath() string {
	return filepath.Join(TexboxDirName, StoreDirName)
}
