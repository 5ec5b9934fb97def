package domain

import "go.trai.ch/zerr"

var (
	// ErrNoInput is returned when a compilation is requested without any input files.
	ErrNoInput = zerr.New("no input files provided")

	// ErrIO is returned when a file system operation fails while collecting, staging or reading back files.
	ErrIO = zerr.New("file system operation failed")

	// ErrEncoding is returned when a buffer containing placeholders cannot be validated as text.
	ErrEncoding = zerr.New("input is not valid utf-8 text")

	// ErrCompilation is returned when the compiler finished both passes but produced no artifact.
	ErrCompilation = zerr.New("compilation produced no artifact")

	// ErrProcessInvocation is returned when the compiler executable could not be started.
	ErrProcessInvocation = zerr.New("failed to start compiler")

	// ErrPathEscape is returned when a logical path is absolute or traverses outside the workspace root.
	ErrPathEscape = zerr.New("path escapes workspace root")

	// ErrEmptyPath is returned when an input is added without a logical path.
	ErrEmptyPath = zerr.New("empty logical path")

	// ErrCompilerUsed is returned when Run is called on a compiler that already ran once.
	ErrCompilerUsed = zerr.New("compiler workspace already used, create a new compiler per run")

	// ErrCompilerBusy is returned when Run is called while another Run is in progress.
	ErrCompilerBusy = zerr.New("compiler is already running")

	// ErrCompilerClosed is returned when Run is called after Close.
	ErrCompilerClosed = zerr.New("compiler is closed")

	// ErrEmptyCommand is returned when the compiler command has no executable.
	ErrEmptyCommand = zerr.New("compiler command is empty")

	// ErrInvalidVarKey is returned when a template variable key contains characters outside [A-Za-z0-9_-].
	ErrInvalidVarKey = zerr.New("variable keys can only contain alphanumeric characters, hyphens and underscores")

	// ErrConfigNotFound is returned when no texbox.yaml can be found.
	ErrConfigNotFound = zerr.New("could not find texbox.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidDocumentName is returned when a document name contains invalid characters.
	ErrInvalidDocumentName = zerr.New("document names can only contain alphanumeric characters, hyphens and underscores")

	// ErrMissingMainFile is returned when a document does not declare its main file.
	ErrMissingMainFile = zerr.New("document has no main file")

	// ErrMissingInputs is returned when a document declares no input paths.
	ErrMissingInputs = zerr.New("document has no inputs")

	// ErrDocumentNotFound is returned when a requested document is not defined in the config.
	ErrDocumentNotFound = zerr.New("document not found")

	// ErrNoDocuments is returned when the config defines no documents.
	ErrNoDocuments = zerr.New("no documents defined")

	// ErrStoreCreateFailed is returned when the build info store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create build info store directory")

	// ErrStoreReadFailed is returned when the build info cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build info")

	// ErrStoreUnmarshalFailed is returned when the build info cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build info")

	// ErrStoreMarshalFailed is returned when the build info cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build info")

	// ErrStoreWriteFailed is returned when the build info cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build info")

	// ErrOutputWriteFailed is returned when a compiled artifact cannot be written to its output path.
	ErrOutputWriteFailed = zerr.New("failed to write output file")

	// ErrBuildExecutionFailed is returned when at least one document failed to build.
	ErrBuildExecutionFailed = zerr.New("build execution failed")
)

var (
	// ErrCommandFailed is returned by executors when the process exited with a non-zero status.
	ErrCommandFailed = zerr.New("command failed")
)
