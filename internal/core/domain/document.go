package domain

import (
	"path/filepath"
	"strings"
)

// CompilerSettings configures how a document is compiled.
type CompilerSettings struct {
	Command        CommandSpec
	OutputExt      string
	Environment    map[string]string
	Terminal       bool
	StrictEncoding bool
}

// Document is a single compilation target declared in texbox.yaml.
type Document struct {
	// Name identifies the document on the command line.
	Name string
	// Main is the entry file handed to the compiler, relative to the workspace root.
	Main string
	// Inputs are file or directory paths collected into the InputSet.
	Inputs []string
	// Exclude lists base-name patterns skipped while collecting directories.
	Exclude []string
	// Output is where the compiled artifact is written.
	Output string
	// Vars is the template dictionary, already merged with project-level vars.
	Vars Vars
	// Compiler holds the effective compiler settings.
	Compiler CompilerSettings
}

// Project is the loaded configuration: a root directory and its documents.
type Project struct {
	Root       string
	ConfigPath string
	Documents  map[string]*Document
	// Order lists the document names sorted for deterministic iteration.
	Order []string
}

// Document returns the named document.
func (p *Project) Document(name string) (*Document, bool) {
	doc, ok := p.Documents[name]
	return doc, ok
}

// ArtifactName returns the file name the compiler produces for entry:
// the base name of entry without its extension, followed by ext.
func ArtifactName(entry, ext string) string {
	base := filepath.Base(filepath.FromSlash(entry))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return stem + ext
}
