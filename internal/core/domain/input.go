package domain

import (
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Input is a single named file handed to the compiler.
type Input struct {
	// Path is the logical, forward-slash separated path relative to the workspace root.
	Path string
	// Content is the raw file content.
	Content []byte
}

// InputSet is an ordered list of inputs with unique logical paths.
//
// Adding a path that is already present replaces its content but keeps the
// position of the first occurrence (last write wins).
type InputSet struct {
	entries []Input
	index   map[string]int
}

// NewInputSet creates an empty InputSet.
func NewInputSet() *InputSet {
	return &InputSet{index: make(map[string]int)}
}

// Add appends an input or replaces the content of an existing one.
func (s *InputSet) Add(name string, content []byte) error {
	logical, err := CleanLogicalPath(name)
	if err != nil {
		return err
	}

	if s.index == nil {
		s.index = make(map[string]int)
	}

	if i, ok := s.index[logical]; ok {
		s.entries[i].Content = content
		return nil
	}

	s.index[logical] = len(s.entries)
	s.entries = append(s.entries, Input{Path: logical, Content: content})
	return nil
}

// Len returns the number of inputs.
func (s *InputSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// IsEmpty reports whether the set holds no inputs.
func (s *InputSet) IsEmpty() bool {
	return s.Len() == 0
}

// Get returns the content stored for a logical path.
func (s *InputSet) Get(name string) ([]byte, bool) {
	if s == nil {
		return nil, false
	}
	logical, err := CleanLogicalPath(name)
	if err != nil {
		return nil, false
	}
	i, ok := s.index[logical]
	if !ok {
		return nil, false
	}
	return s.entries[i].Content, true
}

// Entries returns a copy of the inputs in insertion order.
func (s *InputSet) Entries() []Input {
	if s == nil {
		return nil
	}
	return slices.Clone(s.entries)
}

// Paths returns the logical paths in insertion order.
func (s *InputSet) Paths() []string {
	if s == nil {
		return nil
	}
	paths := make([]string, len(s.entries))
	for i, in := range s.entries {
		paths[i] = in.Path
	}
	return paths
}

// CleanLogicalPath normalizes a logical path to forward slashes and rejects
// empty, absolute and parent-traversing paths. Backslashes are separators
// only where the OS treats them as such.
func CleanLogicalPath(name string) (string, error) {
	if name == "" {
		return "", ErrEmptyPath
	}

	slashed := filepath.ToSlash(name)
	if strings.HasPrefix(slashed, "/") || hasVolume(slashed) {
		return "", zerr.With(zerr.Wrap(ErrPathEscape, "absolute logical path"), "path", name)
	}

	for _, segment := range strings.Split(slashed, "/") {
		if segment == ".." {
			return "", zerr.With(zerr.Wrap(ErrPathEscape, "parent traversal in logical path"), "path", name)
		}
	}

	cleaned := path.Clean(slashed)
	if cleaned == "." {
		return "", zerr.With(zerr.Wrap(ErrEmptyPath, "logical path resolves to root"), "path", name)
	}
	return cleaned, nil
}

// hasVolume reports whether a slashed path starts with a Windows drive letter.
func hasVolume(p string) bool {
	return len(p) >= 2 && p[1] == ':' &&
		((p[0] >= 'a' && p[0] <= 'z') || (p[0] >= 'A' && p[0] <= 'Z'))
}
