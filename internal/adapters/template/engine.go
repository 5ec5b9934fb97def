// Package template implements the ##key## placeholder substitution applied to inputs before staging.
package template

import (
	"bytes"
	"regexp"
	"unicode/utf8"

	"go.trai.ch/texbox/internal/core/domain"
	"go.trai.ch/texbox/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Substituter = (*Engine)(nil)

// Delimiter opens and closes every placeholder.
const Delimiter = "##"

var (
	delimiter        = []byte(Delimiter)
	placeholderRegex = regexp.MustCompile(`##[A-Za-z0-9_-]+##`)
)

// Engine replaces placeholders of the form ##key## with dictionary values.
//
// Unknown keys are replaced by nothing. Bytes outside placeholders are copied
// unchanged, and buffers that are not valid UTF-8 are passed through untouched
// unless the engine is strict.
type Engine struct {
	strict bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrict makes Substitute fail with domain.ErrEncoding when a buffer that is
// not valid UTF-8 contains placeholder syntax, instead of passing it through.
func WithStrict() Option {
	return func(e *Engine) {
		e.strict = true
	}
}

// New creates a new Engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Substitute returns content with every placeholder replaced.
// When nothing needs replacing the input slice itself is returned.
func (e *Engine) Substitute(content []byte, vars domain.Vars) ([]byte, error) {
	if !bytes.Contains(content, delimiter) {
		return content, nil
	}

	if !utf8.Valid(content) {
		if e.strict && placeholderRegex.Match(content) {
			return nil, zerr.With(zerr.Wrap(domain.ErrEncoding, "placeholders found in binary content"), "size", len(content))
		}
		return content, nil
	}

	matches := placeholderRegex.FindAllIndex(content, -1)
	if len(matches) == 0 {
		return content, nil
	}

	out := make([]byte, 0, len(content))
	last := 0
	for _, m := range matches {
		out = append(out, content[last:m[0]]...)
		key := string(content[m[0]+len(delimiter) : m[1]-len(delimiter)])
		if value, ok := vars[key]; ok {
			out = append(out, value...)
		}
		last = m[1]
	}
	return append(out, content[last:]...), nil
}

// Keys returns the placeholder keys referenced in content, in order of appearance.
func Keys(content []byte) []string {
	matches := placeholderRegex.FindAll(content, -1)
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		keys = append(keys, string(m[len(delimiter):len(m)-len(delimiter)]))
	}
	return keys
}
