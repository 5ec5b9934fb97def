// Package linear renders build progress as chronological, prefixed log lines.
package linear

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/texbox/internal/core/ports"
	"go.trai.ch/texbox/internal/ui/output"
	"go.trai.ch/texbox/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// transcriptLines is how many trailing compiler lines are replayed when a document fails.
const transcriptLines = 40

// Renderer implements ports.Renderer.
//
// Root spans are documents. Output of nested spans (staging, compiler passes)
// is attributed to their document. Compiler output is streamed to stdout in
// verbose mode; otherwise the tail of it is replayed on stderr when the
// document fails.
type Renderer struct {
	stdout  io.Writer
	stderr  io.Writer
	output  *termenv.Output
	verbose bool

	mu       sync.Mutex
	spans    map[string]*spanState
	partials map[string]*bytes.Buffer
}

type spanState struct {
	name       string
	document   string
	root       bool
	startTime  time.Time
	transcript []string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithVerbose streams every compiler line and announces every step.
func WithVerbose(verbose bool) Option {
	return func(r *Renderer) {
		r.verbose = verbose
	}
}

// WithProfile selects the color profile used for status lines.
func WithProfile(profileFn func() termenv.Profile) Option {
	return func(r *Renderer) {
		r.output = output.NewWithProfile(r.stderr, profileFn)
	}
}

// NewRenderer creates a Renderer. Nil writers select os.Stdout and os.Stderr.
func NewRenderer(stdout, stderr io.Writer, opts ...Option) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	r := &Renderer{
		stdout:   stdout,
		stderr:   stderr,
		output:   output.NewWithProfile(stderr, output.ColorProfileANSI),
		spans:    make(map[string]*spanState),
		partials: make(map[string]*bytes.Buffer),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnPlanEmit prints the selected documents.
func (r *Renderer) OnPlanEmit(documents []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stderr, "Building %d document(s): %s\n", len(documents), strings.Join(documents, ", "))
}

// OnSpanStart records the span and announces documents.
func (r *Renderer) OnSpanStart(spanID, parentID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := &spanState{name: name, document: name, root: true, startTime: startTime}
	if parent, ok := r.spans[parentID]; ok {
		state.document = parent.document
		state.root = false
	}
	r.spans[spanID] = state
	r.partials[spanID] = new(bytes.Buffer)

	switch {
	case state.root:
		_, _ = fmt.Fprintf(r.stderr, "%s Compiling...\n", r.prefix(state.document))
	case r.verbose:
		_, _ = fmt.Fprintf(r.stderr, "%s %s\n", r.prefix(state.document), r.output.String(name).Faint())
	}
}

// OnSpanLog splits data into lines and attributes them to the span's document.
func (r *Renderer) OnSpanLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf, ok := r.partials[spanID]
	if !ok {
		return
	}
	buf.Write(data)

	for {
		i := bytes.IndexByte(buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(buf.Next(i + 1))
		r.lineLocked(spanID, line)
	}
}

// OnSpanEnd flushes the span and reports the outcome of documents.
func (r *Renderer) OnSpanEnd(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.spans[spanID]
	if !ok {
		return
	}
	r.flushLocked(spanID)

	if state.root {
		r.reportLocked(state, endTime.Sub(state.startTime), err)
		r.forgetDocumentLocked(state.document)
		return
	}

	delete(r.spans, spanID)
	delete(r.partials, spanID)
}

// OnSpanCached reports a document that did not need rebuilding.
func (r *Renderer) OnSpanCached(spanID string, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.spans[spanID]
	if !ok {
		return
	}
	if state.root {
		symbol := r.output.String(style.Tilde).Foreground(r.output.Color(string(style.Slate)))
		_, _ = fmt.Fprintf(r.stderr, "%s %s Up to date\n", r.prefix(state.document), symbol)
		r.forgetDocumentLocked(state.document)
		return
	}

	delete(r.spans, spanID)
	delete(r.partials, spanID)
}

// Flush writes buffered partial lines.
func (r *Renderer) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for spanID := range r.partials {
		r.flushLocked(spanID)
	}
	return nil
}

func (r *Renderer) reportLocked(state *spanState, duration time.Duration, err error) {
	prefix := r.prefix(state.document)
	duration = duration.Round(time.Millisecond)

	if err == nil {
		symbol := r.output.String(style.Check).Foreground(r.output.Color(string(style.Green)))
		_, _ = fmt.Fprintf(r.stderr, "%s %s Built in %v\n", prefix, symbol, duration)
		return
	}

	symbol := r.output.String(style.Cross).Foreground(r.output.Color(string(style.Red)))
	_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n", prefix, symbol, duration, err)

	if r.verbose {
		return
	}
	for _, line := range state.transcript {
		_, _ = fmt.Fprintf(r.stderr, "%s   %s\n", prefix, line)
	}
}

// lineLocked handles one complete line. Must be called with r.mu held.
func (r *Renderer) lineLocked(spanID, line string) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return
	}

	state := r.spans[spanID]
	if root := r.rootLocked(state.document); root != nil {
		root.transcript = append(root.transcript, line)
		if over := len(root.transcript) - transcriptLines; over > 0 {
			root.transcript = root.transcript[over:]
		}
	}

	if r.verbose {
		_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", state.document, line)
	}
}

// flushLocked emits a trailing partial line. Must be called with r.mu held.
func (r *Renderer) flushLocked(spanID string) {
	buf, ok := r.partials[spanID]
	if !ok || buf.Len() == 0 {
		return
	}
	line := buf.String()
	buf.Reset()
	r.lineLocked(spanID, line)
}

func (r *Renderer) rootLocked(document string) *spanState {
	for _, s := range r.spans {
		if s.root && s.document == document {
			return s
		}
	}
	return nil
}

func (r *Renderer) forgetDocumentLocked(document string) {
	for id, s := range r.spans {
		if s.document == document {
			delete(r.spans, id)
			delete(r.partials, id)
		}
	}
}

func (r *Renderer) prefix(document string) string {
	return r.output.String(fmt.Sprintf("[%s]", document)).Foreground(r.output.Color(string(style.Iris))).String()
}
