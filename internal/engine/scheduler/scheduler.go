// Package scheduler builds the documents of a project with bounded parallelism.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/texbox/internal/adapters/telemetry"
	"go.trai.ch/texbox/internal/core/domain"
	"go.trai.ch/texbox/internal/core/ports"
	"go.trai.ch/texbox/internal/engine/compiler"
	"go.trai.ch/zerr"
)

// DocumentStatus represents the status of a document within a run.
type DocumentStatus string

const (
	// StatusPending indicates the document is waiting to be built.
	StatusPending DocumentStatus = "Pending"
	// StatusRunning indicates the document is currently being built.
	StatusRunning DocumentStatus = "Running"
	// StatusCompleted indicates the document was compiled and written.
	StatusCompleted DocumentStatus = "Completed"
	// StatusFailed indicates the build of the document failed.
	StatusFailed DocumentStatus = "Failed"
	// StatusCached indicates the document was skipped because it was up to date.
	StatusCached DocumentStatus = "Cached"
)

// Scheduler manages the builds of a set of documents.
type Scheduler struct {
	collector     ports.Collector
	fingerprinter ports.Fingerprinter
	store         ports.BuildInfoStore
	tracer        ports.Tracer
	logger        ports.Logger
	compilerOpts  []compiler.Option

	mu     sync.RWMutex
	status map[string]DocumentStatus
}

// NewScheduler creates a new Scheduler. The compiler options are applied to
// every document build after the document's own settings. A nil store
// disables incremental builds.
func NewScheduler(
	collector ports.Collector,
	fingerprinter ports.Fingerprinter,
	store ports.BuildInfoStore,
	tracer ports.Tracer,
	logger ports.Logger,
	compilerOpts ...compiler.Option,
) *Scheduler {
	return &Scheduler{
		collector:     collector,
		fingerprinter: fingerprinter,
		store:         store,
		tracer:        tracer,
		logger:        logger,
		compilerOpts:  compilerOpts,
		status:        make(map[string]DocumentStatus),
	}
}

// Status returns the status of the named document in the last run.
func (s *Scheduler) Status(name string) DocumentStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[name]
}

func (s *Scheduler) updateStatus(name string, status DocumentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[name] = status
}

// Run builds the named documents, or every document when names is empty.
// Documents are independent, so a failure does not stop the others; all
// failures are joined into the returned error.
func (s *Scheduler) Run(
	ctx context.Context,
	project *domain.Project,
	names []string,
	parallelism int,
	noCache bool,
) error {
	docs, err := selectDocuments(project, names)
	if err != nil {
		return err
	}

	selected := make([]string, len(docs))
	for i, doc := range docs {
		selected[i] = doc.Name
		s.updateStatus(doc.Name, StatusPending)
	}
	s.tracer.EmitPlan(ctx, selected)

	state := s.newRunState(ctx, project.Root, docs, parallelism, noCache)

	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil && state.active == 0 {
			return errors.Join(state.errs, state.ctx.Err())
		}

		// At least one document is in flight here; cancellation reaches it
		// through the compiler's context.
		state.handleResult(<-state.resultsCh)
	}

	if state.ctx.Err() != nil {
		state.errs = errors.Join(state.errs, state.ctx.Err())
	}

	return state.errs
}

func selectDocuments(project *domain.Project, names []string) ([]*domain.Document, error) {
	if len(names) == 0 {
		names = project.Order
	}

	seen := make(map[string]bool, len(names))
	docs := make([]*domain.Document, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		doc, ok := project.Document(name)
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrDocumentNotFound, "unknown document"), "document", name)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

type result struct {
	document  *domain.Document
	skipped   bool
	inputHash string
	err       error
}

type schedulerRunState struct {
	root        string
	buildID     string
	noCache     bool
	ready       []*domain.Document
	active      int
	resultsCh   chan result
	errs        error
	ctx         context.Context
	parallelism int
	s           *Scheduler
}

func (s *Scheduler) newRunState(
	ctx context.Context,
	root string,
	docs []*domain.Document,
	parallelism int,
	noCache bool,
) *schedulerRunState {
	if parallelism < 1 {
		parallelism = 1
	}
	return &schedulerRunState{
		root:        root,
		buildID:     uuid.NewString(),
		noCache:     noCache,
		ready:       docs,
		resultsCh:   make(chan result, parallelism),
		ctx:         ctx,
		parallelism: parallelism,
		s:           s,
	}
}

func (state *schedulerRunState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *schedulerRunState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		doc := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.s.updateStatus(doc.Name, StatusRunning)

		go state.executeDocument(doc)
	}
}

func (state *schedulerRunState) executeDocument(doc *domain.Document) {
	// The span ends before the result is sent so the renderer has reported
	// the document by the time Run returns.
	res := func() result {
		ctx, span := state.s.tracer.Start(state.ctx, doc.Name)
		defer span.End()

		span.SetAttribute("texbox.build_id", state.buildID)

		inputs, err := state.s.collect(doc, state.root)
		if err != nil {
			span.RecordError(err)
			return result{document: doc, err: err}
		}

		hash := state.s.fingerprinter.Fingerprint(inputs, doc.Vars, doc.Compiler, doc.Main)
		span.SetAttribute("texbox.input_hash", hash)

		if !state.noCache {
			upToDate, err := state.s.upToDate(state.root, doc, hash)
			if err != nil {
				span.RecordError(err)
				return result{document: doc, err: err}
			}
			if upToDate {
				span.SetAttribute(telemetry.AttrCached, true)
				return result{document: doc, skipped: true, inputHash: hash}
			}
		}

		opts := append([]compiler.Option{
			compiler.WithSettings(doc.Compiler),
			compiler.WithTracer(state.s.tracer),
			compiler.WithLogger(state.s.logger),
		}, state.s.compilerOpts...)

		artifact, err := compiler.Compile(ctx, doc.Vars, doc.Main, inputs, opts...)
		if err != nil {
			span.RecordError(err)
			return result{document: doc, err: err}
		}

		if err := writeOutput(doc.Output, artifact); err != nil {
			span.RecordError(err)
			return result{document: doc, err: err}
		}

		return result{document: doc, inputHash: hash}
	}()

	state.resultsCh <- res
}

// collect reads the document inputs with logical paths relative to root.
func (s *Scheduler) collect(doc *domain.Document, root string) (*domain.InputSet, error) {
	collector := s.collector.Scoped(root, doc.Exclude...)
	set := domain.NewInputSet()
	for _, in := range doc.Inputs {
		if err := collector.Collect(set, in); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// upToDate reports whether the stored build matches hash and the output on
// disk is still the one that build wrote.
func (s *Scheduler) upToDate(root string, doc *domain.Document, hash string) (bool, error) {
	if s.store == nil {
		return false, nil
	}
	info, err := s.store.Get(root, doc.Name)
	if err != nil {
		return false, err
	}
	if info == nil || info.InputHash != hash || info.OutputPath != doc.Output {
		return false, nil
	}

	outputHash, err := s.fingerprinter.FileHash(doc.Output)
	if err != nil {
		// A missing or unreadable output is a cache miss.
		return false, nil //nolint:nilerr // treated as stale
	}
	return info.OutputHash == outputHash, nil
}

func writeOutput(path string, artifact []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrOutputWriteFailed, err), "failed to create output directory"), "path", path)
	}
	if err := os.WriteFile(path, artifact, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrOutputWriteFailed, err), "failed to write output"), "path", path)
	}
	return nil
}

func (state *schedulerRunState) handleResult(res result) {
	state.active--

	name := res.document.Name
	switch {
	case res.err != nil:
		wrappedErr := zerr.With(zerr.Wrap(res.err, "document build failed"), "document", name)
		state.errs = errors.Join(state.errs, wrappedErr)
		state.s.updateStatus(name, StatusFailed)
	case res.skipped:
		state.s.updateStatus(name, StatusCached)
	default:
		state.s.updateStatus(name, StatusCompleted)
		state.recordBuild(res)
	}
}

// recordBuild stores the build info. Failures are logged and leave the
// document built.
func (state *schedulerRunState) recordBuild(res result) {
	if state.s.store == nil {
		return
	}
	doc := res.document

	outputHash, err := state.s.fingerprinter.FileHash(doc.Output)
	if err != nil {
		state.s.logger.Warn(fmt.Sprintf("%s: not caching build: %v", doc.Name, err))
		return
	}

	err = state.s.store.Put(state.root, domain.BuildInfo{
		BuildID:    state.buildID,
		Document:   doc.Name,
		InputHash:  res.inputHash,
		OutputPath: doc.Output,
		OutputHash: outputHash,
		Timestamp:  time.Now(),
	})
	if err != nil {
		state.s.logger.Warn(fmt.Sprintf("%s: not caching build: %v", doc.Name, err))
	}
}
