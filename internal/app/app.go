// Package app implements the application layer for texbox.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.trai.ch/texbox/internal/adapters/detector"
	"go.trai.ch/texbox/internal/adapters/linear"
	"go.trai.ch/texbox/internal/adapters/telemetry"
	"go.trai.ch/texbox/internal/adapters/watcher"
	"go.trai.ch/texbox/internal/core/domain"
	"go.trai.ch/texbox/internal/core/ports"
	"go.trai.ch/texbox/internal/engine/compiler"
	"go.trai.ch/texbox/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader  ports.ConfigLoader
	collector     ports.Collector
	fingerprinter ports.Fingerprinter
	store         ports.BuildInfoStore
	executor      ports.Executor
	workspaces    ports.WorkspaceFactory
	watchers      ports.WatcherFactory
	logger        ports.Logger

	stdout         io.Writer
	stderr         io.Writer
	debounceWindow time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	collector ports.Collector,
	fingerprinter ports.Fingerprinter,
	store ports.BuildInfoStore,
	executor ports.Executor,
	workspaces ports.WorkspaceFactory,
	watchers ports.WatcherFactory,
	log ports.Logger,
) *App {
	return &App{
		configLoader:   loader,
		collector:      collector,
		fingerprinter:  fingerprinter,
		store:          store,
		executor:       executor,
		workspaces:     workspaces,
		watchers:       watchers,
		logger:         log,
		stdout:         os.Stdout,
		stderr:         os.Stderr,
		debounceWindow: watcher.DefaultDebounceWindow,
	}
}

// WithOutput redirects the build report.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithDebounceWindow sets how long watch mode waits for changes to settle.
func (a *App) WithDebounceWindow(window time.Duration) *App {
	a.debounceWindow = window
	return a
}

// BuildOptions configuration for the Build and Watch methods.
type BuildOptions struct {
	// ConfigPath is the texbox.yaml file, or a directory to search from.
	ConfigPath string
	// Set overrides template variables of every document.
	Set domain.Vars
	NoCache bool
	// Jobs bounds how many documents compile at once. Zero means one per CPU.
	Jobs       int
	Verbose    bool
	OutputMode string
}

// Build compiles the named documents, or all documents when names is empty.
func (a *App) Build(ctx context.Context, names []string, opts BuildOptions) error {
	project, err := a.loadProject(opts.ConfigPath, opts.Set)
	if err != nil {
		return err
	}
	if err := checkDocuments(project, names); err != nil {
		return err
	}

	return a.build(ctx, project, names, a.store, opts)
}

func (a *App) build(
	ctx context.Context,
	project *domain.Project,
	names []string,
	store ports.BuildInfoStore,
	opts BuildOptions,
) error {
	mode := detector.ResolveMode(detector.DetectEnvironment(), opts.OutputMode)
	renderer := linear.NewRenderer(a.stdout, a.stderr,
		linear.WithVerbose(opts.Verbose),
		linear.WithProfile(detector.Profile(mode)),
	)

	provider := telemetry.NewProvider(renderer)
	defer func() {
		_ = provider.Shutdown(context.WithoutCancel(ctx))
	}()

	sched := scheduler.NewScheduler(
		a.collector,
		a.fingerprinter,
		store,
		provider.Tracer(),
		a.logger,
		compiler.WithExecutor(a.executor),
		compiler.WithWorkspaceFactory(a.workspaces),
	)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	if err := sched.Run(ctx, project, names, jobs, opts.NoCache); err != nil {
		return errors.Join(domain.ErrBuildExecutionFailed, err)
	}
	return nil
}

func (a *App) loadProject(configPath string, set domain.Vars) (*domain.Project, error) {
	if configPath == "" {
		configPath = "."
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}

	project, err := a.configLoader.Load(configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if len(set) > 0 {
		for _, doc := range project.Documents {
			doc.Vars = doc.Vars.Merge(set)
		}
	}
	return project, nil
}

func checkDocuments(project *domain.Project, names []string) error {
	for _, name := range names {
		if _, ok := project.Document(name); !ok {
			return zerr.With(zerr.Wrap(domain.ErrDocumentNotFound, "unknown document"), "document", name)
		}
	}
	return nil
}

// CompileOptions configuration for the Compile method.
type CompileOptions struct {
	// Entry is the main file, relative to the working directory.
	Entry string
	// Inputs are collected into the workspace. Defaults to the entry file.
	Inputs []string
	// Output defaults to the artifact name in the working directory.
	Output         string
	Set            domain.Vars
	Command        domain.CommandSpec
	OutputExt      string
	Terminal       bool
	StrictEncoding bool
	Verbose        bool
	OutputMode     string
}

// Compile builds a single document without a configuration file. Nothing is
// cached and no state is written besides the output.
func (a *App) Compile(ctx context.Context, opts CompileOptions) error {
	root, err := os.Getwd()
	if err != nil {
		return zerr.Wrap(errors.Join(domain.ErrIO, err), "failed to get working directory")
	}
	if err := opts.Set.Validate(); err != nil {
		return err
	}

	entry := opts.Entry
	if filepath.IsAbs(entry) {
		if rel, relErr := filepath.Rel(root, entry); relErr == nil {
			entry = rel
		}
	}
	main, err := domain.CleanLogicalPath(filepath.ToSlash(entry))
	if err != nil {
		return zerr.With(zerr.Wrap(err, "invalid entry"), "entry", opts.Entry)
	}

	settings := domain.CompilerSettings{
		Command:        opts.Command,
		OutputExt:      opts.OutputExt,
		Terminal:       opts.Terminal,
		StrictEncoding: opts.StrictEncoding,
	}
	if settings.Command.IsZero() {
		settings.Command = domain.DefaultCommand()
	}
	if settings.OutputExt == "" {
		settings.OutputExt = domain.DefaultOutputExt
	}

	inputs := opts.Inputs
	if len(inputs) == 0 {
		inputs = []string{opts.Entry}
	}
	resolved := make([]string, len(inputs))
	for i, in := range inputs {
		resolved[i] = absolute(root, in)
	}

	output := opts.Output
	if output == "" {
		output = domain.ArtifactName(main, settings.OutputExt)
	}

	name := strings.TrimSuffix(filepath.Base(main), filepath.Ext(main))
	doc := &domain.Document{
		Name:     name,
		Main:     main,
		Inputs:   resolved,
		Output:   absolute(root, output),
		Vars:     opts.Set,
		Compiler: settings,
	}
	project := &domain.Project{
		Root:      root,
		Documents: map[string]*domain.Document{name: doc},
		Order:     []string{name},
	}

	return a.build(ctx, project, nil, nil, BuildOptions{
		NoCache:    true,
		Jobs:       1,
		Verbose:    opts.Verbose,
		OutputMode: opts.OutputMode,
	})
}

func absolute(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// Watch builds the documents once and then rebuilds the ones whose inputs
// change until ctx is done. A change to texbox.yaml reloads the project.
func (a *App) Watch(ctx context.Context, names []string, opts BuildOptions) error {
	project, err := a.loadProject(opts.ConfigPath, opts.Set)
	if err != nil {
		return err
	}
	if err := checkDocuments(project, names); err != nil {
		return err
	}

	a.reportBuild(a.build(ctx, project, names, a.store, opts))

	w, err := a.watchers.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Start(ctx, watchPaths(project, names)); err != nil {
		_ = w.Stop()
		return err
	}
	a.logger.Info("watching for changes, press Ctrl+C to stop")

	g, gctx := errgroup.WithContext(ctx)
	batches := make(chan []string)
	debouncer := watcher.NewDebouncer(a.debounceWindow, func(paths []string) {
		select {
		case batches <- paths:
		case <-gctx.Done():
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		return w.Stop()
	})

	g.Go(func() error {
		for event := range w.Events() {
			debouncer.Add(event.Path)
		}
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case paths := <-batches:
				project = a.rebuild(gctx, project, names, paths, opts)
			}
		}
	})

	return g.Wait()
}

// rebuild builds the documents affected by paths and returns the project to
// use from now on.
func (a *App) rebuild(
	ctx context.Context,
	project *domain.Project,
	names []string,
	paths []string,
	opts BuildOptions,
) *domain.Project {
	affected, reload := affectedDocuments(project, names, paths)

	if reload {
		reloaded, err := a.loadProject(project.ConfigPath, opts.Set)
		if err == nil {
			err = checkDocuments(reloaded, names)
		}
		if err != nil {
			a.logger.Error(zerr.Wrap(err, "keeping previous configuration"))
		} else {
			a.logger.Info(fmt.Sprintf("%s changed, rebuilding", filepath.Base(project.ConfigPath)))
			project = reloaded
			affected = names
		}
	}

	if !reload && len(affected) == 0 {
		return project
	}

	a.reportBuild(a.build(ctx, project, affected, a.store, opts))
	return project
}

// reportBuild logs errors the renderer has not already shown.
func (a *App) reportBuild(err error) {
	if err != nil && !errors.Is(err, domain.ErrBuildExecutionFailed) {
		a.logger.Error(err)
	}
}

// watchPaths returns the config file and every input of the selected documents.
func watchPaths(project *domain.Project, names []string) []string {
	if len(names) == 0 {
		names = project.Order
	}

	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	add(project.ConfigPath)
	for _, name := range names {
		if doc, ok := project.Document(name); ok {
			for _, in := range doc.Inputs {
				add(in)
			}
		}
	}
	return paths
}

// affectedDocuments returns the selected documents with an input covering
// one of paths. Outputs are ignored so a build does not trigger itself.
func affectedDocuments(project *domain.Project, names, paths []string) (affected []string, reload bool) {
	if len(names) == 0 {
		names = project.Order
	}

	outputs := make(map[string]bool, len(project.Documents))
	for _, doc := range project.Documents {
		outputs[doc.Output] = true
	}

	hit := make(map[string]bool)
	for _, p := range paths {
		if p == project.ConfigPath {
			reload = true
			continue
		}
		if outputs[p] {
			continue
		}
		for _, name := range names {
			doc, ok := project.Document(name)
			if !ok || hit[name] {
				continue
			}
			for _, in := range doc.Inputs {
				if isWithin(in, p) {
					hit[name] = true
					break
				}
			}
		}
	}

	for _, name := range names {
		if hit[name] {
			affected = append(affected, name)
		}
	}
	return affected, reload
}

func isWithin(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	return err == nil && filepath.IsLocal(rel)
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	ConfigPath string
	// Outputs also removes the compiled documents.
	Outputs bool
}

// Clean removes the build info store and optionally the document outputs.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	project, err := a.loadProject(options.ConfigPath, nil)
	if err != nil {
		return err
	}

	var errs error

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	remove(filepath.Join(project.Root, domain.DefaultTexboxPath()), "build info store")

	if options.Outputs {
		for _, name := range project.Order {
			doc := project.Documents[name]
			remove(doc.Output, fmt.Sprintf("output of %s", name))
		}
	}

	return errs
}
