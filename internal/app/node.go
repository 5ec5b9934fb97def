package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/texbox/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"go.trai.ch/texbox/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/texbox/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/texbox/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/texbox/internal/adapters/shell"     //nolint:depguard // Wired in app layer
	"go.trai.ch/texbox/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/texbox/internal/adapters/workspace" //nolint:depguard // Wired in app layer
	"go.trai.ch/texbox/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.CollectorNodeID,
			fs.FingerprinterNodeID,
			cas.NodeID,
			shell.NodeID,
			workspace.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	collector, err := graft.Dep[ports.Collector](ctx)
	if err != nil {
		return nil, err
	}

	fingerprinter, err := graft.Dep[ports.Fingerprinter](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.BuildInfoStore](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}

	workspaces, err := graft.Dep[ports.WorkspaceFactory](ctx)
	if err != nil {
		return nil, err
	}

	watchers, err := graft.Dep[ports.WatcherFactory](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, collector, fingerprinter, store, executor, workspaces, watchers, log), nil
}
