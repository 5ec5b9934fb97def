// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/texbox/internal/adapters/cas"
	_ "go.trai.ch/texbox/internal/adapters/config"
	_ "go.trai.ch/texbox/internal/adapters/fs"
	_ "go.trai.ch/texbox/internal/adapters/logger"
	_ "go.trai.ch/texbox/internal/adapters/shell"
	_ "go.trai.ch/texbox/internal/adapters/watcher"
	_ "go.trai.ch/texbox/internal/adapters/workspace"
	// Register app nodes.
	_ "go.trai.ch/texbox/internal/app"
)
