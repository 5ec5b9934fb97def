package ports

import "go.trai.ch/texbox/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds texbox.yaml starting at cwd (or uses path directly when it names a file)
	// and returns the resolved project.
	Load(path string) (*domain.Project, error)
}
