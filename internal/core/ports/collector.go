package ports

import "go.trai.ch/texbox/internal/core/domain"

// Collector reads files from disk into an InputSet.
//
//go:generate go run go.uber.org/mock/mockgen -source=collector.go -destination=mocks/mock_collector.go -package=mocks
type Collector interface {
	// Collect adds the file or directory tree at path to set.
	// Paths that do not exist contribute nothing.
	Collect(set *domain.InputSet, path string) error

	// Scoped returns a Collector that names inputs below base relative to
	// base and also skips entries matching the given patterns.
	Scoped(base string, ignores ...string) Collector
}
