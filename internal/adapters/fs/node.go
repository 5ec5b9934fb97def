package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/texbox/internal/core/domain"
	"go.trai.ch/texbox/internal/core/ports"
)

const (
	// WalkerNodeID is the unique identifier for the walker Graft node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// CollectorNodeID is the unique identifier for the input collector Graft node.
	CollectorNodeID graft.ID = "adapter.fs.collector"
	// FingerprinterNodeID is the unique identifier for the fingerprinter Graft node.
	FingerprinterNodeID graft.ID = "adapter.fs.fingerprinter"
)

// DefaultIgnores are skipped by the collector provided to the application.
var DefaultIgnores = []string{".git", ".jj", domain.TexboxDirName}

func init() {
	// Walker Node (Concrete implementation needed by Collector)
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.Collector]{
		ID:        CollectorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID},
		Run: func(ctx context.Context) (ports.Collector, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewCollector(walker, DefaultIgnores...), nil
		},
	})

	graft.Register(graft.Node[ports.Fingerprinter]{
		ID:        FingerprinterNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Fingerprinter, error) {
			return NewFingerprinter(), nil
		},
	})
}
