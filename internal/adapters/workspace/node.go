package workspace

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/texbox/internal/core/ports"
)

// NodeID is the unique identifier for the workspace factory Graft node.
const NodeID graft.ID = "adapter.workspace"

func init() {
	graft.Register(graft.Node[ports.WorkspaceFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.WorkspaceFactory, error) {
			return NewFactory(""), nil
		},
	})
}
