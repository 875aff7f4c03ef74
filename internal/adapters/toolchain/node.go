package toolchain

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pages/internal/adapters/shell"
	"go.trai.ch/pages/internal/core/ports"
)

// NodeID is the unique identifier for the toolchain provider Graft node.
const NodeID graft.ID = "adapter.toolchain"

func init() {
	graft.Register(graft.Node[ports.ToolchainProvider]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.ToolchainProvider, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			return NewProvider(runner), nil
		},
	})
}
