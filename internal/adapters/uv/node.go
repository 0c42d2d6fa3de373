package uv

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bex/internal/adapters/logger"
	"go.trai.ch/bex/internal/core/ports"
)

const (
	// ProviderNodeID is the unique identifier for the uv tool provider Graft node.
	ProviderNodeID graft.ID = "adapter.uv_provider"
	// BuilderNodeID is the unique identifier for the uv builder Graft node.
	BuilderNodeID graft.ID = "adapter.uv_builder"
)

func init() {
	graft.Register(graft.Node[ports.ToolProvider]{
		ID:        ProviderNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ToolProvider, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewProvider(log), nil
		},
	})

	graft.Register(graft.Node[ports.EnvironmentTool]{
		ID:        BuilderNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ProviderNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.EnvironmentTool, error) {
			tools, err := graft.Dep[ports.ToolProvider](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuilder(tools, log), nil
		},
	})
}
