package envcache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bex/internal/adapters/logger"
	"go.trai.ch/bex/internal/core/ports"
)

// NodeID is the unique identifier for the environment cache Graft node.
const NodeID graft.ID = "adapter.envcache"

func init() {
	graft.Register(graft.Node[*Provider]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Provider, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewProvider(log), nil
		},
	})
}
