package bootstrapper

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bex/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bex/internal/adapters/envcache"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bex/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bex/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bex/internal/adapters/uv"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bex/internal/core/ports"
)

// NodeID is the unique identifier for the bootstrapper Graft node.
const NodeID graft.ID = "engine.bootstrapper"

func init() {
	graft.Register(graft.Node[*Bootstrapper]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			envcache.NodeID,
			uv.BuilderNodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Bootstrapper, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			caches, err := graft.Dep[*envcache.Provider](ctx)
			if err != nil {
				return nil, err
			}
			tool, err := graft.Dep[ports.EnvironmentTool](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(loader, caches, tool, tracer, log), nil
		},
	})
}
