package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bex/internal/adapters/envcache" //nolint:depguard // Wired in app layer
	"go.trai.ch/bex/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/bex/internal/adapters/python"   //nolint:depguard // Wired in app layer
	"go.trai.ch/bex/internal/core/ports"
	"go.trai.ch/bex/internal/engine/bootstrapper"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			bootstrapper.NodeID,
			python.NodeID,
			envcache.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			boot, err := graft.Dep[*bootstrapper.Bootstrapper](ctx)
			if err != nil {
				return nil, err
			}

			dispatcher, err := graft.Dep[ports.Dispatcher](ctx)
			if err != nil {
				return nil, err
			}

			janitor, err := graft.Dep[*envcache.Provider](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(boot, dispatcher, janitor, log), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return NewComponents(app, log), nil
}
