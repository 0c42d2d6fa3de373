package ports

import (
	"context"

	"go.trai.ch/bex/internal/core/domain"
)

//go:generate mockgen -source=tool.go -destination=mocks/mock_tool.go -package=mocks

// ToolProvider makes a uv binary satisfying a version constraint available.
type ToolProvider interface {
	// Ensure returns a usable uv binary, downloading it into req.CacheDir if needed.
	Ensure(ctx context.Context, req domain.ToolRequest) (domain.Tool, error)
}

// EnvironmentTool builds an environment by driving the external tool.
//
// Success is signalled solely by the tool's exit status. Failures carry the
// captured diagnostics of the failing step.
type EnvironmentTool interface {
	Build(ctx context.Context, spec domain.BuildSpec) (*domain.BuildResult, error)
}
