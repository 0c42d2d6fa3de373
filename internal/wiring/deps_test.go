package wiring_test

import (
	"context"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bex/internal/app"
	_ "go.trai.ch/bex/internal/wiring"
)

// TestGraftGraphResolves builds every registered node the CLI depends on.
func TestGraftGraphResolves(t *testing.T) {
	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
}
