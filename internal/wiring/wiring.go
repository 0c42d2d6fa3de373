// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/bex/internal/adapters/config"
	_ "go.trai.ch/bex/internal/adapters/envcache"
	_ "go.trai.ch/bex/internal/adapters/logger"
	_ "go.trai.ch/bex/internal/adapters/python"
	_ "go.trai.ch/bex/internal/adapters/telemetry"
	_ "go.trai.ch/bex/internal/adapters/uv"
	// Register app and engine nodes.
	_ "go.trai.ch/bex/internal/app"
	_ "go.trai.ch/bex/internal/engine/bootstrapper"
)
