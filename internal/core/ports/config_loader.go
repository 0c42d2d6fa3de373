package ports

import "go.trai.ch/bex/internal/core/domain"

// ConfigLoader locates bex files and turns their bootstrap header into a Config.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Discover scans dir for files matching the default pattern.
	// It never fails on ambiguity; the caller decides through Discovery.Resolve.
	Discover(dir string) (domain.Discovery, error)

	// Load resolves the file described by opts, extracts its header and validates it.
	Load(opts domain.LoadOptions) (*domain.Config, error)
}
