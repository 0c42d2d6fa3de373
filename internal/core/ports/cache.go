package ports

import (
	"context"

	"go.trai.ch/bex/internal/core/domain"
)

//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks

// BuildHandle is an exclusive claim on the build slot of one fingerprint.
type BuildHandle interface {
	// Fingerprint returns the claimed fingerprint.
	Fingerprint() domain.Fingerprint
	// Location returns the environment directory to build into.
	Location() string
}

// EnvironmentCache maps fingerprints to built environments on disk.
type EnvironmentCache interface {
	// Lookup returns the record of a complete environment.
	// Returns nil, nil when there is no usable environment for fp.
	Lookup(fp domain.Fingerprint) (*domain.CacheRecord, error)

	// BeginBuild claims the build slot for fp, waiting for a concurrent holder
	// according to the cache's lock policy.
	BeginBuild(ctx context.Context, fp domain.Fingerprint) (BuildHandle, error)

	// Commit marks the environment ready and writes the ready marker last.
	Commit(h BuildHandle, result *domain.BuildResult) error

	// Abort marks the environment failed and removes partial artifacts.
	Abort(h BuildHandle, cause error) error

	// Release gives up the build slot. It is safe to call after Commit or Abort.
	Release(h BuildHandle) error
}

// CacheProvider opens an EnvironmentCache rooted at a directory.
type CacheProvider interface {
	Open(root string, policy domain.LockPolicy) (EnvironmentCache, error)
}

// CacheJanitor removes cache content that can no longer become usable.
type CacheJanitor interface {
	// Prune removes failed environments and builds abandoned by a dead process.
	// It returns the fingerprints it removed.
	Prune(ctx context.Context, root string) ([]domain.Fingerprint, error)

	// Purge removes the whole cache root, downloaded tools included.
	Purge(root string) error
}
