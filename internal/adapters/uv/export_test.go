package uv

import (
	"net/http"
	"time"

	"go.trai.ch/bex/internal/core/ports"
)

// NewProviderForTest creates a Provider against custom endpoints and a fixed platform.
func NewProviderForTest(
	logger ports.Logger,
	client *http.Client,
	apiURL, downloadURL, goos, goarch string,
	now func() time.Time,
) *Provider {
	return &Provider{
		logger:      logger,
		client:      client,
		apiURL:      apiURL,
		downloadURL: downloadURL,
		platform:    platform{goos: goos, goarch: goarch},
		now:         now,
	}
}

// TargetForTest exposes the release target of a platform.
func TargetForTest(goos, goarch string, musl bool) (target, archive string, err error) {
	return platform{goos: goos, goarch: goarch, musl: musl}.target()
}

// Release is a release listing entry.
type Release = release

// SelectVersionForTest exposes version selection.
func SelectVersionForTest(spec string, releases []Release) (string, error) {
	return selectVersion(spec, releases)
}
