package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrMissingHeader is returned when a file contains no bootstrap header.
	ErrMissingHeader = zerr.New("bootstrap header not found")

	// ErrMalformedHeader is returned when a bootstrap header is unterminated, nested or duplicated.
	ErrMalformedHeader = zerr.New("malformed bootstrap header")

	// ErrInvalidConfig is returned when the header content violates the configuration schema.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrConfigNotFound is returned when no bex file can be found in the resolution directory.
	ErrConfigNotFound = zerr.New("could not find bex file")

	// ErrAmbiguousConfigFile is returned when several bex files match and none was selected.
	ErrAmbiguousConfigFile = zerr.New("multiple bex files found, select one with --file")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrBuildLockTimeout is returned when a concurrent build holds the environment lock for too long.
	ErrBuildLockTimeout = zerr.New("timed out waiting for a concurrent environment build")

	// ErrBootstrapFailed is returned when the external tool fails to build the environment.
	ErrBootstrapFailed = zerr.New("failed to bootstrap environment")

	// ErrEntrypointNotFound is returned when the entrypoint cannot be resolved inside the environment.
	ErrEntrypointNotFound = zerr.New("entrypoint not found")

	// ErrEntrypointError is returned when the entrypoint itself exits unsuccessfully.
	ErrEntrypointError = zerr.New("entrypoint failed")

	// ErrCancelled is returned when the invocation is interrupted.
	ErrCancelled = zerr.New("process was cancelled")

	// ErrCacheCreateFailed is returned when the environment cache directories cannot be created.
	ErrCacheCreateFailed = zerr.New("failed to create environment cache directory")

	// ErrCacheReadFailed is returned when a cache record cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read cache record")

	// ErrCacheWriteFailed is returned when a cache record or marker cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write cache record")

	// ErrCacheUnmarshalFailed is returned when a cache record cannot be decoded.
	ErrCacheUnmarshalFailed = zerr.New("failed to unmarshal cache record")

	// ErrLockFailed is returned when the build lock cannot be acquired for reasons other than contention.
	ErrLockFailed = zerr.New("failed to acquire build lock")

	// ErrToolResolutionFailed is returned when the uv version cannot be resolved.
	// It matches ErrBootstrapFailed.
	ErrToolResolutionFailed = zerr.Wrap(ErrBootstrapFailed, "failed to resolve uv version")

	// ErrToolDownloadFailed is returned when the uv binary cannot be downloaded or extracted.
	// It matches ErrBootstrapFailed.
	ErrToolDownloadFailed = zerr.Wrap(ErrBootstrapFailed, "failed to download uv")

	// ErrUnsupportedPlatform is returned when no uv release exists for the host platform.
	// It matches ErrBootstrapFailed.
	ErrUnsupportedPlatform = zerr.Wrap(ErrBootstrapFailed, "no uv release available for this platform")
)

// ExitCode reports the exit_code metadata attached anywhere in the error chain.
func ExitCode(err error) (int, bool) {
	for current := err; current != nil; current = errors.Unwrap(current) {
		z, ok := current.(*zerr.Error)
		if !ok {
			continue
		}
		if code, ok := z.Metadata()["exit_code"].(int); ok {
			return code, true
		}
	}
	return 0, false
}
