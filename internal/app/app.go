// Package app implements the application layer for bex.
package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"go.trai.ch/bex/internal/core/domain"
	"go.trai.ch/bex/internal/core/ports"
	"go.trai.ch/bex/internal/engine/bootstrapper"
	"go.trai.ch/zerr"
)

// Bootstrapper prepares the environment of a bex file.
type Bootstrapper interface {
	Bootstrap(ctx context.Context, opts bootstrapper.Options) (*bootstrapper.Result, error)
}

// App represents the main application logic.
type App struct {
	bootstrapper Bootstrapper
	dispatcher   ports.Dispatcher
	janitor      ports.CacheJanitor
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	boot Bootstrapper,
	dispatcher ports.Dispatcher,
	janitor ports.CacheJanitor,
	log ports.Logger,
) *App {
	return &App{
		bootstrapper: boot,
		dispatcher:   dispatcher,
		janitor:      janitor,
		logger:       log,
	}
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	Bootstrap bootstrapper.Options
	Mode      domain.Mode
	// Args are passed through to the entrypoint unchanged.
	Args  []string
	Stdio ports.Stdio
}

// Run bootstraps the environment and, unless only the bootstrap was
// requested, hands control to the entrypoint.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	res, err := a.bootstrapper.Bootstrap(ctx, opts.Bootstrap)
	if err != nil {
		return err
	}

	if opts.Mode == domain.ModeInit {
		a.logger.Info("environment is ready", "location", res.Environment.Location)
		return nil
	}

	err = a.dispatcher.Dispatch(ctx, res.Environment, res.Config, opts.Args, opts.Stdio)
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return zerr.With(zerr.Wrap(domain.ErrCancelled, err.Error()), "entrypoint", res.Config.Entrypoint.String())
	}
	return err
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// Directory is the resolution directory. Empty means the current directory.
	Directory string
	// CacheRoot overrides the default <directory>/.bex cache root.
	CacheRoot string
	// All removes the whole cache, downloaded tools included.
	All bool
}

// Clean removes environments that can no longer be reused, or the whole
// cache when All is set.
func (a *App) Clean(ctx context.Context, opts CleanOptions) error {
	root, err := cacheRoot(opts)
	if err != nil {
		return err
	}

	if opts.All {
		a.logger.Info("removing cache", "path", root)
		return a.janitor.Purge(root)
	}

	removed, err := a.janitor.Prune(ctx, root)
	for _, fp := range removed {
		a.logger.Info("removed environment", "fingerprint", fp.String())
	}
	a.logger.Info("removed " + strconv.Itoa(len(removed)) + " stale environments")
	return err
}

func cacheRoot(opts CleanOptions) (string, error) {
	if opts.CacheRoot != "" {
		return filepath.Abs(opts.CacheRoot)
	}
	dir := opts.Directory
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", zerr.Wrap(err, "failed to resolve working directory")
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve directory"), "directory", dir)
	}
	return domain.DefaultCacheRoot(abs), nil
}

type verbositySetter interface {
	SetVerbosity(verbose int, quiet bool)
}

// SetVerbosity adjusts the log level when the logger supports it.
func (a *App) SetVerbosity(verbose int, quiet bool) {
	if l, ok := a.logger.(verbositySetter); ok {
		l.SetVerbosity(verbose, quiet)
	}
}
