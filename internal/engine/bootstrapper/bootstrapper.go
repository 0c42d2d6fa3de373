// Package bootstrapper decides whether an environment can be reused or must
// be built, and drives the build under the per-fingerprint lock.
package bootstrapper

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"go.trai.ch/bex/internal/core/domain"
	"go.trai.ch/bex/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Options configures one bootstrap invocation.
type Options struct {
	Load domain.LoadOptions
	// CacheRoot overrides the default <directory>/.bex cache root.
	CacheRoot string
	Lock      domain.LockPolicy
	// ToolBinary is an existing uv executable to build with.
	ToolBinary string
}

// Result is the outcome of a successful bootstrap.
type Result struct {
	Config      *domain.Config
	Environment *domain.Environment
	// Trace lists the states visited, START through READY.
	Trace []State
}

// Bootstrapper runs the bootstrap state machine.
type Bootstrapper struct {
	loader ports.ConfigLoader
	caches ports.CacheProvider
	tool   ports.EnvironmentTool
	tracer ports.Tracer
	logger ports.Logger

	builds singleflight.Group
}

// New creates a Bootstrapper.
func New(
	loader ports.ConfigLoader,
	caches ports.CacheProvider,
	tool ports.EnvironmentTool,
	tracer ports.Tracer,
	logger ports.Logger,
) *Bootstrapper {
	return &Bootstrapper{
		loader: loader,
		caches: caches,
		tool:   tool,
		tracer: tracer,
		logger: logger,
	}
}

type run struct {
	b     *Bootstrapper
	ctx   context.Context
	trace []State
}

func (r *run) enter(s State) {
	r.trace = append(r.trace, s)
	r.b.logger.Debug("bootstrap state", "state", string(s))
}

// stage runs fn inside a span named after s.
func (r *run) stage(s State, fn func(ctx context.Context, span ports.Span) error) error {
	r.enter(s)
	ctx, span := r.b.tracer.Start(r.ctx, s.stageName())
	defer span.End()

	err := fn(ctx, span)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// Bootstrap resolves the configuration and returns a ready environment.
//
// Configuration errors are returned before the cache is touched. Any failure
// after a build slot was claimed aborts the build.
func (b *Bootstrapper) Bootstrap(ctx context.Context, opts Options) (*Result, error) {
	r := &run{b: b, ctx: ctx}
	r.enter(StateStart)

	load := opts.Load
	err := r.stage(StateLocateConfig, func(_ context.Context, span ports.Span) error {
		dir, err := resolveDirectory(load.Directory)
		if err != nil {
			return err
		}
		load.Directory = dir
		if load.File == "" {
			discovery, err := b.loader.Discover(dir)
			if err != nil {
				return err
			}
			if load.File, err = discovery.Resolve(); err != nil {
				return err
			}
		}
		span.SetAttribute("bex.file", load.File)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var cfg *domain.Config
	err = r.stage(StateParseConfig, func(_ context.Context, _ ports.Span) error {
		var loadErr error
		cfg, loadErr = b.loader.Load(load)
		return loadErr
	})
	if err != nil {
		return nil, err
	}

	var fp domain.Fingerprint
	_ = r.stage(StateFingerprint, func(_ context.Context, span ports.Span) error {
		fp = domain.ComputeFingerprint(*cfg)
		span.SetAttribute("bex.fingerprint", fp.String())
		return nil
	})

	root := opts.CacheRoot
	if root == "" {
		root = domain.DefaultCacheRoot(cfg.Directory)
	}

	var (
		cache ports.EnvironmentCache
		rec   *domain.CacheRecord
	)
	err = r.stage(StateCacheLookup, func(_ context.Context, span ports.Span) error {
		var openErr error
		if cache, openErr = b.caches.Open(root, opts.Lock); openErr != nil {
			return openErr
		}
		var lookupErr error
		rec, lookupErr = cache.Lookup(fp)
		span.SetAttribute("bex.cache_hit", rec != nil)
		return lookupErr
	})
	if err != nil {
		return nil, err
	}

	var env *domain.Environment
	if rec != nil {
		_ = r.stage(StateReuse, func(_ context.Context, _ ports.Span) error {
			b.logger.Debug("reusing environment", "fingerprint", fp.String(), "location", rec.Location)
			env = environmentFrom(rec, true)
			return nil
		})
	} else {
		err = r.stage(StateBuild, func(ctx context.Context, _ ports.Span) error {
			var buildErr error
			env, buildErr = b.buildOnce(ctx, cache, root, cfg, fp, opts.ToolBinary)
			return buildErr
		})
		if err != nil {
			return nil, cancelled(ctx, err, StateBuild)
		}
	}

	r.enter(StateReady)
	return &Result{Config: cfg, Environment: env, Trace: r.trace}, nil
}

// buildOnce collapses concurrent builds of the same environment within this process.
func (b *Bootstrapper) buildOnce(
	ctx context.Context,
	cache ports.EnvironmentCache,
	root string,
	cfg *domain.Config,
	fp domain.Fingerprint,
	binary string,
) (*domain.Environment, error) {
	key := filepath.Join(root, fp.String())
	v, err, _ := b.builds.Do(key, func() (any, error) {
		return b.build(ctx, cache, root, cfg, fp, binary)
	})
	if err != nil {
		return nil, err
	}
	env := *v.(*domain.Environment)
	return &env, nil
}

func (b *Bootstrapper) build(
	ctx context.Context,
	cache ports.EnvironmentCache,
	root string,
	cfg *domain.Config,
	fp domain.Fingerprint,
	binary string,
) (env *domain.Environment, err error) {
	h, err := cache.BeginBuild(ctx, fp)
	if err != nil {
		return nil, err
	}

	done := false
	defer func() {
		if !done {
			cause := err
			if cause == nil {
				cause = errors.New("build interrupted")
			}
			if abortErr := cache.Abort(h, cause); abortErr != nil {
				b.logger.Warn("failed to clean up aborted build", "fingerprint", fp.String(), "error", abortErr.Error())
			}
		}
		if releaseErr := cache.Release(h); releaseErr != nil {
			b.logger.Warn("failed to release build lock", "fingerprint", fp.String(), "error", releaseErr.Error())
		}
	}()

	// Another process may have finished the build while this one waited.
	rec, err := cache.Lookup(fp)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		done = true
		b.logger.Debug("environment was built concurrently", "fingerprint", fp.String())
		return environmentFrom(rec, true), nil
	}

	b.logger.Info("bootstrapping environment", "fingerprint", fp.String())
	result, err := b.tool.Build(ctx, domain.BuildSpec{
		Location: h.Location(),
		Tool: domain.ToolRequest{
			CacheDir: domain.ToolsPath(root),
			Version:  cfg.ToolVersion,
			Binary:   binary,
		},
		PythonConstraint: cfg.RequiresPython,
		Requirements:     cfg.Requirements,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		if !errors.Is(err, domain.ErrBootstrapFailed) {
			err = zerr.Wrap(domain.ErrBootstrapFailed, err.Error())
		}
		return nil, zerr.With(err, "fingerprint", fp.String())
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	if err = cache.Commit(h, result); err != nil {
		return nil, err
	}
	done = true

	b.logger.Info("environment ready", "fingerprint", fp.String())
	return &domain.Environment{
		Fingerprint: fp,
		Location:    h.Location(),
		Interpreter: result.Interpreter,
		ToolVersion: result.ToolVersion,
	}, nil
}

func environmentFrom(rec *domain.CacheRecord, reused bool) *domain.Environment {
	return &domain.Environment{
		Fingerprint: rec.Fingerprint,
		Location:    rec.Location,
		Interpreter: rec.Interpreter,
		ToolVersion: rec.ToolVersion,
		Reused:      reused,
	}
}

func resolveDirectory(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", zerr.Wrap(domain.ErrConfigNotFound, err.Error())
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, err.Error()), "directory", dir)
	}
	return abs, nil
}

// cancelled maps a failure caused by ctx cancellation to ErrCancelled.
func cancelled(ctx context.Context, err error, s State) error {
	if ctx.Err() == nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, domain.ErrBuildLockTimeout) {
		return err
	}
	return zerr.With(zerr.Wrap(domain.ErrCancelled, err.Error()), "state", string(s))
}
