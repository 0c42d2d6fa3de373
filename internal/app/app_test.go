package app_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bex/internal/app"
	"go.trai.ch/bex/internal/core/domain"
	"go.trai.ch/bex/internal/core/ports"
	"go.trai.ch/bex/internal/core/ports/mocks"
	"go.trai.ch/bex/internal/engine/bootstrapper"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type stubBootstrapper struct {
	result *bootstrapper.Result
	err    error
	opts   []bootstrapper.Options
}

func (s *stubBootstrapper) Bootstrap(_ context.Context, opts bootstrapper.Options) (*bootstrapper.Result, error) {
	s.opts = append(s.opts, opts)
	return s.result, s.err
}

func readyResult() *bootstrapper.Result {
	return &bootstrapper.Result{
		Config: &domain.Config{
			File:       "/work/bex.py",
			Directory:  "/work",
			Entrypoint: domain.Entrypoint{Module: "pkg.mod", Attribute: "run"},
		},
		Environment: &domain.Environment{
			Fingerprint: "abc",
			Location:    "/work/.bex/envs/abc",
			Interpreter: "/work/.bex/envs/abc/.venv/bin/python",
		},
	}
}

func TestApp_RunDispatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockDispatcher(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	boot := &stubBootstrapper{result: readyResult()}
	a := app.New(boot, dispatcher, mocks.NewMockCacheJanitor(ctrl), logger)

	var stdout bytes.Buffer
	stdio := ports.Stdio{Out: &stdout}
	dispatcher.EXPECT().
		Dispatch(gomock.Any(), boot.result.Environment, boot.result.Config, []string{"--flag", "x"}, stdio).
		Return(nil)

	opts := app.RunOptions{
		Bootstrap: bootstrapper.Options{Load: domain.LoadOptions{Directory: "/work"}},
		Mode:      domain.ModeExec,
		Args:      []string{"--flag", "x"},
		Stdio:     stdio,
	}
	require.NoError(t, a.Run(context.Background(), opts))
	assert.Equal(t, []bootstrapper.Options{opts.Bootstrap}, boot.opts)
}

func TestApp_RunBootstrapOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info("environment is ready", "location", "/work/.bex/envs/abc")

	a := app.New(&stubBootstrapper{result: readyResult()}, mocks.NewMockDispatcher(ctrl), mocks.NewMockCacheJanitor(ctrl), logger)

	require.NoError(t, a.Run(context.Background(), app.RunOptions{Mode: domain.ModeInit, Args: []string{"ignored"}}))
}

func TestApp_RunBootstrapFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	bootErr := zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "entrypoint is required"), "field", "entrypoint")

	a := app.New(&stubBootstrapper{err: bootErr}, mocks.NewMockDispatcher(ctrl), mocks.NewMockCacheJanitor(ctrl), mocks.NewMockLogger(ctrl))

	err := a.Run(context.Background(), app.RunOptions{Mode: domain.ModeExec})
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestApp_RunEntrypointErrorKeepsExitCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockDispatcher(ctrl)
	failure := zerr.With(zerr.Wrap(domain.ErrEntrypointError, "exit status 7"), "exit_code", 7)
	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(failure)

	a := app.New(&stubBootstrapper{result: readyResult()}, dispatcher, mocks.NewMockCacheJanitor(ctrl), mocks.NewMockLogger(ctrl))

	err := a.Run(context.Background(), app.RunOptions{Mode: domain.ModeExec})
	require.ErrorIs(t, err, domain.ErrEntrypointError)
	code, ok := domain.ExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 7, code)
}

func TestApp_RunInterruptedEntrypoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockDispatcher(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ *domain.Environment, _ *domain.Config, _ []string, _ ports.Stdio) error {
			cancel()
			return ctx.Err()
		})

	a := app.New(&stubBootstrapper{result: readyResult()}, dispatcher, mocks.NewMockCacheJanitor(ctrl), mocks.NewMockLogger(ctrl))

	err := a.Run(ctx, app.RunOptions{Mode: domain.ModeExec})
	require.ErrorIs(t, err, domain.ErrCancelled)
}

func TestApp_RunInterruptedEntrypointKeepsItsStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockDispatcher(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *domain.Environment, _ *domain.Config, _ []string, _ ports.Stdio) error {
			cancel()
			return zerr.With(zerr.Wrap(domain.ErrEntrypointError, "exit status 4"), "exit_code", 4)
		})

	a := app.New(&stubBootstrapper{result: readyResult()}, dispatcher, mocks.NewMockCacheJanitor(ctrl), mocks.NewMockLogger(ctrl))

	err := a.Run(ctx, app.RunOptions{Mode: domain.ModeExec})
	require.ErrorIs(t, err, domain.ErrEntrypointError)
	assert.NotErrorIs(t, err, domain.ErrCancelled)

	code, ok := domain.ExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 4, code)
}

func TestApp_Clean(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, domain.BexDirName)

	t.Run("prunes stale environments", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		janitor := mocks.NewMockCacheJanitor(ctrl)
		logger := mocks.NewMockLogger(ctrl)

		janitor.EXPECT().Prune(gomock.Any(), root).Return([]domain.Fingerprint{"aa", "bb"}, nil)
		logger.EXPECT().Info("removed environment", "fingerprint", "aa")
		logger.EXPECT().Info("removed environment", "fingerprint", "bb")
		logger.EXPECT().Info("removed 2 stale environments")

		a := app.New(&stubBootstrapper{}, mocks.NewMockDispatcher(ctrl), janitor, logger)
		require.NoError(t, a.Clean(context.Background(), app.CleanOptions{Directory: dir}))
	})

	t.Run("all purges the root", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		janitor := mocks.NewMockCacheJanitor(ctrl)
		logger := mocks.NewMockLogger(ctrl)

		custom := filepath.Join(dir, "cache")
		janitor.EXPECT().Purge(custom).Return(nil)
		logger.EXPECT().Info("removing cache", "path", custom)

		a := app.New(&stubBootstrapper{}, mocks.NewMockDispatcher(ctrl), janitor, logger)
		require.NoError(t, a.Clean(context.Background(), app.CleanOptions{Directory: dir, CacheRoot: custom, All: true}))
	})

	t.Run("reports partial failures", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		janitor := mocks.NewMockCacheJanitor(ctrl)
		logger := mocks.NewMockLogger(ctrl)
		pruneErr := errors.New("permission denied")

		janitor.EXPECT().Prune(gomock.Any(), root).Return([]domain.Fingerprint{"aa"}, pruneErr)
		logger.EXPECT().Info(gomock.Any(), gomock.Any()).Times(2)

		a := app.New(&stubBootstrapper{}, mocks.NewMockDispatcher(ctrl), janitor, logger)
		require.ErrorIs(t, a.Clean(context.Background(), app.CleanOptions{Directory: dir}), pruneErr)
	})
}

type levelRecorder struct {
	ports.Logger

	verbose int
	quiet   bool
}

func (l *levelRecorder) SetVerbosity(verbose int, quiet bool) {
	l.verbose, l.quiet = verbose, quiet
}

func TestApp_SetVerbosity(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := &levelRecorder{Logger: mocks.NewMockLogger(ctrl)}

	a := app.New(&stubBootstrapper{}, mocks.NewMockDispatcher(ctrl), mocks.NewMockCacheJanitor(ctrl), rec)
	a.SetVerbosity(2, true)

	assert.Equal(t, 2, rec.verbose)
	assert.True(t, rec.quiet)

	// Loggers without level control are left alone.
	app.New(&stubBootstrapper{}, mocks.NewMockDispatcher(ctrl), mocks.NewMockCacheJanitor(ctrl), mocks.NewMockLogger(ctrl)).
		SetVerbosity(1, false)
}
