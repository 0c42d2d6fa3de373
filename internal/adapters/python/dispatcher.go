// Package python hands control to the entrypoint of a built environment.
package python

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.trai.ch/bex/internal/core/domain"
	"go.trai.ch/bex/internal/core/ports"
	"go.trai.ch/zerr"
)

// interruptGrace is how long the entrypoint may take to exit after an interrupt.
const interruptGrace = 5 * time.Second

// Dispatcher implements ports.Dispatcher by running the environment's interpreter.
type Dispatcher struct {
	logger ports.Logger
}

var _ ports.Dispatcher = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher.
func NewDispatcher(logger ports.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// Dispatch runs the entrypoint with args and the given streams.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	env *domain.Environment,
	cfg *domain.Config,
	args []string,
	stdio ports.Stdio,
) error {
	script, err := launcherScript(cfg.Entrypoint)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrEntrypointNotFound, err.Error()), "entrypoint", cfg.Entrypoint.String())
	}

	statusDir, err := os.MkdirTemp("", "bex-launch-")
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrEntrypointError, err.Error()), "entrypoint", cfg.Entrypoint.String())
	}
	defer func() { _ = os.RemoveAll(statusDir) }()
	statusFile := filepath.Join(statusDir, "status")

	cmdArgs := append([]string{"-c", script}, args...)
	cmd := exec.CommandContext(ctx, env.Interpreter, cmdArgs...) //nolint:gosec // interpreter of a committed environment
	cmd.Env = append(os.Environ(),
		"BEX_FILE="+cfg.File,
		"BEX_DIRECTORY="+cfg.Directory,
		statusEnv+"="+statusFile,
	)
	cmd.Stdin = stdio.In
	cmd.Stdout = stdio.Out
	cmd.Stderr = stdio.Err
	cmd.Cancel = func() error { return interrupt(cmd.Process) }
	cmd.WaitDelay = interruptGrace

	d.logger.Debug("dispatching entrypoint",
		"entrypoint", cfg.Entrypoint.String(),
		"interpreter", env.Interpreter,
		"args", len(args),
	)

	err = cmd.Run()
	if err == nil {
		return nil
	}

	// An entrypoint that handled the interrupt and exited keeps its own status.
	if state := cmd.ProcessState; state != nil && state.Exited() {
		if !state.Success() {
			return exitFailure(statusFile, env, cfg, state.ExitCode())
		}
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return nil
		}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		startErr := zerr.With(zerr.Wrap(domain.ErrEntrypointError, err.Error()), "entrypoint", cfg.Entrypoint.String())
		return zerr.With(startErr, "interpreter", env.Interpreter)
	}
	return exitFailure(statusFile, env, cfg, exitErr.ExitCode())
}

// exitFailure classifies a non-zero exit. Without the status file the
// launcher never resolved the entrypoint.
func exitFailure(statusFile string, env *domain.Environment, cfg *domain.Config, code int) error {
	if _, statErr := os.Stat(statusFile); statErr != nil {
		notFound := zerr.With(zerr.Wrap(domain.ErrEntrypointNotFound, "could not resolve entrypoint"), "entrypoint", cfg.Entrypoint.String())
		return zerr.With(notFound, "environment", env.Location)
	}

	failed := zerr.With(zerr.Wrap(domain.ErrEntrypointError, "entrypoint exited with non-zero status"), "entrypoint", cfg.Entrypoint.String())
	return zerr.With(failed, "exit_code", code)
}
