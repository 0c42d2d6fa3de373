package uv

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/bex/internal/core/domain"
	"go.trai.ch/bex/internal/core/ports"
	"go.trai.ch/zerr"
)

// Build steps, in execution order.
const (
	StepVenv    = "venv"
	StepCompile = "compile"
	StepSync    = "sync"
)

// Builder implements ports.EnvironmentTool with uv.
type Builder struct {
	tools  ports.ToolProvider
	logger ports.Logger
}

var _ ports.EnvironmentTool = (*Builder)(nil)

// NewBuilder creates a Builder.
func NewBuilder(tools ports.ToolProvider, logger ports.Logger) *Builder {
	return &Builder{tools: tools, logger: logger}
}

// Build creates the virtual environment, compiles the requirements and syncs
// them into it.
func (b *Builder) Build(ctx context.Context, spec domain.BuildSpec) (*domain.BuildResult, error) {
	tool, err := b.tools.Ensure(ctx, spec.Tool)
	if err != nil {
		return nil, zerr.With(err, "stage", "tool")
	}
	b.logger.Debug("using uv", "path", tool.Path, "version", tool.Version)

	venv := filepath.Join(spec.Location, domain.VenvDirName)
	python := domain.InterpreterPath(spec.Location)
	reqIn := filepath.Join(spec.Location, domain.RequirementsInName)
	reqTxt := filepath.Join(spec.Location, domain.RequirementsLockName)

	if err := b.run(ctx, tool, spec.Location, StepVenv,
		"venv", "--allow-existing", "--no-project", "--seed",
		"--python", spec.PythonConstraint,
		"--python-preference", "only-managed",
		venv,
	); err != nil {
		return nil, err
	}
	b.logger.Info("created virtual environment")

	if err := os.WriteFile(reqIn, []byte(requirementsText(spec.Requirements)), domain.FilePerm); err != nil {
		failed := zerr.With(zerr.Wrap(domain.ErrBootstrapFailed, err.Error()), "step", StepCompile)
		return nil, zerr.With(failed, "path", reqIn)
	}

	if err := b.run(ctx, tool, spec.Location, StepCompile,
		"pip", "compile",
		"--python", python,
		"--emit-index-url",
		reqIn, "-o", reqTxt,
	); err != nil {
		return nil, err
	}
	b.logger.Info("locked dependencies")

	if err := b.run(ctx, tool, spec.Location, StepSync,
		"pip", "sync", "--allow-empty-requirements",
		"--python", python,
		reqTxt,
	); err != nil {
		return nil, err
	}
	b.logger.Info("synced dependencies")

	if _, err := os.Stat(python); err != nil {
		failed := zerr.With(zerr.Wrap(domain.ErrBootstrapFailed, "interpreter missing after build"), "step", StepSync)
		return nil, zerr.With(failed, "interpreter", python)
	}

	return &domain.BuildResult{
		Interpreter: python,
		ToolVersion: tool.Version,
		LockFile:    reqTxt,
	}, nil
}

// run executes one uv step. Combined output is streamed to the debug log and
// attached to the error when the step fails.
func (b *Builder) run(ctx context.Context, tool domain.Tool, dir, step string, args ...string) error {
	out := &stepWriter{logger: b.logger, step: step}

	cmd := exec.CommandContext(ctx, tool.Path, args...) //nolint:gosec // uv binary resolved by the tool provider
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "NO_COLOR=1", "UV_NO_PROGRESS=1")
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	_ = out.Close()
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	failed := zerr.With(zerr.Wrap(domain.ErrBootstrapFailed, "uv "+args[0]+" failed"), "step", step)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		failed = zerr.With(failed, "exit_status", exitErr.ExitCode())
	} else {
		failed = zerr.With(failed, "cause", err.Error())
	}
	if diag := out.diagnostics(); diag != "" {
		failed = zerr.With(failed, "output", diag)
	}
	return failed
}

func requirementsText(reqs []string) string {
	if len(reqs) == 0 {
		return ""
	}
	return strings.Join(reqs, "\n") + "\n"
}
