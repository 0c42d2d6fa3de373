// Package main is the entry point for bex.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/bex/cmd/bex/commands"
	"go.trai.ch/bex/internal/app"
	"go.trai.ch/bex/internal/core/domain"
	_ "go.trai.ch/bex/internal/wiring"
)

// exitCancelled is the exit code of an interrupted invocation.
const exitCancelled = 3

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	provider ComponentProvider,
) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()

	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	return exitCode(cli.Execute(ctx), components)
}

func exitCode(err error, components *app.Components) int {
	if err == nil {
		return 0
	}
	// The entrypoint reported its own failure.
	if errors.Is(err, domain.ErrEntrypointError) {
		if code, ok := domain.ExitCode(err); ok && code > 0 {
			return code
		}
	}
	components.Logger.Error(err)
	if errors.Is(err, domain.ErrCancelled) || errors.Is(err, context.Canceled) {
		return exitCancelled
	}
	return 1
}
