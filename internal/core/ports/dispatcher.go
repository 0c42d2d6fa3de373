package ports

import (
	"context"
	"io"

	"go.trai.ch/bex/internal/core/domain"
)

// Stdio are the streams forwarded to the entrypoint.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Dispatcher hands control to the entrypoint of a ready environment.
//
//go:generate mockgen -source=dispatcher.go -destination=mocks/mock_dispatcher.go -package=mocks
type Dispatcher interface {
	// Dispatch runs cfg.Entrypoint inside env with the passthrough args.
	// A non-zero exit of the entrypoint is returned as ErrEntrypointError
	// carrying the exit code.
	Dispatch(ctx context.Context, env *domain.Environment, cfg *domain.Config, args []string, stdio Stdio) error
}
