package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/bex/internal/core/ports"
)

// StageLogger implements sdktrace.SpanProcessor and reports finished stages at debug level.
type StageLogger struct {
	logger ports.Logger
}

// NewStageLogger returns a new StageLogger.
func NewStageLogger(logger ports.Logger) *StageLogger {
	return &StageLogger{logger: logger}
}

// OnStart does nothing.
func (b *StageLogger) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs the stage name, its duration and its attributes.
func (b *StageLogger) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}

	args := []any{"stage", s.Name(), "duration", s.EndTime().Sub(s.StartTime()).Round(time.Millisecond).String()}
	for _, kv := range s.Attributes() {
		args = append(args, string(kv.Key), kv.Value.Emit())
	}

	if s.Status().Code == codes.Error {
		args = append(args, "error", s.Status().Description)
		b.logger.Debug("stage failed", args...)
		return
	}
	b.logger.Debug("stage finished", args...)
}

// ForceFlush does nothing.
func (b *StageLogger) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *StageLogger) Shutdown(_ context.Context) error {
	return nil
}
