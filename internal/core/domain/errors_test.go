package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/bex/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOK   bool
	}{
		{
			name:   "nil",
			err:    nil,
			wantOK: false,
		},
		{
			name:   "plain error",
			err:    errors.New("boom"),
			wantOK: false,
		},
		{
			name:     "direct metadata",
			err:      zerr.With(zerr.Wrap(domain.ErrEntrypointError, "run failed"), "exit_code", 7),
			wantCode: 7,
			wantOK:   true,
		},
		{
			name: "wrapped deeper",
			err: zerr.Wrap(
				zerr.With(zerr.Wrap(domain.ErrEntrypointError, "run failed"), "exit_code", 42),
				"dispatch",
			),
			wantCode: 42,
			wantOK:   true,
		},
		{
			name:     "through fmt wrapping",
			err:      fmt.Errorf("outer: %w", zerr.With(zerr.New("x"), "exit_code", 3)),
			wantCode: 3,
			wantOK:   true,
		},
		{
			name:   "wrong metadata type",
			err:    zerr.With(zerr.New("x"), "exit_code", "3"),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := domain.ExitCode(tt.err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestSentinelsSurviveMetadata(t *testing.T) {
	err := zerr.With(zerr.Wrap(domain.ErrBootstrapFailed, "uv venv"), "step", "venv")
	assert.True(t, errors.Is(err, domain.ErrBootstrapFailed))
	assert.False(t, errors.Is(err, domain.ErrInvalidConfig))
}

func TestToolErrorsMatchBootstrapFailed(t *testing.T) {
	for _, sentinel := range []error{
		domain.ErrToolResolutionFailed,
		domain.ErrToolDownloadFailed,
		domain.ErrUnsupportedPlatform,
	} {
		err := zerr.With(zerr.Wrap(sentinel, "detail"), "stage", "tool")
		assert.ErrorIs(t, err, sentinel)
		assert.ErrorIs(t, err, domain.ErrBootstrapFailed)
	}
}
