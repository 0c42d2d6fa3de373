package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bex/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func time0() time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
}

func newBufferedLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	l := logger.New()
	l.SetOutput(buf)
	return l, buf
}

func TestLogger_Levels(t *testing.T) {
	l, buf := newBufferedLogger(t)

	l.Debug("hidden")
	l.Info("environment ready", "fingerprint", "abc")
	l.Warn("stale build record")

	assert.Equal(t, "environment ready fingerprint=abc\n! stale build record\n", buf.String())
}

func TestLogger_SetVerbosity(t *testing.T) {
	tests := []struct {
		name    string
		verbose int
		quiet   bool
		want    string
	}{
		{name: "default", want: "info\n! warn\n"},
		{name: "verbose", verbose: 1, want: "● debug\ninfo\n! warn\n"},
		{name: "quiet", quiet: true, want: "! warn\n"},
		{name: "quiet wins", verbose: 2, quiet: true, want: "! warn\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newBufferedLogger(t)
			l.SetVerbosity(tt.verbose, tt.quiet)

			l.Debug("debug")
			l.Info("info")
			l.Warn("warn")

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestLogger_Error(t *testing.T) {
	l, buf := newBufferedLogger(t)

	err := zerr.With(zerr.Wrap(errors.New("root cause"), "outer"), "file", "bex.py")
	l.Error(err)

	want := "✗ Error: outer\n" +
		"       file: bex.py\n" +
		"\n" +
		"  Caused by:\n" +
		"    → root cause\n"
	assert.Equal(t, want, buf.String())
}

func TestLogger_Error_Nil(t *testing.T) {
	l, buf := newBufferedLogger(t)
	l.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	l, buf := newBufferedLogger(t)
	l.SetJSON(true)

	l.Info("environment ready", "fingerprint", "abc")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "environment ready", record["msg"])
	assert.Equal(t, "abc", record["fingerprint"])
}
