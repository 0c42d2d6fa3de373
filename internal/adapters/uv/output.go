package uv

import (
	"bytes"
	"strings"

	"go.trai.ch/bex/internal/core/ports"
)

// maxDiagnosticLines is how much of a step's output is kept for error reports.
const maxDiagnosticLines = 40

// stepWriter logs each output line of a build step at debug level and keeps
// the tail for diagnostics.
type stepWriter struct {
	logger ports.Logger
	step   string
	buf    []byte
	tail   []string
}

func (w *stepWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.line(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Close flushes a trailing line without newline.
func (w *stepWriter) Close() error {
	if len(w.buf) > 0 {
		w.line(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *stepWriter) line(raw []byte) {
	msg := strings.TrimRight(string(raw), "\r")
	w.logger.Debug(msg, "step", w.step)

	w.tail = append(w.tail, msg)
	if len(w.tail) > maxDiagnosticLines {
		w.tail = w.tail[len(w.tail)-maxDiagnosticLines:]
	}
}

// diagnostics returns the retained output.
func (w *stepWriter) diagnostics() string {
	return strings.TrimSpace(strings.Join(w.tail, "\n"))
}
