package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/bex/internal/ui/output"
)

func TestColorProfile(t *testing.T) {
	var buf bytes.Buffer

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfile(&buf), "NO_COLOR should force Ascii profile")

	t.Setenv("NO_COLOR", "")
	assert.Equal(t, termenv.Ascii, output.ColorProfile(&buf), "buffers are not terminals")
}

func TestColorProfileANSI(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.Equal(t, termenv.ANSI, output.ColorProfileANSI(nil))

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfileANSI(nil))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, output.IsTerminal(&bytes.Buffer{}))
	assert.False(t, output.IsTerminal(nil))
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	out := output.New(&buf)
	assert.NotNil(t, out)

	_, _ = out.WriteString("test")
	assert.Equal(t, "test", buf.String())
}

func TestNew_Nil(t *testing.T) {
	out := output.New(nil)
	assert.NotNil(t, out)
}

func TestNewWithProfile(t *testing.T) {
	var buf bytes.Buffer
	out := output.NewWithProfile(&buf, output.ColorProfileANSI)
	assert.NotNil(t, out)

	_, _ = out.WriteString("test")
	assert.Equal(t, "test", buf.String())
}
