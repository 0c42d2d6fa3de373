// Package style provides the colors and icons used by bex output.
package style

import "github.com/charmbracelet/lipgloss"

// Log level colors.
var (
	Slate  = lipgloss.Color("#667085")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Log line icons.
const (
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "●"
)
