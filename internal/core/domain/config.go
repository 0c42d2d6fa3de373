// Package domain contains the core types of the bex bootstrapper.
package domain

import "slices"

// ToolVersion is the uv version declared in a header.
// The zero value means the header did not pin a version.
type ToolVersion struct {
	value string
	set   bool
}

// PinToolVersion returns an explicitly declared tool version.
func PinToolVersion(v string) ToolVersion {
	return ToolVersion{value: v, set: true}
}

// IsSet reports whether the version was declared explicitly.
func (v ToolVersion) IsSet() bool {
	return v.set
}

// Value returns the declared constraint, or "latest" when unspecified.
func (v ToolVersion) Value() string {
	if !v.set {
		return "latest"
	}
	return v.value
}

// String implements fmt.Stringer.
func (v ToolVersion) String() string {
	if !v.set {
		return "latest (default)"
	}
	return v.value
}

// Config is the validated bootstrap declaration of a bex file.
type Config struct {
	// File is the absolute path of the file the header was read from.
	File string
	// Directory is the resolution directory of the invocation.
	Directory string

	ToolVersion    ToolVersion
	RequiresPython string
	Requirements   []string
	Entrypoint     Entrypoint
}

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	c.Requirements = slices.Clone(c.Requirements)
	return c
}

// Mode selects what happens once the environment is ready.
type Mode string

const (
	// ModeExec bootstraps the environment and runs the entrypoint.
	ModeExec Mode = "exec"
	// ModeInit only bootstraps the environment.
	ModeInit Mode = "init"
)

// LoadOptions controls how a bex file is located and parsed.
type LoadOptions struct {
	// Directory is the resolution directory. Empty means the current directory.
	Directory string
	// File is an explicit config path. Empty triggers discovery in Directory.
	File string
	// Strict rejects header keys that are not part of the schema.
	Strict bool
}
