package domain

import (
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

var entrypointPattern = regexp.MustCompile(
	`^(?P<module>[A-Za-z_]\w*(?:\.[A-Za-z_]\w*)*)\s*:\s*` +
		`(?P<attr>[A-Za-z_]\w*(?:\.[A-Za-z_]\w*)*)\s*` +
		`(?P<extras>\[[^\]]*\])?$`,
)

// Entrypoint identifies the callable invoked once the environment is ready.
type Entrypoint struct {
	// Module is the dotted module path, e.g. "pkg.mod".
	Module string
	// Attribute is the dotted attribute path inside Module, e.g. "run" or "App.main".
	Attribute string
	// Extras is an optional "[...]" suffix. It is accepted and carried but not interpreted.
	Extras string
}

// ParseEntrypoint parses a "<module>:<callable>" reference.
func ParseEntrypoint(ref string) (Entrypoint, error) {
	ref = strings.TrimSpace(ref)
	m := entrypointPattern.FindStringSubmatch(ref)
	if m == nil {
		err := zerr.Wrap(ErrInvalidConfig, "entrypoint must have the form <module>:<callable>")
		err = zerr.With(err, "field", "entrypoint")
		return Entrypoint{}, zerr.With(err, "value", ref)
	}

	return Entrypoint{
		Module:    m[entrypointPattern.SubexpIndex("module")],
		Attribute: m[entrypointPattern.SubexpIndex("attr")],
		Extras:    m[entrypointPattern.SubexpIndex("extras")],
	}, nil
}

// AttributePath returns the attribute path split on dots.
func (e Entrypoint) AttributePath() []string {
	return strings.Split(e.Attribute, ".")
}

// String returns the canonical "<module>:<callable>" form without extras.
func (e Entrypoint) String() string {
	return e.Module + ":" + e.Attribute
}
