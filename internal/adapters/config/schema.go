package config

import (
	"strings"

	"go.trai.ch/bex/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Header is the YAML document inside the bootstrap block.
type Header struct {
	// UV is nil when the key is absent, which is distinct from an explicit value.
	UV             *string      `yaml:"uv"`
	RequiresPython string       `yaml:"requires-python"`
	Requirements   Requirements `yaml:"requirements"`
	Entrypoint     string       `yaml:"entrypoint"`
}

// knownKeys are the top-level keys understood by this version.
var knownKeys = map[string]struct{}{
	"uv":              {},
	"requires-python": {},
	"requirements":    {},
	"entrypoint":      {},
}

// Requirements is an ordered list of requirement specifiers.
//
// It accepts either a (block) string with one specifier per line or a YAML
// sequence. Blank lines and surrounding whitespace are dropped.
type Requirements []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Requirements) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*r = splitRequirements(node.Value)
		return nil
	case yaml.SequenceNode:
		reqs := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return invalidField("requirements", "items must be strings")
			}
			reqs = append(reqs, splitRequirements(item.Value)...)
		}
		*r = reqs
		return nil
	default:
		return invalidField("requirements", "must be a string or a list of strings")
	}
}

func splitRequirements(text string) []string {
	lines := strings.Split(text, "\n")
	reqs := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			reqs = append(reqs, line)
		}
	}
	return reqs
}

func invalidField(field, msg string) error {
	return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, field+" "+msg), "field", field)
}
