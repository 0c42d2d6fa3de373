package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// DiscoveryKind classifies the outcome of a directory scan.
type DiscoveryKind uint8

const (
	// DiscoveryNone means no candidate matched.
	DiscoveryNone DiscoveryKind = iota
	// DiscoveryOne means exactly one candidate matched.
	DiscoveryOne
	// DiscoveryAmbiguous means more than one candidate matched.
	DiscoveryAmbiguous
)

// Discovery is the result of scanning a directory for bex files.
type Discovery struct {
	Kind       DiscoveryKind
	Dir        string
	Candidates []string
}

// NewDiscovery classifies a sorted list of candidates.
func NewDiscovery(dir string, candidates []string) Discovery {
	d := Discovery{Dir: dir, Candidates: candidates}
	switch len(candidates) {
	case 0:
		d.Kind = DiscoveryNone
	case 1:
		d.Kind = DiscoveryOne
	default:
		d.Kind = DiscoveryAmbiguous
	}
	return d
}

// Resolve returns the single candidate or the matching configuration error.
func (d Discovery) Resolve() (string, error) {
	switch d.Kind {
	case DiscoveryOne:
		return d.Candidates[0], nil
	case DiscoveryAmbiguous:
		err := zerr.With(zerr.Wrap(ErrAmbiguousConfigFile, "cannot pick a bex file"), "directory", d.Dir)
		return "", zerr.With(err, "candidates", strings.Join(d.Candidates, ", "))
	default:
		err := zerr.Wrap(ErrConfigNotFound, "no file matches "+DefaultFilePattern)
		return "", zerr.With(err, "directory", d.Dir)
	}
}
