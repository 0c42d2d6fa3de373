package uv

import (
	"slices"
	"strings"

	"go.trai.ch/bex/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/mod/semver"
)

const latestVersion = "latest"

// operators are matched longest first.
var operators = []string{"~=", "==", "!=", ">=", "<=", ">", "<", "="}

type constraint struct {
	op      string
	version string // canonical, "v" prefixed
}

// canonical returns the semver form of a uv version, or "" if it is not one.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

// exactVersion reports whether spec pins a single version without operators.
func exactVersion(spec string) (string, bool) {
	spec = strings.TrimSpace(spec)
	if spec == "" || strings.ContainsAny(spec, "<>=!~,*") {
		return "", false
	}
	if canonical(spec) == "" {
		return "", false
	}
	return strings.TrimPrefix(spec, "v"), true
}

func parseConstraints(spec string) ([]constraint, error) {
	var out []constraint
	for part := range strings.SplitSeq(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		op := "=="
		for _, candidate := range operators {
			if strings.HasPrefix(part, candidate) {
				op = candidate
				part = strings.TrimSpace(part[len(candidate):])
				break
			}
		}
		if op == "=" {
			op = "=="
		}
		v := canonical(part)
		if v == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrToolResolutionFailed, "invalid uv version constraint"), "constraint", spec)
		}
		out = append(out, constraint{op: op, version: v})
	}
	if len(out) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrToolResolutionFailed, "empty uv version constraint"), "constraint", spec)
	}
	return out, nil
}

func (c constraint) allows(v string) bool {
	cmp := semver.Compare(v, c.version)
	switch c.op {
	case "==":
		return cmp == 0
	case "!=":
		return cmp != 0
	case ">=":
		return cmp >= 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case "<":
		return cmp < 0
	case "~=":
		return cmp >= 0 && compatible(v, c.version)
	}
	return false
}

// compatible implements the "~=" prefix rule: all but the last component of
// the constraint must match.
func compatible(v, base string) bool {
	baseParts := strings.Split(strings.TrimPrefix(semver.Canonical(base), "v"), ".")
	given := strings.Count(strings.TrimPrefix(base, "v"), ".") + 1
	if given < 2 {
		return true
	}
	vParts := strings.Split(strings.TrimPrefix(semver.Canonical(v), "v"), ".")
	return slices.Equal(vParts[:given-1], baseParts[:given-1])
}

// selectVersion picks the newest stable release satisfying spec.
// "latest" selects the newest stable release.
func selectVersion(spec string, releases []release) (string, error) {
	var constraints []constraint
	if spec != latestVersion {
		var err error
		constraints, err = parseConstraints(spec)
		if err != nil {
			return "", err
		}
	}

	best := ""
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		v := canonical(r.version())
		if v == "" || semver.Prerelease(v) != "" {
			continue
		}
		if !allowedBy(constraints, v) {
			continue
		}
		if best == "" || semver.Compare(v, best) > 0 {
			best = v
		}
	}

	if best == "" {
		return "", zerr.With(zerr.Wrap(domain.ErrToolResolutionFailed, "no uv release satisfies the constraint"), "constraint", spec)
	}
	return strings.TrimPrefix(best, "v"), nil
}

func allowedBy(constraints []constraint, v string) bool {
	for _, c := range constraints {
		if !c.allows(v) {
			return false
		}
	}
	return true
}
