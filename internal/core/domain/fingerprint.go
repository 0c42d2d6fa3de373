package domain

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// fingerprintSchema versions the canonical serialization below.
const fingerprintSchema = "bex-env/v1"

// Fingerprint is the cache key of an environment built from a Config.
type Fingerprint string

// String implements fmt.Stringer.
func (f Fingerprint) String() string {
	return string(f)
}

// ComputeFingerprint hashes the canonical form of a Config.
//
// Fields are written in a fixed order with length prefixes. Requirement order
// is preserved and trailing whitespace is trimmed per line. An unpinned uv
// version is left out entirely so that bumping the default does not rebuild
// environments of users who never pinned one; an explicit pin, "latest"
// included, is part of the digest. File and Directory are not hashed.
func ComputeFingerprint(cfg Config) Fingerprint {
	hasher := xxhash.New()

	writeField(hasher, "schema", fingerprintSchema)

	if cfg.ToolVersion.IsSet() {
		writeField(hasher, "uv", strings.TrimSpace(cfg.ToolVersion.Value()))
	}

	writeField(hasher, "requires-python", strings.TrimSpace(cfg.RequiresPython))

	writeLength(hasher, len(cfg.Requirements))
	for _, req := range cfg.Requirements {
		writeField(hasher, "requirement", strings.TrimRightFunc(req, unicode.IsSpace))
	}

	writeField(hasher, "entrypoint", cfg.Entrypoint.String()+cfg.Entrypoint.Extras)

	return Fingerprint(fmt.Sprintf("%016x", hasher.Sum64()))
}

func writeField(hasher *xxhash.Digest, name, value string) {
	writeLength(hasher, len(name))
	_, _ = hasher.WriteString(name)
	writeLength(hasher, len(value))
	_, _ = hasher.WriteString(value)
}

func writeLength(hasher *xxhash.Digest, n int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n)) //nolint:gosec // lengths are never negative
	_, _ = hasher.Write(buf[:])
}
