package domain

import "time"

// BuildStatus is the lifecycle state of a cached environment.
type BuildStatus string

// Supported build statuses.
const (
	StatusBuilding BuildStatus = "building"
	StatusReady    BuildStatus = "ready"
	StatusFailed   BuildStatus = "failed"
)

// CacheRecord is the persisted status of one environment instance.
type CacheRecord struct {
	Fingerprint Fingerprint `json:"fingerprint"`
	Location    string      `json:"location"`
	Status      BuildStatus `json:"status"`
	ToolVersion string      `json:"tool_version,omitzero"`
	Interpreter string      `json:"interpreter,omitzero"`
	HolderPID   int         `json:"holder_pid,omitzero"`
	CreatedAt   time.Time   `json:"created_at,omitzero"`
	Error       string      `json:"error,omitzero"`
}

// ReadyMarker is the content of the marker written once a build is complete.
type ReadyMarker struct {
	Fingerprint Fingerprint `json:"fingerprint"`
	Interpreter string      `json:"interpreter"`
	// LockDigest is the BLAKE3 digest of the compiled requirements, if any.
	LockDigest  string    `json:"lock_digest,omitzero"`
	CommittedAt time.Time `json:"committed_at"`
}

// ToolRequest describes the uv binary a build needs.
type ToolRequest struct {
	// CacheDir is where downloaded binaries and release metadata are stored.
	CacheDir string
	Version  ToolVersion
	// Binary is an existing uv executable to use instead of downloading one.
	Binary string
}

// Tool is a uv binary available on disk.
type Tool struct {
	Path    string
	Version string
}

// BuildSpec is everything the external tool needs to build one environment.
type BuildSpec struct {
	// Location is the environment directory to build into.
	Location string
	// Tool selects the uv binary used for the build.
	Tool             ToolRequest
	PythonConstraint string
	Requirements     []string
}

// BuildResult describes an environment produced by the external tool.
type BuildResult struct {
	// Interpreter is the absolute path of the environment's Python interpreter.
	Interpreter string
	// ToolVersion is the uv version actually used.
	ToolVersion string
	// LockFile is the compiled requirements file, empty if none was produced.
	LockFile string
}

// Environment is a ready environment handed to the dispatcher.
type Environment struct {
	Fingerprint Fingerprint
	Location    string
	Interpreter string
	ToolVersion string
	// Reused is true when the environment came from the cache without a build.
	Reused bool
}
