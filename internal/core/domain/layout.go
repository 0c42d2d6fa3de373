package domain

import (
	"path/filepath"
	"runtime"
)

const (
	// BexDirName is the name of the per-project cache root directory.
	BexDirName = ".bex"

	// EnvsDirName holds one subdirectory per environment fingerprint.
	EnvsDirName = "envs"

	// LocksDirName holds the per-fingerprint advisory lock files.
	LocksDirName = "locks"

	// LockSuffix ends the name of every lock file.
	LockSuffix = ".lock"

	// ToolsDirName holds downloaded uv binaries and release metadata.
	ToolsDirName = "tools"

	// VenvDirName is the name of the virtual environment inside an environment directory.
	VenvDirName = ".venv"

	// RecordFileName is the status file of an environment directory.
	RecordFileName = "record.json"

	// ReadyMarkerName is written last, once every build artifact is in place.
	ReadyMarkerName = "READY"

	// RequirementsInName is the requirements input handed to the external tool.
	RequirementsInName = "requirements.in"

	// RequirementsLockName is the compiled requirements file produced by the external tool.
	RequirementsLockName = "requirements.txt"

	// DefaultFilePattern is the discovery pattern for bex files.
	DefaultFilePattern = "bex.*"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// ExecPerm is the permission for downloaded executables (rwxr-xr-x).
	ExecPerm = 0o755

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultCacheRoot returns the cache root used for a resolution directory.
func DefaultCacheRoot(dir string) string {
	return filepath.Join(dir, BexDirName)
}

// EnvPath returns the directory holding the environment for a fingerprint.
func EnvPath(root string, fp Fingerprint) string {
	return filepath.Join(root, EnvsDirName, fp.String())
}

// LockPath returns the advisory lock file for a fingerprint.
// It lives outside EnvPath so the environment can be removed while the lock is held.
func LockPath(root string, fp Fingerprint) string {
	return filepath.Join(root, LocksDirName, fp.String()+LockSuffix)
}

// ToolsPath returns the directory holding downloaded uv binaries.
func ToolsPath(root string) string {
	return filepath.Join(root, ToolsDirName, "uv")
}

// InterpreterPath returns the Python interpreter of the environment at location.
func InterpreterPath(location string) string {
	return interpreterPath(location, runtime.GOOS)
}

func interpreterPath(location, goos string) string {
	venv := filepath.Join(location, VenvDirName)
	if goos == "windows" {
		return filepath.Join(venv, "Scripts", "python.exe")
	}
	return filepath.Join(venv, "bin", "python")
}
