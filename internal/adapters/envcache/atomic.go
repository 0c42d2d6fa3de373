package envcache

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
	"go.trai.ch/bex/internal/core/domain"
	"go.trai.ch/zerr"
)

// writeJSONAtomic writes v as JSON to path via a temp file and rename,
// so readers never observe a partially written file.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, err.Error()), "path", path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, err.Error()), "path", path)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, err.Error()), "path", path)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, err.Error()), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, err.Error()), "path", path)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, err.Error()), "path", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, err.Error()), "path", path)
	}
	return nil
}

// readJSON decodes path into v. A missing file is reported as os.ErrNotExist.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is inside the cache root
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return zerr.With(zerr.Wrap(domain.ErrCacheReadFailed, err.Error()), "path", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCacheUnmarshalFailed, err.Error()), "path", path)
	}
	return nil
}

// fileDigest returns the hex BLAKE3 digest of the file at path.
func fileDigest(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // path is inside the cache root
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
