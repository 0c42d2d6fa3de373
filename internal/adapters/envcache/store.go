// Package envcache implements the on-disk environment cache.
//
// Layout under the cache root:
//
//	envs/<fingerprint>/record.json   build status
//	envs/<fingerprint>/READY         written last by Commit
//	envs/<fingerprint>/.venv/        the environment itself
//	locks/<fingerprint>.lock         advisory build lock holding the holder PID
package envcache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/bex/internal/core/domain"
	"go.trai.ch/bex/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store implements ports.EnvironmentCache.
type Store struct {
	root   string
	policy domain.LockPolicy
	logger ports.Logger
	now    func() time.Time
}

var _ ports.EnvironmentCache = (*Store)(nil)

// NewStore returns a Store rooted at root. Nothing is created on disk until a build starts.
func NewStore(root string, policy domain.LockPolicy, logger ports.Logger) *Store {
	return &Store{
		root:   root,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

// Root returns the cache root directory.
func (s *Store) Root() string {
	return s.root
}

type buildHandle struct {
	fp       domain.Fingerprint
	location string
	lock     *fileLock
	record   domain.CacheRecord
	claimed  bool
	finished bool
}

func (h *buildHandle) Fingerprint() domain.Fingerprint { return h.fp }

func (h *buildHandle) Location() string { return h.location }

// Lookup returns the record of a complete environment, or nil on a miss.
// Anything short of a ready record with a matching marker and an existing
// interpreter is a miss.
func (s *Store) Lookup(fp domain.Fingerprint) (*domain.CacheRecord, error) {
	location := domain.EnvPath(s.root, fp)

	var record domain.CacheRecord
	if err := readJSON(filepath.Join(location, domain.RecordFileName), &record); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		if errors.Is(err, domain.ErrCacheUnmarshalFailed) {
			s.logger.Debug("ignoring unreadable cache record", "fingerprint", fp.String())
			return nil, nil
		}
		return nil, err
	}

	if record.Status != domain.StatusReady || record.Fingerprint != fp {
		s.logger.Debug("cache record not ready", "fingerprint", fp.String(), "status", string(record.Status))
		return nil, nil
	}

	if reason := s.verifyMarker(location, fp, &record); reason != "" {
		s.logger.Debug("cached environment is incomplete", "fingerprint", fp.String(), "reason", reason)
		return nil, nil
	}

	record.Location = location
	return &record, nil
}

// verifyMarker returns a non-empty reason when the ready marker does not vouch for the environment.
func (s *Store) verifyMarker(location string, fp domain.Fingerprint, record *domain.CacheRecord) string {
	var marker domain.ReadyMarker
	if err := readJSON(filepath.Join(location, domain.ReadyMarkerName), &marker); err != nil {
		return "ready marker missing"
	}
	if marker.Fingerprint != fp {
		return "ready marker fingerprint mismatch"
	}
	if marker.Interpreter == "" || marker.Interpreter != record.Interpreter {
		return "interpreter mismatch"
	}
	if _, err := os.Stat(marker.Interpreter); err != nil {
		return "interpreter missing"
	}
	if marker.LockDigest != "" {
		digest, err := fileDigest(filepath.Join(location, domain.RequirementsLockName))
		if err != nil || digest != marker.LockDigest {
			return "compiled requirements changed"
		}
	}
	return ""
}

// BeginBuild takes the per-fingerprint lock and claims the build slot.
//
// When the environment became ready while waiting for the lock, the handle is
// returned unclaimed and the environment is left untouched; the caller is
// expected to look it up again and Release.
func (s *Store) BeginBuild(ctx context.Context, fp domain.Fingerprint) (ports.BuildHandle, error) {
	for _, dir := range []string{filepath.Join(s.root, domain.EnvsDirName), filepath.Join(s.root, domain.LocksDirName)} {
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrCacheCreateFailed, err.Error()), "path", dir)
		}
	}

	lock, err := acquireLock(ctx, domain.LockPath(s.root, fp), s.policy)
	if err != nil {
		return nil, err
	}

	h := &buildHandle{
		fp:       fp,
		location: domain.EnvPath(s.root, fp),
		lock:     lock,
	}

	if rec, lookupErr := s.Lookup(fp); lookupErr == nil && rec != nil {
		return h, nil
	}

	if err := s.claim(h); err != nil {
		_ = lock.release()
		return nil, err
	}
	return h, nil
}

// claim wipes whatever a previous attempt left behind and writes a building record.
func (s *Store) claim(h *buildHandle) error {
	var previous domain.CacheRecord
	if err := readJSON(filepath.Join(h.location, domain.RecordFileName), &previous); err == nil {
		if previous.Status == domain.StatusBuilding && !processAlive(previous.HolderPID) {
			s.logger.Warn("reclaiming stale environment build",
				"fingerprint", h.fp.String(), "holder_pid", previous.HolderPID)
		}
	}

	if err := os.RemoveAll(h.location); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, err.Error()), "path", h.location)
	}
	if err := os.MkdirAll(h.location, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCacheCreateFailed, err.Error()), "path", h.location)
	}

	h.record = domain.CacheRecord{
		Fingerprint: h.fp,
		Location:    h.location,
		Status:      domain.StatusBuilding,
		HolderPID:   os.Getpid(),
		CreatedAt:   s.now().UTC(),
	}
	if err := writeJSONAtomic(filepath.Join(h.location, domain.RecordFileName), h.record); err != nil {
		return err
	}

	h.claimed = true
	return nil
}

func (s *Store) handle(h ports.BuildHandle) (*buildHandle, error) {
	bh, ok := h.(*buildHandle)
	if !ok || bh == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrLockFailed, "foreign build handle"), "root", s.root)
	}
	return bh, nil
}

// Commit marks the environment ready. The ready marker is written last.
func (s *Store) Commit(h ports.BuildHandle, result *domain.BuildResult) error {
	bh, err := s.handle(h)
	if err != nil {
		return err
	}
	if !bh.claimed || bh.finished {
		return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, "build slot is not claimed"), "fingerprint", bh.fp.String())
	}
	if result == nil || result.Interpreter == "" {
		return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, "build result has no interpreter"), "fingerprint", bh.fp.String())
	}

	marker := domain.ReadyMarker{
		Fingerprint: bh.fp,
		Interpreter: result.Interpreter,
		CommittedAt: s.now().UTC(),
	}
	if result.LockFile != "" {
		digest, digestErr := fileDigest(result.LockFile)
		if digestErr != nil {
			return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, digestErr.Error()), "path", result.LockFile)
		}
		marker.LockDigest = digest
	}

	record := bh.record
	record.Status = domain.StatusReady
	record.ToolVersion = result.ToolVersion
	record.Interpreter = result.Interpreter
	record.HolderPID = 0

	if err := writeJSONAtomic(filepath.Join(bh.location, domain.RecordFileName), record); err != nil {
		return err
	}
	if err := writeJSONAtomic(filepath.Join(bh.location, domain.ReadyMarkerName), marker); err != nil {
		return err
	}

	bh.record = record
	bh.finished = true
	return nil
}

// Abort marks the environment failed and removes everything but the record.
// It does nothing for an unclaimed or already finished handle.
func (s *Store) Abort(h ports.BuildHandle, cause error) error {
	bh, err := s.handle(h)
	if err != nil {
		return err
	}
	if !bh.claimed || bh.finished {
		return nil
	}
	bh.finished = true

	record := bh.record
	record.Status = domain.StatusFailed
	record.HolderPID = 0
	if cause != nil {
		record.Error = cause.Error()
	}

	var errs []error
	entries, err := os.ReadDir(bh.location)
	if err != nil && !os.IsNotExist(err) {
		errs = append(errs, err)
	}
	for _, entry := range entries {
		if entry.Name() == domain.RecordFileName {
			continue
		}
		if rmErr := os.RemoveAll(filepath.Join(bh.location, entry.Name())); rmErr != nil {
			errs = append(errs, rmErr)
		}
	}

	if err := os.MkdirAll(bh.location, domain.DirPerm); err != nil {
		errs = append(errs, err)
	} else if err := writeJSONAtomic(filepath.Join(bh.location, domain.RecordFileName), record); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, errors.Join(errs...).Error()), "path", bh.location)
	}
	return nil
}

// Release unlocks the build slot. It is safe to call more than once.
func (s *Store) Release(h ports.BuildHandle) error {
	bh, err := s.handle(h)
	if err != nil {
		return err
	}
	return bh.lock.release()
}
