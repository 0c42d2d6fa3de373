package envcache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.trai.ch/bex/internal/core/domain"
	"go.trai.ch/bex/internal/core/ports"
	"go.trai.ch/zerr"
)

// Provider opens Stores and cleans cache roots.
type Provider struct {
	logger ports.Logger
}

var (
	_ ports.CacheProvider = (*Provider)(nil)
	_ ports.CacheJanitor  = (*Provider)(nil)
)

// NewProvider creates a Provider.
func NewProvider(logger ports.Logger) *Provider {
	return &Provider{logger: logger}
}

// Open returns a Store rooted at root.
func (p *Provider) Open(root string, policy domain.LockPolicy) (ports.EnvironmentCache, error) {
	if root == "" {
		return nil, zerr.Wrap(domain.ErrCacheCreateFailed, "cache root is empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCacheCreateFailed, err.Error()), "path", root)
	}
	return NewStore(abs, policy, p.logger), nil
}

// Prune removes every environment that is not ready and not being built.
// Environments whose lock is held are left alone.
func (p *Provider) Prune(ctx context.Context, root string) ([]domain.Fingerprint, error) {
	envsDir := filepath.Join(root, domain.EnvsDirName)
	entries, err := os.ReadDir(envsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrCacheReadFailed, err.Error()), "path", envsDir)
	}
	if err := os.MkdirAll(filepath.Join(root, domain.LocksDirName), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCacheCreateFailed, err.Error()), "path", root)
	}

	store := NewStore(root, domain.LockPolicy{FailFast: true}, p.logger)

	var (
		removed []domain.Fingerprint
		errs    error
	)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !entry.IsDir() {
			continue
		}
		fp := domain.Fingerprint(entry.Name())

		ok, err := p.pruneOne(ctx, store, fp)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		if ok {
			removed = append(removed, fp)
		}
	}

	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	return removed, errs
}

func (p *Provider) pruneOne(ctx context.Context, store *Store, fp domain.Fingerprint) (bool, error) {
	lock, err := acquireLock(ctx, domain.LockPath(store.root, fp), store.policy)
	if err != nil {
		if errors.Is(err, domain.ErrBuildLockTimeout) {
			p.logger.Debug("skipping environment in use", "fingerprint", fp.String())
			return false, nil
		}
		return false, err
	}
	defer func() { _ = lock.release() }()

	rec, err := store.Lookup(fp)
	if err != nil {
		return false, err
	}
	if rec != nil {
		return false, nil
	}

	location := domain.EnvPath(store.root, fp)
	if err := os.RemoveAll(location); err != nil {
		return false, zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, err.Error()), "path", location)
	}
	p.logger.Debug("removed environment", "fingerprint", fp.String())
	return true, nil
}

// Purge removes the cache root. Environments whose lock is held by another
// process survive together with their lock file, and so does the root.
func (p *Provider) Purge(root string) error {
	fingerprints, err := cachedFingerprints(root)
	if err != nil {
		return err
	}
	if len(fingerprints) > 0 {
		if err := os.MkdirAll(filepath.Join(root, domain.LocksDirName), domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(domain.ErrCacheCreateFailed, err.Error()), "path", root)
		}
	}

	var (
		kept int
		errs error
	)
	for _, fp := range fingerprints {
		removed, err := p.purgeOne(root, fp)
		if err != nil {
			errs = errors.Join(errs, err)
		}
		if !removed {
			kept++
		}
	}
	if errs != nil {
		return errs
	}

	if kept == 0 {
		if err := os.RemoveAll(root); err != nil {
			return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, err.Error()), "path", root)
		}
		return nil
	}

	p.logger.Warn("kept environments that are in use", "count", kept)
	entries, err := os.ReadDir(root)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCacheReadFailed, err.Error()), "path", root)
	}
	for _, entry := range entries {
		if entry.Name() == domain.EnvsDirName || entry.Name() == domain.LocksDirName {
			continue
		}
		path := filepath.Join(root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, err.Error()), "path", path))
		}
	}
	return errs
}

// purgeOne removes an environment and its lock file while holding the lock.
// It reports false when another process holds the lock.
func (p *Provider) purgeOne(root string, fp domain.Fingerprint) (bool, error) {
	lockPath := domain.LockPath(root, fp)
	lock, err := acquireLock(context.Background(), lockPath, domain.LockPolicy{FailFast: true})
	if err != nil {
		if errors.Is(err, domain.ErrBuildLockTimeout) {
			p.logger.Debug("keeping environment in use", "fingerprint", fp.String())
			return false, nil
		}
		return false, err
	}
	defer func() { _ = lock.release() }()

	location := domain.EnvPath(root, fp)
	if err := os.RemoveAll(location); err != nil {
		return false, zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, err.Error()), "path", location)
	}
	// Waiters that opened the old file notice the unlink and lock a new one.
	_ = os.Remove(lockPath)
	return true, nil
}

// cachedFingerprints lists the fingerprints that have an environment
// directory or a lock file under root.
func cachedFingerprints(root string) ([]domain.Fingerprint, error) {
	seen := make(map[domain.Fingerprint]struct{})

	envsDir := filepath.Join(root, domain.EnvsDirName)
	envs, err := os.ReadDir(envsDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, zerr.With(zerr.Wrap(domain.ErrCacheReadFailed, err.Error()), "path", envsDir)
	}
	for _, entry := range envs {
		if entry.IsDir() {
			seen[domain.Fingerprint(entry.Name())] = struct{}{}
		}
	}

	locksDir := filepath.Join(root, domain.LocksDirName)
	locks, err := os.ReadDir(locksDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, zerr.With(zerr.Wrap(domain.ErrCacheReadFailed, err.Error()), "path", locksDir)
	}
	for _, entry := range locks {
		if name, ok := strings.CutSuffix(entry.Name(), domain.LockSuffix); ok && !entry.IsDir() {
			seen[domain.Fingerprint(name)] = struct{}{}
		}
	}

	fingerprints := make([]domain.Fingerprint, 0, len(seen))
	for fp := range seen {
		fingerprints = append(fingerprints, fp)
	}
	sort.Slice(fingerprints, func(i, j int) bool { return fingerprints[i] < fingerprints[j] })
	return fingerprints, nil
}
