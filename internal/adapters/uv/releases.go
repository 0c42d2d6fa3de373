package uv

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/bex/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	releasesFileName = "releases.json"
	releasesTTL      = 24 * time.Hour
	maxReleasesBody  = 8 << 20
)

type release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name,omitzero"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at,omitzero"`
}

func (r release) version() string {
	if r.TagName != "" {
		return r.TagName
	}
	return r.Name
}

type releaseCache struct {
	FetchedAt time.Time `json:"fetched_at"`
	Releases  []release `json:"releases"`
}

// releases returns the uv release listing, served from cacheDir while it is fresh.
// A stale listing is used when the API cannot be reached.
func (p *Provider) releases(ctx context.Context, cacheDir string) ([]release, error) {
	cachePath := filepath.Join(cacheDir, releasesFileName)

	cached, cacheErr := loadReleaseCache(cachePath)
	if cacheErr == nil && p.now().Sub(cached.FetchedAt) < releasesTTL {
		return cached.Releases, nil
	}

	fetched, err := p.fetchReleases(ctx)
	if err != nil {
		if cacheErr == nil && ctx.Err() == nil {
			p.logger.Warn("using stale uv release listing", "fetched_at", cached.FetchedAt.Format(time.RFC3339))
			return cached.Releases, nil
		}
		return nil, err
	}

	entry := releaseCache{FetchedAt: p.now().UTC(), Releases: fetched}
	if err := saveReleaseCache(cachePath, entry); err != nil {
		p.logger.Debug("could not cache uv release listing", "error", err.Error())
	}
	return fetched, nil
}

func (p *Provider) fetchReleases(ctx context.Context) ([]release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL, http.NoBody)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrToolResolutionFailed, err.Error()), "url", p.apiURL)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrToolResolutionFailed, err.Error()), "url", p.apiURL)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		apiErr := zerr.With(zerr.Wrap(domain.ErrToolResolutionFailed, "unexpected response from release API"), "url", p.apiURL)
		return nil, zerr.With(apiErr, "status_code", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReleasesBody))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrToolResolutionFailed, err.Error()), "url", p.apiURL)
	}

	var out []release
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrToolResolutionFailed, err.Error()), "url", p.apiURL)
	}
	return out, nil
}

func loadReleaseCache(path string) (releaseCache, error) {
	var entry releaseCache
	data, err := os.ReadFile(path) //nolint:gosec // path is inside the tool cache
	if err != nil {
		return entry, err
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return entry, err
	}
	if entry.FetchedAt.IsZero() {
		return entry, fs.ErrNotExist
	}
	return entry, nil
}

func saveReleaseCache(path string, entry releaseCache) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "releases-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
