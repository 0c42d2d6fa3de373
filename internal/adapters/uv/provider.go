// Package uv drives the uv package manager: it acquires a uv binary and uses
// it to build virtual environments.
package uv

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/bex/internal/core/domain"
	"go.trai.ch/bex/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

const (
	releasesAPIURL    = "https://api.github.com/repos/astral-sh/uv/releases"
	downloadBaseURL   = "https://github.com/astral-sh/uv/releases/download"
	httpClientTimeout = 5 * time.Minute
)

// Provider implements ports.ToolProvider by downloading uv releases from GitHub.
type Provider struct {
	logger ports.Logger

	client      *http.Client
	apiURL      string
	downloadURL string
	platform    platform
	now         func() time.Time

	group singleflight.Group
}

var _ ports.ToolProvider = (*Provider)(nil)

// NewProvider creates a Provider talking to the public GitHub endpoints.
func NewProvider(logger ports.Logger) *Provider {
	return &Provider{
		logger:      logger,
		client:      &http.Client{Timeout: httpClientTimeout},
		apiURL:      releasesAPIURL,
		downloadURL: downloadBaseURL,
		platform:    hostPlatform(),
		now:         time.Now,
	}
}

// Ensure returns the uv binary for req.
func (p *Provider) Ensure(ctx context.Context, req domain.ToolRequest) (domain.Tool, error) {
	if req.Binary != "" {
		return p.explicit(ctx, req)
	}

	version, err := p.resolve(ctx, req)
	if err != nil {
		return domain.Tool{}, err
	}

	binPath := filepath.Join(req.CacheDir, "uv-"+version+p.platform.exe())
	if info, statErr := os.Stat(binPath); statErr == nil && info.Mode().IsRegular() {
		return domain.Tool{Path: binPath, Version: version}, nil
	}

	_, err, _ = p.group.Do(binPath, func() (any, error) {
		return nil, p.install(ctx, version, binPath)
	})
	if err != nil {
		return domain.Tool{}, err
	}
	return domain.Tool{Path: binPath, Version: version}, nil
}

// explicit validates a user supplied uv binary and reports its version.
func (p *Provider) explicit(ctx context.Context, req domain.ToolRequest) (domain.Tool, error) {
	bin := req.Binary
	if !strings.ContainsRune(bin, filepath.Separator) {
		resolved, err := exec.LookPath(bin)
		if err != nil {
			return domain.Tool{}, zerr.With(zerr.Wrap(domain.ErrToolResolutionFailed, err.Error()), "uv", bin)
		}
		bin = resolved
	}

	out, err := exec.CommandContext(ctx, bin, "--version").Output() //nolint:gosec // user selected binary
	if err != nil {
		return domain.Tool{}, zerr.With(zerr.Wrap(domain.ErrToolResolutionFailed, err.Error()), "uv", bin)
	}

	version := parseVersionOutput(string(out))
	if req.Version.IsSet() && version != "" {
		if want, ok := exactVersion(req.Version.Value()); ok && want != version {
			p.logger.Warn("uv binary does not match the pinned version", "uv", bin, "version", version, "pinned", want)
		}
	}
	return domain.Tool{Path: bin, Version: version}, nil
}

// parseVersionOutput extracts "0.5.1" from "uv 0.5.1 (abc123 2024-11-08)".
func parseVersionOutput(out string) string {
	fields := strings.Fields(out)
	if len(fields) >= 2 && fields[0] == "uv" {
		return fields[1]
	}
	return ""
}

func (p *Provider) resolve(ctx context.Context, req domain.ToolRequest) (string, error) {
	spec := strings.TrimSpace(req.Version.Value())
	if spec == "" {
		spec = latestVersion
	}
	if v, ok := exactVersion(spec); ok {
		return v, nil
	}

	releases, err := p.releases(ctx, req.CacheDir)
	if err != nil {
		return "", err
	}
	version, err := selectVersion(spec, releases)
	if err != nil {
		return "", err
	}
	p.logger.Debug("resolved uv version", "constraint", spec, "version", version)
	return version, nil
}

// install downloads the release archive and extracts the binary to binPath.
func (p *Provider) install(ctx context.Context, version, binPath string) error {
	target, archive, err := p.platform.target()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(binPath), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrToolDownloadFailed, err.Error()), "path", binPath)
	}

	url := p.downloadURL + "/" + version + "/" + archive
	p.logger.Info("downloading uv", "version", version, "target", target)

	archivePath, err := p.download(ctx, url, filepath.Dir(binPath))
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(archivePath) }()

	tmp, err := os.CreateTemp(filepath.Dir(binPath), ".uv-*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrToolDownloadFailed, err.Error()), "path", binPath)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	extractErr := extractBinary(archivePath, archive, "uv"+p.platform.exe(), tmp)
	closeErr := tmp.Close()
	if extractErr != nil || closeErr != nil {
		cause := extractErr
		if cause == nil {
			cause = closeErr
		}
		failed := zerr.With(zerr.Wrap(domain.ErrToolDownloadFailed, cause.Error()), "url", url)
		return zerr.With(failed, "version", version)
	}

	if err := os.Chmod(tmpName, domain.ExecPerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrToolDownloadFailed, err.Error()), "path", binPath)
	}
	if err := os.Rename(tmpName, binPath); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrToolDownloadFailed, err.Error()), "path", binPath)
	}
	return nil
}

func (p *Provider) download(ctx context.Context, url, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrToolDownloadFailed, err.Error()), "url", url)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrToolDownloadFailed, err.Error()), "url", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		httpErr := zerr.With(zerr.Wrap(domain.ErrToolDownloadFailed, "unexpected response"), "url", url)
		return "", zerr.With(httpErr, "status_code", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(dir, ".uv-archive-*")
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrToolDownloadFailed, err.Error()), "url", url)
	}
	_, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmp.Name())
		cause := copyErr
		if cause == nil {
			cause = closeErr
		}
		return "", zerr.With(zerr.Wrap(domain.ErrToolDownloadFailed, cause.Error()), "url", url)
	}
	return tmp.Name(), nil
}
