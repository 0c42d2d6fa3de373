package uv

import (
	"path/filepath"
	"runtime"

	"go.trai.ch/bex/internal/core/domain"
	"go.trai.ch/zerr"
)

// platform describes the host a uv release must match.
type platform struct {
	goos   string
	goarch string
	musl   bool
}

func hostPlatform() platform {
	return platform{
		goos:   runtime.GOOS,
		goarch: runtime.GOARCH,
		musl:   runtime.GOOS == "linux" && isMusl(),
	}
}

// isMusl reports whether the host uses musl as its C library.
func isMusl() bool {
	matches, err := filepath.Glob("/lib/ld-musl-*.so.1")
	return err == nil && len(matches) > 0
}

// exe returns the executable suffix of the platform.
func (p platform) exe() string {
	if p.goos == "windows" {
		return ".exe"
	}
	return ""
}

// target returns the release target triple, e.g. "uv-x86_64-unknown-linux-gnu",
// and the archive file name published for it.
func (p platform) target() (target, archive string, err error) {
	var arch string
	switch p.goarch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	default:
		return "", "", zerr.With(zerr.Wrap(domain.ErrUnsupportedPlatform, "unsupported architecture"), "arch", p.goarch)
	}

	switch p.goos {
	case "linux":
		abi := "gnu"
		if p.musl {
			abi = "musl"
		}
		target = "uv-" + arch + "-unknown-linux-" + abi
	case "darwin":
		target = "uv-" + arch + "-apple-darwin"
	case "windows":
		target = "uv-" + arch + "-pc-windows-msvc"
		return target, target + ".zip", nil
	default:
		return "", "", zerr.With(zerr.Wrap(domain.ErrUnsupportedPlatform, "unsupported operating system"), "os", p.goos)
	}
	return target, target + ".tar.gz", nil
}
