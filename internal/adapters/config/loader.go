// Package config locates bex files and parses their bootstrap header.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/bex/internal/adapters/header"
	"go.trai.ch/bex/internal/core/domain"
	"go.trai.ch/bex/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader reading from the OS filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: NewOSFS()}
}

// Discover scans dir for regular files matching domain.DefaultFilePattern.
func (l *Loader) Discover(dir string) (domain.Discovery, error) {
	entries, err := l.FS.ReadDir(dir)
	if err != nil {
		return domain.Discovery{}, zerr.With(zerr.Wrap(domain.ErrConfigNotFound, err.Error()), "directory", dir)
	}

	var candidates []string
	for _, entry := range entries {
		matched, matchErr := filepath.Match(domain.DefaultFilePattern, entry.Name())
		if matchErr != nil {
			return domain.Discovery{}, zerr.Wrap(matchErr, "invalid discovery pattern")
		}
		if !matched || entry.IsDir() {
			continue
		}
		candidates = append(candidates, filepath.Join(dir, entry.Name()))
	}
	slices.Sort(candidates)

	return domain.NewDiscovery(dir, candidates), nil
}

// Load resolves the bex file, extracts its header and validates it.
func (l *Loader) Load(opts domain.LoadOptions) (*domain.Config, error) {
	dir, err := resolveDirectory(opts.Directory)
	if err != nil {
		return nil, err
	}

	file, err := l.resolveFile(dir, opts.File)
	if err != nil {
		return nil, err
	}
	l.Logger.Debug("using bex file", "file", file)

	content, err := l.FS.ReadFile(file)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "file", file)
	}

	block, err := header.Extract(content)
	if err != nil {
		return nil, zerr.With(err, "file", file)
	}

	cfg, err := l.parse(block, opts.Strict)
	if err != nil {
		return nil, zerr.With(err, "file", file)
	}
	cfg.File = file
	cfg.Directory = dir

	return cfg, nil
}

func (l *Loader) resolveFile(dir, file string) (string, error) {
	if file == "" {
		discovery, err := l.Discover(dir)
		if err != nil {
			return "", err
		}
		return discovery.Resolve()
	}

	abs, err := filepath.Abs(file)
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, err.Error()), "file", file)
	}

	info, err := l.FS.Stat(abs)
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, err.Error()), "file", abs)
	}
	if !info.Mode().IsRegular() {
		return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "not a regular file"), "file", abs)
	}
	return abs, nil
}

func (l *Loader) parse(block *header.Block, strict bool) (*domain.Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(block.Text), &doc); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, err.Error()), "header_line", block.Line)
	}

	if unknown := unknownKeys(&doc); len(unknown) > 0 {
		if strict {
			keys := strings.Join(unknown, ", ")
			err := zerr.Wrap(domain.ErrInvalidConfig, "unknown header keys: "+keys)
			return nil, zerr.With(err, "field", keys)
		}
		l.Logger.Debug("ignoring unknown header keys", "keys", strings.Join(unknown, ", "))
	}

	var hdr Header
	dec := yaml.NewDecoder(bytes.NewReader([]byte(block.Text)))
	dec.KnownFields(strict)
	if err := dec.Decode(&hdr); err != nil && !errors.Is(err, io.EOF) {
		if errors.Is(err, domain.ErrInvalidConfig) {
			return nil, err
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, err.Error()), "header_line", block.Line)
	}

	return toConfig(&hdr)
}

func toConfig(hdr *Header) (*domain.Config, error) {
	requiresPython := strings.TrimSpace(hdr.RequiresPython)
	entrypoint := strings.TrimSpace(hdr.Entrypoint)

	var missing []string
	if requiresPython == "" {
		missing = append(missing, "requires-python")
	}
	if entrypoint == "" {
		missing = append(missing, "entrypoint")
	}
	if len(missing) > 0 {
		fields := strings.Join(missing, ", ")
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "missing required field: "+fields), "field", fields)
	}

	cfg := &domain.Config{
		RequiresPython: requiresPython,
		Requirements:   slices.Clone([]string(hdr.Requirements)),
	}

	if hdr.UV != nil {
		uv := strings.TrimSpace(*hdr.UV)
		if uv == "" {
			return nil, invalidField("uv", "must not be empty, omit it to use the latest release")
		}
		cfg.ToolVersion = domain.PinToolVersion(uv)
	}

	ep, err := domain.ParseEntrypoint(entrypoint)
	if err != nil {
		return nil, err
	}
	cfg.Entrypoint = ep

	return cfg, nil
}

// unknownKeys returns the top-level mapping keys not understood by this version.
func unknownKeys(doc *yaml.Node) []string {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}

	var unknown []string
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		if _, ok := knownKeys[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	return unknown
}

func resolveDirectory(dir string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", zerr.Wrap(err, "failed to get current working directory")
		}
		return cwd, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve directory"), "directory", dir)
	}
	return abs, nil
}
