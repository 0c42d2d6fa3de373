package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bex/internal/adapters/config"
	"go.trai.ch/bex/internal/core/domain"
	"go.trai.ch/bex/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const validHeader = `#!/usr/bin/env bex
# /// bootstrap
# requires-python: ">=3.11,<3.12"
# requirements: |
#   foo
#
#   bar
# entrypoint: pkg.mod:run
# ///
`

func newLoader(t *testing.T, files fstest.MapFS) *config.Loader {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()

	loader := config.NewLoader(mockLogger)
	loader.FS = config.NewMapFSAdapter("/work", files)
	return loader
}

func metadata(t *testing.T, err error) map[string]any {
	t.Helper()

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	return zErr.Metadata()
}

func TestLoader_Load(t *testing.T) {
	loader := newLoader(t, fstest.MapFS{
		"bex.py": {Data: []byte(validHeader)},
	})

	cfg, err := loader.Load(domain.LoadOptions{Directory: "/work"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/work", "bex.py"), cfg.File)
	assert.Equal(t, "/work", cfg.Directory)
	assert.Equal(t, ">=3.11,<3.12", cfg.RequiresPython)
	assert.Equal(t, []string{"foo", "bar"}, cfg.Requirements)
	assert.Equal(t, domain.Entrypoint{Module: "pkg.mod", Attribute: "run"}, cfg.Entrypoint)
	assert.False(t, cfg.ToolVersion.IsSet())
}

func TestLoader_Load_Fields(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		check func(t *testing.T, cfg *domain.Config)
	}{
		{
			name: "uv pin",
			body: "# uv: \"0.4.30\"\n# requires-python: \">=3.12\"\n# entrypoint: app:main\n",
			check: func(t *testing.T, cfg *domain.Config) {
				assert.True(t, cfg.ToolVersion.IsSet())
				assert.Equal(t, "0.4.30", cfg.ToolVersion.Value())
			},
		},
		{
			name: "uv explicit latest",
			body: "# uv: latest\n# requires-python: \">=3.12\"\n# entrypoint: app:main\n",
			check: func(t *testing.T, cfg *domain.Config) {
				assert.True(t, cfg.ToolVersion.IsSet())
				assert.Equal(t, "latest", cfg.ToolVersion.Value())
			},
		},
		{
			name: "requirements as list",
			body: "# requires-python: \">=3.12\"\n# requirements:\n#   - foo==1.0\n#   - \" bar \"\n# entrypoint: app:main\n",
			check: func(t *testing.T, cfg *domain.Config) {
				assert.Equal(t, []string{"foo==1.0", "bar"}, cfg.Requirements)
			},
		},
		{
			name: "no requirements",
			body: "# requires-python: \">=3.12\"\n# entrypoint: app:main\n",
			check: func(t *testing.T, cfg *domain.Config) {
				assert.Empty(t, cfg.Requirements)
			},
		},
		{
			name: "unknown keys ignored",
			body: "# requires-python: \">=3.12\"\n# entrypoint: app:main\n# future-key: 1\n",
			check: func(t *testing.T, cfg *domain.Config) {
				assert.Equal(t, "app:main", cfg.Entrypoint.String())
			},
		},
		{
			name: "extras accepted",
			body: "# requires-python: \">=3.12\"\n# entrypoint: app:main [cli]\n",
			check: func(t *testing.T, cfg *domain.Config) {
				assert.Equal(t, "[cli]", cfg.Entrypoint.Extras)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "# /// bootstrap\n" + tt.body + "# ///\n"
			loader := newLoader(t, fstest.MapFS{"bex.sh": {Data: []byte(content)}})

			cfg, err := loader.Load(domain.LoadOptions{Directory: "/work"})
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoader_Load_InvalidConfig(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		strict    bool
		wantField string
	}{
		{
			name:      "missing entrypoint",
			body:      "# requires-python: \">=3.12\"\n",
			wantField: "entrypoint",
		},
		{
			name:      "missing requires-python",
			body:      "# entrypoint: app:main\n",
			wantField: "requires-python",
		},
		{
			name:      "both missing",
			body:      "# requirements: foo\n",
			wantField: "requires-python, entrypoint",
		},
		{
			name:      "empty entrypoint",
			body:      "# requires-python: \">=3.12\"\n# entrypoint: \"\"\n",
			wantField: "entrypoint",
		},
		{
			name:      "bad entrypoint shape",
			body:      "# requires-python: \">=3.12\"\n# entrypoint: app\n",
			wantField: "entrypoint",
		},
		{
			name:      "empty uv",
			body:      "# uv: \"\"\n# requires-python: \">=3.12\"\n# entrypoint: app:main\n",
			wantField: "uv",
		},
		{
			name:      "requirements mapping",
			body:      "# requires-python: \">=3.12\"\n# requirements:\n#   foo: bar\n# entrypoint: app:main\n",
			wantField: "requirements",
		},
		{
			name:      "unknown key in strict mode",
			body:      "# requires-python: \">=3.12\"\n# entrypoint: app:main\n# extra: 1\n",
			strict:    true,
			wantField: "extra",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "# /// bootstrap\n" + tt.body + "# ///\n"
			loader := newLoader(t, fstest.MapFS{"bex.py": {Data: []byte(content)}})

			_, err := loader.Load(domain.LoadOptions{Directory: "/work", Strict: tt.strict})
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidConfig), "got %v", err)

			md := metadata(t, err)
			assert.Equal(t, filepath.Join("/work", "bex.py"), md["file"])
			assert.Contains(t, err.Error(), tt.wantField)
		})
	}
}

func TestLoader_Load_YAMLSyntaxError(t *testing.T) {
	content := "# /// bootstrap\n# requires-python: [\n# ///\n"
	loader := newLoader(t, fstest.MapFS{"bex.py": {Data: []byte(content)}})

	_, err := loader.Load(domain.LoadOptions{Directory: "/work"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
}

func TestLoader_Load_HeaderErrors(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		loader := newLoader(t, fstest.MapFS{"bex.py": {Data: []byte("print(1)\n")}})

		_, err := loader.Load(domain.LoadOptions{Directory: "/work"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrMissingHeader))
		assert.Equal(t, filepath.Join("/work", "bex.py"), metadata(t, err)["file"])
	})

	t.Run("malformed header", func(t *testing.T) {
		loader := newLoader(t, fstest.MapFS{"bex.py": {Data: []byte("# /// bootstrap\n# entrypoint: a:b\n")}})

		_, err := loader.Load(domain.LoadOptions{Directory: "/work"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrMalformedHeader))
	})
}

func TestLoader_Discover(t *testing.T) {
	tests := []struct {
		name     string
		files    fstest.MapFS
		wantKind domain.DiscoveryKind
		want     []string
	}{
		{
			name:     "none",
			files:    fstest.MapFS{"main.py": {Data: []byte("")}},
			wantKind: domain.DiscoveryNone,
		},
		{
			name: "one",
			files: fstest.MapFS{
				"bex.py":  {Data: []byte("")},
				"main.py": {Data: []byte("")},
			},
			wantKind: domain.DiscoveryOne,
			want:     []string{filepath.Join("/work", "bex.py")},
		},
		{
			name: "directories are skipped",
			files: fstest.MapFS{
				"bex.d/file": {Data: []byte("")},
				"bex.toml":   {Data: []byte("")},
			},
			wantKind: domain.DiscoveryOne,
			want:     []string{filepath.Join("/work", "bex.toml")},
		},
		{
			name: "ambiguous",
			files: fstest.MapFS{
				"bex.sh": {Data: []byte("")},
				"bex.py": {Data: []byte("")},
			},
			wantKind: domain.DiscoveryAmbiguous,
			want:     []string{filepath.Join("/work", "bex.py"), filepath.Join("/work", "bex.sh")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := newLoader(t, tt.files)

			d, err := loader.Discover("/work")
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, d.Kind)
			assert.Equal(t, tt.want, d.Candidates)
		})
	}
}

func TestLoader_Load_AmbiguousWithoutFile(t *testing.T) {
	loader := newLoader(t, fstest.MapFS{
		"bex.py": {Data: []byte(validHeader)},
		"bex.sh": {Data: []byte(validHeader)},
	})

	_, err := loader.Load(domain.LoadOptions{Directory: "/work"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAmbiguousConfigFile))
}

func TestLoader_Load_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bex.py"), []byte(validHeader), domain.FilePerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bex.sh"), []byte(validHeader), domain.FilePerm))

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	loader := config.NewLoader(mockLogger)

	cfg, err := loader.Load(domain.LoadOptions{
		Directory: dir,
		File:      filepath.Join(dir, "bex.sh"),
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bex.sh"), cfg.File)
	assert.Equal(t, dir, cfg.Directory)
}

func TestLoader_Load_ExplicitFileMissing(t *testing.T) {
	dir := t.TempDir()

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	loader := config.NewLoader(mockLogger)

	_, err := loader.Load(domain.LoadOptions{Directory: dir, File: filepath.Join(dir, "nope.py")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfigNotFound))

	_, err = loader.Load(domain.LoadOptions{Directory: dir, File: dir})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfigNotFound))
}

func TestLoader_Load_NoFile(t *testing.T) {
	loader := newLoader(t, fstest.MapFS{"README.md": {Data: []byte("")}})

	_, err := loader.Load(domain.LoadOptions{Directory: "/work"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfigNotFound))
}
