package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/envoymerge/internal/testutil"
	"github.com/erraggy/envoymerge/mergeerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigResolve(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "abs")
	cfg := Config{
		Base:     "base.yaml",
		Output:   abs,
		Items:    []string{"svc/a", " ", abs},
		RootPath: "/srv/mesh",
	}

	got := cfg.Resolve()
	assert.Equal(t, filepath.Join("/srv/mesh", "base.yaml"), got.Base)
	assert.Equal(t, abs, got.Output)
	assert.Equal(t, []string{filepath.Join("/srv/mesh", "svc/a"), abs}, got.Items)
	assert.Equal(t, "envoy", got.FolderName)
	assert.Empty(t, got.RootPath)
	assert.Equal(t, got, got.Resolve(), "resolving twice is a no-op")
	assert.Equal(t, []string{"svc/a", " ", abs}, cfg.Items, "receiver must not change")

	plain := Config{Base: "base.yaml", Items: []string{"svc"}}.Resolve()
	assert.Equal(t, "base.yaml", plain.Base)
	assert.Equal(t, []string{"svc"}, plain.Items)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		option string
	}{
		{"valid", Config{Base: "b.yaml"}, ""},
		{"missing base", Config{Output: "o.yaml"}, KeyBase},
		{"output overwrites base", Config{Base: "dir/b.yaml", Output: "dir/./b.yaml"}, KeyOutput},
		{"nested folder name", Config{Base: "b.yaml", FolderName: "a/b"}, KeyFolderName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.option == "" {
				assert.NoError(t, err)
				return
			}
			var ce *mergeerrors.ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.option, ce.Option)
		})
	}
}

func TestConfigValidate_SameFileDifferentSpelling(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)
	testutil.WriteFile(t, filepath.Join(root, "base.yaml"), "static_resources: {}\n")

	err := Config{Base: "base.yaml", Output: filepath.Join(root, "base.yaml")}.Validate()
	require.ErrorIs(t, err, mergeerrors.ErrConfig)

	err = Config{Base: filepath.Join(root, "base.yaml"), Output: "./base.yaml"}.Validate()
	require.ErrorIs(t, err, mergeerrors.ErrConfig)

	assert.NoError(t, Config{Base: "base.yaml", Output: filepath.Join(root, "merged.yaml")}.Validate())
}

func TestConfigValidate_OutputThroughSymlinkedDir(t *testing.T) {
	root := t.TempDir()
	realDir := filepath.Join(root, "real")
	testutil.WriteFile(t, filepath.Join(realDir, "base.yaml"), "static_resources: {}\n")
	link := filepath.Join(root, "link")
	if err := os.Symlink(realDir, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	err := Config{Base: filepath.Join(realDir, "base.yaml"), Output: filepath.Join(link, "base.yaml")}.Validate()
	assert.ErrorIs(t, err, mergeerrors.ErrConfig)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "envoy", cfg.FolderName)
	assert.Empty(t, cfg.Base)
	assert.Empty(t, cfg.Items)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("ENVOYMERGE_BASE", "/etc/envoy/base.yaml")
	t.Setenv("ENVOYMERGE_ITEMS", "svc/a,svc/b")
	t.Setenv("ENVOYMERGE_FOLDER_NAME", "proxy")
	t.Setenv("ENVOYMERGE_ROOT_PATH", "/srv")

	cfg, err := LoadConfig(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "/etc/envoy/base.yaml", cfg.Base)
	assert.Equal(t, []string{"svc/a", "svc/b"}, cfg.Items)
	assert.Equal(t, "proxy", cfg.FolderName)
	assert.Equal(t, "/srv", cfg.RootPath)
}

func TestLoadConfig_FileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "envoymerge.yaml")
	testutil.WriteFile(t, path, `base: base.yaml
output: merged.yaml
items:
  - svc/users
  - svc/orders
folder_name: mesh
`)
	t.Setenv("ENVOYMERGE_OUTPUT", "from-env.yaml")

	cfg, err := LoadConfig(LoadOptions{
		ConfigFile: path,
		Overrides:  map[string]any{KeyFolderName: "flag"},
	})
	require.NoError(t, err)
	assert.Equal(t, "base.yaml", cfg.Base)
	assert.Equal(t, "from-env.yaml", cfg.Output, "environment beats the file")
	assert.Equal(t, []string{"svc/users", "svc/orders"}, cfg.Items)
	assert.Equal(t, "flag", cfg.FolderName, "overrides beat everything")
}

func TestLoadConfig_HyphenatedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "envoymerge.yaml")
	testutil.WriteFile(t, path, `base: base.yaml
folder-name: proxy
root-path: /srv/mesh
`)

	cfg, err := LoadConfig(LoadOptions{ConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, "proxy", cfg.FolderName)
	assert.Equal(t, "/srv/mesh", cfg.RootPath)

	cfg, err = LoadConfig(LoadOptions{
		ConfigFile: path,
		Overrides:  map[string]any{AliasFolderName: "flag"},
	})
	require.NoError(t, err)
	assert.Equal(t, "flag", cfg.FolderName)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "none.yaml")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, mergeerrors.ErrConfig))
}

func TestConfigString(t *testing.T) {
	cfg := Config{Base: "b", Output: "o", Items: []string{"x", "y"}, FolderName: "envoy"}
	assert.Equal(t, "base=b output=o items=2 folder=envoy root=", cfg.String())
}
