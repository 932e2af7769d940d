package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeprop/codeprop/pkg/config"
)

func TestLoad_MissingFileFallsBackToDefault(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default().DataDir, cfg.DataDir)
	assert.Equal(t, 10_000, cfg.SizeGuard.WarnAt)
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /var/codeprop\ndebug: true\nsize_guard:\n  warn_at: 5\n  refuse_at: 50\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/codeprop", cfg.DataDir)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 5, cfg.SizeGuard.WarnAt)
	assert.Equal(t, 50, cfg.SizeGuard.RefuseAt)
}

func TestLoad_EnvOverridesFileAndDefault(t *testing.T) {
	t.Setenv("CODEPROP_DATA_DIR", "/from/env")
	t.Setenv("CODEPROP_DEBUG", "true")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.DataDir)
	assert.True(t, cfg.Debug)
}
