package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreate_WritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)

	assert.FileExists(t, path)
	assert.Equal(t, filepath.Join(dir, "nested", DefaultDBName), cfg.DBPath)
	assert.Equal(t, DefaultLocale, cfg.Locale)

	delay, err := cfg.ToggleDelayDuration()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, delay)
}

func TestLoadOrCreate_ReadsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	content := `
db_path = "/var/lib/things/items.db"
locale = "en"
toggle_delay = "500ms"

[log]
development = true
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/things/items.db", cfg.DBPath)
	assert.Equal(t, "en", cfg.Locale)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, "debug", cfg.Log.Level)

	delay, err := cfg.ToggleDelayDuration()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, delay)
}

func TestLoadOrCreate_FillsMissingKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`locale = "en"`+"\n"), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, DefaultDBName), cfg.DBPath)
	assert.Equal(t, DefaultToggleDelay, cfg.ToggleDelay)
}

func TestLoadOrCreate_BadDelay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`toggle_delay = "soon"`+"\n"), 0o644))

	_, err := LoadOrCreate(path)
	assert.Error(t, err)
}

func TestLoadOrCreate_BadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("locale = \n"), 0o644))

	_, err := LoadOrCreate(path)
	assert.Error(t, err)
}

func TestResolveConfigPath_Env(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/things.toml")
	assert.Equal(t, "/tmp/things.toml", ResolveConfigPath())
}
