package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8025", cfg.Server.URL)
	assert.Equal(t, "INFO", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
url = "https://mail.example.com"
token = "tok-123"

[log]
level = "DEBUG"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://mail.example.com", cfg.Server.URL)
	assert.Equal(t, "tok-123", cfg.Server.Token)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nurl = \"https://file.example.com\"\n"), 0o600))

	t.Setenv("MAILROOM_SERVER_URL", "https://env.example.com")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Server.URL)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	assert.Error(t, err)
}
