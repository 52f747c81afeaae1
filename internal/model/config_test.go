package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8001", cfg.API.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.PollInterval())
	assert.Equal(t, 3*time.Second, cfg.NotifyTimeout())
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "AI-Handled", cfg.Mail.ArchiveLabel)
	assert.Equal(t, "INBOX", cfg.Mail.DefaultFolder)
}

func TestLoadConfig_FileValuesAndNormalization(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: https://mail.example.com/
  timeout_sec: 5
sync:
  poll_interval_sec: -1
mail:
  archive_label: Done
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://mail.example.com", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 60*time.Second, cfg.PollInterval(), "invalid interval falls back to default")
	assert.Equal(t, "Done", cfg.Mail.ArchiveLabel)
	assert.Equal(t, "INBOX", cfg.Mail.DefaultFolder)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("INBOX_API_BASE_URL", "http://override:9000")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://override:9000", cfg.API.BaseURL)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unterminated"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfig_ThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	cfg.API.BaseURL = "http://backend:8001"
	cfg.Sync.PollIntervalSec = 15

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://backend:8001", loaded.API.BaseURL)
	assert.Equal(t, 15*time.Second, loaded.PollInterval())
}
