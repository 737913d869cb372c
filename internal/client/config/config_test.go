package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:3333", c.ServerURL)
	assert.Empty(t, c.DatabasePath)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:3333", cfg.ServerURL)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_url":"http://file:1","request_timeout":"5s"}`), 0o600))
	t.Setenv("FIELDCTL_SERVER_URL", "http://env:2")

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "http://env:2", cfg.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_OutboxPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"outbox_passphrase":"from-file"}`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.OutboxPassphrase)

	t.Setenv("FIELDCTL_OUTBOX_PASSPHRASE", "from-env")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.OutboxPassphrase)
}
