package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson(t *testing.T) {
	dir := t.TempDir()

	t.Run("overlays non-empty values", func(t *testing.T) {
		path := filepath.Join(dir, "ok.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"database_path":"/tmp/x.db","request_timeout":1000000000}`), 0o600))

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, path))

		assert.Equal(t, "http://127.0.0.1:3333", cfg.ServerURL)
		assert.Equal(t, "/tmp/x.db", cfg.DatabasePath)
		assert.Equal(t, time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{ nope`), 0o600))

		assert.Error(t, parseJson(&Config{}, path))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, parseJson(&Config{}, filepath.Join(dir, "absent.json")))
	})
}
