package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces the client environment variables.
const EnvPrefix = "FIELDCTL_"

// Config holds runtime settings for the fieldctl client.
//
// Fields:
//   - ServerURL: base URL of the field reports HTTP API.
//   - DatabasePath: SQLite file holding the outbox and the device token.
//     Empty means fieldctl.db inside the user config directory.
//   - RequestTimeout: upper bound of a single HTTP exchange.
//   - OutboxPassphrase: when set, captured reports are encrypted at rest.
type Config struct {
	ServerURL        string        `env:"SERVER_URL"`
	DatabasePath     string        `env:"DATABASE_PATH"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT"`
	OutboxPassphrase string        `env:"OUTBOX_PASSPHRASE"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3333"
	c.DatabasePath = ""
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the JSON file at path (when non-empty) and the environment. Command-line
// flags are applied by the caller on top of the result.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, err
	}
	return cfg, nil
}
