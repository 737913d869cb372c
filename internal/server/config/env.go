package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by the server.
const EnvPrefix = "FIELDREPORTS_"

// parseEnv loads an optional .env file from the working directory and
// overlays FIELDREPORTS_* variables. Unset variables keep earlier values.
func parseEnv(config *Config) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}
