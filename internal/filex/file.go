// Package filex resolves and prepares local paths used by the field client.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates base/name (and parents) if missing and returns its path.
func EnsureDir(base, name string) (string, error) {
	dir := filepath.Join(base, name)

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// DefaultDatabasePath returns <user config dir>/<app>/<file>, creating the
// directory. When the user config dir is unknown the working directory is used.
func DefaultDatabasePath(app, file string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		if base, err = os.Getwd(); err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
	}

	dir, err := EnsureDir(base, app)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, file), nil
}
