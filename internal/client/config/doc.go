// Package config loads settings for the fieldctl client: defaults, an
// optional JSON file, FIELDCTL_ environment variables and, applied by the
// command layer, command-line flags.
package config
