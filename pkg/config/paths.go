package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the config file looked up in ConfigDir.
const FileName = "config.yaml"

// ConfigDir returns the path to the contacts config directory (~/.contacts).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".contacts"), nil
}

// EnsureConfigDir creates the config directory if it does not exist.
func EnsureConfigDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}
	return dir, nil
}

// DefaultPath returns the config file path used when --config is not given.
// A relative name is resolved inside ConfigDir; an absolute one is returned as is.
func DefaultPath(name string) (string, error) {
	if name == "" {
		name = FileName
	}
	if filepath.IsAbs(name) {
		return name, nil
	}

	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// LogPath resolves the configured log file. Relative names land in ConfigDir,
// which is created on demand.
func LogPath(file string) (string, error) {
	if filepath.IsAbs(file) {
		return file, nil
	}
	dir, err := EnsureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, file), nil
}
