package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Preferences are the non-secret settings persisted between runs.
type Preferences struct {
	DefaultMailbox string `yaml:"default_mailbox,omitempty"`
}

// preferencesPath resolves (and creates the directory of) the preferences
// file. It can be replaced in tests.
var preferencesPath = func() (string, error) {
	return xdg.ConfigFile(filepath.Join(serviceName, "config.yaml"))
}

// SetPreferencesPath points the preferences file at path for testing.
// Returns a cleanup function that restores the original.
func SetPreferencesPath(path string) func() {
	original := preferencesPath
	preferencesPath = func() (string, error) { return path, nil }
	return func() { preferencesPath = original }
}

// PreferencesFile returns the path of the preferences file.
func PreferencesFile() (string, error) {
	return preferencesPath()
}

// LoadPreferences reads the preferences file. A missing file yields zero
// preferences.
func LoadPreferences() (Preferences, error) {
	var prefs Preferences
	path, err := preferencesPath()
	if err != nil {
		return prefs, fmt.Errorf("failed to resolve config path: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return prefs, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return prefs, nil
}

// SavePreferences writes the preferences file, removing it when empty.
func SavePreferences(prefs Preferences) error {
	path, err := preferencesPath()
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	if prefs == (Preferences{}) {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		return nil
	}
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
