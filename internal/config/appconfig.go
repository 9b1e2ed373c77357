// Package config provides configuration management for dynform.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	appConfigDir  = ".config/dynform"
	appConfigFile = "config.yaml"

	// ConfigPathEnvVar overrides the location of the app configuration file.
	ConfigPathEnvVar = "DYNFORM_CONFIG"
)

// LoadAppConfig loads the app configuration from ~/.config/dynform/config.yaml
// (or $DYNFORM_CONFIG). A missing file yields the defaults.
func LoadAppConfig() (*Config, error) {
	path := AppConfigPath()
	if path == "" {
		return nil, fmt.Errorf("getting home directory: %w", ErrNoHome)
	}

	return Load(path)
}

// Load reads and validates the configuration at path. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the CLI flag or env
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return nil, fmt.Errorf("reading app config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing app config: %w", err)
	}

	cfg.applyDefaults()
	cfg.History.Path = ExpandPath(cfg.History.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// SaveAppConfig saves the app configuration to ~/.config/dynform/config.yaml
// (or $DYNFORM_CONFIG).
func SaveAppConfig(cfg *Config) error {
	path := AppConfigPath()
	if path == "" {
		return fmt.Errorf("getting home directory: %w", ErrNoHome)
	}

	return Save(cfg, path)
}

// Save writes cfg to path with a header comment.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := marshalYAML(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	content := fmt.Sprintf("# dynform app configuration\n# Delete a key to fall back to its default\n\n%s", string(data))

	// Use 0600 permissions to restrict access to owner only
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// AppConfigPath returns the path where the app config is stored.
// Returns an empty string if the home directory cannot be determined.
func AppConfigPath() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return ExpandPath(p)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, appConfigDir, appConfigFile)
}
