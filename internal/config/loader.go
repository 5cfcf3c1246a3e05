// Package config provides configuration loading for machfind.
//
// Values are layered: built-in defaults, then the YAML config file, then
// MACHFIND_* environment variables. Command-line flags are applied on top by
// the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mitsuhiko/machfind/internal/constants"
)

// Loader handles loading configuration files.
type Loader struct {
	baseDir string
}

// NewLoader creates a new config loader.
// The base directory is resolved in this order:
//  1. MACHFIND_CONFIG environment variable.
//  2. ~/.machfind in the user's home directory.
//
// Without either, Load returns defaults with environment overrides applied.
func NewLoader() *Loader {
	if baseDir := os.Getenv(constants.EnvConfigDir); baseDir != "" {
		return &Loader{baseDir: baseDir}
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return &Loader{baseDir: filepath.Join(homeDir, constants.DefaultDir)}
	}
	return &Loader{}
}

// NewLoaderAt creates a loader reading from dir.
func NewLoaderAt(dir string) *Loader {
	return &Loader{baseDir: dir}
}

// ConfigPath returns the path to the config file, or "" if there is no
// config directory.
func (l *Loader) ConfigPath() string {
	if l.baseDir == "" {
		return ""
	}
	return filepath.Join(l.baseDir, constants.ConfigFile)
}

// Load loads the configuration and validates it.
// Returns the default config if the file doesn't exist.
func (l *Loader) Load() (*Config, error) {
	cfg, err := l.LoadUnvalidated()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadUnvalidated layers the config file and environment variables over the
// defaults without validating the result. Callers that apply further
// overrides validate once they are done.
func (l *Loader) LoadUnvalidated() (*Config, error) {
	cfg := Default()

	if path := l.ConfigPath(); path != "" {
		//nolint:gosec // G304: Path is from the trusted config directory.
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := LoadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
