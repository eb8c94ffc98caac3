package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the client configuration file.
type Config struct {
	APIURL    string        `yaml:"api_url"`
	SearchURL string        `yaml:"search_url"`
	Timeout   time.Duration `yaml:"timeout"`
	Debounce  time.Duration `yaml:"search_debounce"`
	ConfigDir string        `yaml:"-"`
}

// DefaultConfig points at a server on localhost.
func DefaultConfig() Config {
	return Config{
		APIURL:    "http://localhost:8080",
		SearchURL: "http://localhost:8080",
		Timeout:   15 * time.Second,
	}
}

// DefaultConfigDir is $XDG_CONFIG_HOME/herdup (or the platform equivalent).
func DefaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, "herdup"), nil
}

// LoadConfig reads config.yaml from dir, falling back to defaults when the file is missing.
// HERDUP_API_URL and HERDUP_SEARCH_URL override the file.
func LoadConfig(dir string) (Config, error) {
	cfg := DefaultConfig()
	cfg.ConfigDir = dir

	raw, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("HERDUP_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("HERDUP_SEARCH_URL"); v != "" {
		cfg.SearchURL = v
	}
	if cfg.SearchURL == "" {
		cfg.SearchURL = cfg.APIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return cfg, nil
}
