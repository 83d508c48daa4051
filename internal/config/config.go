package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Local-development fallbacks matching the chat backend's default bind.
const (
	DefaultAPIBase = "http://localhost:8000"
	DefaultWSBase  = "ws://localhost:8000"
)

// Config represents the global ~/.wschat/config.toml.
type Config struct {
	APIBase  string `toml:"api_base"`
	WSBase   string `toml:"ws_base"`
	Username string `toml:"username"`
}

// Load reads config from the given path and fills unset endpoints with the
// local-development defaults. Returns an error if the file is missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config with only the local-development fallbacks set.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.APIBase == "" {
		c.APIBase = DefaultAPIBase
	}
	if c.WSBase == "" {
		c.WSBase = DefaultWSBase
	}
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
