// Package config loads the service configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// StorageConfig controls state and reading persistence.
type StorageConfig struct {
	Path string `yaml:"path"`
	// Retention bounds how long numeric readings are kept for trend charts.
	Retention time.Duration `yaml:"retention"`
}

// DashboardConfig controls the rendered board.
type DashboardConfig struct {
	Title string `yaml:"title"`
	// Manifests lists YAML card-manifest files registered at startup.
	Manifests []string `yaml:"manifests"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server:    ServerConfig{Listen: ":8099"},
		Storage:   StorageConfig{Path: "health-bridge.db", Retention: 30 * 24 * time.Hour},
		Dashboard: DashboardConfig{Title: "Health Bridge"},
	}
}

// Load reads a YAML config file, falling back to defaults when the file does
// not exist. Missing fields keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the configuration back to disk as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Server.Listen == "" {
		c.Server.Listen = def.Server.Listen
	}
	if c.Storage.Path == "" {
		c.Storage.Path = def.Storage.Path
	}
	if c.Storage.Retention <= 0 {
		c.Storage.Retention = def.Storage.Retention
	}
	if c.Dashboard.Title == "" {
		c.Dashboard.Title = def.Dashboard.Title
	}
}
