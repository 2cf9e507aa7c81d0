// Package config holds the SDK session configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the YAML configuration structure.
type Config struct {
	// Platform and Version identify the host the app runs inside. Both are
	// reported by the host at launch and drive capability gating.
	Platform string `yaml:"platform"`
	Version  string `yaml:"version"`

	Bridge struct {
		Transport string `yaml:"transport"`
		Endpoint  string `yaml:"endpoint"`
	} `yaml:"bridge"`

	Storage struct {
		Driver     string `yaml:"driver"`
		Path       string `yaml:"path"`
		SessionKey string `yaml:"session_key"`
	} `yaml:"storage"`

	// CompatFile optionally extends the built-in compatibility table.
	CompatFile string `yaml:"compat_file"`

	Debug bool `yaml:"debug"`
}

// LoadConfig loads the configuration from a file and applies defaults.
func LoadConfig(filename string) (*Config, error) {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("error getting absolute path for config file: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Bridge.Transport == "" {
		c.Bridge.Transport = "loopback"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.SessionKey == "" {
		c.Storage.SessionKey = "navigation"
	}
}

// Validate checks the fields no default can repair.
func (c *Config) Validate() error {
	if c.Platform == "" {
		return fmt.Errorf("platform is required in config file")
	}
	if c.Version == "" {
		return fmt.Errorf("version is required in config file")
	}
	switch c.Bridge.Transport {
	case "loopback":
	case "websocket", "grpc":
		if c.Bridge.Endpoint == "" {
			return fmt.Errorf("bridge endpoint is required for %s transport", c.Bridge.Transport)
		}
	default:
		return fmt.Errorf("unknown bridge transport %q", c.Bridge.Transport)
	}
	switch c.Storage.Driver {
	case "memory":
	case "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage path is required for sqlite driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}
