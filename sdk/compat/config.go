package compat

import (
	"fmt"

	"github.com/spf13/viper"
)

// TableConfig is the YAML structure for extending the built-in
// compatibility table with deployment-specific entries.
type TableConfig struct {
	Capabilities map[string]Descriptor        `mapstructure:"capabilities" yaml:"capabilities"`
	Params       map[string]map[string]string `mapstructure:"params" yaml:"params,omitempty"`
	Unsupported  []Override                   `mapstructure:"unsupported" yaml:"unsupported,omitempty"`
}

// LoadTableConfig reads a compatibility table extension file.
func LoadTableConfig(path string) (*TableConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config TableConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// Options converts the loaded configuration into table options.
func (c *TableConfig) Options() []Option {
	descriptors := make(map[Capability]Descriptor, len(c.Capabilities))
	for name, desc := range c.Capabilities {
		descriptors[Capability(name)] = desc
	}
	params := make(map[Capability]map[string]string, len(c.Params))
	for name, p := range c.Params {
		params[Capability(name)] = p
	}

	return []Option{
		WithDescriptors(descriptors),
		WithParams(params),
		WithOverrides(c.Unsupported),
	}
}
