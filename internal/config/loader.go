package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	data = substituteEnvVars(data)

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Resolve loads path, or DefaultFile when path is empty and that file
// exists, or the defaults otherwise. Unlike LoadOrDefault it reports
// errors of an explicitly named file.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	cfg, err := Load(DefaultFile)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func LoadOrDefault(path string) *Config {
	cfg, err := Resolve(path)
	if err != nil {
		return Default()
	}
	return cfg
}
