package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the optional chartview.yaml configuration.
type Config struct {
	Chart  ChartConfig  `yaml:"chart"`
	Output OutputConfig `yaml:"output"`
}

// ChartConfig describes the chart to preview.
type ChartConfig struct {
	SpecFile string   `yaml:"spec,omitempty"`
	Scripts  []string `yaml:"scripts,omitempty"`
	MountID  string   `yaml:"mount,omitempty"`
	Width    float64  `yaml:"width,omitempty"`
	Height   float64  `yaml:"height,omitempty"`
}

// OutputConfig controls where the preview document goes.
type OutputConfig struct {
	File string `yaml:"file,omitempty"`
	Addr string `yaml:"addr,omitempty"`
}

// LoadOptional reads the config file if present.
func LoadOptional(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}
