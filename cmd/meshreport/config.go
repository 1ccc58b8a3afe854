package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config carries the run-layout conventions and ambient settings. The
// defaults match the capture pipeline's directory names, so a config file is
// only needed when a run was captured with different conventions.
type Config struct {
	LogLevel   string `yaml:"log_level"`
	LoadgenDir string `yaml:"loadgen_dir"`
	NetworkDir string `yaml:"network_dir"`
}

func defaultConfig() Config {
	return Config{
		LogLevel:   "info",
		LoadgenDir: "loadgen",
		NetworkDir: "network-analysis",
	}
}

// loadConfig reads a YAML config; keys absent from the file keep their
// defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LoadgenDir == "" {
		cfg.LoadgenDir = "loadgen"
	}
	if cfg.NetworkDir == "" {
		cfg.NetworkDir = "network-analysis"
	}
	return cfg, nil
}
