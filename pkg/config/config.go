// Package config loads the ambient process configuration: data directory,
// logging verbosity, and export size-guard thresholds, from a YAML file
// with CODEPROP_*-prefixed environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration shape. Field names match the YAML
// keys directly; there is no nested category structure since this module
// has one binary with one job.
type Config struct {
	DataDir   string    `yaml:"data_dir"`
	Debug     bool      `yaml:"debug"`
	SizeGuard SizeGuard `yaml:"size_guard"`
}

// SizeGuard mirrors the export layer's node-count thresholds (§4.8), made
// configurable so a caller can loosen them for a known-large one-off
// export.
type SizeGuard struct {
	WarnAt   int `yaml:"warn_at"`
	RefuseAt int `yaml:"refuse_at"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		DataDir: "./codeprop-data",
		SizeGuard: SizeGuard{
			WarnAt:   10_000,
			RefuseAt: 100_000,
		},
	}
}

// Load reads path as YAML and applies CODEPROP_* environment overrides. A
// missing file is not an error: Load falls back to Default() and still
// applies environment overrides on top of it.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("CODEPROP_DATA_DIR"); ok {
		cfg.DataDir = v
	}
	if v, ok := os.LookupEnv("CODEPROP_DEBUG"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
	if v, ok := os.LookupEnv("CODEPROP_SIZE_GUARD_WARN_AT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SizeGuard.WarnAt = n
		}
	}
	if v, ok := os.LookupEnv("CODEPROP_SIZE_GUARD_REFUSE_AT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SizeGuard.RefuseAt = n
		}
	}
}
