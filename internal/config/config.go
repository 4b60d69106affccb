// Package config loads the runner's configuration: defaults, then an
// optional YAML file, then GUARDIAN_* environment overrides.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the application configuration.
type Config struct {
	Log     LogConfig     `koanf:"log"`
	Sim     SimConfig     `koanf:"sim"`
	Planner PlannerConfig `koanf:"planner"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // console, json
}

// SimConfig controls a simulation run.
type SimConfig struct {
	Seed        int64  `koanf:"seed"` // 0 derives a seed from the clock
	MaxSteps    int    `koanf:"max_steps"`
	ScenarioDir string `koanf:"scenario_dir"`
}

// PlannerConfig bounds the search.
type PlannerConfig struct {
	MaxExpansions int `koanf:"max_expansions"`
	MaxDepth      int `koanf:"max_depth"`
}

const envPrefix = "GUARDIAN_"

// Load builds the configuration. An empty path skips the file layer; a
// missing file at an explicit path is an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("log.level", "info")
	k.Set("log.format", "console")
	k.Set("sim.seed", 0)
	k.Set("sim.max_steps", 15)
	k.Set("sim.scenario_dir", ".scenarios")
	k.Set("planner.max_expansions", 4096)
	k.Set("planner.max_depth", 32)

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 2. Environment overrides: GUARDIAN_SIM_MAX_STEPS -> sim.max_steps.
	// Only the first underscore separates the section, since key names
	// themselves contain underscores.
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.Replace(key, "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
