// Package config loads the optional YAML configuration file that supplies
// defaults for the solve engine, the stall monitor, and the job server.
// Command-line flags override anything set here.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EngineConfig holds solver defaults shared by all exercises.
type EngineConfig struct {
	Iterations int   `yaml:"iterations"`
	Population int   `yaml:"population"`
	Seed       int64 `yaml:"seed"`
}

// StallConfig holds gap-stagnation monitor defaults.
type StallConfig struct {
	WindowSeconds  float64 `yaml:"windowSeconds"`
	MinImprovement float64 `yaml:"minImprovement"`
}

// Window returns the configured window as a duration.
func (s StallConfig) Window() time.Duration {
	return time.Duration(s.WindowSeconds * float64(time.Second))
}

// ServerConfig holds the job server defaults.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	DataDir string `yaml:"dataDir"`
}

// Config is the root configuration document.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Stall  StallConfig  `yaml:"stall"`
	Server ServerConfig `yaml:"server"`
}

// Default returns the built-in configuration used when no file is given.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Iterations: 200,
			Population: 30,
			Seed:       42,
		},
		Stall: StallConfig{
			WindowSeconds:  15,
			MinImprovement: 1e-4,
		},
		Server: ServerConfig{
			Addr:    ":8080",
			DataDir: "./data",
		},
	}
}

// Load reads a YAML configuration file on top of the defaults. Fields left
// out of the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Engine.Iterations <= 0 {
		return fmt.Errorf("config: engine.iterations must be positive, got %d", c.Engine.Iterations)
	}
	if c.Engine.Population <= 0 {
		return fmt.Errorf("config: engine.population must be positive, got %d", c.Engine.Population)
	}
	if c.Stall.WindowSeconds <= 0 {
		return fmt.Errorf("config: stall.windowSeconds must be positive, got %g", c.Stall.WindowSeconds)
	}
	if c.Stall.MinImprovement < 0 {
		return fmt.Errorf("config: stall.minImprovement must be non-negative, got %g", c.Stall.MinImprovement)
	}
	return nil
}
