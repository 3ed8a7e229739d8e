// Package config loads run settings for the zatlin command.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable pointing at a config file.
const EnvConfigPath = "ZATLIN_CONFIG"

// Config holds the complete run configuration
type Config struct {
	Log      LogConfig      `toml:"log" yaml:"log"`
	Compile  CompileConfig  `toml:"compile" yaml:"compile"`
	Generate GenerateConfig `toml:"generate" yaml:"generate"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// CompileConfig holds grammar compilation settings
type CompileConfig struct {
	Strict bool `toml:"strict" yaml:"strict"`
}

// GenerateConfig holds generation settings
type GenerateConfig struct {
	Count       int `toml:"count" yaml:"count"`
	RetryBudget int `toml:"retry_budget" yaml:"retry_budget"`
	MaxDepth    int `toml:"max_depth" yaml:"max_depth"`
	// Seed makes output reproducible when set.
	Seed *uint64 `toml:"seed" yaml:"seed"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a TOML or YAML config file, chosen by extension.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q: use .toml, .yaml or .yml", ext)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadFromEnv loads the file named by ZATLIN_CONFIG or the first default
// location that exists. Without any file it returns Default().
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		defaultPaths := []string{
			"./zatlin.toml",
			"./zatlin.yaml",
		}
		if home, err := os.UserHomeDir(); err == nil {
			defaultPaths = append(defaultPaths, filepath.Join(home, ".config", "zatlin", "config.toml"))
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return Default(), nil
	}

	return Load(path)
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Generate.Count == 0 {
		c.Generate.Count = 1
	}
	if c.Generate.RetryBudget == 0 {
		c.Generate.RetryBudget = 100
	}
	if c.Generate.MaxDepth == 0 {
		c.Generate.MaxDepth = 256
	}
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	if c.Generate.Count < 0 {
		return fmt.Errorf("generate.count must not be negative, got %d", c.Generate.Count)
	}
	if c.Generate.RetryBudget < 1 {
		return fmt.Errorf("generate.retry_budget must be positive, got %d", c.Generate.RetryBudget)
	}
	if c.Generate.MaxDepth < 1 {
		return fmt.Errorf("generate.max_depth must be positive, got %d", c.Generate.MaxDepth)
	}

	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	var rv slog.Level
	if err := rv.UnmarshalText([]byte(level)); err != nil {
		return rv, fmt.Errorf("log.level: %w", err)
	}
	return rv, nil
}
