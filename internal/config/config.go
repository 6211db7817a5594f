// Package config resolves lexis settings from defaults, an optional TOML or
// YAML file, a .env file and LEXIS_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LEXIS_"

type Config struct {
	Environment       string `toml:"environment" yaml:"environment"`
	LogLevel          string `toml:"log_level" yaml:"log_level"`
	Color             string `toml:"color" yaml:"color"`
	MinimumRegionSize int    `toml:"minimum_region_size" yaml:"minimum_region_size"`
	Workers           int    `toml:"workers" yaml:"workers"`
	MetricsFile       string `toml:"metrics_file" yaml:"metrics_file"`
}

func Default() Config {
	return Config{
		Environment: "development",
		LogLevel:    "info",
		Color:       "auto",
		Workers:     runtime.NumCPU(),
	}
}

// Options control where Load looks.
type Options struct {
	// File is a .toml, .yaml or .yml file. Empty skips it.
	File string
	// EnvFile is read with godotenv when it exists. Empty selects ".env".
	EnvFile string
	// Lookup reads the process environment. Nil selects os.LookupEnv.
	Lookup func(key string) (string, bool)
}

// Load resolves the configuration and validates it.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	if opts.File != "" {
		if err := cfg.readFile(opts.File); err != nil {
			return nil, err
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: read %s: %w", envFile, err)
	}

	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	// the process environment wins over the .env file
	err = cfg.applyEnv(func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	})
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) readFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(content, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, c)
	default:
		return fmt.Errorf("config: unsupported format %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ENVIRONMENT":  &c.Environment,
		"LOG_LEVEL":    &c.LogLevel,
		"COLOR":        &c.Color,
		"METRICS_FILE": &c.MetricsFile,
	}
	for key, target := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*target = v
		}
	}

	ints := map[string]*int{
		"MINIMUM_REGION_SIZE": &c.MinimumRegionSize,
		"WORKERS":             &c.Workers,
	}
	for key, target := range ints {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := cast.ToIntE(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s%s: %w", EnvPrefix, key, err)
		}
		*target = n
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("config: color must be auto, always or never, got %q", c.Color)
	}
	if c.MinimumRegionSize < 0 {
		return fmt.Errorf("config: minimum_region_size must not be negative")
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return nil
}
