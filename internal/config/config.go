package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"primekit/internal/primes"
)

// Config holds all primekit configuration.
type Config struct {
	// Number of primes the default command prints
	Count int `yaml:"count"`

	// Enumeration strategy: trial, sieve
	Strategy string `yaml:"strategy"`

	// Upper bound on goroutines used by `primes check`
	Workers int `yaml:"workers"`

	// Per-command timeout (Go duration string)
	Timeout string `yaml:"timeout"`

	// Output formatting
	Output OutputConfig `yaml:"output"`

	// SQLite prime cache
	Cache CacheConfig `yaml:"cache"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig controls how prime lists are rendered.
type OutputConfig struct {
	Separator string `yaml:"separator"`
	Columns   int    `yaml:"columns"` // grid width for `primes table`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Count:    100,
		Strategy: string(primes.StrategyTrial),
		Workers:  runtime.NumCPU(),
		Timeout:  "30s",

		Output: OutputConfig{
			Separator: ", ",
			Columns:   10,
		},

		Cache: CacheConfig{
			Enabled: false,
			Driver:  DriverMattn,
			Path:    filepath.Join(".primes", "primes.db"),
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults (plus environment overrides).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
// Numeric values that do not parse are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PRIMES_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Count = n
		}
	}
	if v := os.Getenv("PRIMES_STRATEGY"); v != "" {
		c.Strategy = v
	}
	if v := os.Getenv("PRIMES_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}

	// Setting a database path implies the cache is wanted
	if path := os.Getenv("PRIMES_CACHE_DB"); path != "" {
		c.Cache.Path = path
		c.Cache.Enabled = true
	}
	if driver := os.Getenv("PRIMES_CACHE_DRIVER"); driver != "" {
		c.Cache.Driver = driver
	}

	if level := os.Getenv("PRIMES_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("count %d: %w", c.Count, primes.ErrNegativeCount)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if _, err := primes.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return nil
}

// GetStrategy returns the parsed enumeration strategy.
func (c *Config) GetStrategy() primes.Strategy {
	s, err := primes.ParseStrategy(c.Strategy)
	if err != nil {
		return primes.StrategyTrial
	}
	return s
}

// GetTimeout returns the command timeout as a duration.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}
