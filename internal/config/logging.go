package config

import "fmt"

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level" json:"level,omitempty"`           // debug, info, warn, error
	Format     string          `yaml:"format" json:"format,omitempty"`         // json, console
	Categories map[string]bool `yaml:"categories" json:"categories,omitempty"` // Per-category toggles
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Categories not listed are enabled.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}

// Validate checks level and format.
func (c *LoggingConfig) Validate() error {
	validLevel := false
	for _, l := range ValidLogLevels {
		if c.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Level, ValidLogLevels)
	}

	switch c.Format {
	case "json", "console":
		return nil
	}
	return fmt.Errorf("invalid log format: %s (valid: json, console)", c.Format)
}
