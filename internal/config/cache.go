package config

import "fmt"

// SQLite driver names as registered with database/sql.
const (
	DriverMattn   = "sqlite3" // github.com/mattn/go-sqlite3 (cgo)
	DriverModernc = "sqlite"  // modernc.org/sqlite (pure Go)
)

// CacheConfig configures the SQLite prime cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Driver  string `yaml:"driver"` // sqlite3, sqlite
	Path    string `yaml:"path"`
}

// Validate checks the driver and path when the cache is enabled.
func (c *CacheConfig) Validate() error {
	switch c.Driver {
	case DriverMattn, DriverModernc:
	default:
		return fmt.Errorf("invalid cache driver: %s (valid: %s, %s)", c.Driver, DriverMattn, DriverModernc)
	}
	if c.Enabled && c.Path == "" {
		return fmt.Errorf("cache enabled but no path configured")
	}
	return nil
}
