package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("PRIMES_COUNT sets count", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRIMES_COUNT", "12")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 12, cfg.Count)
	})

	t.Run("unparseable PRIMES_COUNT is ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRIMES_COUNT", "a dozen")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 100, cfg.Count)
	})

	t.Run("PRIMES_STRATEGY and PRIMES_WORKERS", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRIMES_STRATEGY", "sieve")
		t.Setenv("PRIMES_WORKERS", "3")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "sieve", cfg.Strategy)
		assert.Equal(t, 3, cfg.Workers)
	})

	t.Run("PRIMES_CACHE_DB enables the cache", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRIMES_CACHE_DB", "/tmp/primes-test.db")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.True(t, cfg.Cache.Enabled)
		assert.Equal(t, "/tmp/primes-test.db", cfg.Cache.Path)
		assert.Equal(t, DriverMattn, cfg.Cache.Driver)
	})

	t.Run("PRIMES_CACHE_DRIVER selects driver", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRIMES_CACHE_DRIVER", DriverModernc)

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, DriverModernc, cfg.Cache.Driver)
		assert.False(t, cfg.Cache.Enabled)
	})

	t.Run("PRIMES_LOG_LEVEL", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRIMES_LOG_LEVEL", "debug")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("empty values leave file settings alone", func(t *testing.T) {
		clearEnv(t)

		cfg := &Config{Count: 3, Strategy: "sieve"}
		cfg.applyEnvOverrides()

		assert.Equal(t, 3, cfg.Count)
		assert.Equal(t, "sieve", cfg.Strategy)
	})
}
