// Package logging builds the zap loggers used across primekit.
// Logs go to stderr so stdout carries only program output; each subsystem
// gets a named logger that can be switched off per category in the config.
package logging

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"primekit/internal/config"
)

// Category represents a log category/system
type Category string

const (
	CategoryCLI       Category = "cli"       // Command dispatch, output
	CategoryEnumerate Category = "enumerate" // Prime enumeration
	CategorySieve     Category = "sieve"     // Sieve bound estimation and sieving
	CategoryCache     Category = "cache"     // SQLite prime cache
	CategoryCheck     Category = "check"     // Batch primality checks
)

// New builds a base logger from cfg. Format "json" uses zap's production
// encoder, anything else the human-readable console encoder.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Registry hands out one named logger per category.
type Registry struct {
	base *zap.Logger
	cfg  config.LoggingConfig

	mu      sync.RWMutex
	loggers map[Category]*zap.Logger
}

// NewRegistry wraps base; a nil base yields no-op loggers throughout.
func NewRegistry(base *zap.Logger, cfg config.LoggingConfig) *Registry {
	if base == nil {
		base = zap.NewNop()
	}
	return &Registry{
		base:    base,
		cfg:     cfg,
		loggers: make(map[Category]*zap.Logger),
	}
}

// Base returns the logger the registry was built from.
func (r *Registry) Base() *zap.Logger {
	return r.base
}

// Get returns (or creates) the logger for category.
// Returns a no-op logger if the category is disabled.
func (r *Registry) Get(category Category) *zap.Logger {
	if !r.cfg.IsCategoryEnabled(string(category)) {
		return zap.NewNop()
	}

	r.mu.RLock()
	if l, ok := r.loggers[category]; ok {
		r.mu.RUnlock()
		return l
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if l, ok := r.loggers[category]; ok {
		return l
	}
	l := r.base.Named(string(category))
	r.loggers[category] = l
	return l
}

// Sync flushes the base logger. Errors from syncing stderr are ignored.
func (r *Registry) Sync() {
	_ = r.base.Sync()
}

// =============================================================================
// TIMING HELPERS - For performance logging
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	logger *zap.Logger
	op     string
	start  time.Time
}

// StartTimer begins timing an operation
func StartTimer(logger *zap.Logger, operation string) *Timer {
	return &Timer{
		logger: logger,
		op:     operation,
		start:  time.Now(),
	}
}

// Stop ends the timer and logs the duration at debug level
func (t *Timer) Stop(fields ...zap.Field) time.Duration {
	elapsed := time.Since(t.start)
	t.logger.Debug(t.op+" completed", append(fields, zap.Duration("elapsed", elapsed))...)
	return elapsed
}

// StopWithThreshold logs a warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration, fields ...zap.Field) time.Duration {
	elapsed := time.Since(t.start)
	fields = append(fields, zap.Duration("elapsed", elapsed))
	if elapsed > threshold {
		t.logger.Warn(t.op+" was slow", append(fields, zap.Duration("threshold", threshold))...)
	} else {
		t.logger.Debug(t.op+" completed", fields...)
	}
	return elapsed
}

// Fail ends the timer for an operation that returned err and logs it as a warning
func (t *Timer) Fail(err error, fields ...zap.Field) time.Duration {
	elapsed := time.Since(t.start)
	fields = append(fields, zap.Duration("elapsed", elapsed), zap.Error(err))
	t.logger.Warn(t.op+" failed", fields...)
	return elapsed
}
