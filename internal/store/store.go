// Package store persists a prefix of the prime sequence and a history of
// enumeration runs in SQLite, so repeated invocations can skip work.
//
// Two drivers are supported: "sqlite3" (github.com/mattn/go-sqlite3, cgo)
// and "sqlite" (modernc.org/sqlite, pure Go). Both read and write the same
// schema.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"primekit/internal/primes"
)

// SQLite driver names as registered with database/sql.
const (
	DriverMattn   = "sqlite3"
	DriverModernc = "sqlite"
)

// Store manages the prime cache database.
type Store struct {
	db     *sql.DB
	dbPath string
	driver string
	logger *zap.Logger
	mu     sync.RWMutex
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open creates or opens the cache database at path using driver.
func Open(ctx context.Context, driver, path string, opts ...Option) (*Store, error) {
	dsn, err := dataSourceName(driver, path)
	if err != nil {
		return nil, err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY between our own goroutines.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:     db,
		dbPath: path,
		driver: driver,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s.logger.Debug("cache opened", zap.String("driver", driver), zap.String("path", path))
	return s, nil
}

func dataSourceName(driver, path string) (string, error) {
	switch driver {
	case DriverMattn:
		return path + "?_journal_mode=WAL&_busy_timeout=5000", nil
	case DriverModernc:
		return "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", nil
	}
	return "", fmt.Errorf("unsupported sqlite driver %q (want %s or %s)", driver, DriverMattn, DriverModernc)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Driver returns the database/sql driver name in use.
func (s *Store) Driver() string {
	return s.driver
}

// initSchema creates the database schema.
func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	-- Leading primes of the sequence; idx is the zero-based position
	CREATE TABLE IF NOT EXISTS primes (
		idx INTEGER PRIMARY KEY,
		value INTEGER NOT NULL
	);

	-- One row per enumeration
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at_ms INTEGER NOT NULL,
		strategy TEXT NOT NULL,
		count INTEGER NOT NULL,
		last INTEGER NOT NULL,
		duration_us INTEGER NOT NULL,
		cache_hit INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at_ms);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// =============================================================================
// PRIME OPERATIONS
// =============================================================================

// Len returns how many leading primes are cached.
func (s *Store) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM primes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count primes: %w", err)
	}
	return n, nil
}

// FirstN returns the first n cached primes. It returns an error wrapping
// primes.ErrCacheMiss when fewer than n are stored.
func (s *Store) FirstN(ctx context.Context, n int) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n < 0 {
		return nil, fmt.Errorf("first %d primes: %w", n, primes.ErrNegativeCount)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT value FROM primes WHERE idx < ? ORDER BY idx`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query primes: %w", err)
	}
	defer rows.Close()

	out := make([]int, 0, min(n, 1<<16))
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan prime: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read primes: %w", err)
	}

	if len(out) < n {
		return nil, fmt.Errorf("have %d of %d: %w", len(out), n, primes.ErrCacheMiss)
	}
	return out, nil
}

// SavePrimes stores ps as the leading primes of the sequence. The cache
// only ever grows; positions whose stored value differs from ps are
// overwritten.
func (s *Store) SavePrimes(ctx context.Context, ps []int) error {
	if len(ps) > 0 && ps[0] != 2 {
		return fmt.Errorf("refusing to cache list starting at %d", ps[0])
	}
	if err := primes.Verify(ps); err != nil {
		return fmt.Errorf("refusing to cache invalid list: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO primes (idx, value) VALUES (?, ?)
		ON CONFLICT(idx) DO UPDATE SET value = excluded.value
		WHERE primes.value != excluded.value
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for i, p := range ps {
		res, err := stmt.ExecContext(ctx, i, p)
		if err != nil {
			return fmt.Errorf("failed to insert prime %d: %w", i, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			written++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit primes: %w", err)
	}

	s.logger.Debug("cached primes", zap.Int("offered", len(ps)), zap.Int("written", written))
	return nil
}

// =============================================================================
// RUN HISTORY
// =============================================================================

// Run records one enumeration.
type Run struct {
	ID        string
	StartedAt time.Time
	Strategy  string
	Count     int
	Last      int
	Duration  time.Duration
	CacheHit  bool
}

// RecordRun stores r, assigning an ID and start time when missing.
// It returns the stored run.
func (s *Store) RecordRun(ctx context.Context, r Run) (Run, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at_ms, strategy, count, last, duration_us, cache_hit)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.StartedAt.UnixMilli(), r.Strategy, r.Count, r.Last,
		r.Duration.Microseconds(), boolToInt(r.CacheHit))
	if err != nil {
		return r, fmt.Errorf("failed to record run: %w", err)
	}
	return r, nil
}

// Runs returns up to limit runs, newest first. limit <= 0 returns all.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at_ms, strategy, count, last, duration_us, cache_hit
		FROM runs ORDER BY started_at_ms DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			startedMs  int64
			durationUs int64
			hit        int
		)
		if err := rows.Scan(&r.ID, &startedMs, &r.Strategy, &r.Count, &r.Last, &durationUs, &hit); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(startedMs)
		r.Duration = time.Duration(durationUs) * time.Microsecond
		r.CacheHit = hit != 0
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
