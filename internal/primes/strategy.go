package primes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Strategy selects the algorithm used to enumerate primes.
type Strategy string

const (
	// StrategyTrial tests each candidate by trial division.
	StrategyTrial Strategy = "trial"
	// StrategySieve sieves up to an estimated bound for the n-th prime.
	StrategySieve Strategy = "sieve"
)

var (
	// ErrUnknownStrategy is returned by ParseStrategy for unrecognised names.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrCacheMiss is returned by a Cache that holds fewer primes than requested.
	ErrCacheMiss = errors.New("primes not cached")
)

// ParseStrategy maps a strategy name (case-insensitive) to a Strategy.
// The empty string selects StrategyTrial.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(name))) {
	case "", StrategyTrial:
		return StrategyTrial, nil
	case StrategySieve:
		return StrategySieve, nil
	}
	return "", fmt.Errorf("%q: %w (want %s or %s)", name, ErrUnknownStrategy, StrategyTrial, StrategySieve)
}

// Cache stores a prefix of the prime sequence between runs.
type Cache interface {
	// FirstN returns the first n cached primes, or an error wrapping
	// ErrCacheMiss when fewer than n are stored.
	FirstN(ctx context.Context, n int) ([]int, error)
	// SavePrimes records ps as the leading primes of the sequence.
	SavePrimes(ctx context.Context, ps []int) error
}

// Result is the outcome of one enumeration.
type Result struct {
	Primes   []int
	Strategy Strategy
	CacheHit bool
	Elapsed  time.Duration
}

// Last returns the largest prime in the result, or 0 when empty.
func (r Result) Last() int {
	if len(r.Primes) == 0 {
		return 0
	}
	return r.Primes[len(r.Primes)-1]
}

// Enumerator produces the first n primes with a configured strategy,
// optionally backed by a Cache.
type Enumerator struct {
	strategy Strategy
	cache    Cache
	logger   *zap.Logger
}

// Option configures an Enumerator.
type Option func(*Enumerator)

// WithStrategy sets the enumeration strategy.
func WithStrategy(s Strategy) Option {
	return func(e *Enumerator) {
		e.strategy = s
	}
}

// WithCache backs the Enumerator with c.
func WithCache(c Cache) Option {
	return func(e *Enumerator) {
		e.cache = c
	}
}

// WithLogger sets the logger; nil keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(e *Enumerator) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEnumerator returns an Enumerator using trial division and no cache
// unless overridden by opts.
func NewEnumerator(opts ...Option) *Enumerator {
	e := &Enumerator{
		strategy: StrategyTrial,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strategy returns the configured strategy.
func (e *Enumerator) Strategy() Strategy {
	return e.strategy
}

// Enumerate returns the first n primes. Cache failures are logged and
// otherwise ignored.
func (e *Enumerator) Enumerate(ctx context.Context, n int) (Result, error) {
	start := time.Now()
	res := Result{Strategy: e.strategy}

	if n < 0 {
		return res, fmt.Errorf("first %d primes: %w", n, ErrNegativeCount)
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	if e.cache != nil && n > 0 {
		cached, err := e.cache.FirstN(ctx, n)
		if err == nil {
			err = checkCached(cached, n)
		}
		switch {
		case err == nil:
			res.Primes = cached
			res.CacheHit = true
			res.Elapsed = time.Since(start)
			e.logger.Debug("served from cache", zap.Int("n", n))
			return res, nil
		case errors.Is(err, ErrCacheMiss):
			e.logger.Debug("cache miss", zap.Int("n", n))
		case errors.Is(err, errBadCache):
			e.logger.Warn("discarding invalid cached primes", zap.Int("n", n), zap.Error(err))
		default:
			e.logger.Warn("cache read failed", zap.Int("n", n), zap.Error(err))
		}
	}

	var (
		ps  []int
		err error
	)
	switch e.strategy {
	case StrategySieve:
		ps, err = FirstNSieve(ctx, n)
	case StrategyTrial:
		ps, err = firstNContext(ctx, n)
	default:
		err = fmt.Errorf("%q: %w", e.strategy, ErrUnknownStrategy)
	}
	if err != nil {
		return res, err
	}
	res.Primes = ps
	res.Elapsed = time.Since(start)

	e.logger.Debug("enumerated primes",
		zap.String("strategy", string(e.strategy)),
		zap.Int("n", n),
		zap.Duration("elapsed", res.Elapsed))

	if e.cache != nil && n > 0 {
		if err := e.cache.SavePrimes(ctx, ps); err != nil {
			e.logger.Warn("cache write failed", zap.Int("n", n), zap.Error(err))
		}
	}
	return res, nil
}

var errBadCache = errors.New("cached primes are invalid")

// checkCached rejects a cached prefix that is not the first n primes.
func checkCached(cached []int, n int) error {
	if len(cached) != n {
		return fmt.Errorf("got %d of %d: %w", len(cached), n, errBadCache)
	}
	if n > 0 && cached[0] != 2 {
		return fmt.Errorf("starts at %d: %w", cached[0], errBadCache)
	}
	if err := Verify(cached); err != nil {
		return fmt.Errorf("%w: %w", errBadCache, err)
	}
	return nil
}

// cancelCheckEvery is how many primes trial division finds between
// context checks.
const cancelCheckEvery = 1024

// firstNContext is FirstN with periodic cancellation checks.
func firstNContext(ctx context.Context, n int) ([]int, error) {
	primes := make([]int, 0, preallocFor(n))
	if n == 0 {
		return primes, nil
	}
	for p := range All() {
		primes = append(primes, p)
		if len(primes) == n {
			break
		}
		if len(primes)%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	return primes, nil
}
