package primes

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// smallBound covers the first five primes (2..11); the logarithmic estimate
// is not valid below n = 6.
const smallBound = 15

// MaxSieveLimit is the largest limit SieveUpTo will allocate a table for.
const MaxSieveLimit = 1 << 28

// ErrCountTooLarge is returned when a request needs a sieve larger than
// MaxSieveLimit.
var ErrCountTooLarge = errors.New("too large to sieve")

// EstimateUpperBound returns a value no smaller than the n-th prime, using
// n(ln n + ln ln n) for n >= 6. The result saturates at math.MaxInt.
func EstimateUpperBound(n int) int {
	if n < 6 {
		return smallBound
	}
	f := float64(n)
	est := f * (math.Log(f) + math.Log(math.Log(f)))
	if est >= float64(math.MaxInt) {
		return math.MaxInt
	}
	return int(est)
}

// SieveUpTo returns every prime <= limit using the Sieve of Eratosthenes.
// Limits above MaxSieveLimit yield ErrCountTooLarge. ctx is checked once per
// sieving prime.
func SieveUpTo(ctx context.Context, limit int) ([]int, error) {
	if limit < 2 {
		return []int{}, nil
	}
	if limit > MaxSieveLimit {
		return nil, fmt.Errorf("limit %d exceeds %d: %w", limit, MaxSieveLimit, ErrCountTooLarge)
	}

	composite := make([]bool, limit+1)
	for p := 2; p <= limit/p; p++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if composite[p] {
			continue
		}
		for m := p * p; m <= limit; m += p {
			composite[m] = true
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	primes := make([]int, 0, primeCountHint(limit))
	for v := 2; v <= limit; v++ {
		if !composite[v] {
			primes = append(primes, v)
		}
	}
	return primes, nil
}

// FirstNSieve returns the first n primes by sieving up to an estimated bound.
// If the estimate falls short the bound is doubled, up to MaxSieveLimit.
func FirstNSieve(ctx context.Context, n int) ([]int, error) {
	if n < 0 {
		return nil, fmt.Errorf("first %d primes: %w", n, ErrNegativeCount)
	}
	if n == 0 {
		return []int{}, nil
	}

	bound := EstimateUpperBound(n)
	if bound > MaxSieveLimit {
		return nil, fmt.Errorf("first %d primes: %w", n, ErrCountTooLarge)
	}
	for {
		found, err := SieveUpTo(ctx, bound)
		if err != nil {
			return nil, err
		}
		if len(found) >= n {
			return found[:n:n], nil
		}
		if bound == MaxSieveLimit {
			return nil, fmt.Errorf("first %d primes: %w", n, ErrCountTooLarge)
		}
		bound = min(bound*2, MaxSieveLimit)
	}
}

// primeCountHint approximates pi(limit) as limit/ln(limit), for sizing.
func primeCountHint(limit int) int {
	if limit < 10 {
		return 4
	}
	return int(float64(limit) / math.Log(float64(limit)))
}

// maxPrealloc caps up-front allocation for counts that are only bounded
// by how long the caller is willing to wait.
const maxPrealloc = 1 << 16

func preallocFor(n int) int {
	return min(n, maxPrealloc)
}
