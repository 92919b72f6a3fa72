// Package primes enumerates prime numbers.
//
// Two strategies are available: trial division (the default, one candidate at
// a time starting from 2) and the Sieve of Eratosthenes over an estimated
// upper bound. Both produce the same ascending list for the same count.
package primes

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrNegativeCount is returned when a negative number of primes is requested.
	ErrNegativeCount = errors.New("number of primes requested must be non-negative")

	// ErrNotInteger is returned when textual input does not denote an integer.
	ErrNotInteger = errors.New("input must be an integer")
)

// IsPrime reports whether candidate is prime by trial division up to
// floor(sqrt(candidate)).
func IsPrime(candidate int) bool {
	if candidate < 2 {
		return false
	}
	// d <= candidate/d is d*d <= candidate without overflow near MaxInt.
	for d := 2; d <= candidate/d; d++ {
		if candidate%d == 0 {
			return false
		}
	}
	return true
}

// All yields the primes in ascending order, forever. Callers stop it by
// returning false from the loop body.
func All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for candidate := 2; ; candidate++ {
			if !IsPrime(candidate) {
				continue
			}
			if !yield(candidate) {
				return
			}
		}
	}
}

// FirstN returns the first n primes in ascending order using trial division.
// FirstN(0) returns an empty slice without testing any candidate.
func FirstN(n int) ([]int, error) {
	if n < 0 {
		return nil, fmt.Errorf("first %d primes: %w", n, ErrNegativeCount)
	}

	primes := make([]int, 0, preallocFor(n))
	if n == 0 {
		return primes, nil
	}
	for p := range All() {
		primes = append(primes, p)
		if len(primes) == n {
			break
		}
	}
	return primes, nil
}

// Verify checks that ps is a strictly increasing list of primes.
func Verify(ps []int) error {
	for i, p := range ps {
		if !IsPrime(p) {
			return fmt.Errorf("index %d: %d is not prime", i, p)
		}
		if i > 0 && p <= ps[i-1] {
			return fmt.Errorf("index %d: %d does not follow %d", i, p, ps[i-1])
		}
	}
	return nil
}
