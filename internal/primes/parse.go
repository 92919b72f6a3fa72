package primes

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCount converts textual input into a prime count.
// Non-integer text yields ErrNotInteger, negative values ErrNegativeCount.
func ParseCount(s string) (int, error) {
	n, err := ParseCandidate(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("count %d: %w", n, ErrNegativeCount)
	}
	return n, nil
}

// ParseCandidate converts textual input into a primality candidate.
// Negative values are accepted; they are never prime.
func ParseCandidate(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrNotInteger)
	}
	return n, nil
}
