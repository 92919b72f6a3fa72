package primes

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// CheckResult pairs a candidate with its primality.
type CheckResult struct {
	Candidate int
	Prime     bool
}

// CheckAll tests every candidate concurrently using at most workers
// goroutines. Results keep the input order. workers < 1 is treated as 1.
func CheckAll(ctx context.Context, candidates []int, workers int) ([]CheckResult, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]CheckResult, len(candidates))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, c := range candidates {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			// Each goroutine owns results[i]; no lock needed.
			results[i] = CheckResult{Candidate: c, Prime: IsPrime(c)}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
