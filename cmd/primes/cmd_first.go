package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"primekit/internal/logging"
	"primekit/internal/primes"
	"primekit/internal/store"
)

// slowEnumeration is the duration above which an enumeration is logged as a warning.
const slowEnumeration = 2 * time.Second

// firstCmd prints the first n primes for an explicit count
var firstCmd = &cobra.Command{
	Use:   "first [n]",
	Short: "List the first n primes and their count",
	Long: `Prints the first n prime numbers on one line followed by their count.
Without an argument n comes from --count or the config file.

Example:
  primes first 10
  primes first 1000 --strategy sieve --cache`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFirst,
}

func runFirst(cmd *cobra.Command, args []string) error {
	n := cfg.Count
	if len(args) == 1 {
		parsed, err := primes.ParseCount(args[0])
		if err != nil {
			return err
		}
		n = parsed
	}
	return printFirst(cmd, n)
}

// printFirst enumerates n primes and writes the two-line report.
func printFirst(cmd *cobra.Command, n int) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	res, err := enumerate(ctx, n)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "First %d prime numbers: %s\n", n, joinInts(res.Primes, cfg.Output.Separator))
	fmt.Fprintf(out, "Length: %d\n", len(res.Primes))
	return nil
}

// enumerate runs the configured strategy, going through the cache when
// enabled, and records the run in the cache history.
func enumerate(ctx context.Context, n int) (primes.Result, error) {
	runID := uuid.NewString()
	log := logs.Get(logging.CategoryEnumerate).With(zap.String("run_id", runID))

	opts := []primes.Option{
		primes.WithStrategy(cfg.GetStrategy()),
		primes.WithLogger(log),
	}

	var cache *store.Store
	if cfg.Cache.Enabled {
		s, err := store.Open(ctx, cfg.Cache.Driver, cfg.Cache.Path,
			store.WithLogger(logs.Get(logging.CategoryCache)))
		if err != nil {
			// A broken cache must not stop enumeration
			log.Warn("cache unavailable", zap.Error(err))
		} else {
			defer s.Close()
			cache = s
			opts = append(opts, primes.WithCache(s))
		}
	}

	timer := logging.StartTimer(log, "enumerate")
	res, err := primes.NewEnumerator(opts...).Enumerate(ctx, n)
	if err != nil {
		timer.Fail(err, zap.Int("n", n))
		return res, err
	}
	timer.StopWithThreshold(slowEnumeration, zap.Int("n", n), zap.Bool("cache_hit", res.CacheHit))

	if cache != nil {
		_, err := cache.RecordRun(ctx, store.Run{
			ID:       runID,
			Strategy: string(res.Strategy),
			Count:    n,
			Last:     res.Last(),
			Duration: res.Elapsed,
			CacheHit: res.CacheHit,
		})
		if err != nil {
			log.Warn("failed to record run", zap.Error(err))
		}
	}
	return res, nil
}

func joinInts(values []int, sep string) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}
