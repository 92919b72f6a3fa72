package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"primekit/internal/logging"
	"primekit/internal/primes"
)

// checkCmd tests candidates for primality
var checkCmd = &cobra.Command{
	Use:   "check <candidate>...",
	Short: "Report whether each candidate is prime",
	Long: `Tests every candidate by trial division, in parallel across the
configured number of workers. Output keeps the argument order.

Example:
  primes check 17 4 104729
  primes check -7 0 1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	candidates := make([]int, 0, len(args))
	for _, arg := range args {
		c, err := primes.ParseCandidate(arg)
		if err != nil {
			return err
		}
		candidates = append(candidates, c)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	log := logs.Get(logging.CategoryCheck)
	timer := logging.StartTimer(log, "check")
	results, err := primes.CheckAll(ctx, candidates, cfg.Workers)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	timer.Stop(zap.Int("candidates", len(candidates)), zap.Int("workers", cfg.Workers))

	out := cmd.OutOrStdout()
	for _, r := range results {
		if r.Prime {
			fmt.Fprintf(out, "%d is prime\n", r.Candidate)
		} else {
			fmt.Fprintf(out, "%d is not prime\n", r.Candidate)
		}
	}
	return nil
}
