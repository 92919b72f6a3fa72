package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"primekit/internal/logging"
	"primekit/internal/primes"
)

// sieveCmd lists every prime up to a limit
var sieveCmd = &cobra.Command{
	Use:   "sieve <limit>",
	Short: "List every prime up to and including limit",
	Long: `Lists every prime up to and including limit using the Sieve of
Eratosthenes. Limits above 268435456 are rejected.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSieve,
}

func runSieve(cmd *cobra.Command, args []string) error {
	limit, err := primes.ParseCandidate(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	log := logs.Get(logging.CategorySieve)
	timer := logging.StartTimer(log, "sieve")
	found, err := primes.SieveUpTo(ctx, limit)
	if err != nil {
		timer.Fail(err, zap.Int("limit", limit))
		return err
	}
	timer.Stop(zap.Int("limit", limit), zap.Int("found", len(found)))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Primes up to %d: %s\n", limit, joinInts(found, cfg.Output.Separator))
	fmt.Fprintf(out, "Count: %d\n", len(found))
	return nil
}
