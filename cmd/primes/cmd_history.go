package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"primekit/cmd/primes/ui"
	"primekit/internal/logging"
	"primekit/internal/store"
)

var (
	historyLimit    int
	historyMarkdown bool
)

// historyCmd lists enumeration runs recorded in the cache
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show enumeration runs recorded in the cache",
	Long: `Lists the runs recorded by previous invocations made with --cache,
newest first. The cache path comes from the config file or PRIMES_CACHE_DB.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if _, err := os.Stat(cfg.Cache.Path); os.IsNotExist(err) {
		fmt.Fprintf(out, "No cache at %s. Run with --cache first.\n", cfg.Cache.Path)
		return nil
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	log := logs.Get(logging.CategoryCache)
	s, err := store.Open(ctx, cfg.Cache.Driver, cfg.Cache.Path, store.WithLogger(log))
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer s.Close()

	runs, err := s.Runs(ctx, historyLimit)
	if err != nil {
		return err
	}
	cached, err := s.Len(ctx)
	if err != nil {
		return err
	}
	log.Debug("history loaded", zap.Int("runs", len(runs)), zap.Int("cached", cached))

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	if historyMarkdown {
		rendered, err := ui.RenderMarkdown(ui.HistoryMarkdown(runs, cached))
		if err != nil {
			return fmt.Errorf("failed to render history: %w", err)
		}
		fmt.Fprint(out, rendered)
		return nil
	}

	fmt.Fprint(out, ui.HistoryText(runs, cached))
	return nil
}
