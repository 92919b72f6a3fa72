package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"primekit/internal/config"
	"primekit/internal/logging"
	"primekit/internal/primes"
)

var (
	// Global flags
	verbose    bool
	configPath string
	useCache   bool
	timeout    time.Duration
	count      int
	strategy   string

	// Loaded in PersistentPreRunE
	cfg  *config.Config
	logs *logging.Registry

	// Logger
	logger *zap.Logger
)

// rootCmd prints the first N primes when run without a subcommand
var rootCmd = &cobra.Command{
	Use:   "primes",
	Short: "Enumerate prime numbers",
	Long: `primes lists the first N prime numbers (100 by default) and their count.

Trial division is used unless --strategy sieve selects the Sieve of
Eratosthenes. With --cache, results are kept in a SQLite database so later
runs can be served without recomputation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logs != nil {
			logs.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return printFirst(cmd, cfg.Count)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "primes.yaml", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVar(&useCache, "cache", false, "Serve and store primes through the SQLite cache")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Operation timeout (default from config)")
	rootCmd.PersistentFlags().IntVarP(&count, "count", "n", 100, "Number of primes to list")
	rootCmd.PersistentFlags().StringVar(&strategy, "strategy", "", "Enumeration strategy: trial or sieve")

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyMarkdown, "markdown", false, "Render the history as markdown")

	rootCmd.AddCommand(firstCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(sieveCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(historyCmd)
}

// setup loads the config, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("count") {
		if count < 0 {
			return fmt.Errorf("--count %d: %w", count, primes.ErrNegativeCount)
		}
		loaded.Count = count
	}
	if flags.Changed("strategy") {
		if _, err := primes.ParseStrategy(strategy); err != nil {
			return err
		}
		loaded.Strategy = strategy
	}
	if useCache {
		loaded.Cache.Enabled = true
	}
	if timeout > 0 {
		loaded.Timeout = timeout.String()
	}
	if verbose {
		loaded.Logging.Level = "debug"
	}

	base, err := logging.New(loaded.Logging)
	if err != nil {
		return err
	}

	cfg = loaded
	logger = base
	logs = logging.NewRegistry(base, loaded.Logging)

	logs.Get(logging.CategoryCLI).Debug("config loaded",
		zap.String("path", configPath),
		zap.Int("count", cfg.Count),
		zap.String("strategy", cfg.Strategy),
		zap.Bool("cache", cfg.Cache.Enabled))
	return nil
}

// commandContext derives the per-command context with the configured timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	d := 30 * time.Second
	if cfg != nil {
		d = cfg.GetTimeout()
	}
	return context.WithTimeout(parent, d)
}

// execute runs the command line args against rootCmd.
func execute(ctx context.Context, args []string) error {
	rootCmd.SetArgs(numericArgs(rootCmd, args))
	return rootCmd.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
