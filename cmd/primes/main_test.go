package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"primekit/internal/config"
	"primekit/internal/logging"
	"primekit/internal/primes"
)

// setupGlobals installs a default config and silent loggers.
func setupGlobals(t *testing.T) {
	t.Helper()

	cfg = config.DefaultConfig()
	cfg.Cache.Path = filepath.Join(t.TempDir(), "primes.db")
	logger = zap.NewNop()
	logs = logging.NewRegistry(logger, cfg.Logging)

	t.Cleanup(func() {
		cfg = nil
		logs = nil
		logger = nil
	})
}

// runCommand executes fn against a bare command and returns what it printed.
func runCommand(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	err := fn(cmd, args)
	return out.String(), err
}

func TestJoinInts(t *testing.T) {
	assert.Equal(t, "", joinInts(nil, ", "))
	assert.Equal(t, "2", joinInts([]int{2}, ", "))
	assert.Equal(t, "2, 3, 5", joinInts([]int{2, 3, 5}, ", "))
	assert.Equal(t, "2 3", joinInts([]int{2, 3}, " "))
}

func TestPrintFirst_DefaultEntry(t *testing.T) {
	setupGlobals(t)

	out, err := runCommand(t, func(cmd *cobra.Command, _ []string) error {
		return printFirst(cmd, cfg.Count)
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "First 100 prime numbers: 2, 3, 5, 7, 11, "))
	assert.True(t, strings.HasSuffix(lines[0], ", 523, 541"))
	assert.Equal(t, "Length: 100", lines[1])
}

func TestRunFirst(t *testing.T) {
	setupGlobals(t)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{name: "five", args: []string{"5"}, want: "First 5 prime numbers: 2, 3, 5, 7, 11\nLength: 5\n"},
		{name: "one", args: []string{"1"}, want: "First 1 prime numbers: 2\nLength: 1\n"},
		{name: "zero", args: []string{"0"}, want: "First 0 prime numbers: \nLength: 0\n"},
		{name: "negative", args: []string{"-1"}, wantErr: primes.ErrNegativeCount},
		{name: "not an integer", args: []string{"5.5"}, wantErr: primes.ErrNotInteger},
		{name: "text", args: []string{"five"}, wantErr: primes.ErrNotInteger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, runFirst, tt.args...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRunFirst_SieveMatchesTrial(t *testing.T) {
	setupGlobals(t)

	trial, err := runCommand(t, runFirst, "50")
	require.NoError(t, err)

	cfg.Strategy = "sieve"
	sieve, err := runCommand(t, runFirst, "50")
	require.NoError(t, err)

	assert.Equal(t, trial, sieve)
}

func TestRunFirst_WithCacheRecordsHistory(t *testing.T) {
	setupGlobals(t)
	cfg.Cache.Enabled = true
	cfg.Cache.Driver = config.DriverModernc

	for i := 0; i < 2; i++ {
		out, err := runCommand(t, runFirst, "10")
		require.NoError(t, err)
		assert.Contains(t, out, "Length: 10")
	}

	out, err := runCommand(t, runHistory)
	require.NoError(t, err)
	assert.Contains(t, out, "10 primes cached")
	assert.Contains(t, out, "hit")
	assert.Contains(t, out, "miss")
}

func TestRunHistory_NoCache(t *testing.T) {
	setupGlobals(t)

	out, err := runCommand(t, runHistory)
	require.NoError(t, err)
	assert.Contains(t, out, "No cache at")
}

func TestRunCheck(t *testing.T) {
	setupGlobals(t)
	cfg.Workers = 2

	out, err := runCommand(t, runCheck, "17", "4", "2", "1", "-7")
	require.NoError(t, err)
	assert.Equal(t, "17 is prime\n4 is not prime\n2 is prime\n1 is not prime\n-7 is not prime\n", out)

	_, err = runCommand(t, runCheck, "17", "2.5")
	assert.ErrorIs(t, err, primes.ErrNotInteger)
}

func TestRunSieve(t *testing.T) {
	setupGlobals(t)

	out, err := runCommand(t, runSieve, "30")
	require.NoError(t, err)
	assert.Equal(t, "Primes up to 30: 2, 3, 5, 7, 11, 13, 17, 19, 23, 29\nCount: 10\n", out)

	out, err = runCommand(t, runSieve, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Count: 0")

	_, err = runCommand(t, runSieve, "ten")
	assert.ErrorIs(t, err, primes.ErrNotInteger)
}

func TestRunTable(t *testing.T) {
	setupGlobals(t)

	out, err := runCommand(t, runTable, "12")
	require.NoError(t, err)
	assert.Contains(t, out, "First 12 prime numbers")
	assert.Contains(t, out, "37")
	assert.Contains(t, out, "Length: 12")

	_, err = runCommand(t, runTable, "-3")
	assert.ErrorIs(t, err, primes.ErrNegativeCount)
}

func TestSetup_FlagsOverrideConfig(t *testing.T) {
	for _, k := range []string{"PRIMES_COUNT", "PRIMES_STRATEGY", "PRIMES_WORKERS", "PRIMES_CACHE_DB", "PRIMES_CACHE_DRIVER", "PRIMES_LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	path := filepath.Join(t.TempDir(), "primes.yaml")
	file := config.DefaultConfig()
	file.Count = 7
	require.NoError(t, file.Save(path))

	configPath = path
	t.Cleanup(func() {
		configPath = "primes.yaml"
		count = 100
		strategy = ""
		verbose = false
	})

	cmd := &cobra.Command{}
	cmd.Flags().IntVarP(&count, "count", "n", 100, "")
	cmd.Flags().StringVar(&strategy, "strategy", "", "")

	require.NoError(t, setup(cmd))
	assert.Equal(t, 7, cfg.Count)
	assert.Equal(t, primes.StrategyTrial, cfg.GetStrategy())

	require.NoError(t, cmd.Flags().Set("count", "3"))
	require.NoError(t, cmd.Flags().Set("strategy", "sieve"))
	verbose = true
	require.NoError(t, setup(cmd))
	assert.Equal(t, 3, cfg.Count)
	assert.Equal(t, primes.StrategySieve, cfg.GetStrategy())
	assert.Equal(t, "debug", cfg.Logging.Level)

	require.NoError(t, cmd.Flags().Set("strategy", "wheel"))
	assert.ErrorIs(t, setup(cmd), primes.ErrUnknownStrategy)

	require.NoError(t, cmd.Flags().Set("strategy", "trial"))
	require.NoError(t, cmd.Flags().Set("count", "-2"))
	assert.ErrorIs(t, setup(cmd), primes.ErrNegativeCount)
}

func TestRootCommand_EndToEnd(t *testing.T) {
	for _, k := range []string{"PRIMES_COUNT", "PRIMES_STRATEGY", "PRIMES_WORKERS", "PRIMES_CACHE_DB", "PRIMES_CACHE_DRIVER", "PRIMES_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	t.Cleanup(func() { configPath = "primes.yaml" })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "First 100 prime numbers: 2, 3, 5"))
	assert.Equal(t, "Length: 100", lines[1])
}

func TestNumericArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "no negatives", args: []string{"check", "17"}, want: []string{"check", "17"}},
		{name: "negative candidate", args: []string{"check", "-7"}, want: []string{"check", "--", "-7"}},
		{name: "flags keep their place", args: []string{"check", "17", "-7", "--verbose"}, want: []string{"--verbose", "check", "--", "17", "-7"}},
		{name: "flag value stays with flag", args: []string{"first", "-n", "-3"}, want: []string{"-n", "-3", "first", "--"}},
		{name: "inline flag value", args: []string{"first", "--count=5", "-1"}, want: []string{"--count=5", "first", "--", "-1"}},
		{name: "negative fraction", args: []string{"first", "-1.5"}, want: []string{"first", "--", "-1.5"}},
		{name: "already terminated", args: []string{"check", "--", "-7"}, want: []string{"check", "--", "-7"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, numericArgs(rootCmd, tt.args))
		})
	}
}

// executeRoot runs args through the real command line parser.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"PRIMES_COUNT", "PRIMES_STRATEGY", "PRIMES_WORKERS", "PRIMES_CACHE_DB", "PRIMES_CACHE_DRIVER", "PRIMES_LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		configPath = "primes.yaml"
		verbose = false
	})

	full := append([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}, args...)
	err := execute(context.Background(), full)
	return out.String(), err
}

func TestExecute_NegativeCandidates(t *testing.T) {
	out, err := executeRoot(t, "check", "-7", "17", "0")
	require.NoError(t, err)
	assert.Equal(t, "-7 is not prime\n17 is prime\n0 is not prime\n", out)
}

func TestExecute_NegativeCount(t *testing.T) {
	_, err := executeRoot(t, "first", "-1")
	assert.ErrorIs(t, err, primes.ErrNegativeCount)

	_, err = executeRoot(t, "first", "-2.5")
	assert.ErrorIs(t, err, primes.ErrNotInteger)

	out, err := executeRoot(t, "first", "3")
	require.NoError(t, err)
	assert.Equal(t, "First 3 prime numbers: 2, 3, 5\nLength: 3\n", out)
}

func TestRunSieve_TooLarge(t *testing.T) {
	setupGlobals(t)

	_, err := runCommand(t, runSieve, "9223372036854775807")
	assert.ErrorIs(t, err, primes.ErrCountTooLarge)
}

func TestEnumerate_FailureIsLogged(t *testing.T) {
	setupGlobals(t)
	core, recorded := observer.New(zapcore.DebugLevel)
	logs = logging.NewRegistry(zap.New(core), cfg.Logging)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := enumerate(ctx, 10)
	require.ErrorIs(t, err, context.Canceled)

	failed := recorded.FilterMessage("enumerate failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.WarnLevel, failed[0].Level)
	assert.Equal(t, int64(10), failed[0].ContextMap()["n"])
}
