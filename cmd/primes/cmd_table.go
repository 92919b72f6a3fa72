package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"primekit/cmd/primes/ui"
	"primekit/internal/primes"
)

// tableCmd renders the first n primes as a grid
var tableCmd = &cobra.Command{
	Use:   "table [n]",
	Short: "Render the first n primes as a grid",
	Long: `Renders the first n primes in a bordered grid, output.columns per row.
Set NO_COLOR to disable colors.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTable,
}

func runTable(cmd *cobra.Command, args []string) error {
	n := cfg.Count
	if len(args) == 1 {
		parsed, err := primes.ParseCount(args[0])
		if err != nil {
			return err
		}
		n = parsed
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	res, err := enumerate(ctx, n)
	if err != nil {
		return err
	}

	grid := ui.NewGrid(ui.DetectTheme())
	fmt.Fprintln(cmd.OutOrStdout(), grid.Render(res.Primes, cfg.Output.Columns))
	return nil
}
