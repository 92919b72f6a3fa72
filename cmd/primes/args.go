package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// numericArgs rewrites args so that negative numbers given as positional
// arguments ("primes check -7") are passed after "--" instead of being read
// as shorthand flags. Flag values ("-n -3") stay with their flag.
func numericArgs(root *cobra.Command, args []string) []string {
	if !hasNegativeNumber(args) {
		return args
	}

	cmd, _, err := root.Find(args)
	if err != nil {
		return args
	}

	var flags, positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			positional = append(positional, args[i+1:]...)
			i = len(args)
		case isNumber(arg):
			positional = append(positional, arg)
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			flags = append(flags, arg)
			if takesValue(cmd, arg) && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		default:
			positional = append(positional, arg)
		}
	}

	// The subcommand name has to stay ahead of "--" for cobra to find it
	out := flags
	if cmd != root && len(positional) > 0 {
		out = append(out, positional[0])
		positional = positional[1:]
	}
	out = append(out, "--")
	return append(out, positional...)
}

func hasNegativeNumber(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if strings.HasPrefix(arg, "-") && isNumber(arg) {
			return true
		}
	}
	return false
}

func isNumber(arg string) bool {
	if arg == "" || strings.ContainsAny(arg, "iInN") {
		return false
	}
	_, err := strconv.ParseFloat(arg, 64)
	return err == nil
}

// takesValue reports whether flag arg consumes the next argument as its value.
func takesValue(cmd *cobra.Command, arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}

	var f *pflag.Flag
	if name, ok := strings.CutPrefix(arg, "--"); ok {
		f = lookupFlag(cmd, name)
	} else {
		shorthands := strings.TrimPrefix(arg, "-")
		last := shorthands[len(shorthands)-1:]
		f = lookupShorthand(cmd, last)
	}
	return f != nil && f.NoOptDefVal == ""
}

func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f
	}
	return cmd.InheritedFlags().Lookup(name)
}

func lookupShorthand(cmd *cobra.Command, name string) *pflag.Flag {
	if f := cmd.Flags().ShorthandLookup(name); f != nil {
		return f
	}
	return cmd.InheritedFlags().ShorthandLookup(name)
}
