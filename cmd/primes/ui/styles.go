// Package ui renders styled output for the primes CLI.
// Colors follow the terminal: lipgloss downgrades or drops them when stdout
// is not a TTY or NO_COLOR is set.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the current color scheme
type Theme struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	IsDark  bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Primary: lipgloss.Color("#101F38"),
		Accent:  lipgloss.Color("#558B2F"),
		Muted:   lipgloss.Color("#6a737d"),
		Border:  lipgloss.Color("#b0b8c1"),
		IsDark:  false,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Primary: lipgloss.Color("#8BC34A"),
		Accent:  lipgloss.Color("#FFD54F"),
		Muted:   lipgloss.Color("#8a94a6"),
		Border:  lipgloss.Color("#2a3850"),
		IsDark:  true,
	}
}

// DetectTheme picks dark mode from COLORFGBG or PRIMES_DARK_MODE=1,
// light mode otherwise.
func DetectTheme() Theme {
	// Format is usually "foreground;background"
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
			// 0-6 and 8 (dark grey) are dark backgrounds
			if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
				return DarkTheme()
			}
		}
	}

	if os.Getenv("PRIMES_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds the styled components used by the renderers
type Styles struct {
	Theme Theme

	Title  lipgloss.Style
	Cell   lipgloss.Style
	Border lipgloss.Style
	Muted  lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Cell: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Padding(0, 1).
			Align(lipgloss.Right),

		Border: lipgloss.NewStyle().
			Foreground(theme.Border),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}
