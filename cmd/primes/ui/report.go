package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/glamour"

	"primekit/internal/store"
)

const historyTimeFormat = "2006-01-02 15:04:05"

// HistoryMarkdown formats runs as a markdown table.
func HistoryMarkdown(runs []store.Run, cached int) string {
	var b strings.Builder
	b.WriteString("# Enumeration history\n\n")
	fmt.Fprintf(&b, "%d primes cached.\n\n", cached)
	b.WriteString("| Started | Strategy | Count | Last | Duration | Cache |\n")
	b.WriteString("|---|---|--:|--:|--:|---|\n")
	for _, r := range runs {
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %s | %s |\n",
			r.StartedAt.Local().Format(historyTimeFormat),
			r.Strategy, r.Count, r.Last,
			r.Duration.Round(time.Microsecond), hitLabel(r.CacheHit))
	}
	return b.String()
}

// HistoryText formats runs as aligned plain-text columns.
func HistoryText(runs []store.Run, cached int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d primes cached\n\n", cached)

	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSTRATEGY\tCOUNT\tLAST\tDURATION\tCACHE\tID")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format(historyTimeFormat),
			r.Strategy, r.Count, r.Last,
			r.Duration.Round(time.Microsecond), hitLabel(r.CacheHit), r.ID)
	}
	w.Flush()
	return b.String()
}

// RenderMarkdown renders md for the terminal.
func RenderMarkdown(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}

func hitLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
