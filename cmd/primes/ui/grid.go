package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// DefaultColumns is used when a non-positive column count is requested.
const DefaultColumns = 10

// Grid renders prime lists as a bordered table.
type Grid struct {
	styles Styles
}

// NewGrid returns a Grid styled with theme.
func NewGrid(theme Theme) *Grid {
	return &Grid{styles: NewStyles(theme)}
}

// Render lays ps out row-major, columns cells per row, under a title line.
func (g *Grid) Render(ps []int, columns int) string {
	title := g.styles.Title.Render(fmt.Sprintf("First %d prime numbers", len(ps)))
	if len(ps) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, g.styles.Muted.Render("(none)"))
	}

	rows := gridRows(ps, columns)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(g.styles.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			return g.styles.Cell
		}).
		Rows(rows...)

	footer := g.styles.Muted.Render(fmt.Sprintf("Length: %d", len(ps)))
	return lipgloss.JoinVertical(lipgloss.Left, title, t.Render(), footer)
}

// gridRows splits ps into rows of the given width; the last row is padded
// with empty cells so every row has the same number of columns.
func gridRows(ps []int, columns int) [][]string {
	if columns < 1 {
		columns = DefaultColumns
	}
	if columns > len(ps) {
		columns = len(ps)
	}

	rows := make([][]string, 0, (len(ps)+columns-1)/columns)
	for start := 0; start < len(ps); start += columns {
		row := make([]string, columns)
		for i := 0; i < columns && start+i < len(ps); i++ {
			row[i] = strconv.Itoa(ps[start+i])
		}
		rows = append(rows, row)
	}
	return rows
}
