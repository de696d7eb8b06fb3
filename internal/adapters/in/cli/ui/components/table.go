// Package components holds the reusable pieces of the composer's terminal UI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/logilab/onyxia-composer/internal/adapters/in/cli/ui/styles"
	"github.com/logilab/onyxia-composer/internal/domain"
)

// Column is a table column. A zero Width means unbounded.
type Column struct {
	Title string
	Width int
}

// Table renders rows with a rounded border. Cells wider than their column are
// cut at a grapheme boundary and suffixed with "...".
type Table struct {
	Columns []Column
	Rows    [][]string

	Header lipgloss.Style
	Cell   lipgloss.Style
	Muted  lipgloss.Style
	// MutedRows are row indexes rendered with the Muted style.
	MutedRows map[int]bool
}

// NewTable creates a table with the composer theme.
func NewTable(columns ...Column) *Table {
	return &Table{
		Columns: columns,
		Header:  lipgloss.NewStyle().Bold(true).Foreground(styles.ColorPrimary).Padding(0, 1),
		Cell:    lipgloss.NewStyle().Foreground(styles.ColorText).Padding(0, 1),
		Muted:   lipgloss.NewStyle().Foreground(styles.ColorTextMuted).Padding(0, 1),
	}
}

// Render returns the table, or "" when it has no columns.
func (t *Table) Render() string {
	if len(t.Columns) == 0 {
		return ""
	}

	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = truncateCell(col.Title, col.Width)
	}

	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		rows[r] = make([]string, len(row))
		for c, cell := range row {
			rows[r][c] = truncateCell(cell, t.width(c))
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.ColorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := t.Cell
			switch {
			case row == table.HeaderRow:
				style = t.Header
			case t.MutedRows[row]:
				style = t.Muted
			}
			if w := t.width(col); w > 0 {
				style = style.Width(w).MaxWidth(w)
			}
			return style
		}).
		String()
}

func (t *Table) width(col int) int {
	if col < 0 || col >= len(t.Columns) {
		return 0
	}
	return t.Columns[col].Width
}

// ListingTable renders a registry listing. The protected service is dimmed and
// marked as not deletable.
func ListingTable(listing domain.Listing) string {
	t := NewTable(
		Column{Title: "Name", Width: 32},
		Column{Title: "Tag", Width: 12},
		Column{Title: "Description", Width: 48},
	)
	t.MutedRows = make(map[int]bool)
	for i, entry := range listing {
		name := entry.Name
		if !entry.Deletable() {
			name = styles.IconLocked + " " + name
			t.MutedRows[i] = true
		}
		t.Rows = append(t.Rows, []string{name, entry.Tag, firstLine(entry.Description)})
	}
	return t.Render()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

func truncateCell(value string, maxWidth int) string {
	if strings.Contains(value, "\x1b[") {
		return value
	}
	if maxWidth <= 0 || runewidth.StringWidth(value) <= maxWidth {
		return value
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}

	target := maxWidth - 3
	var b strings.Builder
	width := 0
	g := uniseg.NewGraphemes(value)
	for g.Next() {
		w := runewidth.StringWidth(g.Str())
		if width+w > target {
			break
		}
		b.WriteString(g.Str())
		width += w
	}
	if b.Len() == 0 {
		return strings.Repeat(".", maxWidth)
	}
	return b.String() + "..."
}
