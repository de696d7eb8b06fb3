package components

import (
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logilab/onyxia-composer/internal/domain"
)

func plainTable(columns ...Column) *Table {
	t := NewTable(columns...)
	t.Header = lipgloss.NewStyle()
	t.Cell = lipgloss.NewStyle()
	t.Muted = lipgloss.NewStyle()
	return t
}

func TestTable_Render_AppliesColumnWidth(t *testing.T) {
	tbl := plainTable(Column{Title: "ID", Width: 5})
	tbl.Rows = [][]string{{"abc"}}

	var rowLine string
	for _, line := range strings.Split(stripANSI(tbl.Render()), "\n") {
		if strings.Contains(line, "abc") {
			rowLine = line
		}
	}
	require.NotEmpty(t, rowLine)
	assert.Contains(t, rowLine, "abc  ")
}

func TestTable_Render_TruncatesLongCells(t *testing.T) {
	tbl := plainTable(Column{Title: "ID", Width: 5})
	tbl.Rows = [][]string{{"abcdef"}}

	rendered := stripANSI(tbl.Render())
	assert.Contains(t, rendered, "ab...")
	assert.NotContains(t, rendered, "abcdef")
}

func TestTable_Render_NoColumns(t *testing.T) {
	assert.Empty(t, NewTable().Render())
}

func TestListingTable(t *testing.T) {
	listing := domain.NewListing(map[string]domain.ServiceSummary{
		"myapp":                 {Description: "first line\nsecond line", Tag: "1.2.0"},
		domain.ProtectedService: {Description: "the composer", Tag: "3.0.0"},
	})

	rendered := stripANSI(ListingTable(listing))

	assert.Contains(t, rendered, "myapp")
	assert.Contains(t, rendered, "1.2.0")
	assert.Contains(t, rendered, "first line")
	assert.NotContains(t, rendered, "second line")
	assert.Contains(t, rendered, "⊘ jupyter-composer")
}

func TestTruncateCell(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		maxWidth int
		expected string
	}{
		{name: "short text unchanged", value: "abc", maxWidth: 5, expected: "abc"},
		{name: "zero width passthrough", value: "abcdef", maxWidth: 0, expected: "abcdef"},
		{name: "width three all dots", value: "abcdef", maxWidth: 3, expected: "..."},
		{name: "ascii truncates", value: "abcdef", maxWidth: 5, expected: "ab..."},
		{name: "cjk truncates by display width", value: "你好世界", maxWidth: 5, expected: "你..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateCell(tt.value, tt.maxWidth)
			assert.Equal(t, tt.expected, got)
			if tt.maxWidth > 0 {
				assert.LessOrEqual(t, runewidth.StringWidth(got), tt.maxWidth)
			}
		})
	}
}

func TestTruncateCell_AnsiInputPassthrough(t *testing.T) {
	styled := "\x1b[32mactive\x1b[0m"
	assert.Equal(t, styled, truncateCell(styled, 3))
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

func stripANSI(input string) string {
	return ansiPattern.ReplaceAllString(input, "")
}
