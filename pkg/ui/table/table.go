// Package table renders rows of cells as a terminal table backed by
// lipgloss, or as a Markdown table.
package table

import (
	"fmt"
	"os"
	"strings"
	"time"

	// Packages
	lipgloss "github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	truncate "github.com/muesli/reflow/truncate"
	term "golang.org/x/term"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// TableData is implemented by anything rendered as a table.
type TableData interface {
	// Header returns the column labels.
	Header() []string

	// Len returns the number of rows.
	Len() int

	// Row returns the cells of row i, or nil to skip the row.
	Row(i int) []any
}

// Bold renders a cell emphasised.
type Bold struct{ Value any }

// Colored renders a cell in an ANSI color, such as "9" for red. Markdown
// output ignores the color.
type Colored struct {
	Value any
	Color string
}

///////////////////////////////////////////////////////////////////////////////
// STYLES

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	boldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	borderStyle = lipgloss.NewStyle().Faint(true)
)

const (
	empty = "-"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Render renders the table for the terminal. The table is only squeezed
// to the terminal width when its natural width would overflow it.
func Render(data TableData) string {
	t := lgtable.New().
		Headers(data.Header()...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Wrap(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Rows(cells(data, FormatCell)...)

	result := t.Render()
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && lipgloss.Width(result) > w {
		result = t.Width(w).Render()
	}
	return result
}

// RenderMarkdown renders the table as Markdown.
func RenderMarkdown(data TableData) string {
	header := data.Header()
	if len(header) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("| " + strings.Join(header, " | ") + " |\n|")
	buf.WriteString(strings.Repeat("---|", len(header)))
	for _, row := range cells(data, markdownCell) {
		for len(row) < len(header) {
			row = append(row, empty)
		}
		buf.WriteString("\n| " + strings.Join(row[:len(header)], " | ") + " |")
	}
	return buf.String()
}

// FormatCell converts a value to its terminal form. Zero values are
// shown as a dash.
func FormatCell(v any) string {
	switch v := v.(type) {
	case Bold:
		if s := FormatCell(v.Value); s != empty {
			return boldStyle.Render(s)
		}
		return empty
	case Colored:
		if s := FormatCell(v.Value); s != empty {
			return lipgloss.NewStyle().Foreground(lipgloss.Color(v.Color)).Render(s)
		}
		return empty
	}
	return plain(v)
}

// Truncate shortens s to width terminal cells, collapsing newlines and
// ending with an ellipsis when shortened.
func Truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if lipgloss.Width(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(max(width, 1)), "…")
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func cells(data TableData, format func(any) string) [][]string {
	result := make([][]string, 0, data.Len())
	for i := range data.Len() {
		row := data.Row(i)
		if row == nil {
			continue
		}
		formatted := make([]string, len(row))
		for j, v := range row {
			formatted[j] = format(v)
		}
		result = append(result, formatted)
	}
	return result
}

func markdownCell(v any) string {
	switch v := v.(type) {
	case Bold:
		if s := markdownCell(v.Value); s != empty {
			return "**" + s + "**"
		}
		return empty
	case Colored:
		return markdownCell(v.Value)
	}
	return strings.ReplaceAll(plain(v), "|", `\|`)
}

func plain(v any) string {
	var s string
	switch v := v.(type) {
	case nil:
		return empty
	case time.Time:
		if v.IsZero() {
			return empty
		}
		s = v.Format("2006-01-02 15:04")
	case time.Duration:
		if v == 0 {
			return empty
		}
		s = v.Truncate(time.Millisecond).String()
	case int:
		if v == 0 {
			return empty
		}
		s = fmt.Sprint(v)
	case uint:
		if v == 0 {
			return empty
		}
		s = fmt.Sprint(v)
	default:
		s = fmt.Sprint(v)
	}
	if s == "" {
		return empty
	}
	return s
}
