package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Alignment specifies how content should be aligned within a column.
type Alignment int

const (
	// AlignLeft aligns content to the left.
	AlignLeft Alignment = iota
	// AlignRight aligns content to the right.
	AlignRight
)

// Column represents a table column with its configuration.
type Column struct {
	Header   string
	MinWidth int
	MaxWidth int
	Align    Alignment
}

var headerStyle = lipgloss.NewStyle().Bold(true)

// Table is a plain text table. Widths are measured in terminal cells, so
// braille and other wide glyphs line up.
type Table struct {
	columns []Column
	rows    [][]string
	widths  []int
}

// NewTable creates a new table with the specified columns.
func NewTable(columns ...Column) *Table {
	t := &Table{
		columns: columns,
		widths:  make([]int, len(columns)),
	}
	for i, col := range columns {
		t.widths[i] = max(lipgloss.Width(col.Header), col.MinWidth)
	}
	return t
}

// AddRow adds a row of values to the table. Missing values are blank and
// extra values are dropped.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.columns))
	copy(row, values)
	for i, val := range row {
		t.widths[i] = max(t.widths[i], lipgloss.Width(val))
	}
	t.rows = append(t.rows, row)
}

// RowCount returns the number of rows in the table.
func (t *Table) RowCount() int {
	return len(t.rows)
}

func (t *Table) finalWidths() []int {
	widths := make([]int, len(t.widths))
	copy(widths, t.widths)
	for i, col := range t.columns {
		if col.MaxWidth > 0 && widths[i] > col.MaxWidth {
			widths[i] = col.MaxWidth
		}
	}
	return widths
}

// truncate cuts s to width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

func formatCell(value string, width int, align Alignment) string {
	value = truncate(value, width)
	pad := strings.Repeat(" ", max(0, width-lipgloss.Width(value)))
	if align == AlignRight {
		return pad + value
	}
	return value + pad
}

func (t *Table) renderRow(values []string, widths []int) string {
	parts := make([]string, len(t.columns))
	for i, col := range t.columns {
		parts[i] = formatCell(values[i], widths[i], col.Align)
	}
	return strings.Join(parts, " │ ")
}

// Render returns the complete table as a string.
func (t *Table) Render() string {
	widths := t.finalWidths()

	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = col.Header
	}
	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("─", w)
	}

	lines := make([]string, 0, len(t.rows)+2)
	lines = append(lines, headerStyle.Render(t.renderRow(headers, widths)))
	lines = append(lines, strings.Join(seps, "─┼─"))
	for _, row := range t.rows {
		lines = append(lines, t.renderRow(row, widths))
	}
	return strings.Join(lines, "\n")
}

// Print writes the table to w with every line indented.
func (t *Table) Print(w io.Writer, indent string) error {
	for _, line := range strings.Split(t.Render(), "\n") {
		if _, err := fmt.Fprintf(w, "%s%s\n", indent, line); err != nil {
			return err
		}
	}
	return nil
}
