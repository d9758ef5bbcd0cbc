package trace

import (
	"bytes"
	"strings"
	"testing"
	"testing/quick"

	"github.com/charmbracelet/lipgloss"
)

func TestTableAlignment(t *testing.T) {
	tbl := NewTable(
		Column{Header: "name"},
		Column{Header: "n", Align: AlignRight},
	)
	tbl.AddRow("alpha", "1")
	tbl.AddRow("b", "200")

	lines := strings.Split(tbl.Render(), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	if lines[2] != "alpha │   1" {
		t.Errorf("row 0 = %q", lines[2])
	}
	if lines[3] != "b     │ 200" {
		t.Errorf("row 1 = %q", lines[3])
	}
	if lines[1] != "──────┼────" {
		t.Errorf("separator = %q", lines[1])
	}
}

func TestTableMaxWidthTruncates(t *testing.T) {
	tbl := NewTable(Column{Header: "v", MaxWidth: 5})
	tbl.AddRow("abcdefgh")

	lines := strings.Split(tbl.Render(), "\n")
	if lines[2] != "abcd…" {
		t.Errorf("truncated = %q, want %q", lines[2], "abcd…")
	}
}

func TestTableWideGlyphs(t *testing.T) {
	tbl := NewTable(Column{Header: "glyph"}, Column{Header: "x"})
	tbl.AddRow("⣿", "1")
	tbl.AddRow("⠈⠈", "2")

	lines := strings.Split(tbl.Render(), "\n")
	w := lipgloss.Width(lines[2])
	for _, line := range lines[3:] {
		if lipgloss.Width(line) != w {
			t.Errorf("row %q has width %d, want %d", line, lipgloss.Width(line), w)
		}
	}
}

func TestTableExtraValuesDropped(t *testing.T) {
	tbl := NewTable(Column{Header: "a"})
	tbl.AddRow("1", "2", "3")
	tbl.AddRow()
	if tbl.RowCount() != 2 {
		t.Fatalf("RowCount() = %d, want 2", tbl.RowCount())
	}
}

// TestTruncateNeverExceedsWidth verifies that truncation always fits.
func TestTruncateNeverExceedsWidth(t *testing.T) {
	property := func(s string, width uint8) bool {
		w := int(width%40) + 1
		return lipgloss.Width(truncate(s, w)) <= w
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

func TestPrintIndents(t *testing.T) {
	tbl := NewTable(Column{Header: "a"})
	tbl.AddRow("1")

	var buf bytes.Buffer
	if err := tbl.Print(&buf, "  "); err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		if !strings.HasPrefix(line, "  ") {
			t.Errorf("line %q not indented", line)
		}
	}
}
