package indicator

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"pullrefresh/internal/segment"
)

// Default colors.
const (
	DefaultColor      = "#808080"
	DefaultBackground = "#000000"
)

const (
	segmentGlyph = "●"
	emptyGlyph   = " "
)

// ringCells places each segment, clockwise from the top, on a 3x3 grid
// as {column, row}. The center stays empty.
var ringCells = [segment.Count][2]int{
	{1, 0}, // top
	{2, 0}, // top right
	{2, 1}, // right
	{2, 2}, // bottom right
	{1, 2}, // bottom
	{0, 2}, // bottom left
	{0, 1}, // left
	{0, 0}, // top left
}

// Style holds the indicator palette as hex colors.
type Style struct {
	Color      string
	Background string
}

func (s Style) colors() (fg, bg colorful.Color) {
	fg, err := colorful.Hex(s.Color)
	if err != nil {
		fg, _ = colorful.Hex(DefaultColor)
	}
	bg, err = colorful.Hex(s.Background)
	if err != nil {
		bg, _ = colorful.Hex(DefaultBackground)
	}
	return fg, bg
}

// SegmentColor returns the hex color of a segment at the given brightness:
// the background at 0, the indicator color at 1.
func (s Style) SegmentColor(brightness float64) string {
	fg, bg := s.colors()
	return bg.BlendRgb(fg, clamp(brightness)).Clamped().Hex()
}

// Ring renders the brightness vector as three lines of glyphs, turned
// clockwise by rotation degrees.
func Ring(brightness [segment.Count]float64, rotation float64, st Style) string {
	var grid [3][3]string
	for r := range grid {
		for c := range grid[r] {
			grid[r][c] = emptyGlyph
		}
	}

	shift := rotationSteps(rotation)
	for k, b := range brightness {
		if b <= 0 {
			continue
		}
		cell := ringCells[wrap(k+shift)]
		glyph := lipgloss.NewStyle().
			Foreground(lipgloss.Color(st.SegmentColor(b))).
			Render(segmentGlyph)
		grid[cell[1]][cell[0]] = glyph
	}

	lines := make([]string, len(grid))
	for r, row := range grid {
		lines[r] = strings.Join(row[:], "")
	}
	return strings.Join(lines, "\n")
}

// Render picks a representation for a frame at the displayed scale: the
// full ring, a single braille cell once it has shrunk, and nothing once it
// is gone.
func Render(f segment.Frame, rotation, scale float64, st Style) string {
	switch {
	case scale <= 0.05:
		return ""
	case scale < 0.6:
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(st.SegmentColor(scale))).
			Render(string(Braille(f.Brightness, rotation)))
	default:
		return Ring(f.Brightness, rotation, st)
	}
}

// Hint fades text in with pull progress (0..100).
func Hint(text, color string, progress float64) string {
	if text == "" || progress <= 0 {
		return ""
	}
	st := Style{Color: color, Background: DefaultBackground}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(st.SegmentColor(progress / 100))).
		Render(text)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
