// Package indicator renders segment frames as terminal glyphs.
package indicator

import (
	"math"

	"pullrefresh/internal/segment"
)

// brailleBase is the Unicode code point for an empty braille character.
const brailleBase = '⠀'

// LitThreshold is the brightness from which a braille dot is drawn.
const LitThreshold = 0.5

// dotBits maps a segment, clockwise from the top, to its dot in a single
// 2x4 braille cell.
//
// Braille dot layout:
//
//	┌───┬───┐
//	│ 1 │ 4 │  Row 0
//	├───┼───┤
//	│ 2 │ 5 │  Row 1
//	├───┼───┤
//	│ 3 │ 6 │  Row 2
//	├───┼───┤
//	│ 7 │ 8 │  Row 3
//	└───┴───┘
//
// Segment 0 is dot 4, then down the right column and back up the left.
var dotBits = [segment.Count]rune{
	0x08, // dot 4
	0x10, // dot 5
	0x20, // dot 6
	0x80, // dot 8
	0x40, // dot 7
	0x04, // dot 3
	0x02, // dot 2
	0x01, // dot 1
}

// Braille renders the brightness vector as one braille character, turned
// clockwise by rotation degrees (snapped to whole segments).
func Braille(brightness [segment.Count]float64, rotation float64) rune {
	shift := rotationSteps(rotation)
	char := rune(brailleBase)
	for k, b := range brightness {
		if b >= LitThreshold {
			char |= dotBits[wrap(k+shift)]
		}
	}
	return char
}

// rotationSteps converts degrees to whole segment positions.
func rotationSteps(rotation float64) int {
	if math.IsNaN(rotation) || math.IsInf(rotation, 0) {
		return 0
	}
	steps := math.Round(math.Mod(rotation, 360) / (360.0 / segment.Count))
	return int(steps)
}

func wrap(k int) int {
	v, _ := segment.Wrap(k, segment.Count)
	return v
}
