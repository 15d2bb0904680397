// Package glcdfont provides the classic 5x8 column-major bitmap font used by
// small graphic LCD drivers.
//
// Each glyph is five bytes, one per column from left to right. Bit 0 of a
// column byte is the top row. Renderers add a sixth blank column, which gives
// the familiar 6x8 character cell.
//
// A *Font also implements tinyfont.Fonter, so it can be used with
// tinyfont.WriteLine and tinyterm on any drivers.Displayer.
package glcdfont

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

const (
	// Width is the number of font columns per glyph.
	Width = 5
	// Height is the number of rows per glyph.
	Height = 8
	// Advance is the horizontal cell size including the spacing column.
	Advance = Width + 1
)

// Font is a fixed-width column font.
type Font struct {
	// Glyphs holds Width bytes per character, starting at First.
	Glyphs []byte
	// First is the character code of the first glyph in Glyphs.
	First byte
	// Fallback is drawn for characters not covered by Glyphs.
	Fallback byte

	g glyph
}

// Column returns column i (0..Width-1) of character c. The spacing column and
// anything out of range is blank.
func (f *Font) Column(c byte, i int) byte {
	if i < 0 || i >= Width {
		return 0
	}
	idx, ok := f.index(c)
	if !ok {
		return 0
	}
	return f.Glyphs[idx*Width+i]
}

// Len returns the number of glyphs in the font.
func (f *Font) Len() int {
	return len(f.Glyphs) / Width
}

func (f *Font) index(c byte) (int, bool) {
	if idx := int(c) - int(f.First); idx >= 0 && idx < f.Len() {
		return idx, true
	}
	if idx := int(f.Fallback) - int(f.First); idx >= 0 && idx < f.Len() {
		return idx, true
	}
	return 0, false
}

// GetGlyph implements tinyfont.Fonter.
//
// The returned glyph is reused by the next call, so a Font must not be shared
// by concurrent renderers.
func (f *Font) GetGlyph(r rune) tinyfont.Glypher {
	c := f.Fallback
	if r >= 0 && r < 0x100 {
		c = byte(r)
	}
	f.g = glyph{f: f, r: r, c: c}
	return &f.g
}

// GetYAdvance implements tinyfont.Fonter.
func (f *Font) GetYAdvance() uint8 {
	return Height
}

type glyph struct {
	f *Font
	r rune
	c byte
}

// Draw paints the set pixels of the glyph with y as the baseline.
func (g *glyph) Draw(display drivers.Displayer, x, y int16, c color.RGBA) {
	for i := 0; i < Width; i++ {
		line := g.f.Column(g.c, i)
		for j := 0; j < Height; j++ {
			if line&1 != 0 {
				display.SetPixel(x+int16(i), y-int16(Height-1-j), c)
			}
			line >>= 1
		}
	}
}

func (g *glyph) Info() tinyfont.GlyphInfo {
	return tinyfont.GlyphInfo{
		Rune:     g.r,
		Width:    Width,
		Height:   Height,
		XAdvance: Advance,
		XOffset:  0,
		YOffset:  -(Height - 1),
	}
}
