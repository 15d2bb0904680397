package ili9341

import (
	"periph.io/x/devices/v3/ili9341/glcdfont"
	"periph.io/x/devices/v3/ili9341/rgb565"
)

// SetCursor moves the text cursor.
func (d *Dev) SetCursor(x, y int) {
	d.cursorX, d.cursorY = x, y
}

// Cursor returns the text cursor.
func (d *Dev) Cursor() (x, y int) {
	return d.cursorX, d.cursorY
}

// SetTextSize sets the glyph scale. Zero is treated as one.
func (d *Dev) SetTextSize(s int) {
	if s <= 0 {
		s = 1
	}
	d.textSize = s
}

// SetTextColor sets the text color with a transparent background.
func (d *Dev) SetTextColor(c rgb565.Color) {
	d.fg, d.bg = c, c
}

// SetTextColors sets the text and background colors. Equal colors mean a
// transparent background.
func (d *Dev) SetTextColors(fg, bg rgb565.Color) {
	d.fg, d.bg = fg, bg
}

// SetTextWrap controls whether Write continues on the next line when a
// glyph would not fit.
func (d *Dev) SetTextWrap(wrap bool) {
	d.wrap = wrap
}

// DrawChar draws one glyph with its top left corner at (x, y), scaled by
// size. A glyph that is entirely off screen is skipped.
//
// The default glcdfont.Classic covers codes 0x00 to 0x7F; higher codes draw
// its fallback glyph '?'. Set Opts.Font for a font with more glyphs.
func (d *Dev) DrawChar(x, y int, ch byte, fg, bg rgb565.Color, size int) error {
	if size <= 0 {
		size = 1
	}
	if x >= d.w || y >= d.h || x+glcdfont.Advance*size-1 < 0 || y+glcdfont.Height*size-1 < 0 {
		return nil
	}
	p := &pen{d: d}
	for i := 0; i < glcdfont.Advance; i++ {
		var line byte
		if i < glcdfont.Width {
			line = d.font.Column(ch, i)
		}
		for j := 0; j < glcdfont.Height; j++ {
			switch {
			case line&1 != 0:
				p.c = fg
			case bg != fg:
				p.c = bg
			default:
				line >>= 1
				continue
			}
			if size == 1 {
				p.pixel(x+i, y+j)
			} else {
				p.rect(x+i*size, y+j*size, size, size)
			}
			line >>= 1
		}
	}
	return p.err
}

// Write draws b at the cursor. '\n' moves to the start of the next line and
// '\r' is ignored. It implements io.Writer.
func (d *Dev) Write(b []byte) (int, error) {
	for i, c := range b {
		switch c {
		case '\n':
			d.cursorY += d.textSize * glcdfont.Height
			d.cursorX = 0
		case '\r':
		default:
			if err := d.DrawChar(d.cursorX, d.cursorY, c, d.fg, d.bg, d.textSize); err != nil {
				return i, err
			}
			d.cursorX += d.textSize * glcdfont.Advance
			if d.wrap && d.cursorX > d.w-d.textSize*glcdfont.Advance {
				d.cursorY += d.textSize * glcdfont.Height
				d.cursorX = 0
			}
		}
	}
	return len(b), nil
}
