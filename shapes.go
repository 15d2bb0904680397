package ili9341

import (
	"periph.io/x/devices/v3/ili9341/bus"
	"periph.io/x/devices/v3/ili9341/rgb565"
)

// DrawPixel sets one pixel. Pixels outside the display are ignored.
func (d *Dev) DrawPixel(x, y int, c rgb565.Color) error {
	if x < 0 || y < 0 || x >= d.w || y >= d.h {
		return nil
	}
	return d.do(func(s *bus.Session) {
		setAddrWindow(s, x, y, x, y)
		s.Data16(uint16(c), bus.Last)
	})
}

// DrawFastVLine draws a vertical line of h pixels starting at (x, y).
func (d *Dev) DrawFastVLine(x, y, h int, c rgb565.Color) error {
	return d.FillRect(x, y, 1, h, c)
}

// DrawFastHLine draws a horizontal line of w pixels starting at (x, y).
func (d *Dev) DrawFastHLine(x, y, w int, c rgb565.Color) error {
	return d.FillRect(x, y, w, 1, c)
}

// FillRect fills a w by h rectangle. The part outside the display is
// clipped away; a rectangle entirely outside does not touch the bus.
func (d *Dev) FillRect(x, y, w, h int, c rgb565.Color) error {
	r, ok := d.clip(x, y, w, h)
	if !ok {
		return nil
	}
	return d.do(func(s *bus.Session) {
		d.writeRect(s, r, c)
	})
}

// FillScreen fills the whole display.
func (d *Dev) FillScreen(c rgb565.Color) error {
	return d.FillRect(0, 0, d.w, d.h, c)
}

// pen chains drawing calls and stops at the first error.
type pen struct {
	d   *Dev
	c   rgb565.Color
	err error
}

func (p *pen) pixel(x, y int) {
	if p.err == nil {
		p.err = p.d.DrawPixel(x, y, p.c)
	}
}

func (p *pen) vline(x, y, h int) {
	if p.err == nil {
		p.err = p.d.FillRect(x, y, 1, h, p.c)
	}
}

func (p *pen) hline(x, y, w int) {
	if p.err == nil {
		p.err = p.d.FillRect(x, y, w, 1, p.c)
	}
}

func (p *pen) rect(x, y, w, h int) {
	if p.err == nil {
		p.err = p.d.FillRect(x, y, w, h, p.c)
	}
}

// DrawRect draws the outline of a w by h rectangle.
func (d *Dev) DrawRect(x, y, w, h int, c rgb565.Color) error {
	p := &pen{d: d, c: c}
	p.hline(x, y, w)
	p.hline(x, y+h-1, w)
	p.vline(x, y, h)
	p.vline(x+w-1, y, h)
	return p.err
}

// midpoint walks one octant of a circle of radius r, calling fn with each
// step's offsets.
func midpoint(r int, fn func(x, y int)) {
	f := 1 - r
	ddx, ddy := 1, -2*r
	x, y := 0, r
	for x < y {
		if f >= 0 {
			y--
			ddy += 2
			f += ddy
		}
		x++
		ddx += 2
		f += ddx
		fn(x, y)
	}
}

// DrawCircle draws the outline of a circle centered on (x0, y0).
func (d *Dev) DrawCircle(x0, y0, r int, c rgb565.Color) error {
	p := &pen{d: d, c: c}
	p.pixel(x0, y0+r)
	p.pixel(x0, y0-r)
	p.pixel(x0+r, y0)
	p.pixel(x0-r, y0)
	midpoint(r, func(x, y int) {
		p.pixel(x0+x, y0+y)
		p.pixel(x0-x, y0+y)
		p.pixel(x0+x, y0-y)
		p.pixel(x0-x, y0-y)
		p.pixel(x0+y, y0+x)
		p.pixel(x0-y, y0+x)
		p.pixel(x0+y, y0-x)
		p.pixel(x0-y, y0-x)
	})
	return p.err
}

// Quadrants for the circle helpers.
const (
	cornerTopLeft     = 0x1
	cornerTopRight    = 0x2
	cornerBottomRight = 0x4
	cornerBottomLeft  = 0x8
)

func (p *pen) circleCorners(x0, y0, r int, corners uint8) {
	midpoint(r, func(x, y int) {
		if corners&cornerBottomRight != 0 {
			p.pixel(x0+x, y0+y)
			p.pixel(x0+y, y0+x)
		}
		if corners&cornerTopRight != 0 {
			p.pixel(x0+x, y0-y)
			p.pixel(x0+y, y0-x)
		}
		if corners&cornerBottomLeft != 0 {
			p.pixel(x0-y, y0+x)
			p.pixel(x0-x, y0+y)
		}
		if corners&cornerTopLeft != 0 {
			p.pixel(x0-y, y0-x)
			p.pixel(x0-x, y0-y)
		}
	})
}

// fillHalves fills the right (bit 0) and left (bit 1) halves of a circle
// with vertical runs, stretched by delta rows.
func (p *pen) fillHalves(x0, y0, r int, halves uint8, delta int) {
	midpoint(r, func(x, y int) {
		if halves&0x1 != 0 {
			p.vline(x0+x, y0-y, 2*y+1+delta)
			p.vline(x0+y, y0-x, 2*x+1+delta)
		}
		if halves&0x2 != 0 {
			p.vline(x0-x, y0-y, 2*y+1+delta)
			p.vline(x0-y, y0-x, 2*x+1+delta)
		}
	})
}

// FillCircle fills a circle centered on (x0, y0).
func (d *Dev) FillCircle(x0, y0, r int, c rgb565.Color) error {
	p := &pen{d: d, c: c}
	p.vline(x0, y0-r, 2*r+1)
	p.fillHalves(x0, y0, r, 0x3, 0)
	return p.err
}

// DrawRoundRect draws the outline of a rectangle with corners of radius r.
func (d *Dev) DrawRoundRect(x, y, w, h, r int, c rgb565.Color) error {
	p := &pen{d: d, c: c}
	p.hline(x+r, y, w-2*r)
	p.hline(x+r, y+h-1, w-2*r)
	p.vline(x, y+r, h-2*r)
	p.vline(x+w-1, y+r, h-2*r)
	p.circleCorners(x+r, y+r, r, cornerTopLeft)
	p.circleCorners(x+w-r-1, y+r, r, cornerTopRight)
	p.circleCorners(x+w-r-1, y+h-r-1, r, cornerBottomRight)
	p.circleCorners(x+r, y+h-r-1, r, cornerBottomLeft)
	return p.err
}

// FillRoundRect fills a rectangle with corners of radius r.
func (d *Dev) FillRoundRect(x, y, w, h, r int, c rgb565.Color) error {
	p := &pen{d: d, c: c}
	p.rect(x+r, y, w-2*r, h)
	p.fillHalves(x+w-r-1, y+r, r, 0x1, h-2*r-1)
	p.fillHalves(x+r, y+r, r, 0x2, h-2*r-1)
	return p.err
}

// DrawLine draws a line with Bresenham's algorithm.
func (d *Dev) DrawLine(x0, y0, x1, y1 int, c rgb565.Color) error {
	p := &pen{d: d, c: c}
	p.line(x0, y0, x1, y1)
	return p.err
}

func (p *pen) line(x0, y0, x1, y1 int) {
	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}
	dx, dy := x1-x0, abs(y1-y0)
	e := dx / 2
	ystep := -1
	if y0 < y1 {
		ystep = 1
	}
	for ; x0 <= x1 && p.err == nil; x0++ {
		if steep {
			p.pixel(y0, x0)
		} else {
			p.pixel(x0, y0)
		}
		e -= dy
		if e < 0 {
			y0 += ystep
			e += dx
		}
	}
}

// DrawTriangle draws the outline of a triangle.
func (d *Dev) DrawTriangle(x0, y0, x1, y1, x2, y2 int, c rgb565.Color) error {
	p := &pen{d: d, c: c}
	p.line(x0, y0, x1, y1)
	p.line(x1, y1, x2, y2)
	p.line(x2, y2, x0, y0)
	return p.err
}

// FillTriangle fills a triangle with one horizontal run per scanline.
func (d *Dev) FillTriangle(x0, y0, x1, y1, x2, y2 int, c rgb565.Color) error {
	p := &pen{d: d, c: c}
	// Sort by y so that y0 <= y1 <= y2.
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}
	if y1 > y2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}

	if y0 == y2 {
		a, b := min(x0, x1, x2), max(x0, x1, x2)
		p.hline(a, y0, b-a+1)
		return p.err
	}

	dx01, dy01 := x1-x0, y1-y0
	dx02, dy02 := x2-x0, y2-y0
	dx12, dy12 := x2-x1, y2-y1
	sa, sb := 0, 0

	// Scanline y1 belongs to the upper half only for a flat bottom.
	last := y1 - 1
	if y1 == y2 {
		last = y1
	}
	y := y0
	for ; y <= last; y++ {
		a := x0 + sa/dy01
		b := x0 + sb/dy02
		sa += dx01
		sb += dx02
		if a > b {
			a, b = b, a
		}
		p.hline(a, y, b-a+1)
	}

	sa = dx12 * (y - y1)
	sb = dx02 * (y - y0)
	for ; y <= y2; y++ {
		a := x1 + sa/dy12
		b := x0 + sb/dy02
		sa += dx12
		sb += dx02
		if a > b {
			a, b = b, a
		}
		p.hline(a, y, b-a+1)
	}
	return p.err
}

// DrawBitmap draws the set bits of a 1-bit bitmap in c. Rows are padded to
// whole bytes and the most significant bit is leftmost.
func (d *Dev) DrawBitmap(x, y int, bitmap []byte, w, h int, c rgb565.Color) error {
	byteWidth := (w + 7) / 8
	if len(bitmap) < byteWidth*h {
		return errShortBitmap
	}
	p := &pen{d: d, c: c}
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			if bitmap[j*byteWidth+i/8]&(0x80>>(i&7)) != 0 {
				p.pixel(x+i, y+j)
			}
		}
	}
	return p.err
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
