package ili9341

import (
	"bytes"
	"image"
	"image/draw"

	"periph.io/x/devices/v3/ili9341/bus"
	"periph.io/x/devices/v3/ili9341/rgb565"
)

// setAddrWindow selects the inclusive rectangle (x0,y0)-(x1,y1) and primes
// the controller for a memory write. The pixel stream that follows belongs
// to the same operation, so nothing here is last framed.
func setAddrWindow(s *bus.Session, x0, y0, x1, y1 int) {
	s.Command(cmdCASET, bus.Continue)
	s.Data16(uint16(x0), bus.Continue)
	s.Data16(uint16(x1), bus.Continue)
	s.Command(cmdPASET, bus.Continue)
	s.Data16(uint16(y0), bus.Continue)
	s.Data16(uint16(y1), bus.Continue)
	s.Command(cmdRAMWR, bus.Continue)
}

// fill writes n copies of c. Only the final pixel is last framed.
func fill(s *bus.Session, c rgb565.Color, n int) {
	if n <= 0 {
		return
	}
	for i := 1; i < n; i++ {
		s.Data16(uint16(c), bus.Continue)
	}
	s.Data16(uint16(c), bus.Last)
}

// stream writes n pixels produced by at. Only the final pixel is last
// framed.
func stream(s *bus.Session, n int, at func(i int) rgb565.Color) {
	if n <= 0 {
		return
	}
	for i := 0; i < n-1; i++ {
		s.Data16(uint16(at(i)), bus.Continue)
	}
	s.Data16(uint16(at(n-1)), bus.Last)
}

// clip truncates the w by h rectangle at (x, y) to the current bounds.
func (d *Dev) clip(x, y, w, h int) (image.Rectangle, bool) {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	r := image.Rect(x, y, x+w, y+h).Intersect(d.Bounds())
	return r, !r.Empty()
}

// writeRect fills r, which must already be clipped.
func (d *Dev) writeRect(s *bus.Session, r image.Rectangle, c rgb565.Color) {
	setAddrWindow(s, r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1)
	fill(s, c, r.Dx()*r.Dy())
}

// SetAddrWindow selects a window for PushColor. Coordinates are inclusive
// and not validated.
func (d *Dev) SetAddrWindow(x0, y0, x1, y1 int) error {
	return d.do(func(s *bus.Session) {
		setAddrWindow(s, x0, y0, x1, y1)
	})
}

// PushColor writes one pixel at the controller's current write position.
func (d *Dev) PushColor(c rgb565.Color) error {
	return d.do(func(s *bus.Session) {
		s.Data16(uint16(c), bus.Last)
	})
}

// DrawRGBBitmap copies a w by h block of pixels, stored row by row, to
// (x, y). The visible part is sent as one window.
func (d *Dev) DrawRGBBitmap(x, y int, pix []rgb565.Color, w, h int) error {
	if len(pix) < w*h {
		return errShortBitmap
	}
	r, ok := d.clip(x, y, w, h)
	if !ok {
		return nil
	}
	cw := r.Dx()
	ox, oy := r.Min.X-x, r.Min.Y-y
	return d.do(func(s *bus.Session) {
		setAddrWindow(s, r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1)
		stream(s, cw*r.Dy(), func(i int) rgb565.Color {
			return pix[(oy+i/cw)*w+ox+i%cw]
		})
	})
}

// Draw implements display.Drawer.
//
// Draw keeps a copy of what it sent. When dst lies within the part of that
// copy that still matches the panel, only the bounding box of the changed
// pixels is sent. Any other drawing call invalidates the copy.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if !d.enabled {
		return nil
	}
	if d.halted {
		return ErrHalted
	}
	orig := dst
	dst = dst.Intersect(d.Bounds())
	if dst.Empty() {
		return nil
	}
	sp = sp.Add(dst.Min.Sub(orig.Min))
	if d.shadow == nil || d.shadow.Rect != d.Bounds() {
		d.shadow = rgb565.NewImage(d.Bounds())
		d.known = image.Rectangle{}
	}

	diff := dst
	incremental := dst.In(d.known)
	var prev []byte
	if incremental {
		prev = d.extractRegion(dst)
	}
	draw.Draw(d.shadow, dst, src, sp, draw.Src)
	if incremental {
		diff = d.calculateDiff(prev, dst)
		if diff.Empty() {
			return nil
		}
	}

	err := d.b.Do(d.settings, d.lines, func(s *bus.Session) error {
		setAddrWindow(s, diff.Min.X, diff.Min.Y, diff.Max.X-1, diff.Max.Y-1)
		w := diff.Dx()
		stream(s, w*diff.Dy(), func(i int) rgb565.Color {
			return d.shadow.RGB565At(diff.Min.X+i%w, diff.Min.Y+i/w)
		})
		return s.Err()
	})
	if err != nil {
		d.known = image.Rectangle{}
		return err
	}
	if !incremental {
		d.known = dst
	}
	return nil
}

// extractRegion copies the shadow pixels inside r.
func (d *Dev) extractRegion(r image.Rectangle) []byte {
	stride := r.Dx() * 2
	out := make([]byte, stride*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := d.shadow.PixOffset(r.Min.X, y)
		copy(out[(y-r.Min.Y)*stride:], d.shadow.Pix[i:i+stride])
	}
	return out
}

// calculateDiff returns the bounding box of the pixels inside r that differ
// from prev, as returned by extractRegion before drawing.
func (d *Dev) calculateDiff(prev []byte, r image.Rectangle) image.Rectangle {
	stride := r.Dx() * 2
	minX, maxX := r.Max.X, r.Min.X-1
	minY, maxY := r.Max.Y, r.Min.Y-1
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := d.shadow.PixOffset(r.Min.X, y)
		cur := d.shadow.Pix[i : i+stride]
		old := prev[(y-r.Min.Y)*stride : (y-r.Min.Y+1)*stride]
		if bytes.Equal(old, cur) {
			continue
		}
		if y < minY {
			minY = y
		}
		maxY = y
		for x := 0; x < stride; x += 2 {
			if old[x] != cur[x] || old[x+1] != cur[x+1] {
				px := r.Min.X + x/2
				if px < minX {
					minX = px
				}
				if px > maxX {
					maxX = px
				}
			}
		}
	}
	if maxY < minY {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
