// Package ilisim simulates an ILI9341 panel behind a queued serial port.
//
// Port implements bus.Port with a small send queue, a receive queue and a
// transfer-complete flag that advance one step per status poll, like the
// peripheral they model. Frames that reach the wire are decoded by Panel,
// which keeps a 240x320 framebuffer and the controller registers a driver
// can read back.
package ilisim

import (
	"image"
	"sync"

	"periph.io/x/devices/v3/ili9341/rgb565"
)

// Native panel size in portrait orientation.
const (
	Width  = 240
	Height = 320
)

// MADCTL bits.
const (
	madctlMY = 0x80
	madctlMX = 0x40
	madctlMV = 0x20
)

// Panel is an ILI9341 controller model.
//
// The zero value is not usable; call NewPanel.
type Panel struct {
	mu sync.Mutex

	fb *rgb565.Image

	// Echo overrides the bytes returned for a read command. When set for a
	// command, the extended register index selects the byte.
	Echo map[byte][]byte

	params map[byte][]byte
	cmds   []byte

	cmd  byte
	args []byte

	colStart, colEnd uint16
	rowStart, rowEnd uint16
	col, row         uint16
	writing          bool
	reading          bool
	half             bool
	hi               byte
	readBuf          []byte

	regIndex int
	regBytes []byte

	madctl   byte
	pixfmt   byte
	sleeping bool
	on       bool
	inverted bool

	scrollTop, scrollHeight, scrollStart uint16
}

// NewPanel returns a panel in its power-on state.
func NewPanel() *Panel {
	p := &Panel{
		fb:     rgb565.NewImage(image.Rect(0, 0, Width, Height)),
		params: map[byte][]byte{},
	}
	p.reset()
	return p
}

func (p *Panel) reset() {
	p.madctl = 0
	p.pixfmt = 0x66
	p.sleeping = true
	p.on = false
	p.inverted = false
	p.colStart, p.colEnd = 0, Width-1
	p.rowStart, p.rowEnd = 0, Height-1
	p.scrollTop, p.scrollHeight, p.scrollStart = 0, Height, 0
	p.writing, p.reading = false, false
}

// Exchange shifts one byte into the controller and returns the byte the
// controller shifts out at the same time. command is the level of the
// data/command line.
func (p *Panel) Exchange(b byte, command bool) byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if command {
		p.command(b)
		return 0
	}
	return p.data(b)
}

func (p *Panel) command(c byte) {
	p.cmd = c
	p.args = p.args[:0]
	p.cmds = append(p.cmds, c)
	p.writing, p.reading = false, false
	p.half = false
	p.regBytes = nil
	switch c {
	case 0x01: // SWRESET
		p.reset()
	case 0x10:
		p.sleeping = true
	case 0x11:
		p.sleeping = false
	case 0x20:
		p.inverted = false
	case 0x21:
		p.inverted = true
	case 0x28:
		p.on = false
	case 0x29:
		p.on = true
	case 0x2C:
		p.writing = true
		p.col, p.row = p.colStart, p.rowStart
	case 0x2E:
		p.reading = true
		p.col, p.row = p.colStart, p.rowStart
		p.readBuf = p.readBuf[:0]
	case 0x04, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0xD3:
		p.regBytes = p.register(c)
		return
	}
	if c != 0xD9 {
		p.regIndex = 0
	}
}

func (p *Panel) register(c byte) []byte {
	if v, ok := p.Echo[c]; ok {
		return v
	}
	switch c {
	case 0x0A: // RDMODE
		var v byte
		if !p.sleeping {
			v |= 0x90
		}
		if p.on {
			v |= 0x04
		}
		return []byte{v}
	case 0x0B:
		return []byte{p.madctl}
	case 0x0C:
		return []byte{p.pixfmt}
	case 0x0D:
		return []byte{0}
	case 0x0F:
		if p.sleeping {
			return []byte{0}
		}
		return []byte{0xC0}
	case 0xD3:
		return []byte{0x00, 0x93, 0x41}
	}
	return nil
}

func (p *Panel) data(b byte) byte {
	if p.writing {
		p.pixelByte(b)
		return 0
	}
	if p.reading {
		return p.readByte()
	}
	if p.regBytes != nil {
		var out byte
		if p.regIndex < len(p.regBytes) {
			out = p.regBytes[p.regIndex]
		}
		p.regBytes = nil
		p.regIndex = 0
		return out
	}
	p.args = append(p.args, b)
	p.params[p.cmd] = append([]byte(nil), p.args...)
	switch p.cmd {
	case 0x2A:
		if len(p.args) == 4 {
			p.colStart, p.colEnd = be16(p.args[0:]), be16(p.args[2:])
		}
	case 0x2B:
		if len(p.args) == 4 {
			p.rowStart, p.rowEnd = be16(p.args[0:]), be16(p.args[2:])
		}
	case 0x33:
		if len(p.args) == 6 {
			p.scrollTop, p.scrollHeight = be16(p.args[0:]), be16(p.args[2:])
		}
	case 0x36:
		p.madctl = b
	case 0x37:
		if len(p.args) == 2 {
			p.scrollStart = be16(p.args)
		}
	case 0x3A:
		p.pixfmt = b
	case 0xD9:
		if b >= 0x10 {
			p.regIndex = int(b - 0x10)
		}
	}
	return 0
}

func (p *Panel) pixelByte(b byte) {
	if !p.half {
		p.hi, p.half = b, true
		return
	}
	p.half = false
	if x, y, ok := p.physical(int(p.col), int(p.row)); ok {
		p.fb.SetRGB565(x, y, rgb565.Color(uint16(p.hi)<<8|uint16(b)))
	}
	p.advance()
}

func (p *Panel) readByte() byte {
	if len(p.readBuf) == 0 {
		var c rgb565.Color
		if x, y, ok := p.physical(int(p.col), int(p.row)); ok {
			c = p.fb.RGB565At(x, y)
		}
		p.advance()
		p.readBuf = append(p.readBuf, byte(c>>8), byte(c))
	}
	b := p.readBuf[0]
	p.readBuf = p.readBuf[1:]
	return b
}

func (p *Panel) advance() {
	p.col++
	if p.col > p.colEnd {
		p.col = p.colStart
		p.row++
		if p.row > p.rowEnd {
			p.row = p.rowStart
		}
	}
}

// physical maps a logical address to the framebuffer. The glass is mounted
// mirrored, so rotation 0 (MX set) is the identity.
func (p *Panel) physical(c, r int) (x, y int, ok bool) {
	w, h := Width, Height
	if p.madctl&madctlMV != 0 {
		w, h = h, w
	}
	if c < 0 || r < 0 || c >= w || r >= h {
		return 0, 0, false
	}
	if p.madctl&madctlMV != 0 {
		c, r = r, c
	}
	if p.madctl&madctlMX == 0 {
		c = Width - 1 - c
	}
	if p.madctl&madctlMY != 0 {
		r = Height - 1 - r
	}
	return c, r, true
}

// PixelAt returns the pixel at logical (x, y) under the current MADCTL.
func (p *Panel) PixelAt(x, y int) rgb565.Color {
	p.mu.Lock()
	defer p.mu.Unlock()
	px, py, ok := p.physical(x, y)
	if !ok {
		return 0
	}
	return p.fb.RGB565At(px, py)
}

// Image returns a copy of the visible glass in portrait orientation, with
// vertical scrolling and inversion applied.
func (p *Panel) Image() *rgb565.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := rgb565.NewImage(p.fb.Rect)
	top, n := int(p.scrollTop), int(p.scrollHeight)
	for y := 0; y < Height; y++ {
		src := y
		if n > 0 && y >= top && y < top+n {
			off := (y - top + int(p.scrollStart) - top) % n
			if off < 0 {
				off += n
			}
			if src = top + off; src >= Height {
				src = y
			}
		}
		copy(out.Pix[y*out.Stride:(y+1)*out.Stride], p.fb.Pix[src*p.fb.Stride:(src+1)*p.fb.Stride])
	}
	if p.inverted {
		for i := range out.Pix {
			out.Pix[i] = ^out.Pix[i]
		}
	}
	if !p.on {
		out.Fill(rgb565.Black)
	}
	return out
}

// Params returns the last argument bytes written after cmd.
func (p *Panel) Params(cmd byte) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.params[cmd]...)
}

// Commands returns every command byte received, in order.
func (p *Panel) Commands() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.cmds...)
}

// State is a snapshot of the controller's mode flags.
type State struct {
	MADCTL   byte
	PixFmt   byte
	Sleeping bool
	On       bool
	Inverted bool
	// ScrollTop, ScrollHeight and ScrollStart are the vertical scrolling
	// registers.
	ScrollTop, ScrollHeight, ScrollStart uint16
}

// State returns the controller's mode flags.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{
		MADCTL:       p.madctl,
		PixFmt:       p.pixfmt,
		Sleeping:     p.sleeping,
		On:           p.on,
		Inverted:     p.inverted,
		ScrollTop:    p.scrollTop,
		ScrollHeight: p.scrollHeight,
		ScrollStart:  p.scrollStart,
	}
}

func be16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}
