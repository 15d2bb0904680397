package ili9341

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"tinygo.org/x/drivers"

	"periph.io/x/devices/v3/ili9341/bus"
	"periph.io/x/devices/v3/ili9341/glcdfont"
	"periph.io/x/devices/v3/ili9341/rgb565"
)

// Native panel size in portrait orientation.
const (
	Width  = 240
	Height = 320
)

// DefaultClock is the serial clock used when Opts.Clock is zero.
const DefaultClock = 30 * physic.MegaHertz

var (
	// ErrHalted is returned by drawing calls after Halt.
	ErrHalted = errors.New("ili9341: halted")

	errShortTable  = errors.New("ili9341: short command table")
	errShortBitmap = errors.New("ili9341: bitmap shorter than its size")
)

// Opts is the configuration for the ILI9341 display.
type Opts struct {
	// CS and DC are the chip select and data/command lines. Both must be
	// lines the serial peripheral can drive as selectors, otherwise the
	// device is created disabled.
	CS gpio.PinOut
	DC gpio.PinOut
	// RST is the optional hardware reset line.
	RST gpio.PinOut

	Clock physic.Frequency // default: DefaultClock
	Mode  spi.Mode         // default: spi.Mode0, MSB first

	Rotation drivers.Rotation
	Font     *glcdfont.Font // default: glcdfont.Classic

	// InitTable replaces the built-in power-on table. SLPOUT and DISPON
	// are still sent after it.
	InitTable []Command

	Logger *zap.Logger
	// Sleep is used for every controller delay. Default: time.Sleep.
	Sleep func(time.Duration)
}

// Dev is the device handle for an ILI9341 display.
type Dev struct {
	b        *bus.Bus
	lines    bus.Lines
	settings bus.Settings
	cs, dc   gpio.PinOut
	log      *zap.Logger
	sleep    func(time.Duration)

	enabled bool
	halted  bool

	rotation drivers.Rotation
	w, h     int

	cursorX, cursorY int
	textSize         int
	fg, bg           rgb565.Color
	wrap             bool
	font             *glcdfont.Font

	// shadow mirrors what Draw last sent; known is the part of it that is
	// still accurate.
	shadow *rgb565.Image
	known  image.Rectangle
}

// New initializes the display attached to b.
//
// opts can be nil to use defaults; a nil Opts has no CS and DC and so
// returns a disabled device. When CS or DC cannot be driven by the bus the
// returned device is disabled: every call is a no-op and Enabled reports
// false. The returned error is only about bus failures during the power-on
// sequence.
func New(b *bus.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	d := &Dev{
		b:        b,
		cs:       opts.CS,
		dc:       opts.DC,
		log:      opts.Logger,
		sleep:    opts.Sleep,
		settings: bus.Settings{Clock: opts.Clock, Mode: opts.Mode, Bits: 8},
		w:        Width,
		h:        Height,
		textSize: 1,
		fg:       rgb565.White,
		bg:       rgb565.White,
		wrap:     true,
		font:     opts.Font,
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	if d.sleep == nil {
		d.sleep = time.Sleep
	}
	if d.settings.Clock == 0 {
		d.settings.Clock = DefaultClock
	}
	if d.font == nil {
		d.font = glcdfont.Classic
	}

	data, okCS := d.chipSelect(opts.CS)
	dc, okDC := d.chipSelect(opts.DC)
	if !okCS || !okDC {
		d.log.Warn("ili9341: CS or DC is not a chip select line, display disabled",
			zap.String("cs", pinString(opts.CS)), zap.String("dc", pinString(opts.DC)))
		return d, nil
	}
	d.lines = bus.Lines{Data: data, Command: data | dc}
	d.enabled = true

	if err := d.init(opts); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) chipSelect(p gpio.PinOut) (bus.LineSelector, bool) {
	if p == nil || d.b == nil {
		return 0, false
	}
	return d.b.ChipSelect(p)
}

func pinString(p gpio.PinOut) string {
	if p == nil {
		return "<nil>"
	}
	return p.String()
}

func (d *Dev) init(opts *Opts) error {
	// Claim the bus once so its settings are in place before the reset.
	if err := d.b.Do(d.settings, d.lines, func(*bus.Session) error { return nil }); err != nil {
		return err
	}

	if opts.RST != nil {
		d.log.Debug("ili9341: hardware reset")
		for _, step := range []struct {
			l gpio.Level
			t time.Duration
		}{
			{gpio.High, 5 * time.Millisecond},
			{gpio.Low, 20 * time.Millisecond},
			{gpio.High, 150 * time.Millisecond},
		} {
			if err := opts.RST.Out(step.l); err != nil {
				return errors.Wrap(err, "ili9341: reset")
			}
			d.sleep(step.t)
		}
	}

	table := opts.InitTable
	if table == nil {
		table = defaultInit
	}
	cmds := append(table[:len(table):len(table)],
		Command{Cmd: cmdSLPOUT, Delay: 120 * time.Millisecond},
		Command{Cmd: cmdDISPON},
	)
	if err := d.sendCommands(cmds); err != nil {
		return errors.Wrap(err, "ili9341: init")
	}
	d.log.Debug("ili9341: initialized", zap.Int("commands", len(table)))
	return d.SetRotation(opts.Rotation)
}

// do runs fn in one bus session. Drawing through do invalidates the shadow
// kept by Draw.
func (d *Dev) do(fn func(s *bus.Session)) error {
	if !d.enabled {
		return nil
	}
	if d.halted {
		return ErrHalted
	}
	d.known = image.Rectangle{}
	return d.b.Do(d.settings, d.lines, func(s *bus.Session) error {
		fn(s)
		return s.Err()
	})
}

// Enabled reports whether the device drives the panel.
func (d *Dev) Enabled() bool {
	return d.enabled
}

// Width returns the width in the current rotation.
func (d *Dev) Width() int { return d.w }

// Height returns the height in the current rotation.
func (d *Dev) Height() int { return d.h }

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return rgb565.Model
}

// Bounds returns the image bounds in the current rotation.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.w, d.h)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("ili9341.Dev{%dx%d}", d.w, d.h)
}

// Rotation returns the current rotation.
func (d *Dev) Rotation() drivers.Rotation {
	return d.rotation
}

// SetRotation rotates the panel clockwise in quarter turns. Values above
// 3 wrap around.
func (d *Dev) SetRotation(r drivers.Rotation) error {
	r %= 4
	var m byte
	switch r {
	case drivers.Rotation0:
		m = madctlMX | madctlBGR
	case drivers.Rotation90:
		m = madctlMV | madctlBGR
	case drivers.Rotation180:
		m = madctlMY | madctlBGR
	case drivers.Rotation270:
		m = madctlMX | madctlMY | madctlMV | madctlBGR
	}
	if err := d.do(func(s *bus.Session) {
		s.Command(cmdMADCTL, bus.Continue)
		s.Data8(m, bus.Last)
	}); err != nil {
		return err
	}
	d.rotation = r
	d.w, d.h = Width, Height
	if r == drivers.Rotation90 || r == drivers.Rotation270 {
		d.w, d.h = Height, Width
	}
	d.shadow = nil
	return nil
}

// Invert turns color inversion on or off.
func (d *Dev) Invert(invert bool) error {
	c := byte(cmdINVOFF)
	if invert {
		c = cmdINVON
	}
	return d.command(c)
}

// Sleep enters or leaves sleep mode. The controller needs 120ms after
// leaving sleep before it accepts further commands; Sleep waits for it.
func (d *Dev) Sleep(sleep bool) error {
	if sleep {
		return d.command(cmdSLPIN)
	}
	if err := d.command(cmdSLPOUT); err != nil {
		return err
	}
	d.sleep(120 * time.Millisecond)
	return nil
}

// SetScrollArea defines the vertical scrolling area as the rows between a
// fixed top area and a fixed bottom area, in native portrait rows.
func (d *Dev) SetScrollArea(top, bottom int16) error {
	if top < 0 || bottom < 0 || int(top)+int(bottom) > Height {
		return errors.Errorf("ili9341: scroll area %d+%d exceeds %d rows", top, bottom, Height)
	}
	vsa := uint16(Height - int(top) - int(bottom))
	return d.do(func(s *bus.Session) {
		s.Command(cmdVSCRDEF, bus.Continue)
		s.Data16(uint16(top), bus.Continue)
		s.Data16(vsa, bus.Continue)
		s.Data16(uint16(bottom), bus.Last)
	})
}

// SetScroll sets the memory row shown at the top of the scrolling area.
// Errors are logged; the signature matches what terminal emulators expect.
func (d *Dev) SetScroll(line int16) {
	err := d.do(func(s *bus.Session) {
		s.Command(cmdVSCRSADD, bus.Continue)
		s.Data16(uint16(line), bus.Last)
	})
	if err != nil {
		d.log.Warn("ili9341: scroll", zap.Int16("line", line), zap.Error(err))
	}
}

// Halt turns the display off. Further drawing returns ErrHalted.
func (d *Dev) Halt() error {
	if d.halted {
		return nil
	}
	err := d.command(cmdDISPOFF)
	d.halted = true
	return err
}

func (d *Dev) command(c byte) error {
	return d.do(func(s *bus.Session) {
		s.Command(c, bus.Last)
	})
}
