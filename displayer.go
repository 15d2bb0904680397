package ili9341

import (
	"image/color"
	"io"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/display"
	"tinygo.org/x/drivers"

	"periph.io/x/devices/v3/ili9341/rgb565"
)

// Size returns the display size in the current rotation.
func (d *Dev) Size() (x, y int16) {
	return int16(d.w), int16(d.h)
}

// SetPixel sets one pixel. Errors are logged.
func (d *Dev) SetPixel(x, y int16, c color.RGBA) {
	if err := d.DrawPixel(int(x), int(y), rgb565.Convert(c)); err != nil {
		d.log.Warn("ili9341: set pixel", zap.Error(err))
	}
}

// Display is a no-op; every call already reached the panel.
func (d *Dev) Display() error {
	return nil
}

// FillRectangle fills a width by height rectangle at (x, y).
func (d *Dev) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	return d.FillRect(int(x), int(y), int(width), int(height), rgb565.Convert(c))
}

var (
	_ display.Drawer    = &Dev{}
	_ drivers.Displayer = &Dev{}
	_ io.Writer         = &Dev{}
)
