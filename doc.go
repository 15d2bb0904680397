// Package ili9341 controls an ILI9341 TFT display over a shared SPI bus.
//
// The ILI9341 is a 240x320 controller with 16-bit 5-6-5 color. This driver
// talks to it through a bus.Bus, which frames every byte either as
// "continue" (more of the same operation follows) or "last" (wait until the
// peripheral reports the transfer complete). Each drawing call opens one
// bus session, selects a rectangular window, streams the pixels with a single
// last framed unit at the end, and releases the bus so that other devices on
// the same bus can interleave between calls.
//
// # Hardware Connection
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCK         → SPI Clock (SCLK)
//	SDI/MOSI    → SPI Data (MOSI)
//	SDO/MISO    → SPI Data (MISO), needed only for readback
//	D/C         → GPIO
//	CS          → GPIO
//	RESET       → Optional: GPIO for hardware reset
//
// # Basic Usage
//
//	host.Init()
//	dc := gpioreg.ByName("GPIO25")
//	cs := gpioreg.ByName("GPIO8")
//	port, _ := periphport.New(func() (spi.PortCloser, error) {
//		return spireg.Open("")
//	}, &periphport.Opts{CS: cs, DC: dc})
//	dev, _ := ili9341.New(bus.New(port), &ili9341.Opts{CS: cs, DC: dc})
//	defer dev.Halt()
//
//	dev.FillScreen(rgb565.Black)
//	dev.FillCircle(120, 160, 40, rgb565.Red)
//	dev.SetCursor(0, 0)
//	fmt.Fprintf(dev, "hello\n")
//
// If CS or DC is not a line the bus can drive as a selector, New returns a
// disabled device: drawing calls do nothing and Enabled reports false.
//
// # Drawing
//
// Primitives (pixels, lines, rectangles, circles, rounded rectangles,
// triangles, bitmaps and glyphs) clip against the current rotation's bounds
// before any bus traffic. Dev also implements display.Drawer from periph.io,
// sending only the bounding box of what changed since the previous Draw, and
// drivers.Displayer from TinyGo, so tinyfont and tinyterm render on it.
//
// # Readback
//
// ReadCommand and ReadPixel read registers and display memory. Both wait for
// the controller within fixed bounds and return possibly stale data instead
// of an error when it does not answer.
//
// # Datasheet
//
// https://cdn-shop.adafruit.com/datasheets/ILI9341.pdf
package ili9341
