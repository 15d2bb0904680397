// Package demo holds the drawing scenes shared by the hardware and
// simulator examples.
package demo

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"sort"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyterm"

	"periph.io/x/devices/v3/ili9341"
	"periph.io/x/devices/v3/ili9341/glcdfont"
	"periph.io/x/devices/v3/ili9341/rgb565"
)

// Scene draws one demonstration on dev.
type Scene func(ctx context.Context, dev *ili9341.Dev, log *zap.Logger) error

// Scenes lists every scene by name.
var Scenes = map[string]Scene{
	"shapes":   Shapes,
	"text":     Text,
	"gradient": Gradient,
	"rotation": Rotation,
	"terminal": Terminal,
	"readback": Readback,
}

// Names returns the scene names in a stable order.
func Names() []string {
	names := make([]string, 0, len(Scenes))
	for n := range Scenes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Run plays the named scenes in order, pausing between them. "all" plays
// every scene.
func Run(ctx context.Context, dev *ili9341.Dev, log *zap.Logger, pause time.Duration, names ...string) error {
	if len(names) == 1 && names[0] == "all" {
		names = Names()
	}
	for i, n := range names {
		scene, ok := Scenes[n]
		if !ok {
			return errors.Errorf("unknown scene %q", n)
		}
		log.Info("scene", zap.String("name", n))
		if err := scene(ctx, dev, log); err != nil {
			return errors.Wrapf(err, "scene %s", n)
		}
		if i < len(names)-1 {
			if err := sleep(ctx, pause); err != nil {
				return err
			}
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Shapes draws every primitive once.
func Shapes(ctx context.Context, dev *ili9341.Dev, log *zap.Logger) error {
	w, h := dev.Width(), dev.Height()
	steps := []func() error{
		func() error { return dev.FillScreen(rgb565.Black) },
		func() error { return dev.DrawRect(0, 0, w, h, rgb565.White) },
		func() error { return dev.FillRect(10, 10, w/2-15, 60, rgb565.Navy) },
		func() error { return dev.FillRoundRect(w/2+5, 10, w/2-15, 60, 8, rgb565.DarkGreen) },
		func() error { return dev.DrawRoundRect(w/2+5, 10, w/2-15, 60, 8, rgb565.GreenYellow) },
		func() error { return dev.FillCircle(w/4, 120, 30, rgb565.Red) },
		func() error { return dev.DrawCircle(w/4, 120, 36, rgb565.Yellow) },
		func() error { return dev.FillTriangle(w/2+10, 150, w-10, 150, w*3/4, 90, rgb565.Magenta) },
		func() error { return dev.DrawTriangle(w/2+10, 150, w-10, 150, w*3/4, 90, rgb565.White) },
	}
	for x := 0; x < w; x += 12 {
		steps = append(steps, func() error { return dev.DrawLine(w/2, h-10, x, 170, rgb565.Cyan) })
	}
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s(); err != nil {
			return err
		}
	}
	return nil
}

// Text prints a few lines at different sizes.
func Text(ctx context.Context, dev *ili9341.Dev, log *zap.Logger) error {
	if err := dev.FillScreen(rgb565.Black); err != nil {
		return err
	}
	dev.SetCursor(0, 0)
	dev.SetTextWrap(true)
	for size, c := range []rgb565.Color{rgb565.White, rgb565.Yellow, rgb565.Red, rgb565.Green} {
		if err := ctx.Err(); err != nil {
			return err
		}
		dev.SetTextSize(size + 1)
		dev.SetTextColors(c, rgb565.Black)
		if _, err := fmt.Fprintf(dev, "Hello %dx\n", size+1); err != nil {
			return err
		}
	}
	dev.SetTextSize(1)
	dev.SetTextColor(rgb565.Orange)
	_, err := fmt.Fprintf(dev, "%s rotation %d, %dx%d\n", dev, dev.Rotation(), dev.Width(), dev.Height())
	return err
}

// Gradient fills the screen through Draw, then changes a small square so
// only that square is resent.
func Gradient(ctx context.Context, dev *ili9341.Dev, log *zap.Logger) error {
	img := rgb565.NewImage(dev.Bounds())
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGB565(x, y, rgb565.New(uint8(x*255/b.Dx()), uint8(y*255/b.Dy()), 0x80))
		}
	}
	if err := dev.Draw(b, img, image.Point{}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	sq := image.Rect(b.Dx()/2-20, b.Dy()/2-20, b.Dx()/2+20, b.Dy()/2+20)
	draw.Draw(img, sq, image.NewUniform(rgb565.White), image.Point{}, draw.Src)
	log.Debug("partial update", zap.Stringer("rect", sq))
	return dev.Draw(b, img, image.Point{})
}

// Rotation labels each corner in all four orientations.
func Rotation(ctx context.Context, dev *ili9341.Dev, log *zap.Logger) error {
	defer func() {
		if err := dev.SetRotation(0); err != nil {
			log.Warn("restore rotation", zap.Error(err))
		}
	}()
	for r := 0; r < 4; r++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := dev.SetRotation(drivers.Rotation(r)); err != nil {
			return err
		}
		if err := dev.FillScreen(rgb565.Black); err != nil {
			return err
		}
		if err := dev.FillRect(0, 0, 20, 20, rgb565.Red); err != nil {
			return err
		}
		dev.SetCursor(24, 6)
		dev.SetTextColors(rgb565.White, rgb565.Black)
		if _, err := fmt.Fprintf(dev, "rotation %d", r); err != nil {
			return err
		}
		if err := sleep(ctx, 300*time.Millisecond); err != nil {
			return err
		}
	}
	return nil
}

// Terminal runs a scrolling text terminal on the display.
func Terminal(ctx context.Context, dev *ili9341.Dev, log *zap.Logger) error {
	if err := dev.SetRotation(0); err != nil {
		return err
	}
	if err := dev.FillScreen(rgb565.Black); err != nil {
		return err
	}
	if err := dev.SetScrollArea(0, 0); err != nil {
		return err
	}
	defer dev.SetScroll(0)

	term := tinyterm.NewTerminal(dev)
	term.Configure(&tinyterm.Config{
		Font:       glcdfont.Classic,
		FontHeight: glcdfont.Height + 2,
		FontOffset: glcdfont.Height - 1,
	})
	lines := dev.Height()/(glcdfont.Height+2) + 8
	for i := 0; i < lines; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(term, "\x1b[3%dmline %02d\x1b[0m scrolls the panel\n", 1+i%7, i); err != nil {
			return err
		}
	}
	return nil
}

// Readback logs the controller status and reads back a pixel.
func Readback(ctx context.Context, dev *ili9341.Dev, log *zap.Logger) error {
	regs := []struct {
		name string
		read func() (byte, error)
	}{
		{"power mode", dev.ReadPowerMode},
		{"madctl", dev.ReadMADCTL},
		{"pixel format", dev.ReadPixelFormat},
		{"image format", dev.ReadImageFormat},
		{"self diagnostic", dev.ReadSelfDiagnostic},
	}
	for _, r := range regs {
		v, err := r.read()
		if err != nil {
			return err
		}
		log.Info("register", zap.String("name", r.name), zap.String("value", fmt.Sprintf("0x%02X", v)))
	}
	if err := dev.DrawPixel(1, 1, rgb565.Orange); err != nil {
		return err
	}
	c, err := dev.ReadPixel(1, 1)
	if err != nil {
		return err
	}
	log.Info("pixel", zap.String("wrote", fmt.Sprintf("0x%04X", uint16(rgb565.Orange))), zap.String("read", fmt.Sprintf("0x%04X", uint16(c))))
	return nil
}
