package rgb565

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"go.viam.com/test"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    Color
	}{
		{"black", 0, 0, 0, Black},
		{"white", 0xFF, 0xFF, 0xFF, White},
		{"red", 0xFF, 0, 0, Red},
		{"green", 0, 0xFF, 0, Green},
		{"blue", 0, 0, 0xFF, Blue},
		{"low bits dropped", 0x07, 0x03, 0x07, Black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test.That(t, New(tt.r, tt.g, tt.b), test.ShouldEqual, tt.want)
		})
	}
}

func TestColorRGBA(t *testing.T) {
	tests := []struct {
		name       string
		c          Color
		r, g, b, a uint32
	}{
		{"black", Black, 0, 0, 0, 0xFFFF},
		{"white", White, 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF},
		{"red", Red, 0xFFFF, 0, 0, 0xFFFF},
		{"green", Green, 0, 0xFFFF, 0, 0xFFFF},
		{"blue", Blue, 0, 0, 0xFFFF, 0xFFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := tt.c.RGBA()
			test.That(t, []uint32{r, g, b, a}, test.ShouldResemble, []uint32{tt.r, tt.g, tt.b, tt.a})
		})
	}
}

func TestModelConvert(t *testing.T) {
	tests := []struct {
		name  string
		input color.Color
		want  Color
	}{
		{"passthrough", Color(0x1234), Color(0x1234)},
		{"black", color.Black, Black},
		{"white", color.White, White},
		{"rgba", color.RGBA{R: 0xFF, G: 0x80, B: 0x00, A: 0xFF}, Color(0xFC00)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test.That(t, Convert(tt.input), test.ShouldEqual, tt.want)
		})
	}
}

func TestColorRoundTrip(t *testing.T) {
	for _, c := range []Color{Black, Navy, Olive, Orange, GreenYellow, White} {
		test.That(t, Convert(c.RGBA8()), test.ShouldEqual, c)
	}
}

func TestNewImage(t *testing.T) {
	tests := []struct {
		name       string
		rect       image.Rectangle
		wantStride int
		wantPixLen int
	}{
		{"240x320", image.Rect(0, 0, 240, 320), 480, 153600},
		{"3x2", image.Rect(0, 0, 3, 2), 6, 12},
		{"offset rect", image.Rect(10, 20, 14, 22), 8, 16},
		{"empty", image.Rect(0, 0, 0, 5), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := NewImage(tt.rect)
			test.That(t, img.Rect, test.ShouldResemble, tt.rect)
			test.That(t, img.Stride, test.ShouldEqual, tt.wantStride)
			test.That(t, img.Pix, test.ShouldHaveLength, tt.wantPixLen)
		})
	}
}

func TestImageByteOrder(t *testing.T) {
	img := NewImage(image.Rect(0, 0, 2, 1))
	img.SetRGB565(0, 0, Red)
	img.SetRGB565(1, 0, Blue)
	test.That(t, img.Pix, test.ShouldResemble, []byte{0xF8, 0x00, 0x00, 0x1F})
}

func TestImageSetGet(t *testing.T) {
	img := NewImage(image.Rect(100, 50, 104, 52))
	img.SetRGB565(100, 50, Orange)
	img.Set(103, 51, color.White)

	test.That(t, img.RGB565At(100, 50), test.ShouldEqual, Orange)
	test.That(t, img.At(103, 51), test.ShouldEqual, White)
	test.That(t, img.PixOffset(100, 50), test.ShouldEqual, 0)
	test.That(t, img.PixOffset(101, 51), test.ShouldEqual, 10)
}

func TestImageOutOfBounds(t *testing.T) {
	img := NewImage(image.Rect(0, 0, 4, 4))
	img.SetRGB565(-1, 0, White)
	img.SetRGB565(4, 0, White)
	img.SetRGB565(0, 4, White)

	test.That(t, img.RGB565At(-1, 0), test.ShouldEqual, Black)
	for _, b := range img.Pix {
		test.That(t, b, test.ShouldEqual, byte(0))
	}
}

func TestImageDraw(t *testing.T) {
	img := NewImage(image.Rect(0, 0, 4, 4))
	draw.Draw(img, image.Rect(1, 1, 3, 3), image.NewUniform(Cyan), image.Point{}, draw.Src)

	test.That(t, img.RGB565At(0, 0), test.ShouldEqual, Black)
	test.That(t, img.RGB565At(1, 1), test.ShouldEqual, Cyan)
	test.That(t, img.RGB565At(2, 2), test.ShouldEqual, Cyan)
	test.That(t, img.RGB565At(3, 3), test.ShouldEqual, Black)
}

func TestImageFill(t *testing.T) {
	img := NewImage(image.Rect(0, 0, 3, 1))
	img.Fill(Magenta)
	test.That(t, img.Pix, test.ShouldResemble, []byte{0xF8, 0x1F, 0xF8, 0x1F, 0xF8, 0x1F})
}

func TestImageColorModel(t *testing.T) {
	img := NewImage(image.Rect(0, 0, 1, 1))
	test.That(t, img.ColorModel() == Model, test.ShouldBeTrue)
}
