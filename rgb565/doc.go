// Package rgb565 provides the 16-bit 5-6-5 packed color format used by the ILI9341 controller.
//
// Each pixel is one big-endian 16-bit word: 5 bits of red in the high bits,
// 6 bits of green, and 5 bits of blue in the low bits. This is the exact word
// the driver sends to the controller, so an Image can be streamed to the
// panel without conversion.
//
// Memory layout example for a 2-pixel row:
//
//	Pixels: 0       1
//	Colors: red     blue
//	Words:  0xF800  0x001F
//	Bytes:  F8 00   00 1F
//
// This package provides:
//
// - Color: a packed 16-bit color
// - Model: a color model converting standard Go colors to Color
// - Image: an image.Image implementation with the controller's byte order
//
// Example usage:
//
//	img := rgb565.NewImage(image.Rect(0, 0, 240, 320))
//	img.SetRGB565(10, 20, rgb565.Red)
//	c := img.RGB565At(10, 20) // 0xF800
//
//	draw.Draw(img, img.Bounds(), image.NewUniform(rgb565.Navy), image.Point{}, draw.Src)
package rgb565
