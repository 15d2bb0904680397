package ili9341

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"go.viam.com/test"
	"periph.io/x/conn/v3/gpio"

	"periph.io/x/devices/v3/ili9341/bus"
	"periph.io/x/devices/v3/ili9341/rgb565"
)

func TestReadRegisters(t *testing.T) {
	r := newRig(t)
	tests := []struct {
		name string
		read func() (byte, error)
		want byte
	}{
		{"power mode", r.dev.ReadPowerMode, 0x94},
		{"madctl", r.dev.ReadMADCTL, 0x48},
		{"pixel format", r.dev.ReadPixelFormat, 0x55},
		{"image format", r.dev.ReadImageFormat, 0x00},
		{"self diagnostic", r.dev.ReadSelfDiagnostic, 0xC0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.read()
			test.That(t, err, test.ShouldBeNil)
			test.That(t, v, test.ShouldEqual, tt.want)
		})
	}
}

func TestReadCommandIndex(t *testing.T) {
	r := newRig(t)
	for i, want := range []byte{0x00, 0x93, 0x41} {
		v, err := r.dev.ReadCommand(0xD3, byte(i))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, v, test.ShouldEqual, want)
	}
}

func TestReadCommandFrames(t *testing.T) {
	r := newRig(t)
	_, err := r.dev.ReadCommand(cmdRDMADCTL, 2)
	test.That(t, err, test.ShouldBeNil)

	fs := r.port.Frames()
	test.That(t, len(fs), test.ShouldEqual, 4)
	test.That(t, [4]uint16{fs[0].Value, fs[1].Value, fs[2].Value, fs[3].Value},
		test.ShouldResemble, [4]uint16{cmdExtIndex, 0x12, cmdRDMADCTL, 0})
	test.That(t, []bool{isCommand(fs[0]), isCommand(fs[1]), isCommand(fs[2]), isCommand(fs[3])},
		test.ShouldResemble, []bool{true, false, true, false})
	test.That(t, []bool{fs[0].Continue, fs[1].Continue, fs[2].Continue, fs[3].Continue},
		test.ShouldResemble, []bool{true, false, true, false})
}

func TestReadCommandFollowsState(t *testing.T) {
	r := newRig(t)
	test.That(t, r.dev.SetRotation(1), test.ShouldBeNil)
	v, err := r.dev.ReadMADCTL()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, byte(0x28))

	test.That(t, r.dev.Sleep(true), test.ShouldBeNil)
	v, err = r.dev.ReadPowerMode()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, byte(0x04))

	r.panel.Echo = map[byte][]byte{cmdRDMODE: {0x5A}}
	v, err = r.dev.ReadPowerMode()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, byte(0x5A))
}

func TestReadCommandStalled(t *testing.T) {
	r := newRig(t)
	r.port.SetStall(true)
	v, err := r.dev.ReadMADCTL()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, byte(0))

	// Once the bus recovers the stale frames are drained and discarded.
	r.port.SetStall(false)
	v, err = r.dev.ReadMADCTL()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, byte(0x48))
}

func TestReadPixel(t *testing.T) {
	r := newRig(t)
	test.That(t, r.dev.DrawPixel(5, 7, rgb565.Orange), test.ShouldBeNil)
	test.That(t, r.dev.FillRect(100, 200, 3, 3, rgb565.Cyan), test.ShouldBeNil)

	tests := []struct {
		x, y int
		want rgb565.Color
	}{
		{5, 7, rgb565.Orange},
		{6, 7, rgb565.Black},
		{102, 202, rgb565.Cyan},
	}
	for _, tt := range tests {
		c, err := r.dev.ReadPixel(tt.x, tt.y)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, c, test.ShouldEqual, tt.want)
	}
	test.That(t, r.cs.L, test.ShouldEqual, gpio.High)
	_, violations, _ := r.port.Stats()
	test.That(t, violations, test.ShouldEqual, 0)
}

func TestReadDisabledAndHalted(t *testing.T) {
	r := newRig(t, func(o *Opts) { o.DC = nil })
	test.That(t, r.dev.Enabled(), test.ShouldBeFalse)
	v, err := r.dev.ReadMADCTL()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, byte(0))

	r = newRig(t)
	test.That(t, r.dev.Halt(), test.ShouldBeNil)
	_, err = r.dev.ReadMADCTL()
	test.That(t, err, test.ShouldEqual, ErrHalted)
	_, err = r.dev.ReadPixel(0, 0)
	test.That(t, err, test.ShouldEqual, ErrHalted)
}

func TestReadPixelWithoutTimeouts(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newRigWithBus(t, []bus.Option{bus.WithLogger(zap.New(core))})
	test.That(t, r.dev.DrawPixel(3, 4, rgb565.Magenta), test.ShouldBeNil)

	c, err := r.dev.ReadPixel(3, 4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c, test.ShouldEqual, rgb565.Magenta)
	test.That(t, logs.FilterMessage("bounded wait expired").Len(), test.ShouldEqual, 0)
	test.That(t, logs.FilterMessage("bus stalled").Len(), test.ShouldEqual, 0)

	// RAMRD is the barrier before the lines are driven by hand.
	fs := r.port.Frames()
	last := fs[len(fs)-1]
	test.That(t, last.Value, test.ShouldEqual, uint16(cmdRAMRD))
	test.That(t, last.Continue, test.ShouldBeFalse)
}
