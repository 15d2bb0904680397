package ili9341

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"

	"periph.io/x/devices/v3/ili9341/bus"
	"periph.io/x/devices/v3/ili9341/rgb565"
)

// ReadCommand reads parameter index of the read command cmd.
//
// Every wait is bounded. When the controller does not answer in time the
// last byte received, possibly stale, is returned without an error; when
// nothing was received at all the result is 0.
func (d *Dev) ReadCommand(cmd, index byte) (byte, error) {
	var r uint16
	err := d.do(func(s *bus.Session) {
		lines := s.Lines()
		if !s.WaitTxEmpty(bus.DrainLimit) {
			d.log.Debug("ili9341: readback tx drain timed out", zap.Uint8("cmd", cmd))
		}
		s.WaitComplete(bus.DrainLimit)
		s.DrainRx(bus.RxDrainLimit)

		s.Push(bus.Frame{Value: cmdExtIndex, Sel: lines.Command, Continue: true})
		s.Push(bus.Frame{Value: 0x10 + uint16(index), Sel: lines.Data})
		s.Push(bus.Frame{Value: uint16(cmd), Sel: lines.Command, Continue: true})
		s.Push(bus.Frame{Value: 0, Sel: lines.Data})

		s.WaitTxEmpty(bus.DrainLimit)
		if !s.WaitComplete(bus.DrainLimit) {
			d.log.Debug("ili9341: readback did not complete", zap.Uint8("cmd", cmd))
		}
		var n int
		if r, n = s.DrainRx(bus.RxDrainLimit); n == 0 {
			d.log.Debug("ili9341: readback received nothing", zap.Uint8("cmd", cmd))
		}
	})
	return byte(r), err
}

// ReadPixel returns the pixel at (x, y). The controller is read directly
// through the chip select and data/command lines.
func (d *Dev) ReadPixel(x, y int) (rgb565.Color, error) {
	var c rgb565.Color
	err := d.do(func(s *bus.Session) {
		s.Command(cmdCASET, bus.Continue)
		s.Data16(uint16(x), bus.Continue)
		s.Data16(uint16(x), bus.Continue)
		s.Command(cmdPASET, bus.Continue)
		s.Data16(uint16(y), bus.Continue)
		s.Data16(uint16(y), bus.Continue)
		// The command must be on the wire before the lines are driven.
		s.Command(cmdRAMRD, bus.Last)
		if s.Err() != nil {
			return
		}

		if err := d.dc.Out(gpio.High); err != nil {
			d.log.Warn("ili9341: readback", zap.Error(errors.Wrap(err, "dc")))
			return
		}
		if err := d.cs.Out(gpio.Low); err != nil {
			d.log.Warn("ili9341: readback", zap.Error(errors.Wrap(err, "cs")))
			return
		}
		hi := s.Transfer(0)
		lo := s.Transfer(0)
		c = rgb565.Color(uint16(hi)<<8 | uint16(lo))
		if err := d.cs.Out(gpio.High); err != nil {
			d.log.Warn("ili9341: readback", zap.Error(errors.Wrap(err, "cs")))
		}
	})
	return c, err
}

// ReadPowerMode returns the display power mode register.
func (d *Dev) ReadPowerMode() (byte, error) { return d.ReadCommand(cmdRDMODE, 0) }

// ReadMADCTL returns the memory access control register.
func (d *Dev) ReadMADCTL() (byte, error) { return d.ReadCommand(cmdRDMADCTL, 0) }

// ReadPixelFormat returns the pixel format register.
func (d *Dev) ReadPixelFormat() (byte, error) { return d.ReadCommand(cmdRDPIXFMT, 0) }

// ReadImageFormat returns the image format register.
func (d *Dev) ReadImageFormat() (byte, error) { return d.ReadCommand(cmdRDIMGFMT, 0) }

// ReadSelfDiagnostic returns the self diagnostic register.
func (d *Dev) ReadSelfDiagnostic() (byte, error) { return d.ReadCommand(cmdRDSELFDIAG, 0) }
