package ilisim

import (
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/devices/v3/ili9341/bus"
)

// Selector bits driven by the simulated peripheral.
const (
	CSBit bus.LineSelector = 1 << 0
	DCBit bus.LineSelector = 1 << 1
)

// Default queue depths of the simulated peripheral.
const (
	TxDepth = 4
	RxDepth = 4
)

// Port is a simulated serial peripheral wired to a Panel.
//
// Each status poll moves the pipeline one step: the frame in the shift
// register completes, then the oldest queued frame enters the shift register.
// The transfer-complete flag is set when a frame without Continue completes.
type Port struct {
	mu    sync.Mutex
	panel *Panel
	cs    gpio.PinIO
	dc    gpio.PinIO

	tx       []bus.Frame
	shifting *bus.Frame
	rx       []uint16
	complete bool
	active   bool
	stall    bool

	frames     []bus.Frame
	settings   []bus.Settings
	maxTx      int
	violations int
	overflow   int
}

// NewPort returns a port wired to panel. cs and dc are the pins the
// peripheral can drive as selector lines; either may be nil. While a
// transaction is idle the driver may drive them directly for Transfer.
func NewPort(panel *Panel, cs, dc gpio.PinIO) *Port {
	return &Port{panel: panel, cs: cs, dc: dc}
}

// BeginTransaction implements bus.Port.
func (p *Port) BeginTransaction(s bus.Settings) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active {
		p.violations++
	}
	p.active = true
	p.settings = append(p.settings, s)
	return nil
}

// EndTransaction implements bus.Port. The hardware keeps shifting after the
// transaction is released, so any queued frames are completed.
func (p *Port) EndTransaction() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		p.violations++
	}
	p.active = false
	for !p.stall && (p.shifting != nil || len(p.tx) != 0) {
		p.step()
	}
	return nil
}

// ChipSelect implements bus.Port.
func (p *Port) ChipSelect(pin gpio.PinOut) (bus.LineSelector, bool) {
	if pin == nil {
		return 0, false
	}
	switch {
	case p.cs != nil && pin.Name() == p.cs.Name():
		return CSBit, true
	case p.dc != nil && pin.Name() == p.dc.Name():
		return DCBit, true
	}
	return 0, false
}

// Push implements bus.Port. Frames pushed onto a full queue are lost.
func (p *Port) Push(f bus.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.tx) >= TxDepth {
		p.overflow++
		return
	}
	p.tx = append(p.tx, f)
	if len(p.tx) > p.maxTx {
		p.maxTx = len(p.tx)
	}
}

// TxLevel implements bus.Port.
func (p *Port) TxLevel() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.step()
	return len(p.tx)
}

// RxLevel implements bus.Port.
func (p *Port) RxLevel() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.rx)
}

// Pop implements bus.Port. Popping an empty queue returns 0.
func (p *Port) Pop() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.rx) == 0 {
		return 0
	}
	v := p.rx[0]
	p.rx = p.rx[1:]
	return v
}

// TransferComplete implements bus.Port.
func (p *Port) TransferComplete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.step()
	return p.complete
}

// ClearTransferComplete implements bus.Port.
func (p *Port) ClearTransferComplete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.complete = false
}

// Transfer implements bus.Port. The byte reaches the panel only while the
// chip-select pin is low, with the data/command pin deciding the
// destination.
func (p *Port) Transfer(b byte) byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cs != nil && p.cs.Read() != gpio.Low {
		return 0xFF
	}
	command := p.dc != nil && p.dc.Read() == gpio.Low
	return p.panel.Exchange(b, command)
}

func (p *Port) step() {
	if p.stall {
		return
	}
	if p.shifting != nil {
		p.finish(*p.shifting)
		if !p.shifting.Continue {
			p.complete = true
		}
		p.shifting = nil
	}
	if len(p.tx) != 0 {
		f := p.tx[0]
		p.tx = p.tx[1:]
		p.shifting = &f
	}
}

func (p *Port) finish(f bus.Frame) {
	p.frames = append(p.frames, f)
	var in uint16
	if f.Sel&CSBit != 0 {
		command := f.Sel&DCBit != 0
		if f.Wide {
			hi := p.panel.Exchange(byte(f.Value>>8), command)
			lo := p.panel.Exchange(byte(f.Value), command)
			in = uint16(hi)<<8 | uint16(lo)
		} else {
			in = uint16(p.panel.Exchange(byte(f.Value), command))
		}
	}
	if len(p.rx) < RxDepth {
		p.rx = append(p.rx, in)
	}
}

// Frames returns every frame that has been shifted out, in order.
func (p *Port) Frames() []bus.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]bus.Frame(nil), p.frames...)
}

// Reset forgets recorded frames and settings.
func (p *Port) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = nil
	p.settings = nil
	p.maxTx = 0
}

// Settings returns the settings of every transaction begun, in order.
func (p *Port) Settings() []bus.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]bus.Settings(nil), p.settings...)
}

// Stats reports the highest send queue level seen, the number of
// transactions that were begun while active or ended while idle, and the
// number of frames lost to a full queue.
func (p *Port) Stats() (maxTx, violations, overflow int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxTx, p.violations, p.overflow
}

// Active reports whether a transaction is open.
func (p *Port) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// SetStall freezes or releases the pipeline.
func (p *Port) SetStall(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stall = v
}
