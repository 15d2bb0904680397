// Package periphport implements bus.Port on top of a periph.io SPI port and
// two GPIO lines for chip select and data/command.
//
// Linux SPI controllers do not expose their hardware queue, so the port
// keeps a software queue instead. Frames are buffered until a frame ends an
// operation, the batch limit is reached, or the bus asks whether the
// transfer completed. A flush drives the GPIO lines for each run of frames
// that share a selector and sends the run with one TxPackets call.
package periphport

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ili9341/bus"
)

// Selector bits of the port.
const (
	CSBit bus.LineSelector = 1 << 0
	DCBit bus.LineSelector = 1 << 1
)

// RxDepth is the number of received entries kept, like a hardware receive
// queue. Further entries are dropped until the queue is popped.
const RxDepth = 4

// DefaultBatch is the number of frames buffered before a flush.
const DefaultBatch = 2048

// Opener opens the underlying SPI port. It is called when a transaction
// needs settings different from the open connection.
type Opener func() (spi.PortCloser, error)

// Opts configures a Port.
type Opts struct {
	// CS is driven low while a frame carrying CSBit is shifted. It may be
	// nil when the controller's own chip select is wired to the panel.
	CS gpio.PinOut
	// DC is driven low for frames carrying DCBit.
	DC gpio.PinOut
	// Batch is the number of frames buffered before a flush.
	Batch  int
	Logger *zap.Logger
}

// Port is a bus.Port backed by periph.io.
type Port struct {
	mu     sync.Mutex
	open   Opener
	cs, dc gpio.PinOut
	batch  int
	log    *zap.Logger

	pc       spi.PortCloser
	conn     spi.Conn
	settings bus.Settings
	active   bool

	queue    []bus.Frame
	rx       []uint16
	complete bool
	err      error
}

// New returns a Port that opens its SPI connection through open.
func New(open Opener, opts *Opts) (*Port, error) {
	if open == nil {
		return nil, errors.New("periphport: opener is required")
	}
	if opts == nil || opts.DC == nil {
		return nil, errors.New("periphport: data/command pin is required")
	}
	p := &Port{
		open:  open,
		cs:    opts.CS,
		dc:    opts.DC,
		batch: opts.Batch,
		log:   opts.Logger,
	}
	if p.batch <= 0 {
		p.batch = DefaultBatch
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	if p.cs != nil {
		if err := p.cs.Out(gpio.High); err != nil {
			return nil, errors.Wrap(err, "periphport: chip select")
		}
	}
	return p, nil
}

// BeginTransaction implements bus.Port.
func (p *Port) BeginTransaction(s bus.Settings) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active {
		return errors.New("periphport: transaction already open")
	}
	if p.conn == nil || s != p.settings {
		if err := p.closeLocked(); err != nil {
			return err
		}
		pc, err := p.open()
		if err != nil {
			return errors.Wrap(err, "periphport: open")
		}
		c, err := pc.Connect(s.Clock, s.Mode, s.Bits)
		if err != nil {
			return multierr.Combine(errors.Wrap(err, "periphport: connect"), pc.Close())
		}
		p.log.Debug("spi connected", zap.Stringer("clock", s.Clock), zap.Int("bits", s.Bits))
		p.pc, p.conn, p.settings = pc, c, s
	}
	p.active = true
	return nil
}

// EndTransaction implements bus.Port. It flushes queued frames and returns
// the first I/O error since BeginTransaction.
func (p *Port) EndTransaction() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flush()
	p.active = false
	err := p.err
	p.err = nil
	return err
}

// Close releases the SPI port.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeLocked()
}

func (p *Port) closeLocked() error {
	if p.pc == nil {
		return nil
	}
	err := p.pc.Close()
	p.pc, p.conn = nil, nil
	return errors.Wrap(err, "periphport: close")
}

// ChipSelect implements bus.Port.
func (p *Port) ChipSelect(pin gpio.PinOut) (bus.LineSelector, bool) {
	if pin == nil {
		return 0, false
	}
	switch {
	case p.cs != nil && pin.Name() == p.cs.Name():
		return CSBit, true
	case pin.Name() == p.dc.Name():
		return DCBit, true
	}
	return 0, false
}

// Push implements bus.Port.
func (p *Port) Push(f bus.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append(p.queue, f)
	if len(p.queue) >= p.batch {
		p.flush()
	}
}

// TxLevel implements bus.Port. The software queue never applies back
// pressure.
func (p *Port) TxLevel() int {
	return 0
}

// RxLevel implements bus.Port.
func (p *Port) RxLevel() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.rx)
}

// Pop implements bus.Port.
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

// TransferComplete implements bus.Port. It flushes the queue.
func (p *Port) TransferComplete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flush()
	return p.complete
}

// ClearTransferComplete implements bus.Port.
func (p *Port) ClearTransferComplete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.complete = false
}

// Transfer implements bus.Port.
func (p *Port) Transfer(b byte) byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flush()
	if p.conn == nil {
		return 0
	}
	r := []byte{0}
	if err := p.conn.Tx([]byte{b}, r); err != nil {
		p.fail(errors.Wrap(err, "periphport: transfer"))
	}
	return r[0]
}

func (p *Port) fail(err error) {
	if p.err == nil {
		p.log.Warn("spi transfer failed", zap.Error(err))
		p.err = err
	}
}

// flush sends the queue, one run per selector value.
func (p *Port) flush() {
	for len(p.queue) != 0 {
		n := 1
		for n < len(p.queue) && p.queue[n].Sel == p.queue[0].Sel {
			n++
		}
		p.sendRun(p.queue[:n])
		p.queue = p.queue[n:]
	}
	p.queue = p.queue[:0]
}

func (p *Port) sendRun(run []bus.Frame) {
	if p.err != nil || p.conn == nil {
		p.complete = true
		return
	}
	sel := run[0].Sel
	dc := gpio.High
	if sel&DCBit != 0 {
		dc = gpio.Low
	}
	if err := p.dc.Out(dc); err != nil {
		p.fail(errors.Wrap(err, "periphport: data/command"))
		return
	}
	selected := sel&CSBit != 0 && p.cs != nil
	if selected {
		if err := p.cs.Out(gpio.Low); err != nil {
			p.fail(errors.Wrap(err, "periphport: chip select"))
			return
		}
	}
	pkts, rx := packets(run)
	if err := p.conn.TxPackets(pkts); err != nil {
		p.fail(errors.Wrap(err, "periphport: tx"))
	}
	p.receive(rx, run)
	if selected && !run[len(run)-1].Continue {
		if err := p.cs.Out(gpio.High); err != nil {
			p.fail(errors.Wrap(err, "periphport: chip select"))
		}
	}
	p.complete = true
}

// packets splits run at frames that end an operation. Words are sent most
// significant byte first.
func packets(run []bus.Frame) ([]spi.Packet, []byte) {
	size := 0
	for _, f := range run {
		size++
		if f.Wide {
			size++
		}
	}
	w := make([]byte, 0, size)
	r := make([]byte, size)
	var pkts []spi.Packet
	start := 0
	for i, f := range run {
		if f.Wide {
			w = append(w, byte(f.Value>>8))
		}
		w = append(w, byte(f.Value))
		if !f.Continue || i == len(run)-1 {
			pkts = append(pkts, spi.Packet{
				W:           w[start:],
				R:           r[start:len(w)],
				BitsPerWord: 8,
				KeepCS:      f.Continue,
			})
			start = len(w)
		}
	}
	return pkts, r
}

func (p *Port) receive(r []byte, run []bus.Frame) {
	i := 0
	for _, f := range run {
		v := uint16(r[i])
		i++
		if f.Wide {
			v = v<<8 | uint16(r[i])
			i++
		}
		if len(p.rx) < RxDepth {
			p.rx = append(p.rx, v)
		}
	}
}
