package bus

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
)

const (
	// TxWatermark is the send queue level above which Continue framing waits.
	TxWatermark = 3

	// DefaultSpinLimit bounds every wait of the write framing.
	DefaultSpinLimit = 1 << 24

	// DrainLimit bounds the send queue and transfer-complete waits of the
	// readback path.
	DrainLimit = 0xFFFF

	// RxDrainLimit bounds the receive queue drain of the readback path.
	//
	// It is much smaller than DrainLimit although both drain a queue.
	RxDrainLimit = 0x10
)

var (
	// ErrStalled is returned when the peripheral did not make progress
	// within the spin limit.
	ErrStalled = errors.New("bus: transfer stalled")
	// ErrClosed is returned when a session is used after End.
	ErrClosed = errors.New("bus: session closed")
)

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used for stall reports.
func WithLogger(l *zap.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.log = l
		}
	}
}

// WithSpinLimit sets the number of polls a write waits for the peripheral
// before failing with ErrStalled.
func WithSpinLimit(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.spinLimit = n
		}
	}
}

// Lines holds the selectors a session uses for its two destinations.
type Lines struct {
	Data    LineSelector
	Command LineSelector
}

// Bus is the owned handle to a shared Port.
//
// Only one Session is open at a time. Other users of the same Port must go
// through the same Bus so that they interleave between sessions and never
// during one.
type Bus struct {
	mu        sync.Mutex
	port      Port
	log       *zap.Logger
	spinLimit int
}

// New returns a Bus that owns p.
func New(p Port, opts ...Option) *Bus {
	b := &Bus{
		port:      p,
		log:       zap.NewNop(),
		spinLimit: DefaultSpinLimit,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// ChipSelect maps pin to the selector bit the port drives for it.
func (b *Bus) ChipSelect(pin gpio.PinOut) (LineSelector, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.port.ChipSelect(pin)
}

// Begin claims the bus, applies s and returns the open session.
//
// The caller must call End on the returned session. Begin blocks while
// another session is open.
func (b *Bus) Begin(s Settings, l Lines) (*Session, error) {
	b.mu.Lock()
	if err := b.port.BeginTransaction(s); err != nil {
		b.mu.Unlock()
		return nil, errors.Wrap(err, "bus: begin transaction")
	}
	return &Session{b: b, p: b.port, lines: l}, nil
}

// Do runs fn inside a session and releases the bus on every exit path.
//
// The error returned by fn and the error reported by the port on release are
// combined.
func (b *Bus) Do(s Settings, l Lines, fn func(*Session) error) (err error) {
	sess, err := b.Begin(s, l)
	if err != nil {
		return err
	}
	defer func() {
		if err == nil {
			err = sess.err
		}
		err = multierr.Append(err, sess.release())
	}()
	return fn(sess)
}

// Session is an exclusive claim on a Bus for one logical operation.
//
// A Session is not safe for concurrent use.
type Session struct {
	b     *Bus
	p     Port
	lines Lines
	err   error
	done  bool
}

// End releases the bus. It returns the first error recorded during the
// session, or the port's release error. Calling End twice is a no-op.
func (s *Session) End() error {
	if s.done {
		return nil
	}
	return multierr.Append(s.err, s.release())
}

func (s *Session) release() error {
	if s.done {
		return nil
	}
	s.done = true
	defer s.b.mu.Unlock()
	return errors.Wrap(s.p.EndTransaction(), "bus: end transaction")
}

// Err returns the sticky error of the session.
func (s *Session) Err() error {
	if s.done {
		return ErrClosed
	}
	return s.err
}

// Lines returns the selectors the session was opened with.
func (s *Session) Lines() Lines {
	return s.lines
}

// SendByte frames the low 8 bits of v onto the bus with sel asserted.
func (s *Session) SendByte(v byte, sel LineSelector, f Framing) {
	s.send(Frame{Value: uint16(v), Sel: sel}, f)
}

// SendWord frames v as one 16-bit unit with sel asserted.
func (s *Session) SendWord(v uint16, sel LineSelector, f Framing) {
	s.send(Frame{Value: v, Sel: sel, Wide: true}, f)
}

// Command sends cmd on the command selector.
func (s *Session) Command(cmd byte, f Framing) {
	s.SendByte(cmd, s.lines.Command, f)
}

// Data8 sends one data byte.
func (s *Session) Data8(v byte, f Framing) {
	s.SendByte(v, s.lines.Data, f)
}

// Data16 sends one 16-bit data word.
func (s *Session) Data16(v uint16, f Framing) {
	s.SendWord(v, s.lines.Data, f)
}

func (s *Session) send(fr Frame, f Framing) {
	if s.done || s.err != nil {
		return
	}
	if f == Continue {
		fr.Continue = true
		s.p.Push(fr)
		s.wait("tx space", func() bool { return s.p.TxLevel() <= TxWatermark })
		return
	}
	s.p.ClearTransferComplete()
	s.p.Push(fr)
	if fr.Wide {
		// A word may sit in the queue as two fragments.
		s.wait("tx drain", func() bool { return s.p.TxLevel() == 0 })
	}
	s.wait("transfer complete", s.p.TransferComplete)
}

// wait polls cond up to the spin limit and records ErrStalled on expiry.
func (s *Session) wait(what string, cond func() bool) {
	if s.err != nil {
		return
	}
	for i := 0; i < s.b.spinLimit; i++ {
		if cond() {
			return
		}
	}
	s.b.log.Warn("bus stalled", zap.String("waiting for", what), zap.Int("polls", s.b.spinLimit))
	s.err = errors.Wrapf(ErrStalled, "waiting for %s", what)
}

// Push appends f to the send queue without any framing wait.
func (s *Session) Push(f Frame) {
	if s.done || s.err != nil {
		return
	}
	s.p.Push(f)
}

// WaitTxEmpty polls until the send queue is empty, at most limit times.
// It reports whether the queue drained.
func (s *Session) WaitTxEmpty(limit int) bool {
	return s.poll(limit, func() bool { return s.p.TxLevel() == 0 })
}

// WaitComplete clears the transfer-complete flag and polls until it is set
// again, at most limit times. It reports whether the flag was seen.
func (s *Session) WaitComplete(limit int) bool {
	s.p.ClearTransferComplete()
	return s.poll(limit, s.p.TransferComplete)
}

// DrainRx pops the receive queue until it is empty, polling at most limit
// times. It returns the last value popped and how many were popped. When
// nothing was popped last is 0.
func (s *Session) DrainRx(limit int) (last uint16, n int) {
	for i := 0; i < limit; i++ {
		if s.p.RxLevel() == 0 {
			break
		}
		last = s.p.Pop()
		n++
	}
	return last, n
}

func (s *Session) poll(limit int, cond func() bool) bool {
	for i := 0; i < limit; i++ {
		if cond() {
			return true
		}
	}
	s.b.log.Debug("bounded wait expired", zap.Int("limit", limit))
	return false
}

// Transfer shifts b out of the port directly, bypassing the send queue.
func (s *Session) Transfer(b byte) byte {
	if s.done {
		return 0
	}
	return s.p.Transfer(b)
}
