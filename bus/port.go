// Package bus sequences command and data units onto a shared synchronous
// serial bus that has a hardware send queue.
//
// A Port is the narrow view of the serial peripheral: push a frame, read the
// queue levels, and test or clear the transfer-complete flag. A Bus is the
// single owned handle to one Port. All traffic goes through a Session, which
// holds the bus exclusively for one logical operation and frames every unit
// either as Continue (more units follow, only wait for queue space) or Last
// (wait until the peripheral reports the unit has left the wire).
package bus

import (
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// LineSelector is the set of auxiliary control lines asserted with a frame.
//
// A driver derives one selector for data and one for commands from its
// chip-select and data/command pins, and never changes them afterwards.
type LineSelector uint8

// Frame is one entry of the hardware send queue.
type Frame struct {
	Value uint16       // 8 or 16 significant bits
	Sel   LineSelector // lines asserted while the frame is shifted
	Wide  bool         // 16-bit frame
	// Continue keeps the selected lines asserted after the frame: another
	// frame of the same operation follows.
	Continue bool
}

// Settings is the bus configuration claimed for a transaction.
type Settings struct {
	Clock physic.Frequency
	Mode  spi.Mode // spi.LSBFirst selects the bit order
	Bits  int
}

// Port is a serial peripheral with a send queue, a receive queue and a
// transfer-complete flag.
//
// Port methods map one-to-one onto hardware register accesses and do not
// block. Polling is done by Session.
type Port interface {
	// BeginTransaction applies s for the duration of a transaction.
	BeginTransaction(s Settings) error
	// EndTransaction releases the configuration and reports any I/O error
	// that occurred since BeginTransaction.
	EndTransaction() error
	// ChipSelect maps a pin to the selector bit the peripheral drives for it.
	// ok is false when the pin cannot be driven by the peripheral.
	ChipSelect(p gpio.PinOut) (sel LineSelector, ok bool)
	// Push appends f to the send queue.
	Push(f Frame)
	// TxLevel returns the number of frames waiting in the send queue.
	TxLevel() int
	// RxLevel returns the number of entries in the receive queue.
	RxLevel() int
	// Pop removes and returns the oldest receive queue entry.
	Pop() uint16
	// TransferComplete reports whether a frame finished since the flag was
	// last cleared.
	TransferComplete() bool
	// ClearTransferComplete clears the transfer-complete flag.
	ClearTransferComplete()
	// Transfer shifts one byte out and returns the byte shifted in, outside
	// of the queue and without driving any selector line.
	Transfer(b byte) byte
}

// Framing selects how a unit is synchronized with the peripheral.
type Framing int

const (
	// Continue only waits for room in the send queue; more units of the
	// same operation follow.
	Continue Framing = iota
	// Last waits until the peripheral reports the unit has been shifted
	// out. It is the synchronization point of an operation.
	Last
)

func (f Framing) String() string {
	if f == Last {
		return "last"
	}
	return "continue"
}
