package bus

import (
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"
	"go.viam.com/test"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// fakePort drains one frame per status poll and records everything pushed.
type fakePort struct {
	queue    []Frame
	sent     []Frame
	maxLevel int
	complete bool
	rx       []uint16
	stall    bool
	begins   int
	ends     int
	endErr   error
	polls    int
}

func (f *fakePort) BeginTransaction(Settings) error { f.begins++; return nil }

func (f *fakePort) EndTransaction() error { f.ends++; return f.endErr }

func (f *fakePort) ChipSelect(p gpio.PinOut) (LineSelector, bool) {
	switch p.Name() {
	case "CS":
		return 1, true
	case "DC":
		return 2, true
	}
	return 0, false
}

func (f *fakePort) Push(fr Frame) {
	f.queue = append(f.queue, fr)
	if len(f.queue) > f.maxLevel {
		f.maxLevel = len(f.queue)
	}
}

func (f *fakePort) step() {
	f.polls++
	if f.stall || len(f.queue) == 0 {
		return
	}
	f.sent = append(f.sent, f.queue[0])
	f.queue = f.queue[1:]
	f.complete = true
}

func (f *fakePort) TxLevel() int           { f.step(); return len(f.queue) }
func (f *fakePort) RxLevel() int           { return len(f.rx) }
func (f *fakePort) TransferComplete() bool { f.step(); return f.complete }
func (f *fakePort) ClearTransferComplete() { f.complete = false }
func (f *fakePort) Transfer(b byte) byte   { return ^b }

func (f *fakePort) Pop() uint16 {
	v := f.rx[0]
	f.rx = f.rx[1:]
	return v
}

var testSettings = Settings{Clock: 30 * physic.MegaHertz, Mode: spi.Mode0, Bits: 8}

var testLines = Lines{Data: 1, Command: 3}

func TestFraming(t *testing.T) {
	tests := []struct {
		name      string
		send      func(s *Session)
		wantCont  []bool
		wantWide  []bool
		wantValue []uint16
	}{
		{
			"byte continue",
			func(s *Session) { s.Data8(0x12, Continue) },
			[]bool{true}, []bool{false}, []uint16{0x12},
		},
		{
			"byte last",
			func(s *Session) { s.Data8(0x12, Last) },
			[]bool{false}, []bool{false}, []uint16{0x12},
		},
		{
			"word last",
			func(s *Session) { s.Data16(0xBEEF, Last) },
			[]bool{false}, []bool{true}, []uint16{0xBEEF},
		},
		{
			"command then words",
			func(s *Session) {
				s.Command(0x2A, Continue)
				s.Data16(1, Continue)
				s.Data16(2, Last)
			},
			[]bool{true, true, false}, []bool{false, true, true}, []uint16{0x2A, 1, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePort{}
			b := New(p, WithLogger(zaptest.NewLogger(t)))
			err := b.Do(testSettings, testLines, func(s *Session) error {
				tt.send(s)
				return s.Err()
			})
			test.That(t, err, test.ShouldBeNil)
			all := append(p.sent, p.queue...)
			test.That(t, len(all), test.ShouldEqual, len(tt.wantCont))
			for i, fr := range all {
				test.That(t, fr.Continue, test.ShouldEqual, tt.wantCont[i])
				test.That(t, fr.Wide, test.ShouldEqual, tt.wantWide[i])
				test.That(t, fr.Value, test.ShouldEqual, tt.wantValue[i])
			}
		})
	}
}

func TestSelectors(t *testing.T) {
	p := &fakePort{}
	b := New(p)
	s, err := b.Begin(testSettings, testLines)
	test.That(t, err, test.ShouldBeNil)
	s.Command(0x2C, Continue)
	s.Data8(0x01, Last)
	test.That(t, s.End(), test.ShouldBeNil)
	test.That(t, p.sent[0].Sel, test.ShouldEqual, LineSelector(3))
	test.That(t, p.sent[1].Sel, test.ShouldEqual, LineSelector(1))
}

func TestLastIsBarrier(t *testing.T) {
	p := &fakePort{}
	b := New(p)
	err := b.Do(testSettings, testLines, func(s *Session) error {
		s.Data16(0xFFFF, Last)
		return nil
	})
	test.That(t, err, test.ShouldBeNil)
	if len(p.queue) != 0 {
		t.Errorf("queue holds %d frames after a last word", len(p.queue))
	}
}

func TestContinueRespectsWatermark(t *testing.T) {
	p := &fakePort{}
	b := New(p)
	err := b.Do(testSettings, testLines, func(s *Session) error {
		for i := 0; i < 100; i++ {
			s.Data16(uint16(i), Continue)
		}
		return nil
	})
	test.That(t, err, test.ShouldBeNil)
	if p.maxLevel > TxWatermark+1 {
		t.Errorf("queue level reached %d, want at most %d", p.maxLevel, TxWatermark+1)
	}
}

func TestStallFailsFast(t *testing.T) {
	tests := []struct {
		name    string
		framing Framing
	}{
		{"continue", Continue},
		{"last", Last},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePort{stall: true}
			b := New(p, WithSpinLimit(50), WithLogger(zaptest.NewLogger(t)))
			err := b.Do(testSettings, testLines, func(s *Session) error {
				for i := 0; i < 8; i++ {
					s.Data8(byte(i), tt.framing)
				}
				return nil
			})
			if !errors.Is(err, ErrStalled) {
				t.Fatalf("Do() = %v, want ErrStalled", err)
			}
			// Sends after the stall are dropped.
			if tt.framing == Last && len(p.queue) != 1 {
				t.Errorf("queue holds %d frames, want 1", len(p.queue))
			}
			if p.polls > 8*50 {
				t.Errorf("polled %d times", p.polls)
			}
		})
	}
}

func TestSessionRelease(t *testing.T) {
	t.Run("body error", func(t *testing.T) {
		p := &fakePort{}
		b := New(p)
		want := errors.New("boom")
		err := b.Do(testSettings, testLines, func(*Session) error { return want })
		test.That(t, errors.Is(err, want), test.ShouldBeTrue)
		test.That(t, p.ends, test.ShouldEqual, 1)
	})
	t.Run("end error", func(t *testing.T) {
		p := &fakePort{endErr: errors.New("io")}
		b := New(p)
		err := b.Do(testSettings, testLines, func(*Session) error { return nil })
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "end transaction")
	})
	t.Run("panic", func(t *testing.T) {
		p := &fakePort{}
		b := New(p)
		func() {
			defer func() { _ = recover() }()
			_ = b.Do(testSettings, testLines, func(*Session) error { panic("draw") })
		}()
		test.That(t, p.ends, test.ShouldEqual, 1)
		// The bus is usable again.
		test.That(t, b.Do(testSettings, testLines, func(*Session) error { return nil }), test.ShouldBeNil)
	})
	t.Run("double end", func(t *testing.T) {
		p := &fakePort{}
		b := New(p)
		s, err := b.Begin(testSettings, testLines)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, s.End(), test.ShouldBeNil)
		test.That(t, s.End(), test.ShouldBeNil)
		test.That(t, p.ends, test.ShouldEqual, 1)
		test.That(t, s.Err(), test.ShouldEqual, ErrClosed)
	})
}

func TestSessionsDoNotInterleave(t *testing.T) {
	p := &fakePort{}
	b := New(p)
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			_ = b.Do(testSettings, testLines, func(s *Session) error {
				for i := 0; i < 10; i++ {
					s.Data8(byte(g), Continue)
				}
				s.Data8(byte(g), Last)
				return nil
			})
		}(g)
	}
	wg.Wait()
	all := append(p.sent, p.queue...)
	test.That(t, len(all), test.ShouldEqual, 44)
	for i := 0; i < len(all); i += 11 {
		for j := i; j < i+11; j++ {
			if all[j].Value != all[i].Value {
				t.Fatalf("frame %d from session %d inside session %d", j, all[j].Value, all[i].Value)
			}
		}
	}
	test.That(t, p.begins, test.ShouldEqual, 4)
	test.That(t, p.ends, test.ShouldEqual, 4)
}

func TestReadbackHelpers(t *testing.T) {
	t.Run("drain", func(t *testing.T) {
		p := &fakePort{rx: []uint16{1, 2, 3}}
		b := New(p)
		s, _ := b.Begin(testSettings, testLines)
		defer s.End()
		last, n := s.DrainRx(RxDrainLimit)
		test.That(t, last, test.ShouldEqual, uint16(3))
		test.That(t, n, test.ShouldEqual, 3)
	})
	t.Run("drain bounded", func(t *testing.T) {
		rx := make([]uint16, 40)
		for i := range rx {
			rx[i] = uint16(i)
		}
		p := &fakePort{rx: rx}
		b := New(p)
		s, _ := b.Begin(testSettings, testLines)
		defer s.End()
		last, n := s.DrainRx(RxDrainLimit)
		test.That(t, n, test.ShouldEqual, RxDrainLimit)
		test.That(t, last, test.ShouldEqual, uint16(RxDrainLimit-1))
	})
	t.Run("empty", func(t *testing.T) {
		p := &fakePort{}
		b := New(p)
		s, _ := b.Begin(testSettings, testLines)
		defer s.End()
		last, n := s.DrainRx(RxDrainLimit)
		test.That(t, last, test.ShouldEqual, uint16(0))
		test.That(t, n, test.ShouldEqual, 0)
	})
	t.Run("wait stalled", func(t *testing.T) {
		p := &fakePort{stall: true}
		b := New(p, WithLogger(zaptest.NewLogger(t)))
		s, _ := b.Begin(testSettings, testLines)
		defer s.End()
		s.Push(Frame{Value: 1, Sel: 1})
		test.That(t, s.WaitTxEmpty(DrainLimit), test.ShouldBeFalse)
		test.That(t, s.WaitComplete(DrainLimit), test.ShouldBeFalse)
		test.That(t, s.Err(), test.ShouldBeNil)
	})
	t.Run("wait", func(t *testing.T) {
		p := &fakePort{}
		b := New(p)
		s, _ := b.Begin(testSettings, testLines)
		defer s.End()
		s.Push(Frame{Value: 1, Sel: 1})
		s.Push(Frame{Value: 2, Sel: 1})
		test.That(t, s.WaitTxEmpty(DrainLimit), test.ShouldBeTrue)
		test.That(t, s.Transfer(0x0F), test.ShouldEqual, byte(0xF0))
	})
}

func TestChipSelect(t *testing.T) {
	b := New(&fakePort{})
	sel, ok := b.ChipSelect(&gpiotest.Pin{N: "DC"})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, sel, test.ShouldEqual, LineSelector(2))
	_, ok = b.ChipSelect(&gpiotest.Pin{N: "GPIO4"})
	test.That(t, ok, test.ShouldBeFalse)
}
