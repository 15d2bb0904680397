package ili9341

import (
	"time"

	"github.com/pkg/errors"
	"periph.io/x/devices/v3/ili9341/bus"
)

// Controller opcodes.
const (
	cmdNOP        = 0x00
	cmdSWRESET    = 0x01
	cmdRDDID      = 0x04
	cmdRDDST      = 0x09
	cmdRDMODE     = 0x0A
	cmdRDMADCTL   = 0x0B
	cmdRDPIXFMT   = 0x0C
	cmdRDIMGFMT   = 0x0D
	cmdRDSELFDIAG = 0x0F
	cmdSLPIN      = 0x10
	cmdSLPOUT     = 0x11
	cmdPTLON      = 0x12
	cmdNORON      = 0x13
	cmdINVOFF     = 0x20
	cmdINVON      = 0x21
	cmdGAMMASET   = 0x26
	cmdDISPOFF    = 0x28
	cmdDISPON     = 0x29
	cmdCASET      = 0x2A
	cmdPASET      = 0x2B
	cmdRAMWR      = 0x2C
	cmdRAMRD      = 0x2E
	cmdPTLAR      = 0x30
	cmdVSCRDEF    = 0x33
	cmdMADCTL     = 0x36
	cmdVSCRSADD   = 0x37
	cmdPIXFMT     = 0x3A
	cmdFRMCTR1    = 0xB1
	cmdFRMCTR2    = 0xB2
	cmdFRMCTR3    = 0xB3
	cmdINVCTR     = 0xB4
	cmdDFUNCTR    = 0xB6
	cmdPWCTR1     = 0xC0
	cmdPWCTR2     = 0xC1
	cmdPWCTR3     = 0xC2
	cmdPWCTR4     = 0xC3
	cmdPWCTR5     = 0xC4
	cmdVMCTR1     = 0xC5
	cmdVMCTR2     = 0xC7
	cmdRDID1      = 0xDA
	cmdRDID2      = 0xDB
	cmdRDID3      = 0xDC
	cmdRDID4      = 0xDD
	cmdGMCTRP1    = 0xE0
	cmdGMCTRN1    = 0xE1

	// cmdExtIndex selects which parameter byte the next read command
	// returns. It is undocumented.
	cmdExtIndex = 0xD9
)

// MADCTL bits.
const (
	madctlMY  = 0x80
	madctlMX  = 0x40
	madctlMV  = 0x20
	madctlML  = 0x10
	madctlRGB = 0x00
	madctlBGR = 0x08
	madctlMH  = 0x04
)

// Command is one entry of an initialization table.
type Command struct {
	Cmd   byte
	Args  []byte
	Delay time.Duration
}

// defaultInit is the power-on sequence for a typical 2.2" to 2.8" module.
// SLPOUT and DISPON are sent separately.
var defaultInit = []Command{
	{Cmd: 0xEF, Args: []byte{0x03, 0x80, 0x02}},
	{Cmd: 0xCF, Args: []byte{0x00, 0xC1, 0x30}},
	{Cmd: 0xED, Args: []byte{0x64, 0x03, 0x12, 0x81}},
	{Cmd: 0xE8, Args: []byte{0x85, 0x00, 0x78}},
	{Cmd: 0xCB, Args: []byte{0x39, 0x2C, 0x00, 0x34, 0x02}},
	{Cmd: 0xF7, Args: []byte{0x20}},
	{Cmd: 0xEA, Args: []byte{0x00, 0x00}},
	{Cmd: cmdPWCTR1, Args: []byte{0x23}},       // VRH[5:0]
	{Cmd: cmdPWCTR2, Args: []byte{0x10}},       // SAP[2:0];BT[3:0]
	{Cmd: cmdVMCTR1, Args: []byte{0x3E, 0x28}}, // contrast
	{Cmd: cmdVMCTR2, Args: []byte{0x86}},
	{Cmd: cmdMADCTL, Args: []byte{madctlMX | madctlBGR}},
	{Cmd: cmdPIXFMT, Args: []byte{0x55}},
	{Cmd: cmdFRMCTR1, Args: []byte{0x00, 0x18}},
	{Cmd: cmdDFUNCTR, Args: []byte{0x08, 0x82, 0x27}},
	{Cmd: 0xF2, Args: []byte{0x00}}, // 3Gamma off
	{Cmd: cmdGAMMASET, Args: []byte{0x01}},
	{Cmd: cmdGMCTRP1, Args: []byte{0x0F, 0x31, 0x2B, 0x0C, 0x0E, 0x08, 0x4E, 0xF1, 0x37, 0x07, 0x10, 0x03, 0x0E, 0x09, 0x00}},
	{Cmd: cmdGMCTRN1, Args: []byte{0x00, 0x0E, 0x14, 0x03, 0x11, 0x07, 0x31, 0xC1, 0x48, 0x08, 0x0F, 0x0C, 0x31, 0x36, 0x0F}},
}

// ParseCommandList decodes a packed table: a command count, then for each
// command its opcode, an argument count whose 0x80 bit requests a delay
// byte, the arguments, and the delay in milliseconds when requested. A delay
// byte of 255 means 500ms.
func ParseCommandList(b []byte) ([]Command, error) {
	if len(b) == 0 {
		return nil, errors.Wrap(errShortTable, "missing count")
	}
	n := int(b[0])
	b = b[1:]
	cmds := make([]Command, 0, n)
	for i := 0; i < n; i++ {
		if len(b) < 2 {
			return nil, errors.Wrapf(errShortTable, "command %d", i)
		}
		c := Command{Cmd: b[0]}
		argc := int(b[1] &^ 0x80)
		delay := b[1]&0x80 != 0
		b = b[2:]
		if len(b) < argc {
			return nil, errors.Wrapf(errShortTable, "arguments of command %#02x", c.Cmd)
		}
		c.Args = append([]byte(nil), b[:argc]...)
		b = b[argc:]
		if delay {
			if len(b) < 1 {
				return nil, errors.Wrapf(errShortTable, "delay of command %#02x", c.Cmd)
			}
			ms := int(b[0])
			if ms == 255 {
				ms = 500
			}
			c.Delay = time.Duration(ms) * time.Millisecond
			b = b[1:]
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}

// sendCommands streams cmds, one session per run of commands that ends
// with a delayed command or with the end of cmds. The final unit of each
// session is last framed and delays run with the bus released.
func (d *Dev) sendCommands(cmds []Command) error {
	for len(cmds) > 0 {
		n := len(cmds)
		for i, c := range cmds {
			if c.Delay > 0 {
				n = i + 1
				break
			}
		}
		run := cmds[:n]
		cmds = cmds[n:]
		err := d.b.Do(d.settings, d.lines, func(s *bus.Session) error {
			for i, c := range run {
				last := i == len(run)-1
				f := bus.Continue
				if last && len(c.Args) == 0 {
					f = bus.Last
				}
				s.Command(c.Cmd, f)
				for j, a := range c.Args {
					af := bus.Continue
					if last && j == len(c.Args)-1 {
						af = bus.Last
					}
					s.Data8(a, af)
				}
			}
			return s.Err()
		})
		if err != nil {
			return err
		}
		if delay := run[n-1].Delay; delay > 0 {
			d.sleep(delay)
		}
	}
	return nil
}
