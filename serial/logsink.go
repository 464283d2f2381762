// Package serial implements the blargg test-ROM serial harness: a device
// wired to SB/SC that echoes transmitted bytes as text instead of talking
// to a real link-cable peer.
package serial

import (
	"bytes"
	"io"
	"log/slog"

	"github.com/dmg-core/dmgcore/addr"
)

// Sink is the minimal interface the bus needs from a serial device.
type Sink interface {
	// Write handles a bus write to SB or SC.
	Write(address uint16, value byte)
	// Read handles a bus read from SB or SC.
	Read(address uint16) byte
}

// LogSink implements the blargg convention:
// a write of exactly 0x81 to SC, with the byte to send already latched in
// SB, is a completed serial transfer. The transferred byte is appended to
// an internal buffer (retrievable with String, for tests) and written
// through to an io.Writer (stdout by default) as it arrives. SC is reset to
// 0 immediately after the transfer completes, matching real DMG hardware
// clearing the transfer-start bit when a transfer finishes.
//
// Unlike a real link-cable peer, LogSink never leaves a transfer pending:
// there is no bit-7/bit-0 handshake to wait on, since blargg ROMs only ever
// drive the internal clock and expect an immediate byte-perfect echo.
type LogSink struct {
	irqHandler func()
	out        io.Writer
	logger     *slog.Logger

	sb, sc byte
	buf    bytes.Buffer
	line   []byte
}

// NewLogSink creates a serial sink that writes transferred bytes to out and
// invokes irq (if non-nil) whenever a transfer completes, so the caller can
// wire the DMG serial interrupt.
func NewLogSink(out io.Writer, irq func()) *LogSink {
	return &LogSink{
		irqHandler: irq,
		out:        out,
		logger:     slog.Default(),
	}
}

func (s *LogSink) Write(address uint16, value byte) {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value
		if value == 0x81 {
			s.completeTransfer()
		}
	}
}

func (s *LogSink) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc
	default:
		return 0xFF
	}
}

func (s *LogSink) completeTransfer() {
	b := s.sb
	s.buf.WriteByte(b)

	if s.out != nil {
		s.out.Write([]byte{b})
	}

	if b == '\n' {
		if len(s.line) > 0 {
			s.logger.Debug("serial line", "text", string(s.line))
			s.line = s.line[:0]
		}
	} else {
		s.line = append(s.line, b)
	}

	s.sc = 0

	if s.irqHandler != nil {
		s.irqHandler()
	}
}

// String returns every byte transferred so far, concatenated. Used by the
// regression-anchor test to compare against the literal
// expected blargg cpu_instrs output.
func (s *LogSink) String() string {
	return s.buf.String()
}

// Reset clears the accumulated buffer and the SB/SC latches.
func (s *LogSink) Reset() {
	s.sb = 0
	s.sc = 0
	s.buf.Reset()
	s.line = s.line[:0]
}
