// Package cpu implements the Sharp SM83 instruction set interpreter: fetch,
// decode, execute and flag computation for all 256 primary opcodes and the
// 256 0xCB-prefixed opcodes.
//
// The register file uses flat uint8 fields plus a Bus interface, rather
// than a union-of-halves register type.
package cpu

import (
	"fmt"

	"github.com/dmg-core/dmgcore/addr"
	"github.com/dmg-core/dmgcore/bit"
)

// Bus is everything the CPU needs from the memory bus: byte-addressed
// read/write. The CPU never needs to know about boot ROM overlays, MBC
// banking or the serial sink; those live entirely on the bus side of this
// interface, keeping the CPU decoupled from whatever owns the address
// space.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
}

// IllegalOpcodeError is raised (via panic, recovered by the driver) when
// the CPU fetches one of the undefined SM83 primary opcodes. These are
// treated as fatal rather than silently degrading to NOP.
type IllegalOpcodeError struct {
	PC     uint16
	Opcode uint8
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("cpu: illegal opcode 0x%02X at PC=0x%04X", e.Opcode, e.PC)
}

// CPU holds the SM83 register file and the handful of latches needed to
// interpret HALT/STOP/interrupt semantics.
type CPU struct {
	a, f, b, c, d, e, h, l uint8
	sp, pc                 uint16

	ime    bool // interrupt master enable
	halted bool

	// eiPending implements the one-instruction EI delay real hardware has:
	// EI is only committed to ime after the instruction following it has
	// executed.
	eiPending bool

	// haltBug models the HALT bug: when a halted CPU with ime=0 is woken
	// by a pending enabled interrupt (whether it was pending when HALT
	// executed or became pending later), the next opcode fetch does not
	// advance PC, so the byte after HALT is read twice. Set by
	// serviceInterrupts, consumed by the fetch in the same Step.
	haltBug bool

	currentOpcode uint16 // 0xXX for primary, 0xCBXX for prefixed; used for diagnostics

	cycles uint64

	bus Bus
}

// Option configures a CPU at construction time.
type Option func(*CPU)

// WithBootROMState initializes the CPU to its power-on state for running
// the boot ROM overlay: PC=0x0000 and every register zero (the
// boot-enabled initial values). By default, New starts the CPU in the
// skip-boot state.
func WithBootROMState() Option {
	return func(c *CPU) {
		c.pc = 0x0000
		c.sp = 0
		c.setAF(0)
		c.setBC(0)
		c.setDE(0)
		c.setHL(0)
	}
}

// New creates a CPU wired to bus, initialized to the post-boot register
// values (PC=0x0100, SP=0xFFFE, AF=0x01B0, BC=0x0013,
// DE=0x00D8, HL=0x014D) unless overridden by an Option such as
// WithBootROMState.
func New(bus Bus, opts ...Option) *CPU {
	c := &CPU{bus: bus}

	c.pc = 0x0100
	c.sp = 0xFFFE
	c.setAF(0x01B0)
	c.setBC(0x0013)
	c.setDE(0x00D8)
	c.setHL(0x014D)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Step fetches, decodes and executes a single instruction, returning the
// number of m-cycles it cost. If the CPU is halted and no
// interrupt is pending, Step consumes a single m-cycle without touching PC
// or memory.
//
// Step panics with an *IllegalOpcodeError if the fetched primary opcode is
// one of the eleven SM83 opcodes with no defined behavior; the
// driver is expected to recover this at its own boundary.
func (c *CPU) Step() int {
	woken, dispatched := c.serviceInterrupts()

	if c.halted {
		if woken {
			c.halted = false
		} else {
			c.cycles++
			return 1
		}
	}

	if dispatched {
		return 20
	}

	skipFetchAdvance := c.haltBug
	c.haltBug = false

	opcode := c.bus.Read(c.pc)
	if !skipFetchAdvance {
		c.pc++
	}

	// commit captures the EI delay latch before executing this
	// instruction, so an EI encountered *during* this instruction only
	// takes effect at the end of the *next* Step.
	commit := c.eiPending

	var cycles int
	if opcode == 0xCB {
		cbOpcode := c.bus.Read(c.pc)
		c.pc++
		c.currentOpcode = bit.Combine(0xCB, cbOpcode)
		cycles = cbOpcodes[cbOpcode](c)
	} else {
		c.currentOpcode = uint16(opcode)
		handler := primaryOpcodes[opcode]
		if handler == nil {
			panic(&IllegalOpcodeError{PC: c.pc - 1, Opcode: opcode})
		}
		cycles = handler(c)
	}

	c.cycles += uint64(cycles)

	if commit {
		c.eiPending = false
		c.ime = true
	}

	return cycles
}

// serviceInterrupts implements interrupt dispatch: if ime is
// set and IE & IF share a set bit, the highest-priority (lowest-index)
// pending interrupt is acknowledged: ime is cleared, PC is pushed, PC jumps
// to its vector, and its IF bit is cleared. woken reports whether any
// enabled interrupt is currently pending, which is what wakes the CPU from
// HALT even when ime is 0 (the HALT-bug precondition); dispatched reports
// whether a full push-and-jump actually happened, in which case Step must
// not also fetch and execute an instruction this call.
func (c *CPU) serviceInterrupts() (woken, dispatched bool) {
	ie := c.bus.Read(addr.IE)
	iflag := c.bus.Read(addr.IF)
	pending := ie&iflag != 0

	if !pending {
		return false, false
	}

	if !c.ime {
		// ime=0 and a pending interrupt: a halted CPU wakes but does not
		// service anything, and the next fetch re-reads the opcode byte
		// (the HALT bug).
		if c.halted {
			c.haltBug = true
		}
		return true, false
	}

	for i := uint8(0); i < 5; i++ {
		mask := byte(1) << i
		if ie&mask != 0 && iflag&mask != 0 {
			c.bus.Write(addr.IF, iflag&^mask)
			c.pushWord(c.pc)
			c.pc = addr.BaseInterruptVector + uint16(i)*8
			c.ime = false
			c.cycles += 20
			return true, true
		}
	}

	return true, false
}

// GetCycles returns the running m-cycle count since construction.
func (c *CPU) GetCycles() uint64 { return c.cycles }

// IsHalted reports whether the CPU is currently in the HALT state.
func (c *CPU) IsHalted() bool { return c.halted }

// IME reports the interrupt master enable latch.
func (c *CPU) IME() bool { return c.ime }

// Registers below are read-only accessors for tests and debug tooling
// public read-only access to the register file, for tests and debug tooling.
func (c *CPU) A() uint8    { return c.a }
func (c *CPU) F() uint8    { return c.f }
func (c *CPU) B() uint8    { return c.b }
func (c *CPU) C() uint8    { return c.c }
func (c *CPU) D() uint8    { return c.d }
func (c *CPU) E() uint8    { return c.e }
func (c *CPU) H() uint8    { return c.h }
func (c *CPU) L() uint8    { return c.l }
func (c *CPU) SP() uint16  { return c.sp }
func (c *CPU) PC() uint16  { return c.pc }
func (c *CPU) AF() uint16  { return c.getAF() }
func (c *CPU) BC() uint16  { return c.getBC() }
func (c *CPU) DE() uint16  { return c.getDE() }
func (c *CPU) HL() uint16  { return c.getHL() }

// FlagString renders the Z/N/H/C flags as a 4-character string, "-" for an
// unset flag, used by the CLI's --debug trace.
func (c *CPU) FlagString() string {
	out := [4]byte{'-', '-', '-', '-'}
	if c.hasFlag(flagZ) {
		out[0] = 'Z'
	}
	if c.hasFlag(flagN) {
		out[1] = 'N'
	}
	if c.hasFlag(flagH) {
		out[2] = 'H'
	}
	if c.hasFlag(flagC) {
		out[3] = 'C'
	}
	return string(out[:])
}

// --- immediate decoding helpers ---

func (c *CPU) readU8() uint8 {
	v := c.bus.Read(c.pc)
	c.pc++
	return v
}

func (c *CPU) readI8() int8 {
	return int8(c.readU8())
}

func (c *CPU) readU16() uint16 {
	low := c.readU8()
	high := c.readU8()
	return bit.Combine(high, low)
}

// --- stack helpers (PUSH writes high then low; POP reads
// low then high) ---

func (c *CPU) pushWord(v uint16) {
	c.sp--
	c.bus.Write(c.sp, bit.High(v))
	c.sp--
	c.bus.Write(c.sp, bit.Low(v))
}

func (c *CPU) popWord() uint16 {
	low := c.bus.Read(c.sp)
	c.sp++
	high := c.bus.Read(c.sp)
	c.sp++
	return bit.Combine(high, low)
}

// Name returns a human-readable mnemonic for the instruction the CPU last
// fetched, for --debug tracing.
func (c *CPU) Name() string {
	if bit.High(c.currentOpcode) == 0xCB {
		return cbMnemonics[bit.Low(c.currentOpcode)]
	}
	return primaryMnemonics[bit.Low(c.currentOpcode)]
}
