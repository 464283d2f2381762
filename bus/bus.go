// Package bus implements the DMG memory map: a 16-bit address space split
// into boot-ROM overlay, cartridge ROM (bank 0 fixed, bank N switchable via
// MBC1-minimal banking), VRAM, external RAM stub, WRAM with its Echo
// mirror, OAM, an unusable range, the I/O register file, HRAM, and the
// interrupt-enable byte.
//
// There's no timer, joypad, APU or PPU-facing behavior here beyond raw
// storage — this bus backs a CPU/memory core, not a full console.
package bus

import (
	"github.com/dmg-core/dmgcore/addr"
	"github.com/dmg-core/dmgcore/serial"
)

const bootROMSize = 256

// Bus is the DMG memory bus. It owns every RAM region and the cartridge
// image; the CPU holds only a non-owning reference to it.
type Bus struct {
	vram [0x2000]byte
	wram [0x2000]byte
	oam  [0xA0]byte
	io   [0x80]byte
	hram [0x7F]byte
	ie   byte

	cart *Cartridge

	bootROM     []byte
	bootEnabled bool

	// romBank is the currently selected switchable ROM bank, always >= 1.
	romBank int

	serial serial.Sink
}

// Option configures a Bus at construction time.
type Option func(*Bus)

// WithBootROM loads a 256-byte boot ROM overlay and enables it. If boot is
// nil or the wrong length, boot-ROM support is left disabled.
func WithBootROM(boot []byte) Option {
	return func(b *Bus) {
		if len(boot) != bootROMSize {
			return
		}
		b.bootROM = make([]byte, bootROMSize)
		copy(b.bootROM, boot)
		b.bootEnabled = true
	}
}

// WithSerialSink attaches a serial device, so callers can observe
// blargg-style test output. Without one, SB and SC behave as plain I/O
// registers and no transfer is emitted.
func WithSerialSink(sink serial.Sink) Option {
	return func(b *Bus) { b.serial = sink }
}

// New creates a Bus around the given cartridge image. All RAM regions start
// zeroed; the boot ROM is disabled unless WithBootROM is supplied.
func New(cart *Cartridge, opts ...Option) *Bus {
	b := &Bus{
		cart:    cart,
		romBank: 1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BootEnabled reports whether the boot-ROM overlay is currently mapped at
// 0x0000-0x00FF. It only ever transitions true -> false.
func (b *Bus) BootEnabled() bool {
	return b.bootEnabled
}

// Read resolves a 16-bit address to its backing byte. Reads never fail:
// out-of-range or unmapped addresses degrade to 0xFF.
func (b *Bus) Read(address uint16) byte {
	switch {
	case address <= addr.BootROMEnd && b.bootEnabled:
		return b.bootROM[address]
	case address <= addr.CartBankZeroEnd:
		return b.readCart(int(address))
	case address <= addr.CartBankNEnd:
		return b.readCart(b.romBank*0x4000 + int(address-addr.CartBankNStart))
	case address <= addr.VRAMEnd:
		return b.vram[address-addr.VRAMStart]
	case address <= addr.ExtRAMEnd:
		return 0xFF // external RAM stub
	case address <= addr.WRAMEnd:
		return b.wram[address-addr.WRAMStart]
	case address <= addr.EchoEnd:
		return b.wram[address-addr.EchoStart]
	case address <= addr.OAMEnd:
		return b.oam[address-addr.OAMStart]
	case address <= addr.UnusableEnd:
		return 0xFF
	case address == addr.SB, address == addr.SC:
		return b.readSerial(address)
	case address <= addr.IOEnd:
		return b.io[address-addr.IOStart]
	case address <= addr.HRAMEnd:
		return b.hram[address-addr.HRAMStart]
	case address == addr.IE:
		return b.ie
	default:
		return 0xFF
	}
}

// Write stores a byte at a 16-bit address, applying the region-specific
// side effects (MBC1 bank select, boot-ROM unlock, the blargg serial
// convention, the unusable range's discard-on-write rule). Writes never
// fail.
func (b *Bus) Write(address uint16, value byte) {
	switch {
	case address <= addr.RAMEnableEnd:
		// external RAM enable/disable: stubbed, ignored.
	case address <= addr.ROMBankSelectEnd:
		b.setROMBank(value)
	case address <= addr.RAMBankSelectEnd:
		// upper bank bits / MBC1 mode select: accepted, ignored (MBC1-minimal).
	case address <= addr.VRAMEnd:
		b.vram[address-addr.VRAMStart] = value
	case address <= addr.ExtRAMEnd:
		// external RAM stub: ignored.
	case address <= addr.WRAMEnd:
		b.wram[address-addr.WRAMStart] = value
	case address <= addr.EchoEnd:
		b.wram[address-addr.EchoStart] = value
	case address <= addr.OAMEnd:
		b.oam[address-addr.OAMStart] = value
	case address <= addr.UnusableEnd:
		// discarded.
	case address == addr.BootLock:
		if value != 0 {
			b.bootEnabled = false
		}
	case address == addr.SB, address == addr.SC:
		b.writeSerial(address, value)
	case address <= addr.IOEnd:
		b.io[address-addr.IOStart] = value
	case address <= addr.HRAMEnd:
		b.hram[address-addr.HRAMStart] = value
	case address == addr.IE:
		b.ie = value
	}
}

// RequestInterrupt sets the given interrupt's bit in the IF register
// (0xFF0F), the only mechanism by which anything other than the CPU itself
// signals a pending interrupt in this core (the serial sink uses it to
// raise the Serial interrupt on transfer completion).
func (b *Bus) RequestInterrupt(interrupt addr.Interrupt) {
	b.io[addr.IF-addr.IOStart] |= byte(interrupt)
}

func (b *Bus) readCart(offset int) byte {
	if b.cart == nil {
		return 0xFF
	}
	return b.cart.ReadByte(offset)
}

// setROMBank implements MBC1-minimal bank select: the low 5 bits of value
// select the bank, a result of 0 is coerced to 1, and the result is
// clamped modulo the cartridge's bank count.
func (b *Bus) setROMBank(value byte) {
	bank := int(value & 0x1F)
	if bank == 0 {
		bank = 1
	}
	if b.cart != nil {
		if count := b.cart.BankCount(); count > 0 {
			bank = bank % count
			if bank == 0 {
				bank = 1
			}
		}
	}
	b.romBank = bank
}

// readSerial and writeSerial keep SB/SC backed by the plain I/O array (so a
// Bus with no attached sink behaves like any other I/O register) while also
// forwarding to the attached serial.Sink, which owns the 0x81-write
// transfer convention.
func (b *Bus) readSerial(address uint16) byte {
	if b.serial != nil {
		return b.serial.Read(address)
	}
	return b.io[address-addr.IOStart]
}

func (b *Bus) writeSerial(address uint16, value byte) {
	b.io[address-addr.IOStart] = value
	if b.serial != nil {
		b.serial.Write(address, value)
	}
}
