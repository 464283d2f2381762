package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLdRR_movesRegisterWithoutTouchingFlags(t *testing.T) {
	c, _ := newTestCPU(0x41) // LD B,C
	c.setFlag(flagZ)
	c.c = 0x99

	c.Step()

	assert.Equal(t, uint8(0x99), c.B())
	assert.True(t, c.hasFlag(flagZ))
}

func TestLdRHLInd_readsThroughHL(t *testing.T) {
	c, bus := newTestCPU(0x46) // LD B,(HL)
	c.setHL(0xC000)
	bus.Write(0xC000, 0x42)

	c.Step()

	assert.Equal(t, uint8(0x42), c.B())
}

func TestIncR8_flagRules(t *testing.T) {
	c, _ := newTestCPU(0x04) // INC B
	c.b = 0x0F

	c.Step()

	assert.Equal(t, uint8(0x10), c.B())
	assert.True(t, c.hasFlag(flagH))
	assert.False(t, c.hasFlag(flagZ))
}

func TestDecR8_halfCarryFromOldValue(t *testing.T) {
	c, _ := newTestCPU(0x05) // DEC B
	c.b = 0x10

	c.Step()

	assert.Equal(t, uint8(0x0F), c.B())
	assert.True(t, c.hasFlag(flagH))
	assert.True(t, c.hasFlag(flagN))
}

func TestIncDec16_noFlagsAffected(t *testing.T) {
	c, _ := newTestCPU(0x03) // INC BC
	c.setBC(0xFFFF)
	c.setFlag(flagZ)

	c.Step()

	assert.Equal(t, uint16(0x0000), c.BC())
	assert.True(t, c.hasFlag(flagZ))
}

func TestAddHL_setsCarryAndHalfCarry(t *testing.T) {
	c, _ := newTestCPU(0x09) // ADD HL,BC
	c.setHL(0xFFFF)
	c.setBC(0x0001)

	c.Step()

	assert.Equal(t, uint16(0x0000), c.HL())
	assert.True(t, c.hasFlag(flagC))
	assert.True(t, c.hasFlag(flagH))
}

func TestPushPop_roundTrips(t *testing.T) {
	c, _ := newTestCPU(0xC5, 0xD1) // PUSH BC ; POP DE
	c.setBC(0xBEEF)

	c.Step()
	c.Step()

	assert.Equal(t, uint16(0xBEEF), c.DE())
}

func TestPopAF_masksLowNibble(t *testing.T) {
	c, bus := newTestCPU(0xF1) // POP AF
	c.sp = 0xFFFC
	bus.Write(0xFFFC, 0x0F) // low byte of AF, would-be flags
	bus.Write(0xFFFD, 0xAB)

	c.Step()

	assert.Equal(t, uint8(0xAB), c.A())
	assert.Equal(t, uint8(0x00), c.F())
}

func TestRst_pushesAndJumps(t *testing.T) {
	c, _ := newTestCPU(0xEF) // RST 28H
	c.pc = 0x0200
	// re-place opcode since newTestCPU always loads at 0x0100
	c.bus.Write(0x0200, 0xEF)

	c.Step()

	assert.Equal(t, uint16(0x0028), c.PC())
	assert.Equal(t, uint16(0x0201), c.popWord())
}

func TestConditionalJp_notTakenAdvancesPastOperand(t *testing.T) {
	c, _ := newTestCPU(0xCA, 0x00, 0xC0) // JP Z,0xC000, Z not set
	c.clearFlag(flagZ)

	cycles := c.Step()

	assert.Equal(t, uint16(0x0103), c.PC())
	assert.Equal(t, 3, cycles)
}

func TestConditionalCall_takenPushesReturnAddress(t *testing.T) {
	c, _ := newTestCPU(0xCC, 0x00, 0xC0) // CALL Z,0xC000
	c.setFlag(flagZ)

	cycles := c.Step()

	assert.Equal(t, uint16(0xC000), c.PC())
	assert.Equal(t, 6, cycles)
	assert.Equal(t, uint16(0x0103), c.popWord())
}

func TestAnd_alwaysClearsCarry(t *testing.T) {
	c, _ := newTestCPU(0xA0) // AND B
	c.a = 0xFF
	c.b = 0x0F
	c.setFlag(flagC)

	c.Step()

	assert.Equal(t, uint8(0x0F), c.A())
	assert.False(t, c.hasFlag(flagC))
	assert.True(t, c.hasFlag(flagH))
}

func TestSubtractWithBorrow_setsCarryOnUnderflow(t *testing.T) {
	c, _ := newTestCPU(0x90) // SUB B
	c.a = 0x00
	c.b = 0x01

	c.Step()

	assert.Equal(t, uint8(0xFF), c.A())
	assert.True(t, c.hasFlag(flagC))
	assert.True(t, c.hasFlag(flagH))
}

func TestAdcWithIncomingCarry(t *testing.T) {
	c, _ := newTestCPU(0x89) // ADC A,C
	c.a = 0x0F
	c.c = 0x00
	c.setFlag(flagC)

	c.Step()

	assert.Equal(t, uint8(0x10), c.A())
	assert.True(t, c.hasFlag(flagH))
	assert.False(t, c.hasFlag(flagC))
}

func TestLdhIoRegisterRoundTrips(t *testing.T) {
	c, bus := newTestCPU(0xE0, 0x47, 0xF0, 0x47) // LDH (0x47),A ; LDH A,(0x47)
	c.a = 0x5A

	c.Step()
	assert.Equal(t, byte(0x5A), bus.Read(0xFF47))

	c.a = 0
	c.Step()
	assert.Equal(t, uint8(0x5A), c.A())
}
