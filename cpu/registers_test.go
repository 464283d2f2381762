package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReg8_roundTripsThroughAllIndices(t *testing.T) {
	c, _ := newTestCPU()
	c.setHL(0xC000)

	for idx := uint8(0); idx < 8; idx++ {
		c.setReg8(idx, 0x5A)
		assert.Equal(t, uint8(0x5A), c.getReg8(idx), "index %d", idx)
	}
}

func TestReg8_invalidIndexPanics(t *testing.T) {
	c, _ := newTestCPU()
	assert.Panics(t, func() { c.getReg8(8) })
}

func TestPairAccessors_roundTrip(t *testing.T) {
	c, _ := newTestCPU()

	c.setBC(0x1234)
	assert.Equal(t, uint16(0x1234), c.getBC())

	c.setDE(0x5678)
	assert.Equal(t, uint16(0x5678), c.getDE())

	c.setHL(0x9ABC)
	assert.Equal(t, uint16(0x9ABC), c.getHL())
}

func TestSetAF_masksLowNibble(t *testing.T) {
	c, _ := newTestCPU()

	c.setAF(0xAB0F)

	assert.Equal(t, uint8(0xAB), c.A())
	assert.Equal(t, uint8(0x00), c.F())
}

func TestFlagHelpers(t *testing.T) {
	c, _ := newTestCPU()

	c.setFlag(flagZ)
	assert.True(t, c.hasFlag(flagZ))

	c.clearFlag(flagZ)
	assert.False(t, c.hasFlag(flagZ))

	c.assignFlag(flagC, true)
	assert.Equal(t, uint8(1), c.carryBit())

	c.assignFlag(flagC, false)
	assert.Equal(t, uint8(0), c.carryBit())
}
