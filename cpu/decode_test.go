package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// illegalOpcodes lists the eleven SM83 primary opcodes with no defined
// behavior; every other primary slot except the 0xCB prefix must be
// populated.
var illegalOpcodes = map[uint8]bool{
	0xD3: true, 0xDB: true, 0xDD: true, 0xE3: true, 0xE4: true,
	0xEB: true, 0xEC: true, 0xED: true, 0xF4: true, 0xFC: true, 0xFD: true,
}

func TestDecode_everyLegalPrimaryOpcodeIsPopulated(t *testing.T) {
	for opcode := 0; opcode < 256; opcode++ {
		if opcode == 0xCB {
			// The prefix byte has no primary handler: Step dispatches it to cbOpcodes.
			assert.Nil(t, primaryOpcodes[opcode], "opcode 0xCB is the prefix, dispatched by Step")
			continue
		}
		if illegalOpcodes[uint8(opcode)] {
			assert.Nil(t, primaryOpcodes[opcode], "opcode 0x%02X should be illegal", opcode)
			continue
		}
		assert.NotNil(t, primaryOpcodes[opcode], "opcode 0x%02X should be implemented", opcode)
	}
}

func TestDecode_everyCBOpcodeIsPopulated(t *testing.T) {
	for opcode := 0; opcode < 256; opcode++ {
		assert.NotNil(t, cbOpcodes[opcode], "CB opcode 0x%02X should be implemented", opcode)
	}
}

func TestDecode_namePicksUpCBPrefix(t *testing.T) {
	c, _ := newTestCPU(0xCB, 0x00) // RLC B

	c.Step()

	assert.Equal(t, "RLC", c.Name())
}

func TestDecode_namePrimary(t *testing.T) {
	c, _ := newTestCPU(0x00)

	c.Step()

	assert.Equal(t, "NOP", c.Name())
}
