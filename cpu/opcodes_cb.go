package cpu

// opcodes_cb.go builds the 256-entry CB-prefixed opcode table entirely by
// bit-field decoding: bits 7-6 select the group (rotate/
// shift family, BIT, RES, SET), bits 5-3 select the sub-operation or bit
// index, and bits 2-0 select the register-field operand.

func init() {
	shiftOps := [8]func(c *CPU, v uint8) uint8{
		func(c *CPU, v uint8) uint8 { return rotateLeft(c, v, false) },
		func(c *CPU, v uint8) uint8 { return rotateRight(c, v, false) },
		func(c *CPU, v uint8) uint8 { return rotateLeft(c, v, true) },
		func(c *CPU, v uint8) uint8 { return rotateRight(c, v, true) },
		shiftLeftArith,
		shiftRightArith,
		swapNibbles,
		shiftRightLogical,
	}
	shiftNames := [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}

	for group := uint8(0); group < 8; group++ {
		for reg := uint8(0); reg < 8; reg++ {
			opcode := group<<3 | reg
			op, r := shiftOps[group], reg
			cost := 2 + reg8Cycles(r, 2)
			cbOpcodes[opcode] = func(c *CPU) int {
				result := op(c, c.getReg8(r))
				c.assignFlag(flagZ, result == 0)
				c.setReg8(r, result)
				return cost
			}
			cbMnemonics[opcode] = shiftNames[group]
		}
	}

	for bitIndex := uint8(0); bitIndex < 8; bitIndex++ {
		for reg := uint8(0); reg < 8; reg++ {
			r, idx := reg, bitIndex

			bitOpcode := 0x40 | idx<<3 | r
			cost := 2 + reg8Cycles(r, 1)
			cbOpcodes[bitOpcode] = func(c *CPU) int {
				val := c.getReg8(r)
				c.assignFlag(flagZ, val&(1<<idx) == 0)
				c.clearFlag(flagN)
				c.setFlag(flagH)
				return cost
			}
			cbMnemonics[bitOpcode] = "BIT b,r"

			resOpcode := 0x80 | idx<<3 | r
			resCost := 2 + reg8Cycles(r, 2)
			cbOpcodes[resOpcode] = func(c *CPU) int {
				c.setReg8(r, c.getReg8(r)&^(1<<idx))
				return resCost
			}
			cbMnemonics[resOpcode] = "RES b,r"

			setOpcode := 0xC0 | idx<<3 | r
			cbOpcodes[setOpcode] = func(c *CPU) int {
				c.setReg8(r, c.getReg8(r)|1<<idx)
				return resCost
			}
			cbMnemonics[setOpcode] = "SET b,r"
		}
	}
}
