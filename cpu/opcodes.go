package cpu

import "github.com/dmg-core/dmgcore/bit"

// opcodes.go builds the 256-entry primary opcode table. The ~200 heavily
// regular opcodes (LD r,r', ALU A,r/n, INC/DEC r8/r16, LD rr,nn, ADD
// HL,rr, PUSH/POP, RST, conditional JP/JR/CALL/RET) are generated from
// their bit-field encoding in init(); the rest are hand-written, one
// function per opcode.

func init() {
	primaryOpcodes[0x00] = func(c *CPU) int { return 1 }
	primaryMnemonics[0x00] = "NOP"

	primaryOpcodes[0x10] = func(c *CPU) int {
		c.readU8() // STOP's second byte, conventionally 0x00, is discarded.
		c.halted = true
		return 1
	}
	primaryMnemonics[0x10] = "STOP"

	primaryOpcodes[0x76] = func(c *CPU) int {
		c.halted = true
		return 1
	}
	primaryMnemonics[0x76] = "HALT"

	primaryOpcodes[0xF3] = func(c *CPU) int {
		c.ime = false
		c.eiPending = false
		return 1
	}
	primaryMnemonics[0xF3] = "DI"

	primaryOpcodes[0xFB] = func(c *CPU) int {
		c.eiPending = true
		return 1
	}
	primaryMnemonics[0xFB] = "EI"

	primaryOpcodes[0x07] = func(c *CPU) int {
		c.a = rotateLeft(c, c.a, false)
		c.clearFlag(flagZ)
		return 1
	}
	primaryMnemonics[0x07] = "RLCA"

	primaryOpcodes[0x17] = func(c *CPU) int {
		c.a = rotateLeft(c, c.a, true)
		c.clearFlag(flagZ)
		return 1
	}
	primaryMnemonics[0x17] = "RLA"

	primaryOpcodes[0x0F] = func(c *CPU) int {
		c.a = rotateRight(c, c.a, false)
		c.clearFlag(flagZ)
		return 1
	}
	primaryMnemonics[0x0F] = "RRCA"

	primaryOpcodes[0x1F] = func(c *CPU) int {
		c.a = rotateRight(c, c.a, true)
		c.clearFlag(flagZ)
		return 1
	}
	primaryMnemonics[0x1F] = "RRA"

	primaryOpcodes[0x27] = func(c *CPU) int {
		execDAA(c)
		return 1
	}
	primaryMnemonics[0x27] = "DAA"

	primaryOpcodes[0x2F] = func(c *CPU) int {
		c.a = ^c.a
		c.setFlag(flagN)
		c.setFlag(flagH)
		return 1
	}
	primaryMnemonics[0x2F] = "CPL"

	primaryOpcodes[0x37] = func(c *CPU) int {
		c.clearFlag(flagN)
		c.clearFlag(flagH)
		c.setFlag(flagC)
		return 1
	}
	primaryMnemonics[0x37] = "SCF"

	primaryOpcodes[0x3F] = func(c *CPU) int {
		c.clearFlag(flagN)
		c.clearFlag(flagH)
		c.assignFlag(flagC, !c.hasFlag(flagC))
		return 1
	}
	primaryMnemonics[0x3F] = "CCF"

	// 16-bit immediate/indirect loads and pointer-walk forms.
	primaryOpcodes[0x02] = func(c *CPU) int { c.bus.Write(c.getBC(), c.a); return 2 }
	primaryMnemonics[0x02] = "LD (BC),A"
	primaryOpcodes[0x12] = func(c *CPU) int { c.bus.Write(c.getDE(), c.a); return 2 }
	primaryMnemonics[0x12] = "LD (DE),A"
	primaryOpcodes[0x0A] = func(c *CPU) int { c.a = c.bus.Read(c.getBC()); return 2 }
	primaryMnemonics[0x0A] = "LD A,(BC)"
	primaryOpcodes[0x1A] = func(c *CPU) int { c.a = c.bus.Read(c.getDE()); return 2 }
	primaryMnemonics[0x1A] = "LD A,(DE)"

	primaryOpcodes[0x22] = func(c *CPU) int {
		hl := c.getHL()
		c.bus.Write(hl, c.a)
		c.setHL(hl + 1)
		return 2
	}
	primaryMnemonics[0x22] = "LD (HL+),A"
	primaryOpcodes[0x2A] = func(c *CPU) int {
		hl := c.getHL()
		c.a = c.bus.Read(hl)
		c.setHL(hl + 1)
		return 2
	}
	primaryMnemonics[0x2A] = "LD A,(HL+)"
	primaryOpcodes[0x32] = func(c *CPU) int {
		hl := c.getHL()
		c.bus.Write(hl, c.a)
		c.setHL(hl - 1)
		return 2
	}
	primaryMnemonics[0x32] = "LD (HL-),A"
	primaryOpcodes[0x3A] = func(c *CPU) int {
		hl := c.getHL()
		c.a = c.bus.Read(hl)
		c.setHL(hl - 1)
		return 2
	}
	primaryMnemonics[0x3A] = "LD A,(HL-)"

	primaryOpcodes[0x08] = func(c *CPU) int {
		addr := c.readU16()
		c.bus.Write(addr, bit.Low(c.sp))
		c.bus.Write(addr+1, bit.High(c.sp))
		return 5
	}
	primaryMnemonics[0x08] = "LD (nn),SP"

	primaryOpcodes[0xE0] = func(c *CPU) int {
		offset := c.readU8()
		c.bus.Write(0xFF00+uint16(offset), c.a)
		return 3
	}
	primaryMnemonics[0xE0] = "LDH (n),A"
	primaryOpcodes[0xF0] = func(c *CPU) int {
		offset := c.readU8()
		c.a = c.bus.Read(0xFF00 + uint16(offset))
		return 3
	}
	primaryMnemonics[0xF0] = "LDH A,(n)"
	primaryOpcodes[0xE2] = func(c *CPU) int { c.bus.Write(0xFF00+uint16(c.c), c.a); return 2 }
	primaryMnemonics[0xE2] = "LD (C),A"
	primaryOpcodes[0xF2] = func(c *CPU) int { c.a = c.bus.Read(0xFF00 + uint16(c.c)); return 2 }
	primaryMnemonics[0xF2] = "LD A,(C)"

	primaryOpcodes[0xEA] = func(c *CPU) int { c.bus.Write(c.readU16(), c.a); return 4 }
	primaryMnemonics[0xEA] = "LD (nn),A"
	primaryOpcodes[0xFA] = func(c *CPU) int { c.a = c.bus.Read(c.readU16()); return 4 }
	primaryMnemonics[0xFA] = "LD A,(nn)"

	primaryOpcodes[0xE9] = func(c *CPU) int { c.pc = c.getHL(); return 1 }
	primaryMnemonics[0xE9] = "JP (HL)"

	primaryOpcodes[0xF9] = func(c *CPU) int { c.sp = c.getHL(); return 2 }
	primaryMnemonics[0xF9] = "LD SP,HL"

	primaryOpcodes[0xE8] = func(c *CPU) int {
		e := c.readI8()
		c.sp = addSPSigned(c, e)
		return 4
	}
	primaryMnemonics[0xE8] = "ADD SP,e"

	primaryOpcodes[0xF8] = func(c *CPU) int {
		e := c.readI8()
		c.setHL(addSPSigned(c, e))
		return 3
	}
	primaryMnemonics[0xF8] = "LD HL,SP+e"

	primaryOpcodes[0x18] = func(c *CPU) int {
		e := c.readI8()
		c.pc = uint16(int32(c.pc) + int32(e))
		return 3
	}
	primaryMnemonics[0x18] = "JR e"

	primaryOpcodes[0xC3] = func(c *CPU) int { c.pc = c.readU16(); return 4 }
	primaryMnemonics[0xC3] = "JP nn"

	primaryOpcodes[0xCD] = func(c *CPU) int {
		target := c.readU16()
		c.pushWord(c.pc)
		c.pc = target
		return 6
	}
	primaryMnemonics[0xCD] = "CALL nn"

	primaryOpcodes[0xC9] = func(c *CPU) int { c.pc = c.popWord(); return 4 }
	primaryMnemonics[0xC9] = "RET"

	primaryOpcodes[0xD9] = func(c *CPU) int {
		c.pc = c.popWord()
		c.ime = true
		return 4
	}
	primaryMnemonics[0xD9] = "RETI"

	// LD r,r' block, 0x40-0x7F, minus 0x76 (HALT).
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x40 | dst<<3 | src
			if opcode == 0x76 {
				continue
			}
			d, s := dst, src
			cost := 1 + reg8Cycles(d, 1) + reg8Cycles(s, 1)
			primaryOpcodes[opcode] = func(c *CPU) int {
				c.setReg8(d, c.getReg8(s))
				return cost
			}
			primaryMnemonics[opcode] = "LD r,r'"
		}
	}

	// ALU A,r block, 0x80-0xBF.
	aluOps := [8]func(c *CPU, val uint8) uint8{
		func(c *CPU, v uint8) uint8 { return aluAdd(c, v, 0) },
		func(c *CPU, v uint8) uint8 { return aluAdd(c, v, c.carryBit()) },
		func(c *CPU, v uint8) uint8 { return aluSub(c, v, 0) },
		func(c *CPU, v uint8) uint8 { return aluSub(c, v, c.carryBit()) },
		aluAnd,
		aluXor,
		aluOr,
		func(c *CPU, v uint8) uint8 { aluCp(c, v); return c.a },
	}
	aluNames := [8]string{"ADD A,r", "ADC A,r", "SUB r", "SBC A,r", "AND r", "XOR r", "OR r", "CP r"}
	for group := uint8(0); group < 8; group++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x80 | group<<3 | src
			op, s := aluOps[group], src
			isCp := group == 7
			cost := 1 + reg8Cycles(s, 1)
			primaryOpcodes[opcode] = func(c *CPU) int {
				result := op(c, c.getReg8(s))
				if !isCp {
					c.a = result
				}
				return cost
			}
			primaryMnemonics[opcode] = aluNames[group]
		}
	}

	// ALU A,n immediates: C6,CE,D6,DE,E6,EE,F6,FE.
	aluImmOpcodes := [8]uint8{0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE}
	for group, opcode := range aluImmOpcodes {
		op := aluOps[group]
		isCp := group == 7
		primaryOpcodes[opcode] = func(c *CPU) int {
			n := c.readU8()
			result := op(c, n)
			if !isCp {
				c.a = result
			}
			return 2
		}
		primaryMnemonics[opcode] = aluNames[group] + " n"
	}

	// LD r,n: 06,0E,16,1E,26,2E,36,3E.
	for reg := uint8(0); reg < 8; reg++ {
		opcode := 0x06 | reg<<3
		r := reg
		cost := 2 + reg8Cycles(r, 1)
		primaryOpcodes[opcode] = func(c *CPU) int {
			n := c.readU8()
			c.setReg8(r, n)
			return cost
		}
		primaryMnemonics[opcode] = "LD r,n"
	}

	// INC r8 / DEC r8: 04,0C,... and 05,0D,...
	for reg := uint8(0); reg < 8; reg++ {
		incOp, decOp := 0x04|reg<<3, 0x05|reg<<3
		r := reg
		cost := 1 + reg8Cycles(r, 2)
		primaryOpcodes[incOp] = func(c *CPU) int {
			c.setReg8(r, aluInc(c, c.getReg8(r)))
			return cost
		}
		primaryMnemonics[incOp] = "INC r"
		primaryOpcodes[decOp] = func(c *CPU) int {
			c.setReg8(r, aluDec(c, c.getReg8(r)))
			return cost
		}
		primaryMnemonics[decOp] = "DEC r"
	}

	// 16-bit register-pair ops: LD rr,nn / INC rr / DEC rr / ADD HL,rr.
	pairGetters := [4]func(c *CPU) uint16{(*CPU).getBC, (*CPU).getDE, (*CPU).getHL, func(c *CPU) uint16 { return c.sp }}
	pairSetters := [4]func(c *CPU, v uint16){(*CPU).setBC, (*CPU).setDE, (*CPU).setHL, func(c *CPU, v uint16) { c.sp = v }}
	pairNames := [4]string{"BC", "DE", "HL", "SP"}
	for i := uint8(0); i < 4; i++ {
		get, set, name := pairGetters[i], pairSetters[i], pairNames[i]

		ldOpcode := 0x01 | i<<4
		primaryOpcodes[ldOpcode] = func(c *CPU) int { set(c, c.readU16()); return 3 }
		primaryMnemonics[ldOpcode] = "LD " + name + ",nn"

		incOpcode := 0x03 | i<<4
		primaryOpcodes[incOpcode] = func(c *CPU) int { set(c, get(c)+1); return 2 }
		primaryMnemonics[incOpcode] = "INC " + name

		decOpcode := 0x0B | i<<4
		primaryOpcodes[decOpcode] = func(c *CPU) int { set(c, get(c)-1); return 2 }
		primaryMnemonics[decOpcode] = "DEC " + name

		addOpcode := 0x09 | i<<4
		primaryOpcodes[addOpcode] = func(c *CPU) int { addHL16(c, get(c)); return 2 }
		primaryMnemonics[addOpcode] = "ADD HL," + name
	}

	// PUSH/POP: register pairs are BC,DE,HL,AF here, not BC,DE,HL,SP.
	stackGetters := [4]func(c *CPU) uint16{(*CPU).getBC, (*CPU).getDE, (*CPU).getHL, (*CPU).getAF}
	stackSetters := [4]func(c *CPU, v uint16){(*CPU).setBC, (*CPU).setDE, (*CPU).setHL, (*CPU).setAF}
	stackNames := [4]string{"BC", "DE", "HL", "AF"}
	for i := uint8(0); i < 4; i++ {
		get, set, name := stackGetters[i], stackSetters[i], stackNames[i]

		pushOpcode := 0xC5 | i<<4
		primaryOpcodes[pushOpcode] = func(c *CPU) int { c.pushWord(get(c)); return 4 }
		primaryMnemonics[pushOpcode] = "PUSH " + name

		popOpcode := 0xC1 | i<<4
		primaryOpcodes[popOpcode] = func(c *CPU) int { set(c, c.popWord()); return 3 }
		primaryMnemonics[popOpcode] = "POP " + name
	}

	// RST n: C7,CF,D7,DF,E7,EF,F7,FF -> vectors 0x00,0x08,...,0x38.
	for n := uint8(0); n < 8; n++ {
		opcode := 0xC7 | n<<3
		vector := uint16(n) * 8
		primaryOpcodes[opcode] = func(c *CPU) int {
			c.pushWord(c.pc)
			c.pc = vector
			return 4
		}
		primaryMnemonics[opcode] = "RST"
	}

	// Conditional JR/JP/CALL/RET: cc = NZ,Z,NC,C.
	for cc := uint8(0); cc < 4; cc++ {
		condition := cc

		jrOpcode := 0x20 | cc<<3
		primaryOpcodes[jrOpcode] = func(c *CPU) int {
			e := c.readI8()
			if c.checkCond(condition) {
				c.pc = uint16(int32(c.pc) + int32(e))
				return 3
			}
			return 2
		}
		primaryMnemonics[jrOpcode] = "JR cc,e"

		jpOpcode := 0xC2 | cc<<3
		primaryOpcodes[jpOpcode] = func(c *CPU) int {
			target := c.readU16()
			if c.checkCond(condition) {
				c.pc = target
				return 4
			}
			return 3
		}
		primaryMnemonics[jpOpcode] = "JP cc,nn"

		callOpcode := 0xC4 | cc<<3
		primaryOpcodes[callOpcode] = func(c *CPU) int {
			target := c.readU16()
			if c.checkCond(condition) {
				c.pushWord(c.pc)
				c.pc = target
				return 6
			}
			return 3
		}
		primaryMnemonics[callOpcode] = "CALL cc,nn"

		retOpcode := 0xC0 | cc<<3
		primaryOpcodes[retOpcode] = func(c *CPU) int {
			if c.checkCond(condition) {
				c.pc = c.popWord()
				return 5
			}
			return 2
		}
		primaryMnemonics[retOpcode] = "RET cc"
	}
}
