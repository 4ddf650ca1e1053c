package cpu

// addrMode names the 6502 addressing modes. Each maps to a fixed cycle
// template below; only the effective-address computation differs.
type addrMode int

const (
	modeImplied addrMode = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect
	modeIndirectX
	modeIndirectY
	modeRelative
)

// kind categorizes how an instruction uses its effective address, which
// determines the cycle template: a plain read, a write (no prior read),
// or a read-modify-write (read, dummy write of the old value, write of
// the new one).
type kind int

const (
	kindRead kind = iota
	kindWrite
	kindRMW
	kindImplied
	kindBranch
	kindJump
	kindJSR
	kindRTS
	kindRTI
	kindBRK
	kindPush
	kindPull
)

type readOp func(c *CPU, v uint8)
type writeOp func(c *CPU) uint8
type rmwOp func(c *CPU, v uint8) uint8

type instr struct {
	name string
	mode addrMode
	kind kind
	read readOp
	wr   writeOp
	rmw  rmwOp
	impl func(c *CPU)
}

func (ins *instr) build(c *CPU) []step {
	switch ins.kind {
	case kindImplied:
		return []step{func(c *CPU) bool {
			c.Bus.Read(c.PC) // dummy read of the next opcode byte
			ins.impl(c)
			return true
		}}
	case kindBranch:
		return buildBranch(ins)
	case kindJump:
		return buildJump(ins)
	case kindJSR:
		return buildJSR()
	case kindRTS:
		return buildRTS()
	case kindRTI:
		return buildRTI()
	case kindBRK:
		return buildBRK()
	case kindPush:
		return buildPush(ins)
	case kindPull:
		return buildPull(ins)
	}

	switch ins.mode {
	case modeImmediate:
		return buildImmediate(ins)
	case modeAccumulator:
		return buildAccumulator(ins)
	case modeZeroPage:
		return buildZeroPage(ins)
	case modeZeroPageX:
		return buildZeroPageIndexed(ins, regX)
	case modeZeroPageY:
		return buildZeroPageIndexed(ins, regY)
	case modeAbsolute:
		return buildAbsolute(ins)
	case modeAbsoluteX:
		return buildAbsoluteIndexed(ins, regX)
	case modeAbsoluteY:
		return buildAbsoluteIndexed(ins, regY)
	case modeIndirectX:
		return buildIndirectX(ins)
	case modeIndirectY:
		return buildIndirectY(ins)
	}
	panic("cpu: unhandled addressing mode")
}

type regSel int

const (
	regX regSel = iota
	regY
)

func (c *CPU) regVal(r regSel) uint8 {
	if r == regX {
		return c.X
	}
	return c.Y
}

// finish appends the mode-specific last steps (read/write/rmw) that
// operate on the address left in c.tmpAddr by the caller.
func finish(ins *instr, prefix []step) []step {
	switch ins.kind {
	case kindWrite:
		return append(prefix, func(c *CPU) bool {
			c.Bus.Write(c.tmpAddr, ins.wr(c))
			return true
		})
	case kindRMW:
		return append(prefix,
			func(c *CPU) bool { c.tmpVal = c.Bus.Read(c.tmpAddr); return false },
			func(c *CPU) bool { c.Bus.Write(c.tmpAddr, c.tmpVal); return false },
			func(c *CPU) bool {
				nv := ins.rmw(c, c.tmpVal)
				c.Bus.Write(c.tmpAddr, nv)
				return true
			},
		)
	default: // kindRead
		return append(prefix, func(c *CPU) bool {
			ins.read(c, c.Bus.Read(c.tmpAddr))
			return true
		})
	}
}

func buildImmediate(ins *instr) []step {
	return []step{func(c *CPU) bool {
		v := c.Bus.Read(c.PC)
		c.PC++
		ins.read(c, v)
		return true
	}}
}

func buildAccumulator(ins *instr) []step {
	return []step{func(c *CPU) bool {
		c.Bus.Read(c.PC)
		c.A = ins.rmw(c, c.A)
		return true
	}}
}

func buildZeroPage(ins *instr) []step {
	prefix := []step{func(c *CPU) bool {
		c.tmpAddr = uint16(c.Bus.Read(c.PC))
		c.PC++
		return false
	}}
	return finish(ins, prefix)
}

func buildZeroPageIndexed(ins *instr, r regSel) []step {
	prefix := []step{
		func(c *CPU) bool {
			c.tmpLo = uint16(c.Bus.Read(c.PC))
			c.PC++
			return false
		},
		func(c *CPU) bool {
			c.Bus.Read(c.tmpLo) // dummy read at unindexed address
			c.tmpAddr = uint16(uint8(c.tmpLo) + c.regVal(r))
			return false
		},
	}
	return finish(ins, prefix)
}

func buildAbsolute(ins *instr) []step {
	prefix := []step{
		func(c *CPU) bool {
			c.tmpLo = uint16(c.Bus.Read(c.PC))
			c.PC++
			return false
		},
		func(c *CPU) bool {
			hi := uint16(c.Bus.Read(c.PC))
			c.PC++
			c.tmpAddr = c.tmpLo | hi<<8
			return false
		},
	}
	return finish(ins, prefix)
}

func buildAbsoluteIndexed(ins *instr, r regSel) []step {
	prefix := []step{
		func(c *CPU) bool {
			c.tmpLo = uint16(c.Bus.Read(c.PC))
			c.PC++
			return false
		},
		func(c *CPU) bool {
			hi := uint16(c.Bus.Read(c.PC))
			c.PC++
			c.tmpHi = hi
			base := c.tmpLo | hi<<8
			idx := base + uint16(c.regVal(r))
			c.pageCrossed = (base & 0xFF00) != (idx & 0xFF00)
			c.tmpAddr = idx
			return false
		},
	}
	if ins.kind == kindRead {
		// Reads skip the fixup cycle when the page wasn't crossed; the
		// dummy read at the un-fixed-up address still happens on hardware
		// but only costs a cycle when a carry out of the low byte occurred.
		return append(prefix, func(c *CPU) bool {
			if c.pageCrossed {
				wrong := c.tmpHi<<8 | (c.tmpAddr & 0x00FF)
				c.Bus.Read(wrong) // dummy read, wrong page (no carry applied)
				return false
			}
			ins.read(c, c.Bus.Read(c.tmpAddr))
			return true
		}, func(c *CPU) bool {
			ins.read(c, c.Bus.Read(c.tmpAddr))
			return true
		})
	}
	// Write and RMW always pay the fixup cycle regardless of page cross.
	full := append(prefix, func(c *CPU) bool {
		wrong := c.tmpHi<<8 | (c.tmpAddr & 0x00FF)
		c.Bus.Read(wrong) // dummy read at the (possibly wrong) address
		return false
	})
	return finish(ins, full)
}

func buildIndirectX(ins *instr) []step {
	prefix := []step{
		func(c *CPU) bool {
			c.tmpLo = uint16(c.Bus.Read(c.PC))
			c.PC++
			return false
		},
		func(c *CPU) bool {
			c.Bus.Read(c.tmpLo)
			c.tmpLo = uint16(uint8(c.tmpLo) + c.X)
			return false
		},
		func(c *CPU) bool {
			c.tmpHi = uint16(c.Bus.Read(c.tmpLo))
			return false
		},
		func(c *CPU) bool {
			hi := uint16(c.Bus.Read(uint16(uint8(c.tmpLo + 1))))
			c.tmpAddr = c.tmpHi | hi<<8
			return false
		},
	}
	return finish(ins, prefix)
}

func buildIndirectY(ins *instr) []step {
	prefix := []step{
		func(c *CPU) bool {
			c.tmpLo = uint16(c.Bus.Read(c.PC))
			c.PC++
			return false
		},
		func(c *CPU) bool {
			c.tmpVal = c.Bus.Read(c.tmpLo) // pointer low byte
			return false
		},
		func(c *CPU) bool {
			hi := uint16(c.Bus.Read(uint16(uint8(c.tmpLo + 1))))
			base := uint16(c.tmpVal) | hi<<8
			idx := base + uint16(c.Y)
			c.pageCrossed = (base & 0xFF00) != (idx & 0xFF00)
			c.tmpAddr = idx
			c.tmpHi = hi
			return false
		},
	}
	if ins.kind == kindRead {
		return append(prefix, func(c *CPU) bool {
			if c.pageCrossed {
				wrong := c.tmpHi<<8 | (c.tmpAddr & 0x00FF)
				c.Bus.Read(wrong)
				return false
			}
			ins.read(c, c.Bus.Read(c.tmpAddr))
			return true
		}, func(c *CPU) bool {
			ins.read(c, c.Bus.Read(c.tmpAddr))
			return true
		})
	}
	full := append(prefix, func(c *CPU) bool {
		wrong := c.tmpHi<<8 | (c.tmpAddr & 0x00FF)
		c.Bus.Read(wrong)
		return false
	})
	return finish(ins, full)
}

func buildBranch(ins *instr) []step {
	return []step{
		func(c *CPU) bool {
			offset := int8(c.Bus.Read(c.PC))
			c.PC++
			taken := ins.impl != nil && branchTaken(ins.name, c.P)
			if !taken {
				return true
			}
			c.tmpAddr = uint16(int32(c.PC) + int32(offset))
			return false
		},
		func(c *CPU) bool {
			c.Bus.Read(c.PC) // dummy fetch of the next opcode
			if (c.PC & 0xFF00) == (c.tmpAddr & 0xFF00) {
				c.PC = c.tmpAddr
				return true
			}
			return false
		},
		func(c *CPU) bool {
			c.Bus.Read((c.PC & 0xFF00) | (c.tmpAddr & 0x00FF))
			c.PC = c.tmpAddr
			return true
		},
	}
}

func branchTaken(name string, p uint8) bool {
	switch name {
	case "BPL":
		return p&FlagN == 0
	case "BMI":
		return p&FlagN != 0
	case "BVC":
		return p&FlagV == 0
	case "BVS":
		return p&FlagV != 0
	case "BCC":
		return p&FlagC == 0
	case "BCS":
		return p&FlagC != 0
	case "BNE":
		return p&FlagZ == 0
	case "BEQ":
		return p&FlagZ != 0
	}
	return false
}

func buildJump(ins *instr) []step {
	if ins.mode == modeAbsolute {
		return []step{
			func(c *CPU) bool {
				c.tmpLo = uint16(c.Bus.Read(c.PC))
				c.PC++
				return false
			},
			func(c *CPU) bool {
				hi := uint16(c.Bus.Read(c.PC))
				c.PC++
				c.PC = c.tmpLo | hi<<8
				return true
			},
		}
	}
	// Indirect JMP, with the famous page-wrap bug: if the pointer's low
	// byte is $FF, the high byte is fetched from the start of the same
	// page instead of the next one.
	return []step{
		func(c *CPU) bool {
			c.tmpLo = uint16(c.Bus.Read(c.PC))
			c.PC++
			return false
		},
		func(c *CPU) bool {
			hi := uint16(c.Bus.Read(c.PC))
			c.PC++
			c.tmpAddr = c.tmpLo | hi<<8
			return false
		},
		func(c *CPU) bool {
			c.tmpLo = uint16(c.Bus.Read(c.tmpAddr))
			return false
		},
		func(c *CPU) bool {
			hiAddr := (c.tmpAddr & 0xFF00) | uint16(uint8(c.tmpAddr)+1)
			hi := uint16(c.Bus.Read(hiAddr))
			c.PC = c.tmpLo | hi<<8
			return true
		},
	}
}

func buildJSR() []step {
	return []step{
		func(c *CPU) bool {
			c.tmpLo = uint16(c.Bus.Read(c.PC))
			c.PC++
			return false
		},
		func(c *CPU) bool { return false }, // internal delay (stack peek)
		func(c *CPU) bool {
			c.push(uint8(c.PC >> 8))
			return false
		},
		func(c *CPU) bool {
			c.push(uint8(c.PC))
			return false
		},
		func(c *CPU) bool {
			hi := uint16(c.Bus.Read(c.PC))
			c.PC = c.tmpLo | hi<<8
			return true
		},
	}
}

func buildRTS() []step {
	return []step{
		func(c *CPU) bool { return false },
		func(c *CPU) bool { return false }, // SP increment cycle
		func(c *CPU) bool {
			c.tmpLo = uint16(c.pop())
			return false
		},
		func(c *CPU) bool {
			hi := uint16(c.pop())
			c.PC = c.tmpLo | hi<<8
			return false
		},
		func(c *CPU) bool {
			c.PC++
			return true
		},
	}
}

func buildRTI() []step {
	return []step{
		func(c *CPU) bool { return false },
		func(c *CPU) bool { return false },
		func(c *CPU) bool {
			c.P = (c.pop() &^ FlagB) | FlagU
			return false
		},
		func(c *CPU) bool {
			c.tmpLo = uint16(c.pop())
			return false
		},
		func(c *CPU) bool {
			hi := uint16(c.pop())
			c.PC = c.tmpLo | hi<<8
			return true
		},
	}
}

func buildBRK() []step {
	return []step{
		func(c *CPU) bool {
			c.Bus.Read(c.PC) // signature byte, discarded
			c.PC++
			return false
		},
		func(c *CPU) bool {
			c.push(uint8(c.PC >> 8))
			return false
		},
		func(c *CPU) bool {
			c.push(uint8(c.PC))
			return false
		},
		func(c *CPU) bool {
			// BRK hijack: a simultaneous NMI takes over the vector fetch.
			c.tmpAddr = vectorIRQ
			if c.nmiPending {
				c.nmiPending = false
				c.tmpAddr = vectorNMI
			}
			c.push(c.P | FlagU | FlagB)
			return false
		},
		func(c *CPU) bool {
			c.tmpLo = uint16(c.Bus.Read(c.tmpAddr))
			return false
		},
		func(c *CPU) bool {
			hi := uint16(c.Bus.Read(c.tmpAddr + 1))
			c.PC = c.tmpLo | hi<<8
			c.P |= FlagI
			return true
		},
	}
}

func buildPush(ins *instr) []step {
	return []step{
		func(c *CPU) bool { return false },
		func(c *CPU) bool {
			c.push(ins.wr(c))
			return true
		},
	}
}

func buildPull(ins *instr) []step {
	return []step{
		func(c *CPU) bool { return false },
		func(c *CPU) bool { return false },
		func(c *CPU) bool {
			ins.read(c, c.pop())
			return true
		},
	}
}
