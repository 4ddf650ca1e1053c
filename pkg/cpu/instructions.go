package cpu

// opcodeTable maps each of the 256 opcode bytes to its instruction
// definition. Opcodes with no official meaning default to a documented,
// commonly-relied-on unofficial behavior where one of the stable
// "combo" opcodes (SLO/RLA/SRE/RRA/DCP/ISC/LAX/SAX) applies; every slot
// left unassigned becomes JAM, which halts the CPU (see the end of init).
var opcodeTable [256]instr

func setFlagsNZ(c *CPU, v uint8) {
	if v == 0 {
		c.P |= FlagZ
	} else {
		c.P &^= FlagZ
	}
	if v&0x80 != 0 {
		c.P |= FlagN
	} else {
		c.P &^= FlagN
	}
}

func (c *CPU) adc(v uint8) {
	carry := uint16(0)
	if c.P&FlagC != 0 {
		carry = 1
	}
	sum := uint16(c.A) + uint16(v) + carry
	if (uint16(c.A)^uint16(v))&0x80 == 0 && (uint16(c.A)^sum)&0x80 != 0 {
		c.P |= FlagV
	} else {
		c.P &^= FlagV
	}
	if sum > 0xFF {
		c.P |= FlagC
	} else {
		c.P &^= FlagC
	}
	c.A = uint8(sum)
	setFlagsNZ(c, c.A)
}

func (c *CPU) sbc(v uint8) { c.adc(v ^ 0xFF) }

func (c *CPU) compare(reg, v uint8) {
	d := reg - v
	if reg >= v {
		c.P |= FlagC
	} else {
		c.P &^= FlagC
	}
	setFlagsNZ(c, d)
}

func (c *CPU) asl(v uint8) uint8 {
	if v&0x80 != 0 {
		c.P |= FlagC
	} else {
		c.P &^= FlagC
	}
	r := v << 1
	setFlagsNZ(c, r)
	return r
}

func (c *CPU) lsr(v uint8) uint8 {
	if v&1 != 0 {
		c.P |= FlagC
	} else {
		c.P &^= FlagC
	}
	r := v >> 1
	setFlagsNZ(c, r)
	return r
}

func (c *CPU) rol(v uint8) uint8 {
	carryIn := uint8(0)
	if c.P&FlagC != 0 {
		carryIn = 1
	}
	if v&0x80 != 0 {
		c.P |= FlagC
	} else {
		c.P &^= FlagC
	}
	r := v<<1 | carryIn
	setFlagsNZ(c, r)
	return r
}

func (c *CPU) ror(v uint8) uint8 {
	carryIn := uint8(0)
	if c.P&FlagC != 0 {
		carryIn = 0x80
	}
	if v&1 != 0 {
		c.P |= FlagC
	} else {
		c.P &^= FlagC
	}
	r := v>>1 | carryIn
	setFlagsNZ(c, r)
	return r
}

// entry describes one opcode row before it's expanded into a full instr.
type entry struct {
	op   uint8
	name string
	mode addrMode
	kind kind
}

func init() {
	readOps := map[string]readOp{
		"LDA": func(c *CPU, v uint8) { c.A = v; setFlagsNZ(c, v) },
		"LDX": func(c *CPU, v uint8) { c.X = v; setFlagsNZ(c, v) },
		"LDY": func(c *CPU, v uint8) { c.Y = v; setFlagsNZ(c, v) },
		"ADC": func(c *CPU, v uint8) { c.adc(v) },
		"SBC": func(c *CPU, v uint8) { c.sbc(v) },
		"AND": func(c *CPU, v uint8) { c.A &= v; setFlagsNZ(c, c.A) },
		"ORA": func(c *CPU, v uint8) { c.A |= v; setFlagsNZ(c, c.A) },
		"EOR": func(c *CPU, v uint8) { c.A ^= v; setFlagsNZ(c, c.A) },
		"CMP": func(c *CPU, v uint8) { c.compare(c.A, v) },
		"CPX": func(c *CPU, v uint8) { c.compare(c.X, v) },
		"CPY": func(c *CPU, v uint8) { c.compare(c.Y, v) },
		"BIT": func(c *CPU, v uint8) {
			if c.A&v == 0 {
				c.P |= FlagZ
			} else {
				c.P &^= FlagZ
			}
			c.P = c.P&^(FlagN|FlagV) | v&(FlagN|FlagV)
		},
		"NOP": func(c *CPU, v uint8) {}, // SKB/IGN unofficial reads
		"PLA": func(c *CPU, v uint8) { c.A = v; setFlagsNZ(c, v) },
		"PLP": func(c *CPU, v uint8) { c.P = (v &^ FlagB) | FlagU },
		"LAX": func(c *CPU, v uint8) { c.A, c.X = v, v; setFlagsNZ(c, v) },
		"ANC": func(c *CPU, v uint8) {
			c.A &= v
			setFlagsNZ(c, c.A)
			if c.A&0x80 != 0 {
				c.P |= FlagC
			} else {
				c.P &^= FlagC
			}
		},
		"ALR": func(c *CPU, v uint8) { c.A &= v; c.A = c.lsr(c.A) },
		"ARR": func(c *CPU, v uint8) {
			c.A &= v
			c.A = c.ror(c.A)
			if c.A&0x40 != 0 {
				c.P |= FlagC
			} else {
				c.P &^= FlagC
			}
			if (c.A>>6)&1 != (c.A>>5)&1 {
				c.P |= FlagV
			} else {
				c.P &^= FlagV
			}
		},
		"AXS": func(c *CPU, v uint8) {
			r := (c.A & c.X) - v
			if c.A&c.X >= v {
				c.P |= FlagC
			} else {
				c.P &^= FlagC
			}
			c.X = r
			setFlagsNZ(c, r)
		},
	}

	writeOps := map[string]writeOp{
		"STA": func(c *CPU) uint8 { return c.A },
		"STX": func(c *CPU) uint8 { return c.X },
		"STY": func(c *CPU) uint8 { return c.Y },
		"SAX": func(c *CPU) uint8 { return c.A & c.X },
		"PHA": func(c *CPU) uint8 { return c.A },
		"PHP": func(c *CPU) uint8 { return c.P | FlagU | FlagB },
	}

	rmwOps := map[string]rmwOp{
		"ASL": func(c *CPU, v uint8) uint8 { return c.asl(v) },
		"LSR": func(c *CPU, v uint8) uint8 { return c.lsr(v) },
		"ROL": func(c *CPU, v uint8) uint8 { return c.rol(v) },
		"ROR": func(c *CPU, v uint8) uint8 { return c.ror(v) },
		"INC": func(c *CPU, v uint8) uint8 { r := v + 1; setFlagsNZ(c, r); return r },
		"DEC": func(c *CPU, v uint8) uint8 { r := v - 1; setFlagsNZ(c, r); return r },
		"SLO": func(c *CPU, v uint8) uint8 { r := c.asl(v); c.A |= r; setFlagsNZ(c, c.A); return r },
		"RLA": func(c *CPU, v uint8) uint8 { r := c.rol(v); c.A &= r; setFlagsNZ(c, c.A); return r },
		"SRE": func(c *CPU, v uint8) uint8 { r := c.lsr(v); c.A ^= r; setFlagsNZ(c, c.A); return r },
		"RRA": func(c *CPU, v uint8) uint8 { r := c.ror(v); c.adc(r); return r },
		"DCP": func(c *CPU, v uint8) uint8 { r := v - 1; c.compare(c.A, r); return r },
		"ISC": func(c *CPU, v uint8) uint8 { r := v + 1; c.sbc(r); return r },
	}

	impliedOps := map[string]func(c *CPU){
		"INX": func(c *CPU) { c.X++; setFlagsNZ(c, c.X) },
		"INY": func(c *CPU) { c.Y++; setFlagsNZ(c, c.Y) },
		"DEX": func(c *CPU) { c.X--; setFlagsNZ(c, c.X) },
		"DEY": func(c *CPU) { c.Y--; setFlagsNZ(c, c.Y) },
		"TAX": func(c *CPU) { c.X = c.A; setFlagsNZ(c, c.X) },
		"TAY": func(c *CPU) { c.Y = c.A; setFlagsNZ(c, c.Y) },
		"TXA": func(c *CPU) { c.A = c.X; setFlagsNZ(c, c.A) },
		"TYA": func(c *CPU) { c.A = c.Y; setFlagsNZ(c, c.A) },
		"TSX": func(c *CPU) { c.X = c.SP; setFlagsNZ(c, c.X) },
		"TXS": func(c *CPU) { c.SP = c.X },
		"CLC": func(c *CPU) { c.P &^= FlagC },
		"SEC": func(c *CPU) { c.P |= FlagC },
		"CLI": func(c *CPU) { c.P &^= FlagI },
		"SEI": func(c *CPU) { c.P |= FlagI },
		"CLV": func(c *CPU) { c.P &^= FlagV },
		"CLD": func(c *CPU) { c.P &^= FlagD },
		"SED": func(c *CPU) { c.P |= FlagD },
		"NOP": func(c *CPU) {},
	}

	// build consults the PC-fetch dummy cycle baked into implied-mode
	// instructions: a plain NOP/register op still takes a bus cycle to
	// re-read the opcode stream, matching hardware's idle fetch.
	build := func(e entry) instr {
		i := instr{name: e.name, mode: e.mode, kind: e.kind}
		switch e.kind {
		case kindRead:
			i.read = readOps[e.name]
		case kindWrite:
			i.wr = writeOps[e.name]
		case kindRMW:
			i.rmw = rmwOps[e.name]
		case kindImplied:
			i.impl = impliedOps[e.name]
		case kindBranch:
			i.impl = func(c *CPU) {} // non-nil marker; branchTaken dispatches on name
		case kindPush:
			i.wr = writeOps[e.name]
		case kindPull:
			i.read = readOps[e.name]
		}
		return i
	}

	entries := []entry{
		// Loads
		{0xA9, "LDA", modeImmediate, kindRead}, {0xA5, "LDA", modeZeroPage, kindRead},
		{0xB5, "LDA", modeZeroPageX, kindRead}, {0xAD, "LDA", modeAbsolute, kindRead},
		{0xBD, "LDA", modeAbsoluteX, kindRead}, {0xB9, "LDA", modeAbsoluteY, kindRead},
		{0xA1, "LDA", modeIndirectX, kindRead}, {0xB1, "LDA", modeIndirectY, kindRead},
		{0xA2, "LDX", modeImmediate, kindRead}, {0xA6, "LDX", modeZeroPage, kindRead},
		{0xB6, "LDX", modeZeroPageY, kindRead}, {0xAE, "LDX", modeAbsolute, kindRead},
		{0xBE, "LDX", modeAbsoluteY, kindRead},
		{0xA0, "LDY", modeImmediate, kindRead}, {0xA4, "LDY", modeZeroPage, kindRead},
		{0xB4, "LDY", modeZeroPageX, kindRead}, {0xAC, "LDY", modeAbsolute, kindRead},
		{0xBC, "LDY", modeAbsoluteX, kindRead},
		// Stores
		{0x85, "STA", modeZeroPage, kindWrite}, {0x95, "STA", modeZeroPageX, kindWrite},
		{0x8D, "STA", modeAbsolute, kindWrite}, {0x9D, "STA", modeAbsoluteX, kindWrite},
		{0x99, "STA", modeAbsoluteY, kindWrite}, {0x81, "STA", modeIndirectX, kindWrite},
		{0x91, "STA", modeIndirectY, kindWrite},
		{0x86, "STX", modeZeroPage, kindWrite}, {0x96, "STX", modeZeroPageY, kindWrite},
		{0x8E, "STX", modeAbsolute, kindWrite},
		{0x84, "STY", modeZeroPage, kindWrite}, {0x94, "STY", modeZeroPageX, kindWrite},
		{0x8C, "STY", modeAbsolute, kindWrite},
		// Arithmetic / logic
		{0x69, "ADC", modeImmediate, kindRead}, {0x65, "ADC", modeZeroPage, kindRead},
		{0x75, "ADC", modeZeroPageX, kindRead}, {0x6D, "ADC", modeAbsolute, kindRead},
		{0x7D, "ADC", modeAbsoluteX, kindRead}, {0x79, "ADC", modeAbsoluteY, kindRead},
		{0x61, "ADC", modeIndirectX, kindRead}, {0x71, "ADC", modeIndirectY, kindRead},
		{0xE9, "SBC", modeImmediate, kindRead}, {0xE5, "SBC", modeZeroPage, kindRead},
		{0xF5, "SBC", modeZeroPageX, kindRead}, {0xED, "SBC", modeAbsolute, kindRead},
		{0xFD, "SBC", modeAbsoluteX, kindRead}, {0xF9, "SBC", modeAbsoluteY, kindRead},
		{0xE1, "SBC", modeIndirectX, kindRead}, {0xF1, "SBC", modeIndirectY, kindRead},
		{0xEB, "SBC", modeImmediate, kindRead}, // unofficial SBC#$EB duplicate
		{0x29, "AND", modeImmediate, kindRead}, {0x25, "AND", modeZeroPage, kindRead},
		{0x35, "AND", modeZeroPageX, kindRead}, {0x2D, "AND", modeAbsolute, kindRead},
		{0x3D, "AND", modeAbsoluteX, kindRead}, {0x39, "AND", modeAbsoluteY, kindRead},
		{0x21, "AND", modeIndirectX, kindRead}, {0x31, "AND", modeIndirectY, kindRead},
		{0x09, "ORA", modeImmediate, kindRead}, {0x05, "ORA", modeZeroPage, kindRead},
		{0x15, "ORA", modeZeroPageX, kindRead}, {0x0D, "ORA", modeAbsolute, kindRead},
		{0x1D, "ORA", modeAbsoluteX, kindRead}, {0x19, "ORA", modeAbsoluteY, kindRead},
		{0x01, "ORA", modeIndirectX, kindRead}, {0x11, "ORA", modeIndirectY, kindRead},
		{0x49, "EOR", modeImmediate, kindRead}, {0x45, "EOR", modeZeroPage, kindRead},
		{0x55, "EOR", modeZeroPageX, kindRead}, {0x4D, "EOR", modeAbsolute, kindRead},
		{0x5D, "EOR", modeAbsoluteX, kindRead}, {0x59, "EOR", modeAbsoluteY, kindRead},
		{0x41, "EOR", modeIndirectX, kindRead}, {0x51, "EOR", modeIndirectY, kindRead},
		{0xC9, "CMP", modeImmediate, kindRead}, {0xC5, "CMP", modeZeroPage, kindRead},
		{0xD5, "CMP", modeZeroPageX, kindRead}, {0xCD, "CMP", modeAbsolute, kindRead},
		{0xDD, "CMP", modeAbsoluteX, kindRead}, {0xD9, "CMP", modeAbsoluteY, kindRead},
		{0xC1, "CMP", modeIndirectX, kindRead}, {0xD1, "CMP", modeIndirectY, kindRead},
		{0xE0, "CPX", modeImmediate, kindRead}, {0xE4, "CPX", modeZeroPage, kindRead},
		{0xEC, "CPX", modeAbsolute, kindRead},
		{0xC0, "CPY", modeImmediate, kindRead}, {0xC4, "CPY", modeZeroPage, kindRead},
		{0xCC, "CPY", modeAbsolute, kindRead},
		{0x24, "BIT", modeZeroPage, kindRead}, {0x2C, "BIT", modeAbsolute, kindRead},
		// Read-modify-write
		{0x0A, "ASL", modeAccumulator, kindRMW}, {0x06, "ASL", modeZeroPage, kindRMW},
		{0x16, "ASL", modeZeroPageX, kindRMW}, {0x0E, "ASL", modeAbsolute, kindRMW},
		{0x1E, "ASL", modeAbsoluteX, kindRMW},
		{0x4A, "LSR", modeAccumulator, kindRMW}, {0x46, "LSR", modeZeroPage, kindRMW},
		{0x56, "LSR", modeZeroPageX, kindRMW}, {0x4E, "LSR", modeAbsolute, kindRMW},
		{0x5E, "LSR", modeAbsoluteX, kindRMW},
		{0x2A, "ROL", modeAccumulator, kindRMW}, {0x26, "ROL", modeZeroPage, kindRMW},
		{0x36, "ROL", modeZeroPageX, kindRMW}, {0x2E, "ROL", modeAbsolute, kindRMW},
		{0x3E, "ROL", modeAbsoluteX, kindRMW},
		{0x6A, "ROR", modeAccumulator, kindRMW}, {0x66, "ROR", modeZeroPage, kindRMW},
		{0x76, "ROR", modeZeroPageX, kindRMW}, {0x6E, "ROR", modeAbsolute, kindRMW},
		{0x7E, "ROR", modeAbsoluteX, kindRMW},
		{0xE6, "INC", modeZeroPage, kindRMW}, {0xF6, "INC", modeZeroPageX, kindRMW},
		{0xEE, "INC", modeAbsolute, kindRMW}, {0xFE, "INC", modeAbsoluteX, kindRMW},
		{0xC6, "DEC", modeZeroPage, kindRMW}, {0xD6, "DEC", modeZeroPageX, kindRMW},
		{0xCE, "DEC", modeAbsolute, kindRMW}, {0xDE, "DEC", modeAbsoluteX, kindRMW},
		// Implied / register
		{0xE8, "INX", modeImplied, kindImplied}, {0xC8, "INY", modeImplied, kindImplied},
		{0xCA, "DEX", modeImplied, kindImplied}, {0x88, "DEY", modeImplied, kindImplied},
		{0xAA, "TAX", modeImplied, kindImplied}, {0xA8, "TAY", modeImplied, kindImplied},
		{0x8A, "TXA", modeImplied, kindImplied}, {0x98, "TYA", modeImplied, kindImplied},
		{0xBA, "TSX", modeImplied, kindImplied}, {0x9A, "TXS", modeImplied, kindImplied},
		{0x18, "CLC", modeImplied, kindImplied}, {0x38, "SEC", modeImplied, kindImplied},
		{0x58, "CLI", modeImplied, kindImplied}, {0x78, "SEI", modeImplied, kindImplied},
		{0xB8, "CLV", modeImplied, kindImplied}, {0xD8, "CLD", modeImplied, kindImplied},
		{0xF8, "SED", modeImplied, kindImplied}, {0xEA, "NOP", modeImplied, kindImplied},
		// Branches
		{0x10, "BPL", modeRelative, kindBranch}, {0x30, "BMI", modeRelative, kindBranch},
		{0x50, "BVC", modeRelative, kindBranch}, {0x70, "BVS", modeRelative, kindBranch},
		{0x90, "BCC", modeRelative, kindBranch}, {0xB0, "BCS", modeRelative, kindBranch},
		{0xD0, "BNE", modeRelative, kindBranch}, {0xF0, "BEQ", modeRelative, kindBranch},
		// Jumps / calls / returns
		{0x4C, "JMP", modeAbsolute, kindJump}, {0x6C, "JMP", modeIndirect, kindJump},
		{0x20, "JSR", modeAbsolute, kindJSR},
		{0x60, "RTS", modeImplied, kindRTS},
		{0x40, "RTI", modeImplied, kindRTI},
		{0x00, "BRK", modeImplied, kindBRK},
		// Stack
		{0x48, "PHA", modeImplied, kindPush}, {0x08, "PHP", modeImplied, kindPush},
		{0x68, "PLA", modeImplied, kindPull}, {0x28, "PLP", modeImplied, kindPull},

		// --- Unofficial ---
		{0xA7, "LAX", modeZeroPage, kindRead}, {0xB7, "LAX", modeZeroPageY, kindRead},
		{0xAF, "LAX", modeAbsolute, kindRead}, {0xBF, "LAX", modeAbsoluteY, kindRead},
		{0xA3, "LAX", modeIndirectX, kindRead}, {0xB3, "LAX", modeIndirectY, kindRead},
		{0x87, "SAX", modeZeroPage, kindWrite}, {0x97, "SAX", modeZeroPageY, kindWrite},
		{0x8F, "SAX", modeAbsolute, kindWrite}, {0x83, "SAX", modeIndirectX, kindWrite},
		{0x07, "SLO", modeZeroPage, kindRMW}, {0x17, "SLO", modeZeroPageX, kindRMW},
		{0x0F, "SLO", modeAbsolute, kindRMW}, {0x1F, "SLO", modeAbsoluteX, kindRMW},
		{0x1B, "SLO", modeAbsoluteY, kindRMW}, {0x03, "SLO", modeIndirectX, kindRMW},
		{0x13, "SLO", modeIndirectY, kindRMW},
		{0x27, "RLA", modeZeroPage, kindRMW}, {0x37, "RLA", modeZeroPageX, kindRMW},
		{0x2F, "RLA", modeAbsolute, kindRMW}, {0x3F, "RLA", modeAbsoluteX, kindRMW},
		{0x3B, "RLA", modeAbsoluteY, kindRMW}, {0x23, "RLA", modeIndirectX, kindRMW},
		{0x33, "RLA", modeIndirectY, kindRMW},
		{0x47, "SRE", modeZeroPage, kindRMW}, {0x57, "SRE", modeZeroPageX, kindRMW},
		{0x4F, "SRE", modeAbsolute, kindRMW}, {0x5F, "SRE", modeAbsoluteX, kindRMW},
		{0x5B, "SRE", modeAbsoluteY, kindRMW}, {0x43, "SRE", modeIndirectX, kindRMW},
		{0x53, "SRE", modeIndirectY, kindRMW},
		{0x67, "RRA", modeZeroPage, kindRMW}, {0x77, "RRA", modeZeroPageX, kindRMW},
		{0x6F, "RRA", modeAbsolute, kindRMW}, {0x7F, "RRA", modeAbsoluteX, kindRMW},
		{0x7B, "RRA", modeAbsoluteY, kindRMW}, {0x63, "RRA", modeIndirectX, kindRMW},
		{0x73, "RRA", modeIndirectY, kindRMW},
		{0xC7, "DCP", modeZeroPage, kindRMW}, {0xD7, "DCP", modeZeroPageX, kindRMW},
		{0xCF, "DCP", modeAbsolute, kindRMW}, {0xDF, "DCP", modeAbsoluteX, kindRMW},
		{0xDB, "DCP", modeAbsoluteY, kindRMW}, {0xC3, "DCP", modeIndirectX, kindRMW},
		{0xD3, "DCP", modeIndirectY, kindRMW},
		{0xE7, "ISC", modeZeroPage, kindRMW}, {0xF7, "ISC", modeZeroPageX, kindRMW},
		{0xEF, "ISC", modeAbsolute, kindRMW}, {0xFF, "ISC", modeAbsoluteX, kindRMW},
		{0xFB, "ISC", modeAbsoluteY, kindRMW}, {0xE3, "ISC", modeIndirectX, kindRMW},
		{0xF3, "ISC", modeIndirectY, kindRMW},
		{0x0B, "ANC", modeImmediate, kindRead}, {0x2B, "ANC", modeImmediate, kindRead},
		{0x4B, "ALR", modeImmediate, kindRead}, {0x6B, "ARR", modeImmediate, kindRead},
		{0xCB, "AXS", modeImmediate, kindRead},
		// Unofficial NOPs: zero-page/absolute reads that discard the value,
		// and implied single-byte NOPs, all with documented cycle counts.
		{0x04, "NOP", modeZeroPage, kindRead}, {0x44, "NOP", modeZeroPage, kindRead},
		{0x64, "NOP", modeZeroPage, kindRead},
		{0x0C, "NOP", modeAbsolute, kindRead},
		{0x14, "NOP", modeZeroPageX, kindRead}, {0x34, "NOP", modeZeroPageX, kindRead},
		{0x54, "NOP", modeZeroPageX, kindRead}, {0x74, "NOP", modeZeroPageX, kindRead},
		{0xD4, "NOP", modeZeroPageX, kindRead}, {0xF4, "NOP", modeZeroPageX, kindRead},
		{0x1A, "NOP", modeImplied, kindImplied}, {0x3A, "NOP", modeImplied, kindImplied},
		{0x5A, "NOP", modeImplied, kindImplied}, {0x7A, "NOP", modeImplied, kindImplied},
		{0xDA, "NOP", modeImplied, kindImplied}, {0xFA, "NOP", modeImplied, kindImplied},
		{0x80, "NOP", modeImmediate, kindRead}, {0x82, "NOP", modeImmediate, kindRead},
		{0x89, "NOP", modeImmediate, kindRead}, {0xC2, "NOP", modeImmediate, kindRead},
		{0xE2, "NOP", modeImmediate, kindRead},
		{0x1C, "NOP", modeAbsoluteX, kindRead}, {0x3C, "NOP", modeAbsoluteX, kindRead},
		{0x5C, "NOP", modeAbsoluteX, kindRead}, {0x7C, "NOP", modeAbsoluteX, kindRead},
		{0xDC, "NOP", modeAbsoluteX, kindRead}, {0xFC, "NOP", modeAbsoluteX, kindRead},
	}

	for _, e := range entries {
		opcodeTable[e.op] = build(e)
	}

	// Every opcode left unassigned (the remaining JAM/KIL slots and a
	// handful of unstable combo opcodes this core doesn't model) halts
	// the CPU the way real silicon does on an illegal fetch — safer than
	// silently treating it as a two-cycle NOP and drifting out of sync.
	for op := range opcodeTable {
		if opcodeTable[op].name == "" {
			opcodeTable[op] = instr{name: "JAM", mode: modeImplied, kind: kindImplied,
				impl: func(c *CPU) { c.halted = true }}
		}
	}
}
