package ppu

import "encoding/binary"

// SaveState encodes every register, latch, and RAM the PPU needs to
// resume mid-frame: the framebuffer itself is not included, since the
// next frame regenerates it pixel by pixel before anything reads it.
func (p *PPU) SaveState() []byte {
	buf := make([]byte, 0, 512)
	buf = append(buf, p.ctrl, p.mask, p.status, p.oamAddr)

	var u16 [2]byte
	putU16 := func(v uint16) {
		binary.LittleEndian.PutUint16(u16[:], v)
		buf = append(buf, u16[:]...)
	}
	putU16(p.v)
	putU16(p.t)
	buf = append(buf, p.x, boolByte(p.w), p.readBuffer, p.openBus)

	buf = append(buf, p.OAM[:]...)
	buf = append(buf, p.secondaryOAM[:]...)
	buf = append(buf, p.nametableRAM[0][:]...)
	buf = append(buf, p.nametableRAM[1][:]...)

	var u32 [4]byte
	putU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(u32[:], v)
		buf = append(buf, u32[:]...)
	}
	putU32(uint32(p.Dot))
	putU32(uint32(p.Scanline))
	var u64 [8]byte
	binary.LittleEndian.PutUint64(u64[:], p.Frame)
	buf = append(buf, u64[:]...)
	buf = append(buf, boolByte(p.oddFrame))

	buf = append(buf, p.ntByte, p.atByte, p.bgLoByte, p.bgHiByte)
	putU16(p.bgShiftLo)
	putU16(p.bgShiftHi)
	putU16(p.atShiftLo)
	putU16(p.atShiftHi)

	putU32(uint32(p.spriteCount))
	buf = append(buf, p.spritePatternLo[:]...)
	buf = append(buf, p.spritePatternHi[:]...)
	buf = append(buf, p.spriteAttr[:]...)
	buf = append(buf, p.spriteX[:]...)
	for _, z := range p.spriteIsZero {
		buf = append(buf, boolByte(z))
	}
	buf = append(buf, boolByte(p.sprite0OnLine))
	putU32(uint32(p.secondaryIdx))
	putU32(uint32(p.oamEvalN))
	putU32(uint32(p.oamEvalM))
	buf = append(buf, boolByte(p.spriteOverflowed), boolByte(p.suppressVBlank))

	buf = append(buf, p.Palette.RAM[:]...)
	buf = append(buf, p.Palette.Emphasis)

	return buf
}

// LoadState restores everything SaveState captured.
func (p *PPU) LoadState(data []byte) {
	r := ppuReader{data: data}
	p.ctrl = r.u8()
	p.mask = r.u8()
	p.status = r.u8()
	p.oamAddr = r.u8()
	p.v = r.u16()
	p.t = r.u16()
	p.x = r.u8()
	p.w = r.boolv()
	p.readBuffer = r.u8()
	p.openBus = r.u8()

	r.bytes(p.OAM[:])
	r.bytes(p.secondaryOAM[:])
	r.bytes(p.nametableRAM[0][:])
	r.bytes(p.nametableRAM[1][:])

	p.Dot = int(r.u32())
	p.Scanline = int(r.u32())
	p.Frame = r.u64()
	p.oddFrame = r.boolv()

	p.ntByte = r.u8()
	p.atByte = r.u8()
	p.bgLoByte = r.u8()
	p.bgHiByte = r.u8()
	p.bgShiftLo = r.u16()
	p.bgShiftHi = r.u16()
	p.atShiftLo = r.u16()
	p.atShiftHi = r.u16()

	p.spriteCount = int(r.u32())
	r.bytes(p.spritePatternLo[:])
	r.bytes(p.spritePatternHi[:])
	r.bytes(p.spriteAttr[:])
	r.bytes(p.spriteX[:])
	for i := range p.spriteIsZero {
		p.spriteIsZero[i] = r.boolv()
	}
	p.sprite0OnLine = r.boolv()
	p.secondaryIdx = int(r.u32())
	p.oamEvalN = int(r.u32())
	p.oamEvalM = int(r.u32())
	p.spriteOverflowed = r.boolv()
	p.suppressVBlank = r.boolv()

	r.bytes(p.Palette.RAM[:])
	p.Palette.Emphasis = r.u8()
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// ppuReader is a small bounds-checked cursor over a SaveState blob.
type ppuReader struct {
	data []byte
	pos  int
}

func (r *ppuReader) u8() uint8 {
	if r.pos >= len(r.data) {
		return 0
	}
	v := r.data[r.pos]
	r.pos++
	return v
}
func (r *ppuReader) boolv() bool { return r.u8() != 0 }
func (r *ppuReader) u16() uint16 {
	if r.pos+2 > len(r.data) {
		r.pos = len(r.data)
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}
func (r *ppuReader) u32() uint32 {
	if r.pos+4 > len(r.data) {
		r.pos = len(r.data)
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}
func (r *ppuReader) u64() uint64 {
	if r.pos+8 > len(r.data) {
		r.pos = len(r.data)
		return 0
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v
}
func (r *ppuReader) bytes(dst []byte) {
	n := len(dst)
	if r.pos+n > len(r.data) {
		n = len(r.data) - r.pos
		if n < 0 {
			n = 0
		}
	}
	copy(dst, r.data[r.pos:r.pos+n])
	r.pos += n
}
