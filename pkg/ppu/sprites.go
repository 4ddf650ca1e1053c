package ppu

// spriteHeight returns 8 or 16 depending on PPUCTRL's sprite-size bit.
func (p *PPU) spriteHeight() int {
	if p.ctrl&ctrlSpriteSize != 0 {
		return 16
	}
	return 8
}

// spriteCycle drives secondary-OAM clear, sprite evaluation (with the
// famous byte-skew overflow bug), and the 8-sprite pattern fetch phase
// for one dot of a visible or pre-render scanline.
func (p *PPU) spriteCycle() {
	switch {
	case p.Dot >= 1 && p.Dot <= 64:
		if p.Dot&1 == 1 {
			p.secondaryOAM[(p.Dot-1)/2] = 0xFF
		}
	case p.Dot == 65:
		p.oamEvalN, p.oamEvalM = 0, 0
		p.secondaryIdx = 0
		p.sprite0OnLine = false
		p.spriteOverflowed = false
	case p.Dot >= 65 && p.Dot <= 256:
		p.evaluateSprite()
	case p.Dot >= 257 && p.Dot <= 320:
		p.fetchSprites()
	}
}

func (p *PPU) evaluateSprite() {
	if p.oamEvalN >= 64 {
		return
	}
	y := p.OAM[p.oamEvalN*4]
	line := p.Scanline
	inRange := line >= int(y) && line < int(y)+p.spriteHeight()

	if p.secondaryIdx < 8 {
		if inRange {
			base := p.secondaryIdx * 4
			copy(p.secondaryOAM[base:base+4], p.OAM[p.oamEvalN*4:p.oamEvalN*4+4])
			if p.oamEvalN == 0 {
				p.sprite0OnLine = true
			}
			p.secondaryIdx++
		}
		p.oamEvalN++
		return
	}

	// Secondary OAM is full: replicate the hardware's sprite-overflow
	// bug, which scans the wrong byte of subsequent entries once the
	// comparison counter m desyncs from 0.
	y = p.OAM[p.oamEvalN*4+p.oamEvalM]
	inRange = line >= int(y) && line < int(y)+p.spriteHeight()
	if inRange {
		p.status |= statusOverflow
		p.spriteOverflowed = true
	}
	p.oamEvalM++
	if p.oamEvalM >= 4 {
		p.oamEvalM = 0
		p.oamEvalN++
	} else if !inRange {
		p.oamEvalN++
	}
	if p.oamEvalN >= 64 {
		p.oamEvalN = 64
	}
}

func (p *PPU) fetchSprites() {
	slot := (p.Dot - 257) / 8
	phase := (p.Dot - 257) % 8
	if slot >= 8 {
		return
	}
	if phase != 7 {
		return
	}
	p.spriteCount = p.secondaryIdx
	if slot >= p.secondaryIdx {
		p.spritePatternLo[slot] = 0
		p.spritePatternHi[slot] = 0
		p.spriteX[slot] = 0xFF
		p.spriteAttr[slot] = 0
		p.spriteIsZero[slot] = false
		return
	}
	base := slot * 4
	spriteY := p.secondaryOAM[base]
	tile := p.secondaryOAM[base+1]
	attr := p.secondaryOAM[base+2]
	x := p.secondaryOAM[base+3]

	row := p.Scanline - int(spriteY)
	if attr&0x80 != 0 { // vertical flip
		row = p.spriteHeight() - 1 - row
	}

	var addr uint16
	if p.spriteHeight() == 16 {
		table := uint16(tile&1) * 0x1000
		tileIdx := uint16(tile &^ 1)
		if row >= 8 {
			tileIdx++
			row -= 8
		}
		addr = table | tileIdx<<4 | uint16(row)
	} else {
		table := uint16(0)
		if p.ctrl&ctrlSpriteTable != 0 {
			table = 0x1000
		}
		addr = table | uint16(tile)<<4 | uint16(row)
	}

	lo := p.ppuBusRead(addr)
	hi := p.ppuBusRead(addr | 0x0008)
	if attr&0x40 != 0 { // horizontal flip
		lo = reverseBits(lo)
		hi = reverseBits(hi)
	}
	p.spritePatternLo[slot] = lo
	p.spritePatternHi[slot] = hi
	p.spriteAttr[slot] = attr
	p.spriteX[slot] = x
	p.spriteIsZero[slot] = slot == 0 && p.sprite0OnLine
}

func reverseBits(b uint8) uint8 {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}

// spritePixel returns the palette/color-index/priority/is-sprite-0 for
// the sprite layer at the current dot, picking the first (highest
// OAM-priority) opaque sprite whose 8-pixel window covers this dot.
func (p *PPU) spritePixel() (palette, color uint8, behindBG, isZero, opaque bool) {
	if p.mask&maskSpriteShow == 0 {
		return 0, 0, false, false, false
	}
	if p.Dot <= 8 && p.mask&maskSpriteLeft == 0 {
		return 0, 0, false, false, false
	}
	x := p.Dot - 1
	for i := 0; i < p.spriteCount && i < 8; i++ {
		off := x - int(p.spriteX[i])
		if off < 0 || off > 7 {
			continue
		}
		lo := (p.spritePatternLo[i] >> (7 - uint(off))) & 1
		hi := (p.spritePatternHi[i] >> (7 - uint(off))) & 1
		c := lo | hi<<1
		if c == 0 {
			continue
		}
		attr := p.spriteAttr[i]
		return attr & 0x03, c, attr&0x20 != 0, p.spriteIsZero[i], true
	}
	return 0, 0, false, false, false
}
