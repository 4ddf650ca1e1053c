package ppu

// backgroundCycle runs the fetch/shift pipeline for one dot of a
// visible or pre-render scanline. Tiles are fetched two tiles
// ahead of where they're shifted out, exactly as the 2C02 does:
// dots 1-256 fetch the current line while shifting out the previous
// fetch's tile, dots 321-336 prefetch the first two tiles of the next
// line, and dots 337-340 perform two harmless dummy nametable fetches.
func (p *PPU) backgroundCycle() {
	switch {
	case p.Dot >= 1 && p.Dot <= 256:
		p.shiftBackground()
		p.fetchStep(p.Dot)
		if p.Dot == 256 {
			p.incrementY()
		}
	case p.Dot == 257:
		p.reloadShiftRegisters()
		p.copyHorizontal()
	case p.Dot >= 321 && p.Dot <= 336:
		p.shiftBackground()
		p.fetchStep(p.Dot)
	case p.Dot >= 337 && p.Dot <= 340:
		if p.Dot == 338 || p.Dot == 340 {
			p.ntByte = p.ppuBusRead(0x2000 | (p.v & 0x0FFF))
		}
	}
	if p.Scanline == p.Profile.PrerenderScanline && p.Dot >= 280 && p.Dot <= 304 {
		p.copyVertical()
	}
}

// fetchStep performs the 8-dot NT/AT/pattern-lo/pattern-hi sequence.
// Each sub-fetch reads and latches its result on the odd dot of its
// two-dot slot, matching real timing closely enough for mapper A12 observation and bus contention.
func (p *PPU) fetchStep(dot int) {
	switch dot % 8 {
	case 1:
		p.ntByte = p.ppuBusRead(0x2000 | (p.v & 0x0FFF))
	case 3:
		addr := 0x23C0 | (p.v & 0x0C00) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
		at := p.ppuBusRead(addr)
		shift := ((p.v >> 4) & 4) | (p.v & 2)
		p.atByte = (at >> shift) & 0x03
	case 5:
		p.bgLoByte = p.ppuBusRead(p.patternAddr(false))
	case 7:
		p.bgHiByte = p.ppuBusRead(p.patternAddr(true))
		p.reloadShiftRegisters()
		p.incrementX()
	}
}

func (p *PPU) patternAddr(hi bool) uint16 {
	table := uint16(0)
	if p.ctrl&ctrlBGTable != 0 {
		table = 0x1000
	}
	fineY := (p.v >> 12) & 0x07
	addr := table | uint16(p.ntByte)<<4 | fineY
	if hi {
		addr |= 0x0008
	}
	return addr
}

func (p *PPU) reloadShiftRegisters() {
	p.bgShiftLo = (p.bgShiftLo &^ 0x00FF) | uint16(p.bgLoByte)
	p.bgShiftHi = (p.bgShiftHi &^ 0x00FF) | uint16(p.bgHiByte)
	atLo, atHi := uint16(0), uint16(0)
	if p.atByte&1 != 0 {
		atLo = 0x00FF
	}
	if p.atByte&2 != 0 {
		atHi = 0x00FF
	}
	p.atShiftLo = (p.atShiftLo &^ 0x00FF) | atLo
	p.atShiftHi = (p.atShiftHi &^ 0x00FF) | atHi
}

func (p *PPU) shiftBackground() {
	p.bgShiftLo <<= 1
	p.bgShiftHi <<= 1
	p.atShiftLo <<= 1
	p.atShiftHi <<= 1
}

func (p *PPU) incrementX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = (p.v &^ 0x03E0) | (y << 5)
}

func (p *PPU) copyHorizontal() {
	p.v = (p.v &^ 0x041F) | (p.t & 0x041F)
}

func (p *PPU) copyVertical() {
	p.v = (p.v &^ 0x7BE0) | (p.t & 0x7BE0)
}

// backgroundPixel returns the attribute-selected palette (0-3), the color
// index within it (0-3) and whether it's opaque, for the pixel
// about to be shifted out at fine-x offset p.x.
func (p *PPU) backgroundPixel() (palette, color uint8, opaque bool) {
	if p.mask&maskBGShow == 0 {
		return 0, 0, false
	}
	if p.Dot <= 8 && p.mask&maskBGLeft == 0 {
		return 0, 0, false
	}
	mux := uint16(0x8000) >> p.x
	lo := uint8(0)
	if p.bgShiftLo&mux != 0 {
		lo = 1
	}
	hi := uint8(0)
	if p.bgShiftHi&mux != 0 {
		hi = 2
	}
	color = lo | hi
	pLo := uint8(0)
	if p.atShiftLo&mux != 0 {
		pLo = 1
	}
	pHi := uint8(0)
	if p.atShiftHi&mux != 0 {
		pHi = 2
	}
	palette = pLo | pHi
	return palette, color, color != 0
}
