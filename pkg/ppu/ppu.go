// Package ppu implements the 2C02 (NTSC) / 2C07 (PAL) picture
// processing unit per spec.md §4.4: a per-dot pipeline driving
// background shift registers and a sprite evaluation/fetch pipeline,
// with the register-quirk behavior ($2002/$2007 buffered reads, NMI
// suppression, RMW double-increment) real games depend on.
package ppu

import (
	"github.com/kvance/nescore/pkg/cartridge/mapper"
	"github.com/kvance/nescore/pkg/region"
)

// Mapper is the subset of cartridge/mapper.Mapper the PPU drives
// directly: CHR access, nametable routing, and A12 address observation
// for mappers with a scanline/A12-edge IRQ counter.
type Mapper interface {
	PPURead(addr uint16) uint8
	PPUPeek(addr uint16) uint8
	PPUWrite(addr uint16, value uint8)
	UpdatePPUAddr(addr uint16)
	Nametable(addr uint16) mapper.Nametable
}

const (
	ctrlNameTable   = 0x03
	ctrlIncrement   = 0x04
	ctrlSpriteTable = 0x08
	ctrlBGTable     = 0x10
	ctrlSpriteSize  = 0x20
	ctrlNMIEnable   = 0x80

	maskGreyscale  = 0x01
	maskBGLeft     = 0x02
	maskSpriteLeft = 0x04
	maskBGShow     = 0x08
	maskSpriteShow = 0x10

	statusOverflow = 0x20
	statusSprite0  = 0x40
	statusVBlank   = 0x80
)

// PPU is the full per-dot rendering pipeline. It holds no back-pointer
// to the machine: CHR/nametable access goes through Mapper, and NMI
// output is polled by the CPU via NMILine.
type PPU struct {
	Profile *region.Profile
	Mapper  Mapper
	Palette *PaletteManager

	ctrl, mask, status uint8
	oamAddr             uint8

	v, t uint16
	x    uint8
	w    bool

	readBuffer uint8
	openBus    uint8

	OAM          [256]uint8
	secondaryOAM [32]uint8

	nametableRAM [2][1024]uint8 // internal A/B pages; externally-mirrored mappers route here too

	Dot      int
	Scanline int
	Frame    uint64
	oddFrame bool

	// FrameBuffer holds one packed index per pixel: the low 6 bits are
	// the master-palette entry (0-63), the next 3 are the PPUMASK
	// emphasis bits. The host resolves these to RGB against its region's
	// palette and emphasis rotation; the PPU itself never produces RGB.
	FrameBuffer [256 * 240]uint16

	// Background pipeline
	ntByte, atByte, bgLoByte, bgHiByte uint8
	bgShiftLo, bgShiftHi               uint16
	atShiftLo, atShiftHi               uint16

	// Sprite pipeline
	spriteCount      int
	spritePatternLo  [8]uint8
	spritePatternHi  [8]uint8
	spriteAttr       [8]uint8
	spriteX          [8]uint8
	spriteIsZero     [8]bool
	sprite0OnLine    bool
	secondaryIdx     int
	oamEvalN         int
	oamEvalM         int
	spriteOverflowed bool

	suppressVBlank bool // set when CPU reads $2002 on the exact set cycle
	nmiOutput      bool
}

// New creates a PPU for the given region profile.
func New(profile *region.Profile) *PPU {
	p := &PPU{Profile: profile, Palette: NewPaletteManager()}
	p.Scanline = profile.PrerenderScanline
	return p
}

// Reset returns the PPU to its power-up state.
func (p *PPU) Reset() {
	p.ctrl, p.mask = 0, 0
	p.w = false
	p.Dot = 0
	p.Scanline = p.Profile.PrerenderScanline
	p.Frame = 0
	p.oddFrame = false
}

// NMILine reports the PPU's NMI output: high while PPUCTRL.7 is set and
// the vblank flag is set. The CPU edge-detects this line itself.
func (p *PPU) NMILine() bool {
	return p.ctrl&ctrlNMIEnable != 0 && p.status&statusVBlank != 0
}

// --- CPU-facing register interface ($2000-$2007, mirrored every 8 bytes) ---

// Read implements bus.Reader for the $2000-$3FFF mirror.
func (p *PPU) Read(addr uint16) uint8 {
	switch addr & 7 {
	case 2:
		v := (p.status & 0xE0) | (p.openBus & 0x1F)
		p.status &^= statusVBlank
		p.w = false
		if p.Scanline == p.Profile.VBlankStartLine && p.Dot == 1 {
			p.suppressVBlank = true
		}
		p.openBus = v
		return v
	case 4:
		v := p.OAM[p.oamAddr]
		p.openBus = v
		return v
	case 7:
		var v uint8
		if p.v&0x3FFF >= 0x3F00 {
			v = p.paletteReadThrough()
			p.readBuffer = p.ppuBusRead(p.v & 0x2FFF)
		} else {
			v = p.readBuffer
			p.readBuffer = p.ppuBusRead(p.v)
		}
		p.incrementV()
		p.openBus = v
		return v
	default:
		return p.openBus
	}
}

// Peek reads $2002/$2004/$2007 without the read side effects, for
// debuggers and save-state dumps.
func (p *PPU) Peek(addr uint16) uint8 {
	switch addr & 7 {
	case 2:
		return (p.status & 0xE0) | (p.openBus & 0x1F)
	case 4:
		return p.OAM[p.oamAddr]
	case 7:
		if p.v&0x3FFF >= 0x3F00 {
			return p.paletteReadThrough()
		}
		return p.readBuffer
	default:
		return p.openBus
	}
}

func (p *PPU) paletteReadThrough() uint8 {
	v := p.Palette.Read(uint8(p.v))
	if p.mask&maskGreyscale != 0 {
		v &= 0x30
	}
	return v
}

// Write implements bus.Writer for the $2000-$3FFF mirror.
func (p *PPU) Write(addr uint16, value uint8) {
	p.openBus = value
	switch addr & 7 {
	case 0:
		wasNMI := p.ctrl&ctrlNMIEnable != 0
		p.ctrl = value
		p.t = (p.t &^ 0x0C00) | uint16(value&ctrlNameTable)<<10
		if !wasNMI && p.ctrl&ctrlNMIEnable != 0 && p.status&statusVBlank != 0 {
			// Edge appears immediately; CPU's own polling will catch it
			// on its next cycle via NMILine.
		}
	case 1:
		p.mask = value
		p.Palette.SetEmphasis(value)
	case 3:
		p.oamAddr = value
	case 4:
		p.OAM[p.oamAddr] = value
		p.oamAddr++
	case 5:
		if !p.w {
			p.t = (p.t &^ 0x001F) | uint16(value>>3)
			p.x = value & 0x07
		} else {
			p.t = (p.t &^ 0x73E0) | uint16(value&0x07)<<12 | uint16(value&0xF8)<<2
		}
		p.w = !p.w
	case 6:
		if !p.w {
			p.t = (p.t &^ 0xFF00) | uint16(value&0x3F)<<8
		} else {
			p.t = (p.t &^ 0x00FF) | uint16(value)
			p.v = p.t
			p.Mapper.UpdatePPUAddr(p.v)
		}
		p.w = !p.w
	case 7:
		if p.v&0x3FFF >= 0x3F00 {
			p.Palette.Write(uint8(p.v), value)
		} else {
			p.ppuBusWrite(p.v, value)
		}
		p.incrementV()
	}
}

// incrementV services a $2007 read or write. While rendering is active
// the address-increment logic is shared with the background fetch
// pipeline: instead of the plain +1/+32 an access would get otherwise,
// it clocks the same coarse-X and Y increments a background fetch does,
// which is why games that poll $2007 mid-frame get scrambled scrolling.
func (p *PPU) incrementV() {
	if p.renderingEnabled() && (p.Scanline < 240 || p.Scanline == p.Profile.PrerenderScanline) {
		p.incrementX()
		p.incrementY()
	} else if p.ctrl&ctrlIncrement != 0 {
		p.v += 32
	} else {
		p.v++
	}
	p.v &= 0x7FFF
	p.Mapper.UpdatePPUAddr(p.v)
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskBGShow|maskSpriteShow) != 0
}
