package ppu

import "github.com/kvance/nescore/pkg/cartridge/mapper"

// ppuBusRead/ppuBusWrite route the PPU's 14-bit address space: pattern
// tables ($0000-$1FFF) go straight to the mapper's CHR access, while
// nametable space ($2000-$2FFF, mirrored at $3000-$3EFF) is resolved
// through the mapper's mirroring mode into one of the PPU's two
// internal 1 KiB pages — unless the mapper claims an external page of
// its own (four-screen boards with extra onboard VRAM), in which case
// the mapper services the access directly.
func (p *PPU) ppuBusRead(addr uint16) uint8 {
	addr &= 0x3FFF
	p.Mapper.UpdatePPUAddr(addr)
	if addr < 0x2000 {
		return p.Mapper.PPURead(addr)
	}
	nt := addr & 0x2FFF
	ref := p.Mapper.Nametable(nt)
	if ref.Kind == mapper.External {
		return p.Mapper.PPURead(nt)
	}
	return p.nametableRAM[nametablePage(ref)][nt&0x03FF]
}

func (p *PPU) ppuBusWrite(addr uint16, value uint8) {
	addr &= 0x3FFF
	if addr < 0x2000 {
		p.Mapper.PPUWrite(addr, value)
		return
	}
	nt := addr & 0x2FFF
	ref := p.Mapper.Nametable(nt)
	if ref.Kind == mapper.External {
		p.Mapper.PPUWrite(nt, value)
		return
	}
	p.nametableRAM[nametablePage(ref)][nt&0x03FF] = value
}

func nametablePage(ref mapper.Nametable) int {
	if ref.Kind == mapper.InternalB {
		return 1
	}
	return 0
}
