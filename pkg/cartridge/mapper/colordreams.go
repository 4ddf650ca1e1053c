package mapper

import "github.com/kvance/nescore/pkg/cartridge"

// ColorDreams is mapper 11: one register packs a 32 KiB PRG bank in bits
// 0-1 and an 8 KiB CHR bank in bits 4-7.
type ColorDreams struct {
	cart    *cartridge.Cartridge
	chr     *chrStore
	mirror  MirrorMode
	prgBank uint8
	chrBank uint8
}

func NewColorDreams(cart *cartridge.Cartridge) *ColorDreams {
	return &ColorDreams{cart: cart, chr: newCHRStore(cart), mirror: headerMirror(cart)}
}

func (m *ColorDreams) Reset() { m.prgBank = 0; m.chrBank = 0 }

func (m *ColorDreams) CPURead(addr uint16) uint8 { return m.CPUPeek(addr) }
func (m *ColorDreams) CPUPeek(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	return m.cart.PRGROM[bankOffset(len(m.cart.PRGROM), 32768, int(m.prgBank))+int(addr-0x8000)]
}

func (m *ColorDreams) CPUWrite(addr uint16, v uint8) {
	if addr < 0x8000 {
		return
	}
	m.prgBank = v & 0x03
	m.chrBank = (v >> 4) & 0x0F
}

func (m *ColorDreams) chrOffset(addr uint16) int {
	return bankOffset(len(m.chr.data), 8192, int(m.chrBank)) + int(addr)
}

func (m *ColorDreams) PPURead(addr uint16) uint8     { return m.chr.read(m.chrOffset(addr)) }
func (m *ColorDreams) PPUPeek(addr uint16) uint8     { return m.chr.read(m.chrOffset(addr)) }
func (m *ColorDreams) PPUWrite(addr uint16, v uint8) { m.chr.write(m.chrOffset(addr), v) }

func (m *ColorDreams) Tick()                          {}
func (m *ColorDreams) UpdatePPUAddr(addr uint16)      {}
func (m *ColorDreams) Nametable(addr uint16) Nametable { return ResolveNametable(m.mirror, addr) }
func (m *ColorDreams) IRQ() bool                      { return false }
func (m *ColorDreams) SaveWRAM() []byte               { return nil }
func (m *ColorDreams) RestoreWRAM(data []byte)        {}

func (m *ColorDreams) SaveState() []byte {
	w := &stateWriter{}
	w.u8(m.prgBank)
	w.u8(m.chrBank)
	w.blob(m.chr.save())
	return w.buf
}
func (m *ColorDreams) LoadState(data []byte) {
	r := &stateReader{data: data}
	m.prgBank = r.u8()
	m.chrBank = r.u8()
	m.chr.restore(r.blob())
}
