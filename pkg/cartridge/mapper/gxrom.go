package mapper

import "github.com/kvance/nescore/pkg/cartridge"

// GxROM is mapper 66: a single register at $8000-$FFFF packs a 32 KiB
// PRG bank in bits 4-5 and an 8 KiB CHR bank in bits 0-1.
type GxROM struct {
	cart    *cartridge.Cartridge
	chr     *chrStore
	mirror  MirrorMode
	prgBank uint8
	chrBank uint8
}

func NewGxROM(cart *cartridge.Cartridge) *GxROM {
	return &GxROM{cart: cart, chr: newCHRStore(cart), mirror: headerMirror(cart)}
}

func (m *GxROM) Reset() { m.prgBank = 0; m.chrBank = 0 }

func (m *GxROM) CPURead(addr uint16) uint8 { return m.CPUPeek(addr) }
func (m *GxROM) CPUPeek(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	return m.cart.PRGROM[bankOffset(len(m.cart.PRGROM), 32768, int(m.prgBank))+int(addr-0x8000)]
}

func (m *GxROM) CPUWrite(addr uint16, v uint8) {
	if addr < 0x8000 {
		return
	}
	m.prgBank = (v >> 4) & 0x03
	m.chrBank = v & 0x03
}

func (m *GxROM) chrOffset(addr uint16) int {
	return bankOffset(len(m.chr.data), 8192, int(m.chrBank)) + int(addr)
}

func (m *GxROM) PPURead(addr uint16) uint8     { return m.chr.read(m.chrOffset(addr)) }
func (m *GxROM) PPUPeek(addr uint16) uint8     { return m.chr.read(m.chrOffset(addr)) }
func (m *GxROM) PPUWrite(addr uint16, v uint8) { m.chr.write(m.chrOffset(addr), v) }

func (m *GxROM) Tick()                          {}
func (m *GxROM) UpdatePPUAddr(addr uint16)      {}
func (m *GxROM) Nametable(addr uint16) Nametable { return ResolveNametable(m.mirror, addr) }
func (m *GxROM) IRQ() bool                      { return false }
func (m *GxROM) SaveWRAM() []byte               { return nil }
func (m *GxROM) RestoreWRAM(data []byte)        {}

func (m *GxROM) SaveState() []byte {
	w := &stateWriter{}
	w.u8(m.prgBank)
	w.u8(m.chrBank)
	w.blob(m.chr.save())
	return w.buf
}
func (m *GxROM) LoadState(data []byte) {
	r := &stateReader{data: data}
	m.prgBank = r.u8()
	m.chrBank = r.u8()
	m.chr.restore(r.blob())
}
