package mapper

import "github.com/kvance/nescore/pkg/cartridge"

// BxROM is mapper 34 (NINA-001-compatible PRG-only variant): a single
// 32 KiB PRG bank register, fixed CHR (ROM if present, else RAM).
type BxROM struct {
	cart    *cartridge.Cartridge
	chr     *chrStore
	mirror  MirrorMode
	prgBank uint8
}

func NewBxROM(cart *cartridge.Cartridge) *BxROM {
	return &BxROM{cart: cart, chr: newCHRStore(cart), mirror: headerMirror(cart)}
}

func (m *BxROM) Reset() { m.prgBank = 0 }

func (m *BxROM) CPURead(addr uint16) uint8 { return m.CPUPeek(addr) }
func (m *BxROM) CPUPeek(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	return m.cart.PRGROM[bankOffset(len(m.cart.PRGROM), 32768, int(m.prgBank))+int(addr-0x8000)]
}

func (m *BxROM) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x8000 {
		m.prgBank = v & 0x0F
	}
}

func (m *BxROM) PPURead(addr uint16) uint8     { return m.chr.read(int(addr)) }
func (m *BxROM) PPUPeek(addr uint16) uint8     { return m.chr.read(int(addr)) }
func (m *BxROM) PPUWrite(addr uint16, v uint8) { m.chr.write(int(addr), v) }

func (m *BxROM) Tick()                          {}
func (m *BxROM) UpdatePPUAddr(addr uint16)      {}
func (m *BxROM) Nametable(addr uint16) Nametable { return ResolveNametable(m.mirror, addr) }
func (m *BxROM) IRQ() bool                      { return false }
func (m *BxROM) SaveWRAM() []byte               { return nil }
func (m *BxROM) RestoreWRAM(data []byte)        {}

func (m *BxROM) SaveState() []byte {
	w := &stateWriter{}
	w.u8(m.prgBank)
	w.blob(m.chr.save())
	return w.buf
}
func (m *BxROM) LoadState(data []byte) {
	r := &stateReader{data: data}
	m.prgBank = r.u8()
	m.chr.restore(r.blob())
}
