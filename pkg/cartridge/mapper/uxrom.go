package mapper

import "github.com/kvance/nescore/pkg/cartridge"

// UxROM is mapper 2: a single 16 KiB switchable bank at $8000, with the
// last 16 KiB bank permanently fixed at $C000. CHR is always RAM (or a
// fixed 8 KiB ROM bank) — UxROM boards have no CHR bank register.
type UxROM struct {
	cart   *cartridge.Cartridge
	chr    *chrStore
	ram    *prgRAM
	mirror MirrorMode
	bank   uint8
}

func NewUxROM(cart *cartridge.Cartridge) *UxROM {
	return &UxROM{cart: cart, chr: newCHRStore(cart), ram: newPRGRAM(cart), mirror: headerMirror(cart)}
}

func (m *UxROM) Reset() { m.bank = 0 }

func (m *UxROM) CPURead(addr uint16) uint8 { return m.CPUPeek(addr) }
func (m *UxROM) CPUPeek(addr uint16) uint8 {
	switch {
	case addr < 0x6000:
		return 0
	case addr < 0x8000:
		return m.ram.read(int(addr - 0x6000))
	case addr < 0xC000:
		return m.cart.PRGROM[bankOffset(len(m.cart.PRGROM), 16384, int(m.bank))+int(addr-0x8000)]
	default:
		return m.cart.PRGROM[bankOffset(len(m.cart.PRGROM), 16384, -1)+int(addr-0xC000)]
	}
}

func (m *UxROM) CPUWrite(addr uint16, v uint8) {
	switch {
	case addr < 0x6000:
	case addr < 0x8000:
		m.ram.write(int(addr-0x6000), v)
	default:
		m.bank = v
	}
}

func (m *UxROM) PPURead(addr uint16) uint8     { return m.chr.read(int(addr)) }
func (m *UxROM) PPUPeek(addr uint16) uint8     { return m.chr.read(int(addr)) }
func (m *UxROM) PPUWrite(addr uint16, v uint8) { m.chr.write(int(addr), v) }

func (m *UxROM) Tick()                          {}
func (m *UxROM) UpdatePPUAddr(addr uint16)      {}
func (m *UxROM) Nametable(addr uint16) Nametable { return ResolveNametable(m.mirror, addr) }
func (m *UxROM) IRQ() bool                      { return false }

func (m *UxROM) SaveWRAM() []byte {
	if !m.cart.Battery {
		return nil
	}
	return m.ram.save()
}
func (m *UxROM) RestoreWRAM(data []byte) { m.ram.restore(data) }

func (m *UxROM) SaveState() []byte {
	w := &stateWriter{}
	w.u8(m.bank)
	w.blob(m.ram.save())
	w.blob(m.chr.save())
	return w.buf
}
func (m *UxROM) LoadState(data []byte) {
	r := &stateReader{data: data}
	m.bank = r.u8()
	m.ram.restore(r.blob())
	m.chr.restore(r.blob())
}
