package mapper

import "github.com/kvance/nescore/pkg/cartridge"

// CNROM is mapper 3: fixed PRG-ROM exactly like NROM, with a single
// switchable 8 KiB CHR-ROM bank selected by the low bits of any write to
// $8000-$FFFF.
type CNROM struct {
	cart    *cartridge.Cartridge
	chr     *chrStore
	ram     *prgRAM
	mirror  MirrorMode
	chrBank uint8
}

func NewCNROM(cart *cartridge.Cartridge) *CNROM {
	return &CNROM{cart: cart, chr: newCHRStore(cart), ram: newPRGRAM(cart), mirror: headerMirror(cart)}
}

func (m *CNROM) Reset() { m.chrBank = 0 }

func (m *CNROM) CPURead(addr uint16) uint8 { return m.CPUPeek(addr) }
func (m *CNROM) CPUPeek(addr uint16) uint8 {
	switch {
	case addr < 0x6000:
		return 0
	case addr < 0x8000:
		return m.ram.read(int(addr - 0x6000))
	default:
		off := int(addr-0x8000) % len(m.cart.PRGROM)
		return m.cart.PRGROM[off]
	}
}

func (m *CNROM) CPUWrite(addr uint16, v uint8) {
	switch {
	case addr < 0x6000:
	case addr < 0x8000:
		m.ram.write(int(addr-0x6000), v)
	default:
		m.chrBank = v & 0x03
	}
}

func (m *CNROM) chrOffset(addr uint16) int {
	return bankOffset(len(m.chr.data), 8192, int(m.chrBank)) + int(addr)
}

func (m *CNROM) PPURead(addr uint16) uint8     { return m.chr.read(m.chrOffset(addr)) }
func (m *CNROM) PPUPeek(addr uint16) uint8     { return m.chr.read(m.chrOffset(addr)) }
func (m *CNROM) PPUWrite(addr uint16, v uint8) { m.chr.write(m.chrOffset(addr), v) }

func (m *CNROM) Tick()                          {}
func (m *CNROM) UpdatePPUAddr(addr uint16)      {}
func (m *CNROM) Nametable(addr uint16) Nametable { return ResolveNametable(m.mirror, addr) }
func (m *CNROM) IRQ() bool                      { return false }

func (m *CNROM) SaveWRAM() []byte {
	if !m.cart.Battery {
		return nil
	}
	return m.ram.save()
}
func (m *CNROM) RestoreWRAM(data []byte) { m.ram.restore(data) }

func (m *CNROM) SaveState() []byte {
	w := &stateWriter{}
	w.u8(m.chrBank)
	w.blob(m.ram.save())
	w.blob(m.chr.save())
	return w.buf
}
func (m *CNROM) LoadState(data []byte) {
	r := &stateReader{data: data}
	m.chrBank = r.u8()
	m.ram.restore(r.blob())
	m.chr.restore(r.blob())
}
