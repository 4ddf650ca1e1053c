package mapper

import "github.com/kvance/nescore/pkg/cartridge"

// AxROM is mapper 7: a single 32 KiB switchable PRG bank and
// single-screen mirroring selected by the same register write (bit 4
// chooses page A or B). CHR is not bank-switched: CHR-ROM when the cartridge has it, CHR-RAM otherwise.
type AxROM struct {
	cart   *cartridge.Cartridge
	chr    *chrStore
	prgBank uint8
	nameSel uint8
}

func NewAxROM(cart *cartridge.Cartridge) *AxROM {
	return &AxROM{cart: cart, chr: newCHRStore(cart)}
}

func (m *AxROM) Reset() { m.prgBank = 0; m.nameSel = 0 }

func (m *AxROM) CPURead(addr uint16) uint8 { return m.CPUPeek(addr) }
func (m *AxROM) CPUPeek(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	return m.cart.PRGROM[bankOffset(len(m.cart.PRGROM), 32768, int(m.prgBank&0x07))+int(addr-0x8000)]
}

func (m *AxROM) CPUWrite(addr uint16, v uint8) {
	if addr < 0x8000 {
		return
	}
	m.prgBank = v & 0x07
	m.nameSel = (v >> 4) & 1
}

func (m *AxROM) PPURead(addr uint16) uint8     { return m.chr.read(int(addr)) }
func (m *AxROM) PPUPeek(addr uint16) uint8     { return m.chr.read(int(addr)) }
func (m *AxROM) PPUWrite(addr uint16, v uint8) { m.chr.write(int(addr), v) }

func (m *AxROM) Tick()                     {}
func (m *AxROM) UpdatePPUAddr(addr uint16) {}
func (m *AxROM) Nametable(addr uint16) Nametable {
	if m.nameSel == 0 {
		return ResolveNametable(MirrorSingleA, addr)
	}
	return ResolveNametable(MirrorSingleB, addr)
}
func (m *AxROM) IRQ() bool               { return false }
func (m *AxROM) SaveWRAM() []byte        { return nil }
func (m *AxROM) RestoreWRAM(data []byte) {}

func (m *AxROM) SaveState() []byte {
	w := &stateWriter{}
	w.u8(m.prgBank)
	w.u8(m.nameSel)
	w.blob(m.chr.save())
	return w.buf
}
func (m *AxROM) LoadState(data []byte) {
	r := &stateReader{data: data}
	m.prgBank = r.u8()
	m.nameSel = r.u8()
	m.chr.restore(r.blob())
}
