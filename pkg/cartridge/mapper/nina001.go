package mapper

import "github.com/kvance/nescore/pkg/cartridge"

// Nina001 (mapper 79/113) exposes its bank registers through the low
// address lines of $4020-$5FFF rather than $8000+: bit 8 of the address
// selects PRG (1) vs CHR (0) register, mirroring the NINA-03/06 boards'
// discrete-logic decode.
type Nina001 struct {
	cart    *cartridge.Cartridge
	chr     *chrStore
	mirror  MirrorMode
	prgBank uint8
	chrBank uint8
}

func NewNina001(cart *cartridge.Cartridge) *Nina001 {
	return &Nina001{cart: cart, chr: newCHRStore(cart), mirror: headerMirror(cart)}
}

func (m *Nina001) Reset() { m.prgBank = 0; m.chrBank = 0 }

func (m *Nina001) CPURead(addr uint16) uint8 { return m.CPUPeek(addr) }
func (m *Nina001) CPUPeek(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	return m.cart.PRGROM[bankOffset(len(m.cart.PRGROM), 32768, int(m.prgBank))+int(addr-0x8000)]
}

func (m *Nina001) CPUWrite(addr uint16, v uint8) {
	if addr < 0x4020 || addr >= 0x6000 {
		return
	}
	if addr&0x100 != 0 {
		m.prgBank = v & 0x01
	} else {
		m.chrBank = v & 0x07
	}
}

func (m *Nina001) chrOffset(addr uint16) int {
	return bankOffset(len(m.chr.data), 8192, int(m.chrBank)) + int(addr)
}

func (m *Nina001) PPURead(addr uint16) uint8     { return m.chr.read(m.chrOffset(addr)) }
func (m *Nina001) PPUPeek(addr uint16) uint8     { return m.chr.read(m.chrOffset(addr)) }
func (m *Nina001) PPUWrite(addr uint16, v uint8) { m.chr.write(m.chrOffset(addr), v) }

func (m *Nina001) Tick()                          {}
func (m *Nina001) UpdatePPUAddr(addr uint16)      {}
func (m *Nina001) Nametable(addr uint16) Nametable { return ResolveNametable(m.mirror, addr) }
func (m *Nina001) IRQ() bool                      { return false }
func (m *Nina001) SaveWRAM() []byte               { return nil }
func (m *Nina001) RestoreWRAM(data []byte)        {}

func (m *Nina001) SaveState() []byte {
	w := &stateWriter{}
	w.u8(m.prgBank)
	w.u8(m.chrBank)
	w.blob(m.chr.save())
	return w.buf
}
func (m *Nina001) LoadState(data []byte) {
	r := &stateReader{data: data}
	m.prgBank = r.u8()
	m.chrBank = r.u8()
	m.chr.restore(r.blob())
}
