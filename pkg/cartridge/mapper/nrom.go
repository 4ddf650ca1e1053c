package mapper

import "github.com/kvance/nescore/pkg/cartridge"

// NROM is mapper 0: no bank switching. 16 KiB PRG-ROM mirrors across both
// $8000 and $C000; 32 KiB PRG-ROM fills the whole window. Mirroring is
// fixed at whatever the cartridge header declares.
type NROM struct {
	cart    *cartridge.Cartridge
	chr     *chrStore
	ram     *prgRAM
	battery bool
	mirror  MirrorMode
}

func NewNROM(cart *cartridge.Cartridge) *NROM {
	ram := &prgRAM{} // no PRG-RAM: reads return 0, writes are dropped
	if cart.PRGRAMSize > 0 {
		ram = newPRGRAM(cart)
	}
	return &NROM{
		cart:    cart,
		chr:     newCHRStore(cart),
		ram:     ram,
		battery: cart.Battery,
		mirror:  headerMirror(cart),
	}
}

func headerMirror(cart *cartridge.Cartridge) MirrorMode {
	switch cart.Mirroring {
	case cartridge.Vertical:
		return MirrorVertical
	case cartridge.FourScreen:
		return MirrorFourScreen
	default:
		return MirrorHorizontal
	}
}

func (m *NROM) Reset() {}

func (m *NROM) CPURead(addr uint16) uint8  { return m.CPUPeek(addr) }
func (m *NROM) CPUPeek(addr uint16) uint8 {
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

func (m *NROM) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		// Cartridge-dependent: NROM boards without PRG-RAM treat this
		// as a no-op, which the empty prgRAM's bounds-checked write already is.
		m.ram.write(int(addr-0x6000), v)
	}
	// Writes to $8000-$FFFF have no effect: NROM has no registers.
}

func (m *NROM) PPURead(addr uint16) uint8  { return m.chr.read(int(addr)) }
func (m *NROM) PPUPeek(addr uint16) uint8  { return m.chr.read(int(addr)) }
func (m *NROM) PPUWrite(addr uint16, v uint8) { m.chr.write(int(addr), v) }

func (m *NROM) Tick()                      {}
func (m *NROM) UpdatePPUAddr(addr uint16)  {}
func (m *NROM) Nametable(addr uint16) Nametable {
	return ResolveNametable(m.mirror, addr)
}
func (m *NROM) IRQ() bool { return false }

func (m *NROM) SaveWRAM() []byte {
	if !m.battery {
		return nil
	}
	return m.ram.save()
}
func (m *NROM) RestoreWRAM(data []byte) { m.ram.restore(data) }

func (m *NROM) SaveState() []byte {
	w := &stateWriter{}
	w.blob(m.ram.save())
	w.blob(m.chr.save())
	return w.buf
}
func (m *NROM) LoadState(data []byte) {
	r := &stateReader{data: data}
	m.ram.restore(r.blob())
	m.chr.restore(r.blob())
}
