package mapper

import "github.com/kvance/nescore/pkg/cartridge"

// Mapper031 is a homebrew/NSF-style mapper: eight independently
// switchable 8 KiB PRG banks, selected by writes to $5000-$5FFF (the
// written address's low 3 bits pick the 8 KiB window, the value picks
// the bank). CHR is always RAM.
type Mapper031 struct {
	cart   *cartridge.Cartridge
	chr    *chrStore
	mirror MirrorMode
	banks  [8]uint8
}

func NewMapper031(cart *cartridge.Cartridge) *Mapper031 {
	m := &Mapper031{cart: cart, chr: newCHRStore(cart), mirror: headerMirror(cart)}
	for i := range m.banks {
		m.banks[i] = uint8(i)
	}
	// Fix the last 8 KiB window to the last bank, matching the real
	// board's hardwired final-window behavior.
	banks8K := len(cart.PRGROM) / 8192
	if banks8K > 0 {
		m.banks[7] = uint8(banks8K - 1)
	}
	return m
}

func (m *Mapper031) Reset() {}

func (m *Mapper031) CPURead(addr uint16) uint8 { return m.CPUPeek(addr) }
func (m *Mapper031) CPUPeek(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	slot := int(addr-0x8000) / 8192
	within := int(addr-0x8000) % 8192
	return m.cart.PRGROM[bankOffset(len(m.cart.PRGROM), 8192, int(m.banks[slot]))+within]
}

func (m *Mapper031) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x5000 && addr <= 0x5FFF {
		m.banks[addr&0x7] = v
	}
}

func (m *Mapper031) PPURead(addr uint16) uint8     { return m.chr.read(int(addr)) }
func (m *Mapper031) PPUPeek(addr uint16) uint8     { return m.chr.read(int(addr)) }
func (m *Mapper031) PPUWrite(addr uint16, v uint8) { m.chr.write(int(addr), v) }

func (m *Mapper031) Tick()                          {}
func (m *Mapper031) UpdatePPUAddr(addr uint16)      {}
func (m *Mapper031) Nametable(addr uint16) Nametable { return ResolveNametable(m.mirror, addr) }
func (m *Mapper031) IRQ() bool                      { return false }
func (m *Mapper031) SaveWRAM() []byte               { return nil }
func (m *Mapper031) RestoreWRAM(data []byte)        {}

func (m *Mapper031) SaveState() []byte {
	w := &stateWriter{}
	for _, b := range m.banks {
		w.u8(b)
	}
	w.blob(m.chr.save())
	return w.buf
}
func (m *Mapper031) LoadState(data []byte) {
	r := &stateReader{data: data}
	for i := range m.banks {
		m.banks[i] = r.u8()
	}
	m.chr.restore(r.blob())
}
