package mapper

import "github.com/kvance/nescore/pkg/cartridge"

// TxROM is mapper 4 (MMC3): eight bank registers (R0-R7) selected by a
// bank-select latch, a scanline/A12-edge IRQ counter, and a mirroring
// register. The IRQ counter clocks on PPU-address rising edges of A12
// (bit 12), which the machine reports via UpdatePPUAddr on every PPU
// fetch — this is how the background fetch of dots 337/339 (and the
// sprite-pattern fetches at dots 260/268) drive MMC3's scanline count.
type TxROM struct {
	cart *cartridge.Cartridge
	chr  *chrStore
	ram  *prgRAM

	bankSelect uint8
	bankRegs   [8]uint8
	fourScreen bool
	mirror     MirrorMode

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnabled bool
	irqPending bool

	lastA12      bool
	a12LowCycles int
}

func NewTxROM(cart *cartridge.Cartridge) *TxROM {
	m := &TxROM{cart: cart, chr: newCHRStore(cart), ram: newPRGRAM(cart)}
	m.fourScreen = cart.Mirroring == cartridge.FourScreen
	m.mirror = MirrorVertical
	return m
}

func (m *TxROM) Reset() {
	m.bankSelect = 0
	m.bankRegs = [8]uint8{}
	m.irqLatch = 0
	m.irqCounter = 0
	m.irqReload = false
	m.irqEnabled = false
	m.irqPending = false
	m.lastA12 = false
	m.a12LowCycles = 0
}

func (m *TxROM) prgMode() uint8 { return (m.bankSelect >> 6) & 1 }
func (m *TxROM) chrMode() uint8 { return (m.bankSelect >> 7) & 1 }

func (m *TxROM) prgOffset(addr uint16) int {
	banks8K := len(m.cart.PRGROM) / 8192
	slot := int(addr-0x8000) / 8192
	within := int(addr-0x8000) % 8192

	secondLast := banks8K - 2
	last := banks8K - 1

	var bank int
	switch {
	case slot == 0:
		if m.prgMode() == 0 {
			bank = int(m.bankRegs[6])
		} else {
			bank = secondLast
		}
	case slot == 1:
		bank = int(m.bankRegs[7])
	case slot == 2:
		if m.prgMode() == 0 {
			bank = secondLast
		} else {
			bank = int(m.bankRegs[6])
		}
	default:
		bank = last
	}
	return bankOffset(len(m.cart.PRGROM), 8192, bank) + within
}

func (m *TxROM) CPURead(addr uint16) uint8 { return m.CPUPeek(addr) }
func (m *TxROM) CPUPeek(addr uint16) uint8 {
	switch {
	case addr < 0x6000:
		return 0
	case addr < 0x8000:
		return m.ram.read(int(addr - 0x6000))
	default:
		return m.cart.PRGROM[m.prgOffset(addr)]
	}
}

func (m *TxROM) CPUWrite(addr uint16, v uint8) {
	switch {
	case addr < 0x6000:
		return
	case addr < 0x8000:
		m.ram.write(int(addr-0x6000), v)
		return
	}

	even := addr&1 == 0
	switch {
	case addr < 0xA000:
		if even {
			m.bankSelect = v
		} else {
			m.bankRegs[m.bankSelect&0x7] = v
		}
	case addr < 0xC000:
		if even && !m.fourScreen {
			if v&1 != 0 {
				m.mirror = MirrorHorizontal
			} else {
				m.mirror = MirrorVertical
			}
		}
		// odd: PRG-RAM protect/enable — not modeled, RAM is always live.
	case addr < 0xE000:
		if even {
			m.irqLatch = v
		} else {
			m.irqReload = true
		}
	default:
		if even {
			m.irqEnabled = false
			m.irqPending = false
		} else {
			m.irqEnabled = true
		}
	}
}

func (m *TxROM) chrOffset(addr uint16) int {
	bank1K := int(addr) / 1024
	within := int(addr) % 1024
	mode := m.chrMode()

	// Layout when mode==0: [R0 2K][R1 2K][R2 1K][R3 1K][R4 1K][R5 1K]
	// When mode==1 the two halves (2K pair / four 1K) swap position.
	half := bank1K / 4 // 0 = first 4K, 1 = second 4K
	if mode == 1 {
		half ^= 1
	}

	if half == 0 {
		reg := (bank1K % 4) / 2 // 0 or 1 -> R0/R1, each spans two 1K slots
		bank2K := int(m.bankRegs[reg]) &^ 1
		return bankOffset(len(m.chr.data), 2048, bank2K/2) + (bank1K%2)*1024 + within
	}
	reg := 2 + (bank1K % 4)
	return bankOffset(len(m.chr.data), 1024, int(m.bankRegs[reg])) + within
}

func (m *TxROM) PPURead(addr uint16) uint8     { return m.chr.read(m.chrOffset(addr)) }
func (m *TxROM) PPUPeek(addr uint16) uint8     { return m.chr.read(m.chrOffset(addr)) }
func (m *TxROM) PPUWrite(addr uint16, v uint8) { m.chr.write(m.chrOffset(addr), v) }

func (m *TxROM) Tick() {}

func (m *TxROM) UpdatePPUAddr(addr uint16) {
	a12 := addr&0x1000 != 0
	if !a12 {
		m.a12LowCycles++
		m.lastA12 = false
		return
	}
	if !m.lastA12 && m.a12LowCycles >= 8 {
		m.clockIRQ()
	}
	m.lastA12 = true
	m.a12LowCycles = 0
}

func (m *TxROM) clockIRQ() {
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnabled {
		m.irqPending = true
	}
}

func (m *TxROM) Nametable(addr uint16) Nametable {
	if m.fourScreen {
		return ResolveNametable(MirrorFourScreen, addr)
	}
	return ResolveNametable(m.mirror, addr)
}

func (m *TxROM) IRQ() bool { return m.irqPending }

func (m *TxROM) SaveWRAM() []byte {
	if !m.cart.Battery {
		return nil
	}
	return m.ram.save()
}
func (m *TxROM) RestoreWRAM(data []byte) { m.ram.restore(data) }

func (m *TxROM) SaveState() []byte {
	w := &stateWriter{}
	w.u8(m.bankSelect)
	for _, reg := range m.bankRegs {
		w.u8(reg)
	}
	w.boolv(m.fourScreen)
	w.u8(uint8(m.mirror))
	w.u8(m.irqLatch)
	w.u8(m.irqCounter)
	w.boolv(m.irqReload)
	w.boolv(m.irqEnabled)
	w.boolv(m.irqPending)
	w.boolv(m.lastA12)
	w.u32(uint32(m.a12LowCycles))
	w.blob(m.ram.save())
	w.blob(m.chr.save())
	return w.buf
}
func (m *TxROM) LoadState(data []byte) {
	r := &stateReader{data: data}
	m.bankSelect = r.u8()
	for i := range m.bankRegs {
		m.bankRegs[i] = r.u8()
	}
	m.fourScreen = r.boolv()
	m.mirror = MirrorMode(r.u8())
	m.irqLatch = r.u8()
	m.irqCounter = r.u8()
	m.irqReload = r.boolv()
	m.irqEnabled = r.boolv()
	m.irqPending = r.boolv()
	m.lastA12 = r.boolv()
	m.a12LowCycles = int(r.u32())
	m.ram.restore(r.blob())
	m.chr.restore(r.blob())
}
