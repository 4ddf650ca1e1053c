package mapper

import "github.com/kvance/nescore/pkg/cartridge"

// SxROM is mapper 1 (MMC1): a serial shift register loads one of four
// internal registers (control, CHR bank 0, CHR bank 1, PRG bank) one bit
// at a time, committing on the fifth consecutive write. A write with bit
// 7 set resets the shift register and forces PRG mode 3 regardless of
// shift-register progress.
type SxROM struct {
	cart *cartridge.Cartridge
	chr  *chrStore
	ram  *prgRAM

	shift    uint8
	shiftLen int

	control uint8
	chrBank [2]uint8
	prgBank uint8
}

func NewSxROM(cart *cartridge.Cartridge) *SxROM {
	m := &SxROM{cart: cart, chr: newCHRStore(cart), ram: newPRGRAM(cart)}
	m.Reset()
	return m
}

func (m *SxROM) Reset() {
	m.shift = 0
	m.shiftLen = 0
	m.control = 0x0C // PRG mode 3, CHR mode 0, mirroring single-screen A
	m.chrBank = [2]uint8{0, 0}
	m.prgBank = 0
}

func (m *SxROM) CPURead(addr uint16) uint8 { return m.CPUPeek(addr) }

func (m *SxROM) CPUPeek(addr uint16) uint8 {
	switch {
	case addr < 0x6000:
		return 0
	case addr < 0x8000:
		return m.ram.read(int(addr - 0x6000))
	default:
		return m.cart.PRGROM[m.prgOffset(addr)]
	}
}

func (m *SxROM) prgOffset(addr uint16) int {
	prgMode := (m.control >> 2) & 0x3
	bank := int(m.prgBank & 0x0F)
	switch prgMode {
	case 0, 1: // 32 KiB switch, ignoring low bit of bank
		return bankOffset(len(m.cart.PRGROM), 32768, bank>>1) + int(addr-0x8000)
	case 2: // fix first bank at $8000, switch 16 KiB at $C000
		if addr < 0xC000 {
			return bankOffset(len(m.cart.PRGROM), 16384, 0) + int(addr-0x8000)
		}
		return bankOffset(len(m.cart.PRGROM), 16384, bank) + int(addr-0xC000)
	default: // 3: fix last bank at $C000, switch 16 KiB at $8000
		if addr < 0xC000 {
			return bankOffset(len(m.cart.PRGROM), 16384, bank) + int(addr-0x8000)
		}
		return bankOffset(len(m.cart.PRGROM), 16384, -1) + int(addr-0xC000)
	}
}

func (m *SxROM) CPUWrite(addr uint16, v uint8) {
	if addr < 0x6000 {
		return
	}
	if addr < 0x8000 {
		m.ram.write(int(addr-0x6000), v)
		return
	}

	if v&0x80 != 0 {
		m.shift = 0
		m.shiftLen = 0
		m.control |= 0x0C
		return
	}

	m.shift |= (v & 1) << uint(m.shiftLen)
	m.shiftLen++
	if m.shiftLen < 5 {
		return
	}

	value := m.shift
	m.shift = 0
	m.shiftLen = 0

	switch {
	case addr < 0xA000:
		m.control = value
	case addr < 0xC000:
		m.chrBank[0] = value
	case addr < 0xE000:
		m.chrBank[1] = value
	default:
		m.prgBank = value
	}
}

func (m *SxROM) chrOffset(addr uint16) int {
	chr4KMode := m.control&0x10 != 0
	if !chr4KMode {
		bank := int(m.chrBank[0] >> 1)
		return bankOffset(len(m.chr.data), 8192, bank) + int(addr)
	}
	if addr < 0x1000 {
		return bankOffset(len(m.chr.data), 4096, int(m.chrBank[0])) + int(addr)
	}
	return bankOffset(len(m.chr.data), 4096, int(m.chrBank[1])) + int(addr-0x1000)
}

func (m *SxROM) PPURead(addr uint16) uint8  { return m.chr.read(m.chrOffset(addr)) }
func (m *SxROM) PPUPeek(addr uint16) uint8  { return m.chr.read(m.chrOffset(addr)) }
func (m *SxROM) PPUWrite(addr uint16, v uint8) { m.chr.write(m.chrOffset(addr), v) }

func (m *SxROM) Tick()                     {}
func (m *SxROM) UpdatePPUAddr(addr uint16) {}

func (m *SxROM) Nametable(addr uint16) Nametable {
	switch m.control & 0x3 {
	case 0:
		return ResolveNametable(MirrorSingleA, addr)
	case 1:
		return ResolveNametable(MirrorSingleB, addr)
	case 2:
		return ResolveNametable(MirrorVertical, addr)
	default:
		return ResolveNametable(MirrorHorizontal, addr)
	}
}

func (m *SxROM) IRQ() bool { return false }

func (m *SxROM) SaveWRAM() []byte {
	if !m.cart.Battery {
		return nil
	}
	return m.ram.save()
}
func (m *SxROM) RestoreWRAM(data []byte) { m.ram.restore(data) }

func (m *SxROM) SaveState() []byte {
	w := &stateWriter{}
	w.u8(m.shift)
	w.u8(uint8(m.shiftLen))
	w.u8(m.control)
	w.u8(m.chrBank[0])
	w.u8(m.chrBank[1])
	w.u8(m.prgBank)
	w.blob(m.ram.save())
	w.blob(m.chr.save())
	return w.buf
}
func (m *SxROM) LoadState(data []byte) {
	r := &stateReader{data: data}
	m.shift = r.u8()
	m.shiftLen = int(r.u8())
	m.control = r.u8()
	m.chrBank[0] = r.u8()
	m.chrBank[1] = r.u8()
	m.prgBank = r.u8()
	m.ram.restore(r.blob())
	m.chr.restore(r.blob())
}
