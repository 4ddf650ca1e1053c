package mapper

import "testing"

func TestTxROMFixedLastBankAtE000(t *testing.T) {
	cart := makeCart(4, 64, 16, false) // 8x 8 KiB PRG banks
	m := NewTxROM(cart)
	got := m.CPURead(0xE000)
	want := cart.PRGROM[7*8192]
	if got != want {
		t.Errorf("fixed $E000 bank = %#02x, want %#02x", got, want)
	}
}

func TestTxROMBankSelectAndData(t *testing.T) {
	cart := makeCart(4, 64, 16, false)
	m := NewTxROM(cart)
	m.CPUWrite(0x8000, 6) // select R6 (PRG bank at $8000 in mode 0)
	m.CPUWrite(0x8001, 3) // R6 = bank 3
	got := m.CPURead(0x8000)
	want := cart.PRGROM[3*8192]
	if got != want {
		t.Errorf("R6-selected $8000 bank = %#02x, want %#02x", got, want)
	}
}

func TestTxROMIRQClocksOnA12RisingEdge(t *testing.T) {
	cart := makeCart(4, 64, 16, false)
	m := NewTxROM(cart)
	m.CPUWrite(0xC000, 2) // latch = 2
	m.CPUWrite(0xC001, 0) // request reload
	m.CPUWrite(0xE001, 0) // enable IRQ

	// Drive enough low cycles to clear the debounce filter, then rise.
	for i := 0; i < 10; i++ {
		m.UpdatePPUAddr(0x0000)
	}
	m.UpdatePPUAddr(0x1000) // rising edge: reload (counter was 0)
	if m.irqCounter != 2 {
		t.Errorf("irqCounter after reload = %d, want 2", m.irqCounter)
	}

	for i := 0; i < 10; i++ {
		m.UpdatePPUAddr(0x0000)
	}
	m.UpdatePPUAddr(0x1000) // counter 2 -> 1
	for i := 0; i < 10; i++ {
		m.UpdatePPUAddr(0x0000)
	}
	m.UpdatePPUAddr(0x1000) // counter 1 -> 0, IRQ fires
	if !m.IRQ() {
		t.Errorf("IRQ() = false, want true after counter reaches 0")
	}
}

func TestTxROMMirroringRegister(t *testing.T) {
	cart := makeCart(4, 64, 16, false)
	m := NewTxROM(cart)
	m.CPUWrite(0xA000, 1) // horizontal
	if nt := m.Nametable(0x2400); nt.Kind != InternalA {
		t.Errorf("horizontal mirroring $2400 = %v, want InternalA", nt.Kind)
	}
}
