package mapper

import "testing"

func TestUxROMBankSwitchAndFixedLast(t *testing.T) {
	cart := makeCart(2, 64, 0, false) // 4x 16 KiB banks
	m := NewUxROM(cart)

	m.CPUWrite(0x8000, 2)
	got := m.CPURead(0x8000)
	want := cart.PRGROM[2*16384]
	if got != want {
		t.Errorf("switchable bank = %#02x, want %#02x", got, want)
	}

	fixedLast := m.CPURead(0xC000)
	wantLast := cart.PRGROM[3*16384]
	if fixedLast != wantLast {
		t.Errorf("fixed last bank = %#02x, want %#02x", fixedLast, wantLast)
	}
}
