package mapper

import "testing"

func TestNROM16KiBMirrors(t *testing.T) {
	cart := makeCart(0, 16, 8, false)
	m := NewNROM(cart)
	if a, b := m.CPURead(0x8001), m.CPURead(0xC001); a != b {
		t.Errorf("16 KiB NROM should mirror: $8001=%#02x $C001=%#02x", a, b)
	}
}

func TestNROM32KiBNoMirror(t *testing.T) {
	cart := makeCart(0, 32, 8, false)
	cart.PRGROM[0x4001] = 0xC1 // the fixture pattern repeats every 256 bytes
	m := NewNROM(cart)
	if a, b := m.CPURead(0x8001), m.CPURead(0xC001); a == b {
		t.Errorf("32 KiB NROM should not mirror: both read %#02x", a)
	}
}

func TestNROMPRGRAMNotSavedWithoutBattery(t *testing.T) {
	cart := makeCart(0, 16, 8, false)
	m := NewNROM(cart)
	m.CPUWrite(0x6000, 0x42)
	if got := m.CPURead(0x6000); got != 0x42 {
		t.Errorf("PRG-RAM write/read = %#02x, want $42", got)
	}
	if m.SaveWRAM() != nil {
		t.Errorf("SaveWRAM should be nil without battery flag")
	}
}

func TestNROMCHRRAMWritable(t *testing.T) {
	cart := makeCart(0, 16, 0, false) // CHR-RAM
	m := NewNROM(cart)
	m.PPUWrite(0x0010, 0x99)
	if got := m.PPURead(0x0010); got != 0x99 {
		t.Errorf("CHR-RAM write/read = %#02x, want $99", got)
	}
}

func TestNROMSaveStateRoundTrip(t *testing.T) {
	cart := makeCart(0, 16, 0, false) // CHR-RAM
	m := NewNROM(cart)
	m.CPUWrite(0x6000, 0x7A)
	m.PPUWrite(0x0010, 0x99)

	data := m.SaveState()

	fresh := NewNROM(cart)
	fresh.LoadState(data)
	if got := fresh.CPURead(0x6000); got != 0x7A {
		t.Errorf("restored PRG-RAM = %#02x, want $7A", got)
	}
	if got := fresh.PPURead(0x0010); got != 0x99 {
		t.Errorf("restored CHR-RAM = %#02x, want $99", got)
	}
}
