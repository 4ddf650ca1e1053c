package memory

import "testing"

func TestWindowROMMirroring(t *testing.T) {
	rom := make([]byte, 16*1024)
	rom[0] = 0x42
	rom[1] = 0x43

	w := NewWindow(0x8000, 32, rom) // 32 KiB window, 16 KiB ROM
	w.MapROMRange(0, 0, 16)
	w.MapROMRange(16, 0, 16) // mirror the same 16 KiB bank at $C000

	if got := w.Read(0x8000); got != 0x42 {
		t.Errorf("Read($8000) = %#02x, want $42", got)
	}
	if got := w.Read(0xC000); got != 0x42 {
		t.Errorf("Read($C000) = %#02x, want $42 (mirrored)", got)
	}
	if got := w.Read(0x8001); got != 0x43 {
		t.Errorf("Read($8001) = %#02x, want $43", got)
	}
}

func TestWindowRAMWriteReadBack(t *testing.T) {
	page := &Page{}
	w := NewWindow(0x6000, 8, nil)
	w.MapRAM(0, page)

	w.Write(0x6000, 0x7F)
	if got := w.Read(0x6000); got != 0x7F {
		t.Errorf("Read($6000) = %#02x, want $7F", got)
	}
	if page[0] != 0x7F {
		t.Errorf("underlying page not written through")
	}
}

func TestWindowWriteToROMIsNoop(t *testing.T) {
	rom := []byte{0x01}
	w := NewWindow(0x8000, 1, rom)
	w.MapROM(0, 0)
	w.Write(0x8000, 0xFF)
	if got := w.Read(0x8000); got != 0x01 {
		t.Errorf("write to ROM slot mutated backing ROM: got %#02x", got)
	}
}

func TestWindowUnmappedReadsZero(t *testing.T) {
	w := NewWindow(0x6000, 8, nil)
	if got := w.Read(0x6000); got != 0 {
		t.Errorf("Read of unmapped slot = %#02x, want 0", got)
	}
	if w.Contains(0x8000) {
		t.Errorf("Contains($8000) = true, want false for an 8 KiB window at $6000")
	}
}
