package bus

import "testing"

type ramDevice struct{ data [8]uint8 }

func (r *ramDevice) Read(addr uint16) uint8         { return r.data[addr] }
func (r *ramDevice) Write(addr uint16, value uint8) { r.data[addr] = value }

type latchHalf struct{ bits uint8 }

func (l *latchHalf) Read(uint16) uint8 { return l.bits & 0x1F }

func TestMirroredRAMViaAndEqualsAndMask(t *testing.T) {
	b := New()
	ram := &ramDevice{}
	// $0000-$1FFF mirrors a 2 KiB (0x7FF mask) RAM every 0x800 bytes.
	b.RegisterRead(ram, AndEqualsAndMask{And: 0xE000, Eq: 0x0000, Mask: 0x07FF})
	b.RegisterWrite(ram, AndEqualsAndMask{And: 0xE000, Eq: 0x0000, Mask: 0x07FF})

	b.Write(0x0003, 0x55)
	if got := b.Read(0x0803); got != 0x55 {
		t.Errorf("Read($0803) = %#02x, want $55 (mirrored)", got)
	}
	if got := b.Read(0x1803); got != 0x55 {
		t.Errorf("Read($1803) = %#02x, want $55 (mirrored)", got)
	}
}

func TestOpenBusLatchPersistsOnUnmapped(t *testing.T) {
	b := New()
	ram := &ramDevice{}
	b.RegisterRead(ram, RangeAndMask{Lo: 0x4020, Hi: 0x4020, Mask: 0x0007})

	b.Write(0, 0) // no writer registered, no-op
	_ = b.Read(0x4020)
	ram.data[0] = 0xAB
	// force latch to a known value
	b.RegisterRead(ram, Address(0x0000))
	got := b.Read(0x0000)
	if got != 0xAB {
		t.Fatalf("setup: Read($0000) = %#02x", got)
	}
	if b.OpenBus != 0xAB {
		t.Errorf("OpenBus = %#02x after read, want $AB", b.OpenBus)
	}
	// An address nothing claims leaves the latch untouched.
	unchanged := b.Read(0x9999)
	if unchanged != 0xAB {
		t.Errorf("Read of unmapped addr = %#02x, want latch value $AB", unchanged)
	}
}

func TestPeekDoesNotUpdateOpenBus(t *testing.T) {
	b := New()
	ram := &ramDevice{}
	ram.data[0] = 0x11
	b.RegisterRead(ram, Address(0x0000))
	b.OpenBus = 0x99

	if got := b.Peek(0x0000); got != 0x11 {
		t.Errorf("Peek($0000) = %#02x, want $11", got)
	}
	if b.OpenBus != 0x99 {
		t.Errorf("OpenBus changed after Peek: %#02x, want unchanged $99", b.OpenBus)
	}
}

func TestDeviceDrivesOwnBitsOnly(t *testing.T) {
	b := New()
	l := &latchHalf{bits: 0x15}
	b.RegisterRead(l, Address(0x4016))
	b.OpenBus = 0xE0

	composite := l.Read(0x4016) | (b.OpenBus &^ 0x1F)
	if composite != 0xF5 {
		t.Errorf("composite open-bus read = %#02x, want $F5", composite)
	}
}
