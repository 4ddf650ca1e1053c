package input

import "testing"

func TestControllerShiftOrder(t *testing.T) {
	c := New()
	c.SetButtons(Buttons{A: true, Start: true})
	c.Write(1) // strobe high: latch continuously reloads
	c.Write(0) // strobe low: begin shifting

	var bits [8]uint8
	for i := range bits {
		bits[i] = c.Read() & 1
	}

	// Order is A, B, Select, Start, Up, Down, Left, Right.
	want := [8]uint8{1, 0, 0, 1, 0, 0, 0, 0}
	if bits != want {
		t.Fatalf("bit sequence = %v, want %v", bits, want)
	}
}

func TestControllerReadPastEighthBitReturnsOne(t *testing.T) {
	c := New()
	c.SetButtons(Buttons{})
	c.Write(1)
	c.Write(0)
	for i := 0; i < 8; i++ {
		c.Read()
	}
	for i := 0; i < 3; i++ {
		if c.Read()&1 != 1 {
			t.Fatalf("expected a permanent 1 after the eighth read")
		}
	}
}

func TestControllerStrobeHighAlwaysReadsA(t *testing.T) {
	c := New()
	c.SetButtons(Buttons{A: true})
	c.Write(1)
	for i := 0; i < 3; i++ {
		if c.Read()&1 != 1 {
			t.Fatalf("reading while strobe is high should keep returning button A")
		}
	}
}
