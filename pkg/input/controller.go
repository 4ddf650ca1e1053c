// Package input implements the NES controller shift register and an
// FM2 movie file parser for scripted playback.
package input

// Button bit positions within the 8-bit shift register, matching the
// wire order a real controller latches: A, B, Select, Start, Up, Down,
// Left, Right.
const (
	ButtonA = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Buttons is one controller's held-button state for a single frame.
type Buttons struct {
	A, B, Select, Start       bool
	Up, Down, Left, Right     bool
}

// Mask packs the button state into the shift register byte order.
func (b Buttons) Mask() uint8 {
	var m uint8
	if b.A {
		m |= ButtonA
	}
	if b.B {
		m |= ButtonB
	}
	if b.Select {
		m |= ButtonSelect
	}
	if b.Start {
		m |= ButtonStart
	}
	if b.Up {
		m |= ButtonUp
	}
	if b.Down {
		m |= ButtonDown
	}
	if b.Left {
		m |= ButtonLeft
	}
	if b.Right {
		m |= ButtonRight
	}
	return m
}

// Controller is a standard NES/Famicom controller: an 8-bit parallel
// load shift register that loads the current button mask on strobe and
// shifts one bit out per read while strobe is low.
type Controller struct {
	latch  uint8
	shift  uint8
	strobe bool
}

// New creates a Controller with no buttons held.
func New() *Controller {
	return &Controller{}
}

// SetButtons loads the controller's latch with the given frame's held
// buttons. The machine calls this at frame boundaries (and, for movie
// sub-frame input, at scheduled scanline/dot edges).
func (c *Controller) SetButtons(b Buttons) {
	c.latch = b.Mask()
	if c.strobe {
		c.shift = c.latch
	}
}

// Read returns the next bit of the shift register in bit 0, with the
// upper bits left for the bus to OR in the open-bus byte. Past the
// eighth read every port returns a permanent 1, matching real
// hardware and the handful of games that rely on it.
func (c *Controller) Read() uint8 {
	if c.strobe {
		return c.latch & 1
	}
	bit := c.shift & 1
	c.shift = (c.shift >> 1) | 0x80
	return bit
}

// Write services a $4016 strobe write: while strobe is high the shift
// register continuously reloads from the latch, so the next falling
// edge always starts a fresh read sequence at button A.
func (c *Controller) Write(value uint8) {
	wasStrobe := c.strobe
	c.strobe = value&1 != 0
	if c.strobe {
		c.shift = c.latch
	} else if wasStrobe {
		c.shift = c.latch
	}
}

// SaveState/LoadState round-trip the shift register so a save taken
// mid-poll resumes at the same bit.
func (c *Controller) SaveState() []byte {
	strobe := uint8(0)
	if c.strobe {
		strobe = 1
	}
	return []byte{c.latch, c.shift, strobe}
}

func (c *Controller) LoadState(data []byte) {
	if len(data) < 3 {
		return
	}
	c.latch, c.shift = data[0], data[1]
	c.strobe = data[2] != 0
}
