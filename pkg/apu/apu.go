// Package apu implements the 2A03 audio processing unit per spec.md
// §4.5: a region-driven frame sequencer clocking four synthesis
// channels plus the delta-modulation sample player, mixed through the
// standard two-lookup-table non-linear mixer.
package apu

import "github.com/kvance/nescore/pkg/region"

// APU is the 2A03 sound unit. It reports its IRQ level through IRQ(),
// which the caller polls, and issues DMC sample requests that the CPU
// services by calling DMAComplete.
type APU struct {
	Profile *region.Profile

	Pulse1   PulseChannel
	Pulse2   PulseChannel
	Triangle TriangleChannel
	Noise    NoiseChannel
	DMC      DMCChannel

	frameMode   bool // false = 4-step, true = 5-step
	frameStep   int
	frameIRQ    bool
	irqInhibit  bool
	resetDelay  int // cycles until a $4017 write's mode takes effect

	Cycles uint64
	evenCycle bool

	dmaPending bool
	dmaAddr    uint16
}

var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// New creates an APU bound to a region profile's step schedule and
// DMC/noise period tables.
func New(profile *region.Profile) *APU {
	a := &APU{Profile: profile}
	a.initializeChannels()
	return a
}

// Reset returns the APU to its power-up state.
func (a *APU) Reset() {
	p := a.Profile
	*a = APU{Profile: p}
	a.initializeChannels()
}

func (a *APU) initializeChannels() {
	a.Noise.ShiftReg = 1
	a.Pulse1.Envelope.Volume = 15
	a.Pulse2.Envelope.Volume = 15
	a.Noise.Envelope.Volume = 15
	a.Pulse1.Length.Enabled = true
	a.Pulse2.Length.Enabled = true
	a.Triangle.Length.Enabled = true
	a.Noise.Length.Enabled = true
	a.DMC.BufferEmpty = true
}

// IRQ reports the OR of the frame-sequencer IRQ and the DMC IRQ, for
// the machine to feed into CPU.SetIRQLevel alongside the mapper's line.
func (a *APU) IRQ() bool { return a.frameIRQ || a.DMC.irqFlag }

// Tick runs one CPU cycle of the APU: the frame sequencer, the timer
// chains (pulse/noise/DMC at half CPU rate, triangle at full rate), and
// a pending $4017 mode-change delay.
func (a *APU) Tick() {
	a.Cycles++
	a.evenCycle = !a.evenCycle

	if a.resetDelay > 0 {
		a.resetDelay--
		if a.resetDelay == 0 && a.frameMode {
			a.clockQuarter()
			a.clockHalf()
		}
	}

	a.stepFrameSequencer()

	a.stepTriangle()
	if a.evenCycle {
		a.stepPulse(&a.Pulse1)
		a.stepPulse(&a.Pulse2)
		a.stepNoise()
		a.stepDMC()
	}
}

func (a *APU) stepFrameSequencer() {
	var sched []region.FrameSeqStep
	if a.frameMode {
		sched = a.Profile.FrameSeq5Step[:]
	} else {
		sched = a.Profile.FrameSeq4Step[:]
	}
	if a.frameStep >= len(sched) {
		a.frameStep = 0
	}
	step := sched[a.frameStep]
	if step.Quarter {
		a.clockQuarter()
	}
	if step.Half {
		a.clockHalf()
	}
	if step.IRQ && !a.irqInhibit && !a.frameMode {
		a.frameIRQ = true
	}
	a.frameStep++
	if a.frameStep >= len(sched) {
		a.frameStep = 0
	}
}

func (a *APU) clockQuarter() {
	a.stepEnvelope(&a.Pulse1.Envelope)
	a.stepEnvelope(&a.Pulse2.Envelope)
	a.stepEnvelope(&a.Noise.Envelope)
	a.stepLinearCounter()
}

func (a *APU) clockHalf() {
	a.stepLengthCounter(&a.Pulse1.Length)
	a.stepLengthCounter(&a.Pulse2.Length)
	a.stepLengthCounter(&a.Triangle.Length)
	a.stepLengthCounter(&a.Noise.Length)
	a.stepSweep(&a.Pulse1, &a.Pulse1.Sweep, true)
	a.stepSweep(&a.Pulse2, &a.Pulse2.Sweep, false)
}

// DMARequested/DMAComplete implement cpu.DMCRequester.

// DMARequested reports whether the DMC wants a sample byte and, if so,
// its address; the CPU services this by stealing cycles from the
// instruction stream.
func (a *APU) DMARequested() (addr uint16, ok bool) {
	return a.dmaAddr, a.dmaPending
}

// DMAComplete delivers the byte the CPU fetched for a pending DMC DMA.
func (a *APU) DMAComplete(value uint8) {
	a.dmaPending = false
	a.DMC.SampleBuffer = value
	a.DMC.BufferEmpty = false
}

// ReadRegister services a CPU read of $4015.
func (a *APU) ReadRegister(addr uint16) uint8 {
	if addr != 0x4015 {
		return 0
	}
	status := uint8(0)
	if a.Pulse1.Length.Value > 0 {
		status |= 0x01
	}
	if a.Pulse2.Length.Value > 0 {
		status |= 0x02
	}
	if a.Triangle.Length.Value > 0 {
		status |= 0x04
	}
	if a.Noise.Length.Value > 0 {
		status |= 0x08
	}
	if a.DMC.CurrentLength > 0 {
		status |= 0x10
	}
	if a.frameIRQ {
		status |= 0x40
	}
	if a.DMC.irqFlag {
		status |= 0x80
	}
	a.frameIRQ = false
	return status
}

// WriteRegister services a CPU write in $4000-$4013/$4015/$4017.
func (a *APU) WriteRegister(addr uint16, value uint8) {
	switch {
	case addr >= 0x4000 && addr <= 0x4003:
		a.writePulse(&a.Pulse1, addr-0x4000, value)
	case addr >= 0x4004 && addr <= 0x4007:
		a.writePulse(&a.Pulse2, addr-0x4004, value)
	case addr >= 0x4008 && addr <= 0x400B:
		a.writeTriangle(addr-0x4008, value)
	case addr >= 0x400C && addr <= 0x400F:
		a.writeNoise(addr-0x400C, value)
	case addr >= 0x4010 && addr <= 0x4013:
		a.writeDMC(addr-0x4010, value)
	case addr == 0x4015:
		a.writeStatus(value)
	case addr == 0x4017:
		a.writeFrameCounter(value)
	}
}

// Sample renders the current instantaneous mix; the machine pulls this
// once per CPU cycle rather than the APU pushing a buffer.
func (a *APU) Sample() float32 {
	return a.mixChannels()
}
