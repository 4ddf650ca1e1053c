// Package cpu implements a cycle-stepped MOS 6502 (Ricoh 2A03 core), per
// spec.md §4.3. Every call to Tick consumes exactly one CPU cycle: the
// CPU decodes an opcode into a queue of per-cycle micro-operations and
// drains one per Tick, rather than executing a whole instruction and
// reporting a cycle count after the fact. This lets OAM-DMA, DMC-DMA,
// and interrupt polling interleave with instruction execution exactly
// the way the real bus does.
package cpu

import "github.com/kvance/nescore/pkg/bus"

// Flag bits of the P (status) register.
const (
	FlagC uint8 = 1 << 0
	FlagZ uint8 = 1 << 1
	FlagI uint8 = 1 << 2
	FlagD uint8 = 1 << 3
	FlagB uint8 = 1 << 4
	FlagU uint8 = 1 << 5
	FlagV uint8 = 1 << 6
	FlagN uint8 = 1 << 7
)

const (
	vectorNMI   uint16 = 0xFFFA
	vectorReset uint16 = 0xFFFC
	vectorIRQ   uint16 = 0xFFFE
	stackBase   uint16 = 0x0100
)

// step is one cycle's worth of work. It returns true when the
// instruction (or interrupt sequence) it belongs to has completed.
type step func(c *CPU) bool

// CPU is the 2A03 integer core: registers, the per-cycle micro-op
// queue, interrupt line sampling, and OAM/DMC DMA stealing. It holds no
// back-pointer to the machine; the Bus is the only way it touches the
// rest of the system, and DMC byte delivery goes through the DMCTarget
// callback set by the owner.
type CPU struct {
	A, X, Y, SP uint8
	PC          uint16
	P           uint8

	Bus *bus.Bus

	Cycles uint64

	queue []step

	nmiLinePrev bool
	nmiPending  bool
	irqLevel    bool

	// irqPoll is the IRQ-service decision latched one cycle before an
	// instruction's last step runs, using the flags as they stood before
	// that step. CLI/SEI/PLP write FlagI in their own last step, so
	// polling fresh P at beginInstruction time would let an IRQ they just
	// unmasked fire a cycle too early; latching beforehand reproduces the
	// real 6502's one-instruction-late response to CLI.
	irqPoll bool

	halted bool // unofficial JAM opcode

	dma dmaState

	// DMCTarget, when set, is consulted every cycle a DMC DMA is not
	// already in flight to see whether the APU wants a sample byte.
	DMCTarget DMCRequester

	// Scratch carries partial results between the per-cycle steps of a
	// single instruction (e.g. the low byte of an address fetched two
	// cycles before it's used).
	tmpLo, tmpHi uint16
	tmpAddr      uint16
	tmpVal       uint8
	pageCrossed  bool
}

// DMCRequester is implemented by the APU so the CPU can steal cycles for
// DMC sample fetches without holding a reference back to the whole APU.
type DMCRequester interface {
	// DMARequested reports whether a DMC sample fetch is pending and, if
	// so, the address to read.
	DMARequested() (addr uint16, ok bool)
	// DMAComplete delivers the fetched byte.
	DMAComplete(value uint8)
}

// New creates a CPU wired to bus b. Call Reset before the first Tick.
func New(b *bus.Bus) *CPU {
	return &CPU{Bus: b, SP: 0xFD, P: FlagI | FlagU}
}

// Reset performs the power-up/reset sequence: PC loads from the reset
// vector, SP is decremented by 3 (the dummy stack pushes a reset
// performs without actually writing, since RESET holds the bus in
// read mode), and interrupts are disabled.
func (c *CPU) Reset() {
	c.queue = nil
	c.dma = dmaState{}
	c.nmiPending = false
	c.halted = false
	c.P |= FlagI
	c.SP -= 3
	lo := uint16(c.Bus.Read(vectorReset))
	hi := uint16(c.Bus.Read(vectorReset + 1))
	c.PC = lo | hi<<8
}

// SetIRQLevel reports the current level of the OR'd IRQ line (APU frame
// IRQ, DMC IRQ, mapper IRQ). It must be called every cycle; the 6502
// samples this line continuously and reacts to it being low two cycles
// before the end of an instruction.
func (c *CPU) SetIRQLevel(active bool) { c.irqLevel = active }

// RaiseNMI latches a rising edge on the PPU's NMI output line. Edge
// detection against the previous line level happens here so the caller
// only has to report the instantaneous level every cycle via
// PollNMILine — RaiseNMI is for callers that already computed the edge.
func (c *CPU) RaiseNMI() { c.nmiPending = true }

// PollNMILine feeds the current NMI line level (PPUCTRL.7 AND vblank
// flag) so the CPU can edge-detect internally, matching the real 2A03's
// external NMI edge detector.
func (c *CPU) PollNMILine(level bool) {
	if level && !c.nmiLinePrev {
		c.nmiPending = true
	}
	c.nmiLinePrev = level
}

// Halted reports whether the CPU has executed a JAM (KIL) opcode and
// will never fetch again.
func (c *CPU) Halted() bool { return c.halted }

// StartOAMDMA begins a 513/514-cycle OAM DMA from page*$100. Called by
// the $4014 write handler.
func (c *CPU) StartOAMDMA(page uint8) {
	c.dma.kind = dmaOAM
	c.dma.oamPage = page
	c.dma.oamIndex = 0
	c.dma.oddAlign = c.Cycles%2 == 1
	c.dma.started = false
}

// Tick runs exactly one CPU cycle.
func (c *CPU) Tick() {
	c.Cycles++

	if c.dma.kind != dmaNone {
		c.tickDMA()
		return
	}

	if c.halted {
		return
	}

	if c.DMCTarget != nil {
		if addr, ok := c.DMCTarget.DMARequested(); ok {
			c.dma.kind = dmaDMC
			c.dma.dmcAddr = addr
			c.dma.oddAlign = c.Cycles%2 == 1
			c.dma.started = false
			c.tickDMA()
			return
		}
	}

	if len(c.queue) == 0 {
		c.beginInstruction()
		return
	}

	// Any step may turn out to be the instruction's last, so latch the
	// poll decision before every step runs: a flag write the step itself
	// makes (CLI, SEI, PLP) isn't visible to it until the next
	// instruction after this one.
	c.irqPoll = c.irqLevel && c.P&FlagI == 0

	s := c.queue[0]
	c.queue = c.queue[1:]
	if s(c) {
		c.queue = nil
	}
}

func (c *CPU) beginInstruction() {
	if c.nmiPending {
		c.nmiPending = false
		c.queue = interruptSequence(vectorNMI, false)
		return
	}
	if c.irqPoll {
		c.queue = interruptSequence(vectorIRQ, false)
		return
	}

	opcode := c.Bus.Read(c.PC)
	c.PC++
	def := opcodeTable[opcode]
	c.queue = def.build(c)
}

// interruptSequence builds the 7-cycle BRK/IRQ/NMI push-PC/push-P/fetch
// vector sequence. brk distinguishes a software BRK (B flag set, PC
// already advanced past the signature byte) from a hardware interrupt.
func interruptSequence(vector uint16, brk bool) []step {
	return []step{
		func(c *CPU) bool { return false }, // internal, PC already pointing at next op
		func(c *CPU) bool {
			c.push(uint8(c.PC >> 8))
			return false
		},
		func(c *CPU) bool {
			c.push(uint8(c.PC))
			return false
		},
		func(c *CPU) bool {
			flags := c.P | FlagU
			if brk {
				flags |= FlagB
			} else {
				flags &^= FlagB
			}
			c.push(flags)
			return false
		},
		func(c *CPU) bool {
			lo := uint16(c.Bus.Read(vector))
			c.tmpLo = lo
			return false
		},
		func(c *CPU) bool {
			hi := uint16(c.Bus.Read(vector + 1))
			c.PC = c.tmpLo | hi<<8
			c.P |= FlagI
			return true
		},
	}
}

func (c *CPU) push(v uint8) {
	c.Bus.Write(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.Bus.Read(stackBase + uint16(c.SP))
}
