// Package nes wires the cycle-stepped CPU, per-dot PPU, region-clocked
// APU, cartridge mapper, and controllers into one scheduler, per
// spec.md §4.6. Machine is the module's only exported entry point: a
// host constructs one from a parsed cartridge and a region, then calls
// RunFrame once per video frame.
package nes

import (
	"fmt"
	"io"

	"github.com/kvance/nescore/pkg/apu"
	"github.com/kvance/nescore/pkg/bus"
	"github.com/kvance/nescore/pkg/cartridge"
	"github.com/kvance/nescore/pkg/cartridge/mapper"
	"github.com/kvance/nescore/pkg/cpu"
	"github.com/kvance/nescore/pkg/input"
	"github.com/kvance/nescore/pkg/logger"
	"github.com/kvance/nescore/pkg/memory"
	"github.com/kvance/nescore/pkg/neserr"
	"github.com/kvance/nescore/pkg/ppu"
	"github.com/kvance/nescore/pkg/region"
	"github.com/kvance/nescore/pkg/savestate"
)

// Machine is the assembled console: two buses, the three clocked
// subsystems, the selected mapper, two controller ports, and the
// region profile driving every region-dependent constant.
type Machine struct {
	Profile *region.Profile

	CPU *cpu.CPU
	PPU *ppu.PPU
	APU *apu.APU

	// CPUBus is the only bus.Bus instance the machine owns — PPU-side
	// CHR/nametable routing goes straight through the mapper (see
	// pkg/ppu's Mapper interface) rather than a second predicate bus.
	CPUBus *bus.Bus

	Cartridge *cartridge.Cartridge
	Mapper    mapper.Mapper

	Controller1 *input.Controller
	Controller2 *input.Controller

	ram [2]*memory.Page

	log logger.Sink

	dotAccum int // PAL's fractional 16/5 dots-per-cycle carry

	pendingInput []subFrameInput

	// audioFrame accumulates one raw APU sample per CPU cycle, reset at
	// the start of every RunFrame. This is the core's actual audio
	// output: exactly cpu_cycles_in_frame samples, unresampled — the
	// host is the one that knows its own device rate and resamples.
	audioFrame []float32

	audioSink       AudioSink
	audioSampleRate float64
	audioAccum      float64
}

// AudioSink receives one mixed audio sample per call, at the rate given
// to WithAudioSink. This is a convenience tap for hosts (like the SDL
// frontend) that want a steady host-rate stream instead of doing their
// own resampling of the raw per-cycle buffer RunFrame returns; it is not
// the core's only audio output; see RunFrame.
type AudioSink func(sample float32)

type subFrameInput struct {
	scanline, dot int
	port          int
	buttons       input.Buttons
}

// Option configures a Machine at construction time.
type Option func(*Machine)

// WithLogger installs a logging sink; the default Machine logs nowhere.
func WithLogger(sink logger.Sink) Option {
	return func(m *Machine) { m.log = sink }
}

// WithAudioSink installs an additional audio sample tap, downsampled
// from the CPU's clock rate to sampleRate by the same
// fractional-accumulator technique dotAccum uses for PAL's dot ratio, so
// RunFrame calls sink roughly sampleRate/60 times per frame at evenly
// spaced cycles rather than bursting samples at the end. It's a
// convenience for hosts that would rather not resample RunFrame's raw
// per-cycle buffer themselves; the raw buffer is still produced either
// way.
func WithAudioSink(sampleRate int, sink AudioSink) Option {
	return func(m *Machine) {
		m.audioSink = sink
		m.audioSampleRate = float64(sampleRate)
	}
}

// ConfigureAudio installs or replaces the audio sink after construction,
// for hosts (like the SDL frontend) that only know their device's sample
// rate once the Machine already exists.
func (m *Machine) ConfigureAudio(sampleRate int, sink AudioSink) {
	m.audioSink = sink
	m.audioSampleRate = float64(sampleRate)
	m.audioAccum = 0
}

// New constructs a Machine for the given cartridge and region, wires
// every bus device, and powers it on (equivalent to calling Reset
// immediately). Unknown mapper numbers fall back to NROM and log a
// warning through the configured Sink, per spec.md §7's fail-soft
// policy.
func New(cart *cartridge.Cartridge, reg region.Region, opts ...Option) *Machine {
	profile := region.Get(reg)

	m := &Machine{
		Profile:     profile,
		Cartridge:   cart,
		Controller1: input.New(),
		Controller2: input.New(),
		log:         nopSink{},
	}
	for _, opt := range opts {
		opt(m)
	}

	mp, ok := mapper.New(cart)
	if !ok {
		m.log.Log(logger.LevelWarn, "machine", "unsupported mapper %d, substituting NROM", cart.MapperNumber)
	}
	m.Mapper = mp

	m.ram[0] = &memory.Page{}
	m.ram[1] = &memory.Page{}

	m.CPUBus = bus.New()

	m.CPU = cpu.New(m.CPUBus)
	m.PPU = ppu.New(profile)
	m.APU = apu.New(profile)
	// mapper.Mapper's method set is a superset of ppu.Mapper's, so the
	// same value services both the CPU-side bank switching and the
	// PPU-side CHR/nametable routing without an adapter.
	m.PPU.Mapper = mp
	m.CPU.DMCTarget = m.APU

	m.wireCPUBus()

	m.Reset()
	return m
}

// wireCPUBus registers every CPU-bus device exactly once, in hardware
// priority order: internal RAM (mirrored every $0800), PPU registers
// (mirrored every 8 bytes through $3FFF), APU/input ($4000-$4017), then
// the cartridge's $4020-$FFFF span.
func (m *Machine) wireCPUBus() {
	ramDev := ramDevice{pages: m.ram}
	m.CPUBus.RegisterRead(ramDev, bus.RangeAndMask{Lo: 0x0000, Hi: 0x1FFF, Mask: 0x07FF})
	m.CPUBus.RegisterWrite(ramDev, bus.RangeAndMask{Lo: 0x0000, Hi: 0x1FFF, Mask: 0x07FF})

	m.CPUBus.RegisterRead(m.PPU, bus.RangeAndMask{Lo: 0x2000, Hi: 0x3FFF, Mask: 0xFFFF})
	m.CPUBus.RegisterWrite(m.PPU, bus.RangeAndMask{Lo: 0x2000, Hi: 0x3FFF, Mask: 0xFFFF})

	apuRegs := apuRegisters{apu: m.APU}
	m.CPUBus.RegisterRead(apuRegs, bus.Address(0x4015))
	m.CPUBus.RegisterWrite(apuRegs, bus.RangeAndMask{Lo: 0x4000, Hi: 0x4013, Mask: 0xFFFF})
	m.CPUBus.RegisterWrite(apuRegs, bus.Address(0x4015))
	m.CPUBus.RegisterWrite(apuRegs, bus.Address(0x4017))

	oam := oamDMADevice{m: m}
	m.CPUBus.RegisterWrite(oam, bus.Address(0x4014))

	ports := controllerPorts{m: m}
	m.CPUBus.RegisterRead(ports, bus.Address(0x4016))
	m.CPUBus.RegisterRead(ports, bus.Address(0x4017))
	m.CPUBus.RegisterWrite(ports, bus.Address(0x4016))

	cartDev := cartridgeDevice{mapper: m.Mapper}
	m.CPUBus.RegisterRead(cartDev, bus.RangeAndMask{Lo: 0x4020, Hi: 0xFFFF, Mask: 0xFFFF})
	m.CPUBus.RegisterWrite(cartDev, bus.RangeAndMask{Lo: 0x4020, Hi: 0xFFFF, Mask: 0xFFFF})
}

type ramDevice struct{ pages [2]*memory.Page }

func (r ramDevice) Read(addr uint16) uint8 {
	return r.pages[addr/memory.PageSize][addr%memory.PageSize]
}
func (r ramDevice) Write(addr uint16, value uint8) {
	r.pages[addr/memory.PageSize][addr%memory.PageSize] = value
}

type apuRegisters struct{ apu *apu.APU }

func (a apuRegisters) Read(addr uint16) uint8          { return a.apu.ReadRegister(addr) }
func (a apuRegisters) Write(addr uint16, value uint8)  { a.apu.WriteRegister(addr, value) }

type oamDMADevice struct{ m *Machine }

func (o oamDMADevice) Write(addr uint16, value uint8) { o.m.CPU.StartOAMDMA(value) }

// controllerPorts implements the $4016/$4017 read/write contract: bit 0
// of a $4016 write strobes both ports; reads return bit 0 from the
// addressed port with the open-bus byte OR'd into the unused bits.
type controllerPorts struct{ m *Machine }

func (p controllerPorts) Read(addr uint16) uint8 {
	var bit uint8
	if addr == 0x4016 {
		bit = p.m.Controller1.Read()
	} else {
		bit = p.m.Controller2.Read()
	}
	return (bit & 0x01) | (p.m.CPUBus.OpenBus &^ 0x01)
}

func (p controllerPorts) Write(addr uint16, value uint8) {
	p.m.Controller1.Write(value)
	p.m.Controller2.Write(value)
}

type cartridgeDevice struct{ mapper mapper.Mapper }

func (c cartridgeDevice) Read(addr uint16) uint8          { return c.mapper.CPURead(addr) }
func (c cartridgeDevice) Peek(addr uint16) uint8          { return c.mapper.CPUPeek(addr) }
func (c cartridgeDevice) Write(addr uint16, value uint8)  { c.mapper.CPUWrite(addr, value) }

type nopSink struct{}

func (nopSink) Log(logger.Level, string, string, ...interface{}) {}

// Reset performs a power-on/reset cycle: every subsystem returns to its
// hardware reset state, but PRG-RAM and the mapper's persistent
// registers are left alone (mapper.Reset's contract).
func (m *Machine) Reset() {
	m.CPU.Reset()
	m.PPU.Reset()
	m.APU.Reset()
	m.Mapper.Reset()
	m.dotAccum = 0
}

// SetInput records this frame's held buttons for immediate delivery;
// the machine reads them directly off the Controller on every $4016/
// $4017 poll, so there's no separate latch step beyond this call.
func (m *Machine) SetInput(port int, b input.Buttons) {
	if port == 1 {
		m.Controller1.SetButtons(b)
	} else {
		m.Controller2.SetButtons(b)
	}
}

// ScheduleInput queues a sub-frame input edge: once RunFrame's PPU
// cursor reaches (scanline, dot), the given port's buttons are applied
// before the next tick. This is how FM2-accurate sub-frame input
// changes (documented in spec.md §4.6) are modeled without the movie
// player needing access to the scheduler's internals.
func (m *Machine) ScheduleInput(scanline, dot, port int, b input.Buttons) {
	m.pendingInput = append(m.pendingInput, subFrameInput{scanline, dot, port, b})
}

// RunFrame clocks the machine until the PPU completes one full frame (a
// wrap from the last scanline back to scanline 0) and returns the
// finished frame's packed-palette-index framebuffer (low 6 bits the
// master-palette entry, next 3 the emphasis bits — the host resolves
// these against its region.Profile) alongside the raw audio sample
// block for that frame: exactly one sample per CPU cycle, unresampled.
// After power-on or reset the PPU starts on the pre-render scanline, so
// the first call returns once that single scanline has run.
func (m *Machine) RunFrame() ([]uint16, []float32) {
	m.audioFrame = m.audioFrame[:0]
	startFrame := m.PPU.Frame
	for m.PPU.Frame == startFrame {
		m.tick()
	}
	return m.PPU.FrameBuffer[:], m.audioFrame
}

// tick advances the machine by exactly one CPU cycle: the PPU runs
// first at the region's dot ratio, then the CPU (or an in-flight DMA),
// then the APU, then the mapper's per-cycle housekeeping — the order
// spec.md §4.6 specifies so that NMI/IRQ lines raised by a PPU dot are
// visible to the CPU tick that follows it within the same cycle.
func (m *Machine) tick() {
	dots := m.dotsThisCycle()
	for i := 0; i < dots; i++ {
		m.PPU.Tick()
		m.applyScheduledInput()
	}

	m.CPU.PollNMILine(m.PPU.NMILine())
	m.CPU.SetIRQLevel(m.APU.IRQ() || m.Mapper.IRQ())
	m.CPU.Tick()

	m.APU.Tick()
	m.Mapper.Tick()

	sample := m.APU.Sample()
	m.audioFrame = append(m.audioFrame, sample)

	if m.audioSink != nil {
		cpuHz := m.Profile.MasterClockHz / float64(m.Profile.CPUDivisor)
		m.audioAccum += m.audioSampleRate
		if m.audioAccum >= cpuHz {
			m.audioAccum -= cpuHz
			m.audioSink(sample)
		}
	}
}

// dotsThisCycle returns how many PPU dots this CPU cycle advances,
// accumulating PAL's fractional 16/5 ratio in dotAccum.
func (m *Machine) dotsThisCycle() int {
	num, den := m.Profile.DotsPerCPUTickNum, m.Profile.DotsPerCPUTickDen
	if den == 1 {
		return num
	}
	m.dotAccum += num
	dots := m.dotAccum / den
	m.dotAccum -= dots * den
	return dots
}

func (m *Machine) applyScheduledInput() {
	if len(m.pendingInput) == 0 {
		return
	}
	remaining := m.pendingInput[:0]
	for _, ev := range m.pendingInput {
		if ev.scanline == m.PPU.Scanline && ev.dot == m.PPU.Dot {
			m.SetInput(ev.port, ev.buttons)
			continue
		}
		remaining = append(remaining, ev)
	}
	m.pendingInput = remaining
}

// SaveState snapshots the entire machine: CPU registers, PPU/APU
// internal state, internal RAM, the mapper's bank registers and CHR-RAM,
// and both controllers' shift registers (not PRG-RAM battery backup,
// which SaveWRAM/RestoreWRAM handle separately as a distinct lifetime).
// The CPU must be at an instruction boundary to snapshot meaningfully,
// so SaveState runs the machine forward (at most a couple of CPU's worth
// of cycles) until any in-flight instruction or DMA completes.
func (m *Machine) SaveState() []byte {
	for !m.CPU.AtBoundary() {
		m.tick()
	}

	sections := [][]byte{
		m.CPU.SaveState(),
		m.PPU.SaveState(),
		m.APU.SaveState(),
		m.Mapper.SaveState(),
		m.Controller1.SaveState(),
		m.Controller2.SaveState(),
		append(append([]byte{}, m.ram[0][:]...), m.ram[1][:]...),
	}
	return savestate.Encode(sections)
}

// LoadState restores a snapshot written by SaveState. It leaves the
// Machine untouched and returns an error if the data is the wrong
// version or truncated, per spec.md §7 — callers should treat a failed
// restore as "resume has no effect" rather than crash.
func (m *Machine) LoadState(data []byte) error {
	sections, err := savestate.Decode(data)
	if err != nil {
		return err
	}
	if len(sections) != 7 {
		return neserr.ErrSaveStateCorrupt
	}
	ramData := sections[6]
	if len(ramData) != 2*memory.PageSize {
		return neserr.ErrSaveStateCorrupt
	}

	m.CPU.LoadState(sections[0])
	m.PPU.LoadState(sections[1])
	m.APU.LoadState(sections[2])
	m.Mapper.LoadState(sections[3])
	m.Controller1.LoadState(sections[4])
	m.Controller2.LoadState(sections[5])

	copy(m.ram[0][:], ramData[:memory.PageSize])
	copy(m.ram[1][:], ramData[memory.PageSize:])
	return nil
}

// LoadROM parses an iNES image and constructs a Machine from it in one
// call, the common case for a host with nothing more than a ROM file.
func LoadROM(r io.Reader, reg region.Region, opts ...Option) (*Machine, error) {
	cart, err := cartridge.Load(r)
	if err != nil {
		return nil, fmt.Errorf("nes: loading cartridge: %w", err)
	}
	return New(cart, reg, opts...), nil
}
