// Package region holds the constant tables that differ between the NTSC
// and PAL NES. Everything here is derived at init time and never mutated.
package region

// Region identifies which television standard the machine is emulating.
type Region int

const (
	NTSC Region = iota
	PAL
)

func (r Region) String() string {
	if r == PAL {
		return "PAL"
	}
	return "NTSC"
}

// FrameSeqStep describes what the APU frame sequencer does on a given step.
type FrameSeqStep struct {
	Quarter bool // clock envelopes + triangle linear counter
	Half    bool // clock length counters + sweep units
	IRQ     bool // raise frame IRQ (4-step mode only, final step)
}

// Profile bundles every region-dependent constant the machine needs.
type Profile struct {
	Region Region

	MasterClockHz float64
	CPUDivisor    int // master clock cycles per CPU cycle
	PPUDivisor    int // master clock cycles per PPU dot

	PrerenderScanline int // 261 NTSC, 311 PAL
	VBlankStartLine   int // 241 both regions; vblank runs to PrerenderScanline
	ScanlinesPerFrame int // PrerenderScanline + 1

	UnevenFrames  bool // NTSC skips a dot on odd frames; PAL does not
	ExtraPPUTick  bool // PAL ticks the PPU an extra dot every 5 CPU cycles
	DMAHaltOnRead bool // NTSC-only DMC-DMA/controller-read collision quirk

	// CPU cycles of PPU dots per CPU cycle, as a ratio: for every
	// DotsPerCPUTickDen CPU cycles the PPU advances DotsPerCPUTickNum dots.
	// NTSC: 3/1. PAL: 16/5 (3.2 dots/cycle).
	DotsPerCPUTickNum int
	DotsPerCPUTickDen int

	CPUCyclesPerFrameEven int
	CPUCyclesPerFrameOdd  int

	FrameSeq4Step [4]FrameSeqStep
	FrameSeq5Step [5]FrameSeqStep

	DMCRateTable   [16]uint16
	NoisePeriods   [16]uint16
	EmphasisOrder  [3]uint8 // bit index order used to rotate R/G/B emphasis
	DefaultPalette [64]uint32
}

// Get returns the constant profile for a region. The profiles are
// package-level values completed at init and never mutated afterwards.
func Get(r Region) *Profile {
	if r == PAL {
		return &palProfile
	}
	return &ntscProfile
}

var (
	ntscProfile = Profile{
		Region:                NTSC,
		MasterClockHz:         21477272,
		CPUDivisor:            12,
		PPUDivisor:            4,
		PrerenderScanline:     261,
		VBlankStartLine:       241,
		ScanlinesPerFrame:     262,
		UnevenFrames:          true,
		ExtraPPUTick:          false,
		DMAHaltOnRead:         true,
		DotsPerCPUTickNum:     3,
		DotsPerCPUTickDen:     1,
		CPUCyclesPerFrameEven: 29781,
		CPUCyclesPerFrameOdd:  29780,
		FrameSeq4Step: [4]FrameSeqStep{
			{Quarter: true},
			{Quarter: true, Half: true},
			{Quarter: true},
			{Quarter: true, Half: true, IRQ: true},
		},
		FrameSeq5Step: [5]FrameSeqStep{
			{Quarter: true, Half: true},
			{Quarter: true},
			{Quarter: true, Half: true},
			{Quarter: true},
			{},
		},
		DMCRateTable:  [16]uint16{428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54},
		NoisePeriods:  [16]uint16{4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068},
		EmphasisOrder: [3]uint8{0, 1, 2}, // B-G-R bit order on NTSC
	}

	palProfile = Profile{
		Region:                PAL,
		MasterClockHz:         26601712,
		CPUDivisor:            16,
		PPUDivisor:            5,
		PrerenderScanline:     311,
		VBlankStartLine:       241,
		ScanlinesPerFrame:     312,
		UnevenFrames:          false,
		ExtraPPUTick:          true,
		DMAHaltOnRead:         false,
		DotsPerCPUTickNum:     16,
		DotsPerCPUTickDen:     5,
		CPUCyclesPerFrameEven: 33247,
		CPUCyclesPerFrameOdd:  33247,
		FrameSeq4Step: [4]FrameSeqStep{
			{Quarter: true},
			{Quarter: true, Half: true},
			{Quarter: true},
			{Quarter: true, Half: true, IRQ: true},
		},
		FrameSeq5Step: [5]FrameSeqStep{
			{Quarter: true, Half: true},
			{Quarter: true},
			{Quarter: true, Half: true},
			{Quarter: true},
			{},
		},
		DMCRateTable:  [16]uint16{398, 354, 316, 298, 276, 236, 210, 198, 176, 148, 132, 118, 98, 78, 66, 50},
		NoisePeriods:  [16]uint16{4, 8, 14, 30, 60, 88, 118, 148, 188, 236, 354, 472, 708, 944, 1890, 3778},
		EmphasisOrder: [3]uint8{1, 2, 0}, // B-R-G bit order on PAL
	}
)

func init() {
	ntscProfile.DefaultPalette = defaultRGBPalette
	palProfile.DefaultPalette = defaultRGBPalette
}

// defaultRGBPalette is the standard 2C02 64-entry RGB palette shared by
// both regions; emphasis rotation is applied on top of it by the host.
var defaultRGBPalette = [64]uint32{
	0x626262, 0x001FB2, 0x2404C8, 0x5200B2, 0x730076, 0x800024, 0x730B00, 0x522800,
	0x244400, 0x005700, 0x005C00, 0x005324, 0x003C76, 0x000000, 0x000000, 0x000000,
	0xABABAB, 0x0D57FF, 0x4B30FF, 0x8A13FF, 0xBC08D6, 0xD21269, 0xC72E00, 0x9D5400,
	0x607B00, 0x209800, 0x00A300, 0x009942, 0x007DB4, 0x000000, 0x000000, 0x000000,
	0xFFFFFF, 0x53AEFF, 0x9085FF, 0xD365FF, 0xFF57FF, 0xFF5DCF, 0xFF7757, 0xFA9E00,
	0xBDC700, 0x7AE700, 0x43F611, 0x26EF7E, 0x2CD5F6, 0x4E4E4E, 0x000000, 0x000000,
	0xFFFFFF, 0xB6E1FF, 0xCED1FF, 0xE9C3FF, 0xFFBCFF, 0xFFBDF4, 0xFFC6C3, 0xFFD59A,
	0xE9E681, 0xCEF481, 0xB6FB9A, 0xA9FAC3, 0xA9F0F4, 0xB8B8B8, 0x000000, 0x000000,
}
