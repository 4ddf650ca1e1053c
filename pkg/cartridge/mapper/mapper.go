// Package mapper implements the cartridge-resident bank-switching logic
// (spec.md §4.2). Mapper is the machine's single polymorphism point: the
// machine holds one Mapper value (a concrete struct satisfying the
// interface) and never stores a back-pointer from the mapper to the
// machine — all calls flow machine -> mapper.
package mapper

import (
	"fmt"

	"github.com/kvance/nescore/pkg/cartridge"
	"github.com/kvance/nescore/pkg/neserr"
)

// NametableKind distinguishes which physical page a PPU nametable access
// resolves to.
type NametableKind int

const (
	InternalA NametableKind = iota
	InternalB
	External
)

// Nametable is the result of resolving a $2000-$3EFF PPU address to a
// physical nametable page. The machine owns the 2 KiB of internal VRAM;
// for External, the mapper owns the referenced page itself (four-screen
// boards only).
type Nametable struct {
	Kind NametableKind
	Page int // meaningful only when Kind == External
}

// MirrorMode is the nametable mirroring arrangement, which several
// mappers (MMC1, MMC3, AxROM, ...) can change at runtime.
type MirrorMode int

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorSingleA
	MirrorSingleB
	MirrorFourScreen
)

// ResolveNametable maps a $2000-$2FFF PPU address to a physical page
// under the given mirroring mode. It is the shared implementation every
// mapper's Nametable method delegates to.
func ResolveNametable(mode MirrorMode, addr uint16) Nametable {
	quadrant := (addr / 0x400) % 4
	switch mode {
	case MirrorHorizontal:
		if quadrant == 0 || quadrant == 1 {
			return Nametable{Kind: InternalA}
		}
		return Nametable{Kind: InternalB}
	case MirrorVertical:
		if quadrant == 0 || quadrant == 2 {
			return Nametable{Kind: InternalA}
		}
		return Nametable{Kind: InternalB}
	case MirrorSingleA:
		return Nametable{Kind: InternalA}
	case MirrorSingleB:
		return Nametable{Kind: InternalB}
	case MirrorFourScreen:
		return Nametable{Kind: External, Page: int(quadrant)}
	default:
		return Nametable{Kind: InternalA}
	}
}

// Mapper is the capability set the machine consumes from cartridge
// bank-switching logic, per spec.md §4.2.
type Mapper interface {
	// Reset re-initializes bank registers to their power-on state
	// without discarding PRG-RAM contents.
	Reset()

	// CPURead services a CPU-bus read in $4020-$FFFF. May update
	// mapper latches (e.g. PxROM's CHR latch).
	CPURead(addr uint16) uint8
	// CPUPeek is the side-effect-free equivalent of CPURead.
	CPUPeek(addr uint16) uint8
	// CPUWrite services a CPU-bus write in $4020-$FFFF: bank
	// switching, mirroring changes, IRQ-counter programming.
	CPUWrite(addr uint16, value uint8)

	// PPURead services a PPU-bus pattern-table read in $0000-$1FFF.
	PPURead(addr uint16) uint8
	PPUPeek(addr uint16) uint8
	// PPUWrite services a PPU-bus pattern-table write (CHR-RAM only).
	PPUWrite(addr uint16, value uint8)

	// Tick is called exactly once per CPU cycle, after the CPU and PPU
	// have both advanced. Cycle-counting IRQ mappers use it.
	Tick()
	// UpdatePPUAddr is called whenever the PPU's v register changes,
	// enabling A12-edge IRQ counting (MMC3).
	UpdatePPUAddr(addr uint16)
	// Nametable resolves a $2000-$2FFF PPU address to a physical page.
	Nametable(addr uint16) Nametable

	// IRQ reports the mapper's level-sensitive IRQ line.
	IRQ() bool

	// SaveWRAM/RestoreWRAM round-trip battery-backed PRG-RAM. Mappers
	// without a battery return nil from SaveWRAM.
	SaveWRAM() []byte
	RestoreWRAM(data []byte)

	// SaveState/LoadState round-trip bank registers, IRQ counters, and
	// any CHR-RAM, so a savestate taken mid-game can reconstruct exactly
	// what the mapper is currently banking in. Distinct from
	// SaveWRAM/RestoreWRAM, which only covers battery-backed storage
	// that outlives a power cycle.
	SaveState() []byte
	LoadState(data []byte)
}

// New constructs the mapper named by the cartridge's header. Unknown
// mapper numbers fall back to mapper 0 (NROM) per spec.md §7's
// fail-soft policy; the caller is expected to log neserr.ErrMapperUnsupported
// when ok is false.
func New(cart *cartridge.Cartridge) (m Mapper, ok bool) {
	switch cart.MapperNumber {
	case 0:
		return NewNROM(cart), true
	case 1:
		return NewSxROM(cart), true
	case 2:
		return NewUxROM(cart), true
	case 3:
		return NewCNROM(cart), true
	case 4:
		return NewTxROM(cart), true
	case 7:
		return NewAxROM(cart), true
	case 11:
		return NewColorDreams(cart), true
	case 34:
		return NewBxROM(cart), true
	case 31:
		return NewMapper031(cart), true
	case 66:
		return NewGxROM(cart), true
	case 79, 113:
		return NewNina001(cart), true
	default:
		return NewNROM(cart), false
	}
}

func unsupportedErr(n int) error {
	return fmt.Errorf("%w: mapper %d", neserr.ErrMapperUnsupported, n)
}
