// Package memory provides the uniform 1 KiB page allocator and the
// bank-mappable window used to compose cartridge ROM banks and RAM pages
// into contiguous CPU/PPU address windows, per spec.md §3/§4.1.
package memory

// PageSize is the uniform allocation unit: every RAM page and every ROM
// bank slot a Window maps is exactly 1 KiB.
const PageSize = 1024

// Page is a single owned 1 KiB block of RAM.
type Page [PageSize]byte

// NewPages allocates n zeroed pages.
func NewPages(n int) []*Page {
	pages := make([]*Page, n)
	for i := range pages {
		pages[i] = &Page{}
	}
	return pages
}

// SlotKind distinguishes what a Window slot is mapped to.
type SlotKind int

const (
	SlotUnmapped SlotKind = iota
	SlotROM
	SlotRAM
)

// Slot is one 1 KiB mapping cell of a Window.
type Slot struct {
	Kind    SlotKind
	ROMBank int   // index into the Window's ROM source, in PageSize units
	RAM     *Page // owned RAM page, when Kind == SlotRAM
}

// Window is a contiguous CPU or PPU address range, divided into 1 KiB
// slots, each independently mapped to a ROM bank index or an owned RAM
// page. Mapping changes are always 1 KiB-aligned.
type Window struct {
	Base  uint16 // starting address of the window
	ROM   []byte // backing ROM bytes the window's SlotROM entries index into
	slots []Slot
}

// NewWindow creates a window of lengthKiB 1 KiB slots over rom, all
// slots initially unmapped.
func NewWindow(base uint16, lengthKiB int, rom []byte) *Window {
	return &Window{
		Base:  base,
		ROM:   rom,
		slots: make([]Slot, lengthKiB),
	}
}

// MapROM maps the 1 KiB slot at slot index to bank (also in 1 KiB units)
// of the window's ROM source.
func (w *Window) MapROM(slot, bank int) {
	w.slots[slot] = Slot{Kind: SlotROM, ROMBank: bank}
}

// MapROMRange maps count consecutive slots starting at startSlot to count
// consecutive 1 KiB banks starting at startBank — the common case of
// mapping an 8/16/32 KiB window in one call.
func (w *Window) MapROMRange(startSlot, startBank, count int) {
	for i := 0; i < count; i++ {
		w.MapROM(startSlot+i, startBank+i)
	}
}

// MapRAM maps the 1 KiB slot at slot index to an owned RAM page.
func (w *Window) MapRAM(slot int, page *Page) {
	w.slots[slot] = Slot{Kind: SlotRAM, RAM: page}
}

// Read returns the byte at addr within the window. Unmapped slots read
// as 0.
func (w *Window) Read(addr uint16) uint8 {
	slot, within, ok := w.locate(addr)
	if !ok {
		return 0
	}
	s := w.slots[slot]
	switch s.Kind {
	case SlotROM:
		idx := s.ROMBank*PageSize + within
		if idx < 0 || idx >= len(w.ROM) {
			return 0
		}
		return w.ROM[idx]
	case SlotRAM:
		return s.RAM[within]
	default:
		return 0
	}
}

// Write stores to the RAM slot at addr, if one is mapped there. Writes to
// ROM or unmapped slots are no-ops; bank-switch registers are intercepted
// by the mapper before reaching the window.
func (w *Window) Write(addr uint16, value uint8) {
	slot, within, ok := w.locate(addr)
	if !ok {
		return
	}
	if s := w.slots[slot]; s.Kind == SlotRAM {
		s.RAM[within] = value
	}
}

// Contains reports whether addr falls within the window's mapped range.
func (w *Window) Contains(addr uint16) bool {
	off := int(addr) - int(w.Base)
	return off >= 0 && off < len(w.slots)*PageSize
}

func (w *Window) locate(addr uint16) (slot, within int, ok bool) {
	off := int(addr) - int(w.Base)
	if off < 0 {
		return 0, 0, false
	}
	slot = off / PageSize
	within = off % PageSize
	if slot >= len(w.slots) {
		return 0, 0, false
	}
	return slot, within, true
}
