// Package bus implements the predicate-dispatched address bus shared by
// the CPU side and the PPU side of the machine (spec.md §4.1). Devices
// register read and/or write handlers against an address predicate; the
// bus owns nothing itself beyond the open-bus latch — every byte of
// memory belongs to exactly one device.
package bus

// Predicate decides whether a device claims addr, and what address the
// device itself sees (some devices only look at a subset of the bits).
type Predicate interface {
	Match(addr uint16) (seen uint16, ok bool)
}

// Address matches exactly one address.
type Address uint16

func (a Address) Match(addr uint16) (uint16, bool) { return addr, addr == uint16(a) }

// NotAndMask matches when addr & ^mask == 0 — the device holds the low
// bits and ignores everything mask does not cover.
type NotAndMask uint16

func (m NotAndMask) Match(addr uint16) (uint16, bool) {
	return addr, addr & ^uint16(m) == 0
}

// AndAndMask matches when (addr & and) != 0; the device sees addr & mask.
type AndAndMask struct{ And, Mask uint16 }

func (p AndAndMask) Match(addr uint16) (uint16, bool) {
	return addr & p.Mask, addr&p.And != 0
}

// AndEqualsAndMask matches when (addr & and) == eq; the device sees addr & mask.
type AndEqualsAndMask struct{ And, Eq, Mask uint16 }

func (p AndEqualsAndMask) Match(addr uint16) (uint16, bool) {
	return addr & p.Mask, addr&p.And == p.Eq
}

// RangeAndMask matches lo..hi inclusive; the device sees addr & mask.
type RangeAndMask struct{ Lo, Hi, Mask uint16 }

func (p RangeAndMask) Match(addr uint16) (uint16, bool) {
	return addr & p.Mask, addr >= p.Lo && addr <= p.Hi
}

// Reader is a device that services bus reads.
type Reader interface {
	Read(addr uint16) uint8
}

// Peeker is a device that can be read without side effects. Devices that
// don't implement Peeker fall back to Read for peek purposes (acceptable
// for pure-RAM devices; stateful devices like the PPU implement Peeker
// explicitly).
type Peeker interface {
	Peek(addr uint16) uint8
}

// Writer is a device that services bus writes.
type Writer interface {
	Write(addr uint16, value uint8)
}

type readReg struct {
	pred Predicate
	dev  Reader
}

type writeReg struct {
	pred Predicate
	dev  Writer
}

// Bus dispatches reads and writes to registered devices by address
// predicate and tracks the open-bus latch.
type Bus struct {
	reads  []readReg
	writes []writeReg

	// OpenBus is the last byte returned by a Read call. Peek never
	// updates it.
	OpenBus uint8

	// LastReadAddr is the address of the last Read call, Peek excluded.
	// DMC DMA consults this: a stolen cycle re-drives whatever address
	// the CPU's bus was last parked on, which is how a DMA steal lands
	// an extra $4016/$4017 read when it interrupts controller polling.
	LastReadAddr uint16
}

// New creates an empty bus.
func New() *Bus { return &Bus{} }

// RegisterRead installs a read handler for addresses matching pred.
func (b *Bus) RegisterRead(dev Reader, pred Predicate) {
	b.reads = append(b.reads, readReg{pred, dev})
}

// RegisterWrite installs a write handler for addresses matching pred.
// At most one device may claim a given address for writes; overlapping
// registrations are a configuration error the mapper author must avoid
// (the bus does not detect it at runtime — it always takes the first
// match, matching hardware's single-driver bus).
func (b *Bus) RegisterWrite(dev Writer, pred Predicate) {
	b.writes = append(b.writes, writeReg{pred, dev})
}

// Read dispatches to the first registered device whose predicate matches
// addr, updates the open-bus latch with the result, and returns it.
// Addresses with no matching reader return the current open-bus value
// unchanged (nothing drives the bus, so the latch persists).
func (b *Bus) Read(addr uint16) uint8 {
	b.LastReadAddr = addr
	for _, r := range b.reads {
		if seen, ok := r.pred.Match(addr); ok {
			v := r.dev.Read(seen)
			b.OpenBus = v
			return v
		}
	}
	return b.OpenBus
}

// Peek reads without updating the open-bus latch and without device side
// effects where the device implements Peeker; it falls back to Read's
// dispatch (but not its latch update) otherwise.
func (b *Bus) Peek(addr uint16) uint8 {
	for _, r := range b.reads {
		seen, ok := r.pred.Match(addr)
		if !ok {
			continue
		}
		if p, ok := r.dev.(Peeker); ok {
			return p.Peek(seen)
		}
		return r.dev.Read(seen)
	}
	return b.OpenBus
}

// Write dispatches to the first registered device whose predicate
// matches addr. Addresses with no matching writer are no-ops.
func (b *Bus) Write(addr uint16, value uint8) {
	for _, w := range b.writes {
		if seen, ok := w.pred.Match(addr); ok {
			w.dev.Write(seen, value)
			return
		}
	}
}
