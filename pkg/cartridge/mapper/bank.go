package mapper

import (
	"encoding/binary"

	"github.com/kvance/nescore/pkg/cartridge"
)

// stateWriter/stateReader are the shared codec every mapper's
// SaveState/LoadState uses to lay out its bank registers, IRQ counters,
// and chr RAM as a flat byte blob. The format is mapper-private: nothing
// outside this package interprets it.
type stateWriter struct{ buf []byte }

func (w *stateWriter) u8(v uint8)  { w.buf = append(w.buf, v) }
func (w *stateWriter) boolv(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}
func (w *stateWriter) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
func (w *stateWriter) blob(b []byte) {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(b)))
	w.buf = append(w.buf, lenBuf[:]...)
	w.buf = append(w.buf, b...)
}

type stateReader struct {
	data []byte
	pos  int
}

func (r *stateReader) u8() uint8 {
	if r.pos >= len(r.data) {
		return 0
	}
	v := r.data[r.pos]
	r.pos++
	return v
}
func (r *stateReader) boolv() bool { return r.u8() != 0 }
func (r *stateReader) u32() uint32 {
	if r.pos+4 > len(r.data) {
		r.pos = len(r.data)
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}
func (r *stateReader) blob() []byte {
	if r.pos+4 > len(r.data) {
		return nil
	}
	n := int(binary.LittleEndian.Uint32(r.data[r.pos:]))
	r.pos += 4
	if r.pos+n > len(r.data) {
		return nil
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out
}

// chrStore is the CHR address space a mapper banks into: either the
// cartridge's CHR-ROM (read-only) or an owned CHR-RAM block the
// cartridge declared no CHR-ROM for.
type chrStore struct {
	data     []byte
	writable bool
}

func newCHRStore(cart *cartridge.Cartridge) *chrStore {
	if len(cart.CHRROM) > 0 {
		return &chrStore{data: cart.CHRROM, writable: false}
	}
	return &chrStore{data: make([]byte, cart.CHRRAMSize), writable: true}
}

func (c *chrStore) read(addr int) uint8 {
	if addr < 0 || addr >= len(c.data) {
		return 0
	}
	return c.data[addr]
}

func (c *chrStore) write(addr int, v uint8) {
	if !c.writable || addr < 0 || addr >= len(c.data) {
		return
	}
	c.data[addr] = v
}

// prgRAM is a mapper's battery-backable PRG-RAM block.
type prgRAM struct {
	data []byte
}

func newPRGRAM(cart *cartridge.Cartridge) *prgRAM {
	size := cart.PRGRAMSize
	if size == 0 {
		size = 8192
	}
	p := &prgRAM{data: make([]byte, size)}
	if len(cart.WRAM) > 0 {
		copy(p.data, cart.WRAM)
	}
	return p
}

func (p *prgRAM) read(addr int) uint8 {
	if addr < 0 || addr >= len(p.data) {
		return 0
	}
	return p.data[addr]
}

func (p *prgRAM) write(addr int, v uint8) {
	if addr < 0 || addr >= len(p.data) {
		return
	}
	p.data[addr] = v
}

func (p *prgRAM) save() []byte {
	out := make([]byte, len(p.data))
	copy(out, p.data)
	return out
}

func (p *prgRAM) restore(data []byte) {
	copy(p.data, data)
}

// save/restore on chrStore round-trip CHR-RAM contents for a savestate.
// CHR-ROM boards report a nil save since there's nothing mutable to keep.
func (c *chrStore) save() []byte {
	if !c.writable {
		return nil
	}
	out := make([]byte, len(c.data))
	copy(out, c.data)
	return out
}

func (c *chrStore) restore(data []byte) {
	if !c.writable {
		return
	}
	copy(c.data, data)
}

// bankOffset computes the byte offset of the bankSize-byte bank at index
// bank within data, wrapping bank to the number of banks data holds.
// bank may be negative (e.g. "last bank") — Go's %% on negatives is
// handled by normalizing first.
func bankOffset(dataLen, bankSize, bank int) int {
	banks := dataLen / bankSize
	if banks == 0 {
		return 0
	}
	bank %= banks
	if bank < 0 {
		bank += banks
	}
	return bank * bankSize
}
