// Package savestate frames a machine snapshot as a versioned sequence
// of length-prefixed sections, per spec.md §4.7. Each subsystem owns its
// own section's byte layout (cpu.CPU, ppu.PPU, apu.APU, mapper.Mapper,
// and input.Controller each implement SaveState/LoadState); this
// package only owns the envelope: a version tag plus the section count
// and lengths, so a restore can detect a foreign or truncated file
// before touching any subsystem.
package savestate

import (
	"encoding/binary"

	"github.com/kvance/nescore/pkg/neserr"
)

// Version is bumped whenever a subsystem's section layout changes in a
// way that breaks backward compatibility with a previously-written
// save.
const Version uint32 = 1

// Encode lays out sections as: version (4 bytes), section count (4
// bytes), then each section as a 4-byte length followed by its bytes.
func Encode(sections [][]byte) []byte {
	size := 8
	for _, s := range sections {
		size += 4 + len(s)
	}
	buf := make([]byte, 0, size)

	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], Version)
	buf = append(buf, hdr[:]...)
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(sections)))
	buf = append(buf, hdr[:]...)

	for _, s := range sections {
		binary.LittleEndian.PutUint32(hdr[:], uint32(len(s)))
		buf = append(buf, hdr[:]...)
		buf = append(buf, s...)
	}
	return buf
}

// Decode validates the envelope and splits it back into sections. It
// never inspects a section's contents — that's each subsystem's
// LoadState's job — only that the envelope's declared lengths fit
// within the data actually present.
func Decode(data []byte) ([][]byte, error) {
	if len(data) < 8 {
		return nil, neserr.ErrSaveStateCorrupt
	}
	version := binary.LittleEndian.Uint32(data[0:4])
	if version != Version {
		return nil, neserr.ErrSaveStateVersion
	}
	count := binary.LittleEndian.Uint32(data[4:8])

	sections := make([][]byte, 0, count)
	pos := 8
	for i := uint32(0); i < count; i++ {
		if pos+4 > len(data) {
			return nil, neserr.ErrSaveStateCorrupt
		}
		n := int(binary.LittleEndian.Uint32(data[pos:]))
		pos += 4
		if n < 0 || pos+n > len(data) {
			return nil, neserr.ErrSaveStateCorrupt
		}
		sections = append(sections, data[pos:pos+n])
		pos += n
	}
	return sections, nil
}
