// Package cartridge parses iNES v1 / NES 2.0 ROM images into the
// immutable byte blobs and header fields a mapper is constructed from.
// Cartridge itself never interprets mapper-specific behavior — see
// pkg/cartridge/mapper for that.
package cartridge

import (
	"fmt"
	"io"

	"github.com/kvance/nescore/pkg/neserr"
)

// Mirroring is the cartridge-declared nametable mirroring mode. Many
// mappers override this dynamically at runtime; it is only the power-on
// default.
type Mirroring int

const (
	Horizontal Mirroring = iota
	Vertical
	FourScreen
)

// Cartridge is the immutable-after-load result of parsing an iNES image.
type Cartridge struct {
	PRGROM []byte
	CHRROM []byte // empty when the cartridge uses CHR-RAM instead

	CHRRAMSize int
	PRGRAMSize int

	Mirroring    Mirroring
	AltMirroring bool // NES 2.0 "four-screen via mapper" hint
	MapperNumber int
	SubMapper    int
	Battery      bool

	// WRAM holds a previously-persisted battery save, if the host
	// supplied one via WithWRAM before Load. It is handed to the
	// mapper's RestoreWRAM on construction.
	WRAM []byte
}

const (
	prgBankSize = 16384
	chrBankSize = 8192
	headerSize  = 16
	trainerSize = 512
)

// Load parses an iNES v1 or NES 2.0 image from r.
func Load(r io.Reader) (*Cartridge, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", neserr.ErrTruncated, err)
	}
	if string(header[0:4]) != "NES\x1a" {
		return nil, fmt.Errorf("%w", neserr.ErrInvalidMagic)
	}

	flags6 := header[6]
	flags7 := header[7]
	isNES2 := flags7&0x0C == 0x08

	if flags6&0x04 != 0 { // trainer present, skip
		trainer := make([]byte, trainerSize)
		if _, err := io.ReadFull(r, trainer); err != nil {
			return nil, fmt.Errorf("%w: reading trainer: %v", neserr.ErrTruncated, err)
		}
	}

	prgBanks := int(header[4])
	chrBanks := int(header[5])
	mapperNum := int(flags6>>4) | int(flags7&0xF0)
	subMapper := 0
	if isNES2 {
		prgBanksHi := int(header[9] & 0x0F)
		prgBanks |= prgBanksHi << 8
		mapperNum |= int(header[8]&0x0F) << 8
		subMapper = int(header[8] >> 4)
	}

	prgSize := prgBanks * prgBankSize
	prg := make([]byte, prgSize)
	if _, err := io.ReadFull(r, prg); err != nil {
		return nil, fmt.Errorf("%w: reading PRG ROM: %v", neserr.ErrTruncated, err)
	}

	var chr []byte
	chrRAMSize := 0
	if chrBanks > 0 {
		chrSize := chrBanks * chrBankSize
		chr = make([]byte, chrSize)
		if _, err := io.ReadFull(r, chr); err != nil {
			return nil, fmt.Errorf("%w: reading CHR ROM: %v", neserr.ErrTruncated, err)
		}
	} else {
		chrRAMSize = 8192
		if mapperNum == 4 {
			// MMC3 boards commonly carry 32 KiB of CHR-RAM.
			chrRAMSize = 32768
		}
	}

	mirroring := Horizontal
	if flags6&0x08 != 0 {
		mirroring = FourScreen
	} else if flags6&0x01 != 0 {
		mirroring = Vertical
	}

	prgRAMSize := 8192
	if flags6&0x02 != 0 {
		prgRAMSize = 32768 // matches the teacher's battery-backed default
	}

	cart := &Cartridge{
		PRGROM:       prg,
		CHRROM:       chr,
		CHRRAMSize:   chrRAMSize,
		PRGRAMSize:   prgRAMSize,
		Mirroring:    mirroring,
		AltMirroring: flags6&0x08 != 0,
		MapperNumber: mapperNum,
		SubMapper:    subMapper,
		Battery:      flags6&0x02 != 0,
	}
	return cart, nil
}

// WithWRAM attaches a previously-persisted battery save to the cartridge
// before it is handed to mapper construction.
func (c *Cartridge) WithWRAM(wram []byte) *Cartridge {
	c.WRAM = wram
	return c
}
