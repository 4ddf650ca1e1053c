package cartridge

import (
	"bytes"
	"errors"
	"testing"

	"github.com/kvance/nescore/pkg/neserr"
)

func buildINES(prgBanks, chrBanks int, flags6, flags7 byte, prg, chr []byte) []byte {
	h := make([]byte, 16)
	copy(h[0:4], []byte("NES\x1a"))
	h[4] = byte(prgBanks)
	h[5] = byte(chrBanks)
	h[6] = flags6
	h[7] = flags7
	buf := append([]byte{}, h...)
	buf = append(buf, prg...)
	buf = append(buf, chr...)
	return buf
}

func TestLoadNROM(t *testing.T) {
	prg := make([]byte, 16384)
	prg[0] = 0xEA
	chr := make([]byte, 8192)
	data := buildINES(1, 1, 0x00, 0x00, prg, chr)

	cart, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cart.PRGROM) != 16384 {
		t.Errorf("PRGROM len = %d, want 16384", len(cart.PRGROM))
	}
	if len(cart.CHRROM) != 8192 {
		t.Errorf("CHRROM len = %d, want 8192", len(cart.CHRROM))
	}
	if cart.Mirroring != Horizontal {
		t.Errorf("Mirroring = %v, want Horizontal", cart.Mirroring)
	}
	if cart.MapperNumber != 0 {
		t.Errorf("MapperNumber = %d, want 0", cart.MapperNumber)
	}
}

func TestLoadCHRRAMFallback(t *testing.T) {
	prg := make([]byte, 16384)
	data := buildINES(1, 0, 0x01, 0x00, prg, nil)
	cart, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cart.CHRROM) != 0 {
		t.Errorf("CHRROM should be empty when chrBanks=0")
	}
	if cart.CHRRAMSize != 8192 {
		t.Errorf("CHRRAMSize = %d, want 8192", cart.CHRRAMSize)
	}
	if cart.Mirroring != Vertical {
		t.Errorf("Mirroring = %v, want Vertical", cart.Mirroring)
	}
}

func TestLoadInvalidMagic(t *testing.T) {
	data := []byte("GARBAGE\x00\x00\x00\x00\x00\x00\x00\x00\x00")
	_, err := Load(bytes.NewReader(data))
	if !errors.Is(err, neserr.ErrInvalidMagic) {
		t.Errorf("err = %v, want ErrInvalidMagic", err)
	}
}

func TestLoadTruncated(t *testing.T) {
	h := make([]byte, 16)
	copy(h[0:4], []byte("NES\x1a"))
	h[4] = 2 // claims 32 KiB PRG but supplies none
	_, err := Load(bytes.NewReader(h))
	if !errors.Is(err, neserr.ErrTruncated) {
		t.Errorf("err = %v, want ErrTruncated", err)
	}
}

func TestLoadBatteryFlagSizesPRGRAM(t *testing.T) {
	prg := make([]byte, 16384)
	data := buildINES(1, 1, 0x02, 0x00, prg, make([]byte, 8192))
	cart, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cart.Battery {
		t.Errorf("Battery = false, want true")
	}
	if cart.PRGRAMSize != 32768 {
		t.Errorf("PRGRAMSize = %d, want 32768", cart.PRGRAMSize)
	}
}
