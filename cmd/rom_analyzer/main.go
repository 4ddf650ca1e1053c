package main

import (
	"fmt"
	"log"
	"os"

	"github.com/kvance/nescore/pkg/cartridge"
)

// rom_analyzer is a small standalone inspector for an iNES image: it
// parses the header and prints what the cartridge parser decided,
// without constructing a Machine or running anything.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: rom_analyzer <rom_file>")
		os.Exit(1)
	}
	romFile := os.Args[1]

	file, err := os.Open(romFile)
	if err != nil {
		log.Fatalf("failed to open ROM file: %v", err)
	}
	defer file.Close()

	cart, err := cartridge.Load(file)
	if err != nil {
		log.Fatalf("failed to load ROM: %v", err)
	}

	fmt.Printf("=== ROM Analysis ===\n")
	fmt.Printf("File: %s\n\n", romFile)

	fmt.Printf("=== Mapper ===\n")
	fmt.Printf("Mapper number: %d\n", cart.MapperNumber)
	fmt.Printf("Sub-mapper: %d\n", cart.SubMapper)
	fmt.Printf("Battery backed: %v\n\n", cart.Battery)

	fmt.Printf("=== Mirroring ===\n")
	switch cart.Mirroring {
	case cartridge.FourScreen:
		fmt.Println("Four-screen")
	case cartridge.Vertical:
		fmt.Println("Vertical")
	default:
		fmt.Println("Horizontal")
	}
	if cart.AltMirroring {
		fmt.Println("(NES 2.0 four-screen-via-mapper hint set)")
	}
	fmt.Println()

	fmt.Printf("=== Memory ===\n")
	fmt.Printf("PRG ROM: %d bytes (%d KB)\n", len(cart.PRGROM), len(cart.PRGROM)/1024)
	if len(cart.CHRROM) > 0 {
		fmt.Printf("CHR ROM: %d bytes (%d KB)\n", len(cart.CHRROM), len(cart.CHRROM)/1024)
	} else {
		fmt.Printf("CHR RAM: %d bytes (%d KB)\n", cart.CHRRAMSize, cart.CHRRAMSize/1024)
	}
	if cart.PRGRAMSize > 0 {
		fmt.Printf("PRG RAM: %d bytes (%d KB)%s\n", cart.PRGRAMSize, cart.PRGRAMSize/1024,
			battery(cart.Battery))
	}
}

func battery(b bool) string {
	if b {
		return ", battery-backed"
	}
	return ""
}
