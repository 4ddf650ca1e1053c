package mapper

import "github.com/kvance/nescore/pkg/cartridge"

func makeCart(mapperNum int, prgKiB, chrKiB int, battery bool) *cartridge.Cartridge {
	prg := make([]byte, prgKiB*1024)
	for i := range prg {
		prg[i] = uint8(i)
	}
	var chr []byte
	if chrKiB > 0 {
		chr = make([]byte, chrKiB*1024)
		for i := range chr {
			chr[i] = uint8(i)
		}
	}
	return &cartridge.Cartridge{
		PRGROM:       prg,
		CHRROM:       chr,
		CHRRAMSize:   8192,
		PRGRAMSize:   8192,
		MapperNumber: mapperNum,
		Battery:      battery,
	}
}
