package cpu

import (
	"testing"

	"github.com/kvance/nescore/pkg/bus"
)

type countingReader struct{ reads int }

func (r *countingReader) Read(addr uint16) uint8 { r.reads++; return 0 }

type fakeDMC struct {
	addr    uint16
	pending bool
	got     uint8
}

func (d *fakeDMC) DMARequested() (uint16, bool) {
	if d.pending {
		d.pending = false
		return d.addr, true
	}
	return 0, false
}

func (d *fakeDMC) DMAComplete(v uint8) { d.got = v }

func TestDMCDMACollidesWithControllerStrobe(t *testing.T) {
	ram := &flatRAM{}
	ram.mem[0xFFFC] = 0x00
	ram.mem[0xFFFD] = 0x80

	ctrl := &countingReader{}
	b := bus.New()
	b.RegisterRead(ctrl, bus.Address(0x4016))
	b.RegisterRead(ram, bus.RangeAndMask{Lo: 0, Hi: 0xFFFF, Mask: 0xFFFF})

	c := New(b)
	c.Reset()

	dmc := &fakeDMC{addr: 0x9000, pending: true}
	c.DMCTarget = dmc

	c.Bus.Read(0x4016) // simulate the CPU having just polled the controller
	if ctrl.reads != 1 {
		t.Fatalf("reads = %d, want 1 before DMA", ctrl.reads)
	}

	c.Tick() // DMC DMA grabs the bus here
	if ctrl.reads != 2 {
		t.Fatalf("reads = %d, want 2 after DMC DMA collides with the $4016 poll", ctrl.reads)
	}

	for c.dma.kind != dmaNone {
		c.Tick()
	}
	if dmc.got != 0 {
		t.Fatalf("DMC byte = %#02x, want the sample fetched from $9000", dmc.got)
	}
	if ctrl.reads != 2 {
		t.Fatalf("reads = %d, want no further collisions once the DMA's own fetch lands on $9000", ctrl.reads)
	}
}

func TestDMCDMANoCollisionWithoutControllerPoll(t *testing.T) {
	ram := &flatRAM{}
	ram.mem[0xFFFC] = 0x00
	ram.mem[0xFFFD] = 0x80

	ctrl := &countingReader{}
	b := bus.New()
	b.RegisterRead(ctrl, bus.Address(0x4016))
	b.RegisterRead(ram, bus.RangeAndMask{Lo: 0, Hi: 0xFFFF, Mask: 0xFFFF})

	c := New(b)
	c.Reset()

	dmc := &fakeDMC{addr: 0x9000, pending: true}
	c.DMCTarget = dmc

	c.Bus.Read(0x0010) // ordinary RAM read, not a controller poll

	c.Tick() // DMC DMA grabs the bus here
	if ctrl.reads != 0 {
		t.Fatalf("reads = %d, want 0: no collision when the CPU wasn't polling $4016", ctrl.reads)
	}
}
