package apu

import (
	"bytes"
	"encoding/binary"
)

// SaveState encodes every channel register and the frame sequencer's
// own state. All four channel structs and the frame/DMA latches are
// fixed-width primitives, so binary.Write can lay them out directly
// without a hand-rolled cursor.
func (a *APU) SaveState() []byte {
	buf := &bytes.Buffer{}
	for _, v := range []any{
		a.Pulse1, a.Pulse2, a.Triangle, a.Noise, a.DMC,
		a.frameMode, a.frameStep, a.frameIRQ, a.irqInhibit, a.resetDelay,
		a.Cycles, a.evenCycle, a.dmaPending, a.dmaAddr,
	} {
		// frameStep and resetDelay are plain ints; binary.Write rejects
		// those, so narrow them to a fixed width first.
		switch x := v.(type) {
		case int:
			binary.Write(buf, binary.LittleEndian, int32(x))
		default:
			binary.Write(buf, binary.LittleEndian, x)
		}
	}
	return buf.Bytes()
}

// LoadState restores what SaveState captured.
func (a *APU) LoadState(data []byte) {
	r := bytes.NewReader(data)
	binary.Read(r, binary.LittleEndian, &a.Pulse1)
	binary.Read(r, binary.LittleEndian, &a.Pulse2)
	binary.Read(r, binary.LittleEndian, &a.Triangle)
	binary.Read(r, binary.LittleEndian, &a.Noise)
	// binary.Read cannot set DMCChannel's unexported fields, so read its
	// fields one by one in declaration order, the order binary.Write used.
	d := &a.DMC
	for _, p := range []any{
		&d.Enabled, &d.IRQEnabled, &d.Loop, &d.Rate, &d.LoadCounter,
		&d.SampleAddress, &d.SampleLength, &d.CurrentAddress, &d.CurrentLength,
		&d.Buffer, &d.BitsRemaining, &d.Silence, &d.SampleBuffer, &d.BufferEmpty,
		&d.timer, &d.irqFlag,
	} {
		binary.Read(r, binary.LittleEndian, p)
	}
	binary.Read(r, binary.LittleEndian, &a.frameMode)
	var frameStep, resetDelay int32
	binary.Read(r, binary.LittleEndian, &frameStep)
	a.frameStep = int(frameStep)
	binary.Read(r, binary.LittleEndian, &a.frameIRQ)
	binary.Read(r, binary.LittleEndian, &a.irqInhibit)
	binary.Read(r, binary.LittleEndian, &resetDelay)
	a.resetDelay = int(resetDelay)
	binary.Read(r, binary.LittleEndian, &a.Cycles)
	binary.Read(r, binary.LittleEndian, &a.evenCycle)
	binary.Read(r, binary.LittleEndian, &a.dmaPending)
	binary.Read(r, binary.LittleEndian, &a.dmaAddr)
}
