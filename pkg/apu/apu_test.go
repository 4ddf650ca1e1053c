package apu

import (
	"testing"

	"github.com/kvance/nescore/pkg/region"
)

func newTestAPU() *APU {
	return New(region.Get(region.NTSC))
}

func TestAPUCreation(t *testing.T) {
	apu := newTestAPU()
	if apu.Cycles != 0 {
		t.Errorf("expected cycles=0, got %d", apu.Cycles)
	}
	if apu.frameStep != 0 {
		t.Errorf("expected frame step=0, got %d", apu.frameStep)
	}
	if apu.IRQ() {
		t.Error("IRQ should be low initially")
	}
}

func TestPulseChannelRegisters(t *testing.T) {
	apu := newTestAPU()

	apu.WriteRegister(0x4000, 0xBF)
	if apu.Pulse1.DutyCycle != 2 {
		t.Errorf("expected duty cycle=2, got %d", apu.Pulse1.DutyCycle)
	}
	if !apu.Pulse1.Length.Halt {
		t.Error("length halt should be true")
	}
	if !apu.Pulse1.Envelope.Constant {
		t.Error("envelope constant should be true")
	}
	if apu.Pulse1.Volume != 15 {
		t.Errorf("expected volume=15, got %d", apu.Pulse1.Volume)
	}

	apu.WriteRegister(0x4001, 0x88)
	if !apu.Pulse1.Sweep.Enabled {
		t.Error("sweep should be enabled")
	}
	if !apu.Pulse1.Sweep.Negate {
		t.Error("sweep negate should be true")
	}

	apu.WriteRegister(0x4015, 0x01)
	apu.WriteRegister(0x4002, 0x55)
	apu.WriteRegister(0x4003, 0x12)

	if apu.Pulse1.TimerValue != 0x255 {
		t.Errorf("expected timer=0x255, got %#04x", apu.Pulse1.TimerValue)
	}
}

func TestTriangleChannelRegisters(t *testing.T) {
	apu := newTestAPU()
	apu.WriteRegister(0x4015, 0x04)
	apu.WriteRegister(0x4008, 0x81)

	if !apu.Triangle.Length.Halt {
		t.Error("triangle length halt should be true")
	}

	apu.WriteRegister(0x400A, 0xAA)
	apu.WriteRegister(0x400B, 0x13)
	if apu.Triangle.TimerValue != 0x3AA {
		t.Errorf("expected timer=0x3AA, got %#04x", apu.Triangle.TimerValue)
	}
}

func TestNoiseChannelRegisters(t *testing.T) {
	apu := newTestAPU()
	apu.WriteRegister(0x400C, 0x3A)
	if !apu.Noise.Length.Halt {
		t.Error("noise length halt should be true")
	}
	if !apu.Noise.Envelope.Constant {
		t.Error("noise envelope constant should be true")
	}

	apu.WriteRegister(0x400E, 0x8F)
	if !apu.Noise.Mode {
		t.Error("noise mode should be true")
	}
	if apu.Noise.TimerValue != apu.Profile.NoisePeriods[15] {
		t.Errorf("expected timer=%d, got %d", apu.Profile.NoisePeriods[15], apu.Noise.TimerValue)
	}
}

func TestStatusRegisterEnablesAndClearsChannels(t *testing.T) {
	apu := newTestAPU()
	apu.WriteRegister(0x4015, 0x1F)
	if !apu.Pulse1.Enabled || !apu.Pulse2.Enabled || !apu.Triangle.Enabled || !apu.Noise.Enabled || !apu.DMC.Enabled {
		t.Fatal("expected all channels enabled")
	}

	apu.Pulse1.Length.Value = 10
	apu.WriteRegister(0x4015, 0x00)
	if apu.Pulse1.Enabled || apu.Triangle.Enabled {
		t.Error("expected channels disabled")
	}
	if apu.Pulse1.Length.Value != 0 {
		t.Error("disabling a channel should clear its length counter")
	}
}

func TestEnvelopeGenerator(t *testing.T) {
	apu := newTestAPU()
	apu.WriteRegister(0x4000, 0x08)
	apu.WriteRegister(0x4003, 0x08)

	if apu.Pulse1.Envelope.Counter != 0 {
		t.Errorf("expected envelope counter=0 before stepping, got %d", apu.Pulse1.Envelope.Counter)
	}
	for i := 0; i < 16; i++ {
		apu.stepEnvelope(&apu.Pulse1.Envelope)
	}
	if apu.Pulse1.Envelope.Counter != 14 {
		t.Errorf("expected envelope counter=14 after one decay cycle, got %d", apu.Pulse1.Envelope.Counter)
	}
}

func TestLengthCounter(t *testing.T) {
	apu := newTestAPU()
	apu.WriteRegister(0x4015, 0x01)
	apu.WriteRegister(0x4003, 0x08)

	want := lengthTable[1]
	if apu.Pulse1.Length.Value != want {
		t.Errorf("expected length=%d, got %d", want, apu.Pulse1.Length.Value)
	}
	apu.stepLengthCounter(&apu.Pulse1.Length)
	if apu.Pulse1.Length.Value != want-1 {
		t.Errorf("expected length=%d, got %d", want-1, apu.Pulse1.Length.Value)
	}
}

func TestSweepUnitRaisesPeriod(t *testing.T) {
	apu := newTestAPU()
	apu.WriteRegister(0x4001, 0x81) // enabled, period 0, positive, shift 1
	apu.WriteRegister(0x4002, 0x00)
	apu.WriteRegister(0x4003, 0x01)

	before := apu.Pulse1.TimerValue
	apu.stepSweep(&apu.Pulse1, &apu.Pulse1.Sweep, true)
	apu.stepSweep(&apu.Pulse1, &apu.Pulse1.Sweep, true)
	if apu.Pulse1.TimerValue <= before {
		t.Errorf("expected timer to rise from %d, got %d", before, apu.Pulse1.TimerValue)
	}
}

func TestFrameCounterModeSelect(t *testing.T) {
	apu := newTestAPU()
	apu.WriteRegister(0x4017, 0x00)
	if apu.frameMode {
		t.Error("expected 4-step mode")
	}
	apu.WriteRegister(0x4017, 0x80)
	if !apu.frameMode {
		t.Error("expected 5-step mode")
	}
	if apu.frameStep != 0 {
		t.Errorf("expected frame step reset to 0, got %d", apu.frameStep)
	}
}

func TestChannelOutputGatedByEnable(t *testing.T) {
	apu := newTestAPU()
	apu.WriteRegister(0x4015, 0x01)
	apu.WriteRegister(0x4000, 0xDF)
	apu.WriteRegister(0x4002, 0x00)
	apu.WriteRegister(0x4003, 0x01)

	apu.stepPulse(&apu.Pulse1)
	if apu.getPulseOutput(&apu.Pulse1) == 0 {
		t.Error("expected non-zero output from an enabled pulse channel")
	}

	apu.WriteRegister(0x4015, 0x00)
	if apu.getPulseOutput(&apu.Pulse1) != 0 {
		t.Error("expected zero output once the channel is disabled")
	}
}

func TestAudioMixingStaysInRange(t *testing.T) {
	apu := newTestAPU()
	apu.WriteRegister(0x4015, 0x1F)
	apu.WriteRegister(0x4000, 0x1F)
	apu.WriteRegister(0x4004, 0x1F)
	apu.WriteRegister(0x4008, 0x81)
	apu.WriteRegister(0x400C, 0x1F)

	sample := apu.mixChannels()
	if sample < -1.0 || sample > 1.0 {
		t.Errorf("mixed sample out of range [-1,1]: %f", sample)
	}
}

func TestTickAdvancesCyclesAndProducesSample(t *testing.T) {
	apu := newTestAPU()
	apu.Tick()
	if apu.Cycles != 1 {
		t.Errorf("expected cycles=1, got %d", apu.Cycles)
	}
	_ = apu.Sample()
}

func TestDMCRequestsDMAWhenBufferEmpty(t *testing.T) {
	apu := newTestAPU()
	apu.WriteRegister(0x4010, 0x00)
	apu.WriteRegister(0x4012, 0x00) // sample address $C000
	apu.WriteRegister(0x4013, 0x00) // sample length 1
	apu.WriteRegister(0x4015, 0x10) // enable DMC, kicks off the first fetch
	apu.Tick()

	_, ok := apu.DMARequested()
	if !ok {
		t.Fatal("expected a pending DMA request once the DMC is enabled")
	}
	apu.DMAComplete(0x55)
	if apu.DMC.SampleBuffer != 0x55 || apu.DMC.BufferEmpty {
		t.Fatal("DMAComplete should fill the sample buffer")
	}
}
