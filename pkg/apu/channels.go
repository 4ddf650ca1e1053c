package apu

// Duty cycle sequences for the pulse channels (8 steps each).
var dutyCycles = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0}, // 12.5%
	{0, 1, 1, 0, 0, 0, 0, 0}, // 25%
	{0, 1, 1, 1, 1, 0, 0, 0}, // 50%
	{1, 0, 0, 1, 1, 1, 1, 1}, // 25% negated
}

// Triangle wave sequence (32 steps).
var triangleSequence = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// stepPulse steps a pulse channel's timer, called once per APU cycle
// (every other CPU cycle).
func (a *APU) stepPulse(pulse *PulseChannel) {
	if !pulse.Enabled {
		return
	}
	if pulse.Timer > 0 {
		pulse.Timer--
	} else {
		pulse.Timer = pulse.TimerValue
		if pulse.Sequence == 0 {
			pulse.Sequence = 7
		} else {
			pulse.Sequence--
		}
	}
}

// stepTriangle steps the triangle channel's timer at full CPU rate.
func (a *APU) stepTriangle() {
	if !a.Triangle.Enabled {
		return
	}
	if a.Triangle.Timer > 0 {
		a.Triangle.Timer--
	} else {
		a.Triangle.Timer = a.Triangle.TimerValue
		if a.Triangle.Length.Value > 0 && a.Triangle.LinearCounter > 0 {
			a.Triangle.Sequence = (a.Triangle.Sequence + 1) % 32
		}
	}
}

// stepNoise steps the noise channel's LFSR, called once per APU cycle.
func (a *APU) stepNoise() {
	if !a.Noise.Enabled {
		return
	}
	if a.Noise.Timer > 0 {
		a.Noise.Timer--
		return
	}
	a.Noise.Timer = a.Noise.TimerValue

	var bit uint16
	if a.Noise.Mode {
		bit = (a.Noise.ShiftReg & 1) ^ ((a.Noise.ShiftReg >> 6) & 1)
	} else {
		bit = (a.Noise.ShiftReg & 1) ^ ((a.Noise.ShiftReg >> 1) & 1)
	}
	a.Noise.ShiftReg = (a.Noise.ShiftReg >> 1) | (bit << 14)
}

// stepDMC steps the DMC channel's output timer, called once per APU
// cycle. Sample bytes arrive asynchronously through DMAComplete once
// the CPU has serviced a DMARequested stall.
func (a *APU) stepDMC() {
	if a.DMC.timer > 0 {
		a.DMC.timer--
		return
	}
	a.DMC.timer = a.Profile.DMCRateTable[a.DMC.Rate&0x0F] / 2

	if a.DMC.BufferEmpty && a.DMC.CurrentLength > 0 && !a.dmaPending {
		a.dmaPending = true
		a.dmaAddr = a.DMC.CurrentAddress
	}

	if a.DMC.BitsRemaining == 0 {
		a.DMC.BitsRemaining = 8
		if !a.DMC.BufferEmpty {
			a.DMC.Buffer = a.DMC.SampleBuffer
			a.DMC.BufferEmpty = true
			a.DMC.Silence = false
			a.consumeSampleByte()
		} else {
			a.DMC.Silence = true
		}
	}

	if a.DMC.BitsRemaining > 0 {
		a.DMC.BitsRemaining--
		if !a.DMC.Silence {
			bit := (a.DMC.Buffer >> (7 - a.DMC.BitsRemaining)) & 1
			if bit == 1 && a.DMC.LoadCounter <= 125 {
				a.DMC.LoadCounter += 2
			} else if bit == 0 && a.DMC.LoadCounter >= 2 {
				a.DMC.LoadCounter -= 2
			}
		}
	}
}

// consumeSampleByte advances the DMC's address/length after a byte has
// moved from the sample buffer into the output shift register.
func (a *APU) consumeSampleByte() {
	a.DMC.CurrentAddress++
	if a.DMC.CurrentAddress == 0 {
		a.DMC.CurrentAddress = 0x8000
	}
	a.DMC.CurrentLength--
	if a.DMC.CurrentLength == 0 {
		if a.DMC.Loop {
			a.DMC.CurrentLength = a.DMC.SampleLength
			a.DMC.CurrentAddress = a.DMC.SampleAddress
		} else if a.DMC.IRQEnabled {
			a.DMC.irqFlag = true
		}
	}
}

// stepEnvelope steps an envelope generator.
func (a *APU) stepEnvelope(env *EnvelopeGenerator) {
	if env.Start {
		env.Start = false
		env.Counter = 15
		env.Divider = env.Volume
		return
	}
	if env.Divider > 0 {
		env.Divider--
		return
	}
	env.Divider = env.Volume
	if env.Counter > 0 {
		env.Counter--
	} else if env.Loop {
		env.Counter = 15
	}
}

// stepLengthCounter steps a length counter.
func (a *APU) stepLengthCounter(lc *LengthCounter) {
	if lc.Enabled && !lc.Halt && lc.Value > 0 {
		lc.Value--
	}
}

// stepSweep steps a sweep unit.
func (a *APU) stepSweep(pulse *PulseChannel, sweep *SweepUnit, channel1 bool) {
	if sweep.Counter == 0 && sweep.Enabled && !a.isSweepMuting(pulse, sweep) {
		a.performSweep(pulse, sweep, channel1)
	}
	if sweep.Counter == 0 || sweep.Reload {
		sweep.Counter = sweep.Period
		sweep.Reload = false
	} else {
		sweep.Counter--
	}
}

// performSweep applies the sweep unit's period shift to the owning
// pulse channel.
func (a *APU) performSweep(pulse *PulseChannel, sweep *SweepUnit, channel1 bool) {
	change := pulse.TimerValue >> sweep.Shift
	var target uint16
	if sweep.Negate {
		if channel1 {
			target = pulse.TimerValue - change - 1
		} else {
			target = pulse.TimerValue - change
		}
	} else {
		target = pulse.TimerValue + change
	}
	if target <= 0x7FF && sweep.Shift > 0 {
		pulse.TimerValue = target
	}
}

// getPulseOutput gets the output value for a pulse channel.
func (a *APU) getPulseOutput(pulse *PulseChannel) uint8 {
	if !pulse.Enabled || pulse.Length.Value == 0 {
		return 0
	}
	if pulse.TimerValue < 8 {
		return 0
	}
	if a.isSweepMuting(pulse, &pulse.Sweep) {
		return 0
	}
	if dutyCycles[pulse.DutyCycle][pulse.Sequence] == 0 {
		return 0
	}
	if pulse.Envelope.Constant {
		return pulse.Volume
	}
	return pulse.Envelope.Counter
}

// isSweepMuting reports whether the sweep unit's target period would
// silence the channel.
func (a *APU) isSweepMuting(pulse *PulseChannel, sweep *SweepUnit) bool {
	change := pulse.TimerValue >> sweep.Shift
	var target uint16
	if sweep.Negate {
		if change > pulse.TimerValue {
			return pulse.TimerValue < 8
		}
		target = pulse.TimerValue - change
	} else {
		target = pulse.TimerValue + change
	}
	return pulse.TimerValue < 8 || target > 0x7FF
}

// getTriangleOutput gets the output value for the triangle channel.
func (a *APU) getTriangleOutput() uint8 {
	if !a.Triangle.Enabled || a.Triangle.Length.Value == 0 || a.Triangle.LinearCounter == 0 {
		return 0
	}
	return triangleSequence[a.Triangle.Sequence]
}

// getNoiseOutput gets the output value for the noise channel.
func (a *APU) getNoiseOutput() uint8 {
	if !a.Noise.Enabled || a.Noise.Length.Value == 0 {
		return 0
	}
	if a.Noise.ShiftReg&1 != 0 {
		return 0
	}
	if a.Noise.Envelope.Constant {
		return a.Noise.Volume
	}
	return a.Noise.Envelope.Counter
}

// getDMCOutput gets the output value for the DMC channel.
func (a *APU) getDMCOutput() uint8 {
	return a.DMC.LoadCounter
}

// mixChannels mixes all five channels through the standard non-linear
// pulse and TND lookup formulas.
func (a *APU) mixChannels() float32 {
	pulse1 := a.getPulseOutput(&a.Pulse1)
	pulse2 := a.getPulseOutput(&a.Pulse2)
	triangle := a.getTriangleOutput()
	noise := a.getNoiseOutput()
	dmc := a.getDMCOutput()

	pulseSum := pulse1 + pulse2
	var pulseOut float32
	if pulseSum > 0 {
		pulseOut = 95.52 / (8128.0/float32(pulseSum) + 100.0)
	}

	tndSum := float32(triangle)/8227.0 + float32(noise)/12241.0 + float32(dmc)/22638.0
	var tndOut float32
	if tndSum > 0 {
		tndOut = 163.67 / (1.0/tndSum + 24.329)
	}

	output := (pulseOut + tndOut) * 2.0
	if output > 1.0 {
		output = 1.0
	} else if output < -1.0 {
		output = -1.0
	}
	return output
}

// stepLinearCounter steps the triangle's linear counter.
func (a *APU) stepLinearCounter() {
	if a.Triangle.LinearControl {
		a.Triangle.LinearCounter = a.Triangle.LinearReload
	} else if a.Triangle.LinearCounter > 0 {
		a.Triangle.LinearCounter--
	}
	if !a.Triangle.Length.Halt {
		a.Triangle.LinearControl = false
	}
}
