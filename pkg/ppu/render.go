package ppu

// Tick advances the PPU by exactly one dot. Callers (the machine's
// scheduler) drive this at the region's dot-per-CPU-cycle ratio.
func (p *PPU) Tick() {
	rendering := p.renderingEnabled()

	if p.Scanline < 240 || p.Scanline == p.Profile.PrerenderScanline {
		if rendering {
			p.backgroundCycle()
			p.spriteCycle()
		}
		if p.Scanline == p.Profile.PrerenderScanline && p.Dot == 1 {
			p.status &^= statusVBlank | statusSprite0 | statusOverflow
		}
	}

	if p.Scanline < 240 && p.Dot >= 1 && p.Dot <= 256 {
		p.renderPixel()
	}

	if p.Scanline == p.Profile.VBlankStartLine && p.Dot == 1 {
		if !p.suppressVBlank {
			p.status |= statusVBlank
		}
		p.suppressVBlank = false
	}

	p.advance(rendering)
}

func (p *PPU) renderPixel() {
	bgPal, bgColor, bgOpaque := p.backgroundPixel()
	spPal, spColor, behindBG, isZero, spOpaque := p.spritePixel()

	if bgOpaque && spOpaque && isZero && p.Dot != 256 {
		p.status |= statusSprite0
	}

	var index uint16
	switch {
	case !bgOpaque && !spOpaque:
		index = p.Palette.BackgroundColor(0, 0)
	case !bgOpaque && spOpaque:
		index, _ = p.Palette.SpriteColor(spPal, spColor)
	case bgOpaque && !spOpaque:
		index = p.Palette.BackgroundColor(bgPal, bgColor)
	default: // both opaque: priority bit decides
		if behindBG {
			index = p.Palette.BackgroundColor(bgPal, bgColor)
		} else {
			index, _ = p.Palette.SpriteColor(spPal, spColor)
		}
	}

	x := p.Dot - 1
	y := p.Scanline
	p.FrameBuffer[y*256+x] = index
}

func (p *PPU) advance(rendering bool) {
	p.Dot++
	skipLast := rendering && p.Profile.UnevenFrames && p.oddFrame &&
		p.Scanline == p.Profile.PrerenderScanline
	lastDot := 340
	if skipLast {
		lastDot = 339
	}
	if p.Dot > lastDot {
		p.Dot = 0
		p.Scanline++
		if p.Scanline > p.Profile.PrerenderScanline {
			p.Scanline = 0
			p.Frame++
			p.oddFrame = !p.oddFrame
		}
	}
}
