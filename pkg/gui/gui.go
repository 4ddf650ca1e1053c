// Package gui is the SDL2 demo frontend: a window, a streaming texture
// blit of the machine's framebuffer, a 16-bit audio queue fed by the
// machine's audio sink, and keyboard-to-controller mapping.
package gui

import (
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/kvance/nescore/pkg/input"
	"github.com/kvance/nescore/pkg/logger"
	"github.com/kvance/nescore/pkg/nes"
)

const (
	WindowWidth  = 256 * 3 // NES resolution 256x240 scaled 3x
	WindowHeight = 240 * 3
	WindowTitle  = "GoNES - Nintendo Entertainment System Emulator"

	AudioSampleRate = 44100
	AudioBufferSize = 1024
	AudioChannels   = 1
	AudioFormat     = sdl.AUDIO_S16LSB

	TargetFPS = 60.0988 // NTSC NES frame rate
)

var FrameTime = time.Duration(float64(time.Second) / TargetFPS)

// NESGUI owns the SDL window/renderer/texture/audio device and drives a
// Machine one frame per iteration of Run.
type NESGUI struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	machine  *nes.Machine
	movie    *input.Movie
	running  bool

	audioDevice sdl.AudioDeviceID
	audioBuf    []int16

	// rgbFrame is the palette+emphasis-resolved frame the PPU's packed
	// index buffer gets turned into every render, since the core hands
	// us indices (spec's host-resolves-the-palette contract) and the
	// texture needs ARGB8888.
	rgbFrame [256 * 240]uint32

	fpsCounter int
	fpsTimer   time.Time
	currentFPS float64
	showFPS    bool
}

// New creates a window sized for the NES's 256x240 frame and wires the
// given Machine's audio sink to an SDL audio queue. The movie parameter
// is optional; when non-nil, its events drive controller 1 instead of
// the keyboard, frame by frame.
func New(m *nes.Machine, movie *input.Movie) (*NESGUI, error) {
	runtime.LockOSThread()

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("gui: sdl init: %w", err)
	}

	window, err := sdl.CreateWindow(
		WindowTitle,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		WindowWidth,
		WindowHeight,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("gui: create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("gui: create renderer: %w", err)
	}
	renderer.SetDrawBlendMode(sdl.BLENDMODE_NONE)

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING, 256, 240)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("gui: create texture: %w", err)
	}
	texture.SetBlendMode(sdl.BLENDMODE_NONE)

	g := &NESGUI{
		window:   window,
		renderer: renderer,
		texture:  texture,
		machine:  m,
		movie:    movie,
		running:  true,
		fpsTimer: time.Now(),
		showFPS:  true,
	}

	if err := g.initAudio(); err != nil {
		logger.Nop.Log(logger.LevelError, "gui", "audio disabled: %v", err)
	}

	return g, nil
}

// Destroy releases every SDL resource New acquired.
func (g *NESGUI) Destroy() {
	if g.audioDevice != 0 {
		sdl.CloseAudioDevice(g.audioDevice)
	}
	if g.texture != nil {
		g.texture.Destroy()
	}
	if g.renderer != nil {
		g.renderer.Destroy()
	}
	if g.window != nil {
		g.window.Destroy()
	}
	sdl.Quit()
}

// Run pumps events, steps one machine frame, and blits the result until
// the window is closed or Escape is pressed.
func (g *NESGUI) Run() {
	frameCount := 0
	startTime := time.Now()

	for g.running {
		g.handleEvents()
		g.update()
		g.render()

		frameCount++
		targetEnd := startTime.Add(time.Duration(frameCount) * FrameTime)
		if now := time.Now(); now.Before(targetEnd) {
			time.Sleep(targetEnd.Sub(now))
		}
	}
}

func (g *NESGUI) handleEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			g.running = false
		case *sdl.KeyboardEvent:
			g.handleKeyboard(e)
		}
	}
}

func (g *NESGUI) handleKeyboard(event *sdl.KeyboardEvent) {
	if event.Keysym.Sym == sdl.K_ESCAPE {
		g.running = false
		return
	}
	if event.Keysym.Sym == sdl.K_F3 && event.State == sdl.PRESSED {
		g.showFPS = !g.showFPS
	}
}

// keysToButtons reads the live keyboard state into a Buttons value; used
// only when no movie is driving playback.
func keysToButtons() input.Buttons {
	keys := sdl.GetKeyboardState()
	return input.Buttons{
		A:      keys[sdl.SCANCODE_Z] != 0,
		B:      keys[sdl.SCANCODE_X] != 0,
		Select: keys[sdl.SCANCODE_A] != 0,
		Start:  keys[sdl.SCANCODE_S] != 0,
		Up:     keys[sdl.SCANCODE_UP] != 0,
		Down:   keys[sdl.SCANCODE_DOWN] != 0,
		Left:   keys[sdl.SCANCODE_LEFT] != 0,
		Right:  keys[sdl.SCANCODE_RIGHT] != 0,
	}
}

// update advances the machine by one frame, taking input either from a
// loaded movie (if any events remain) or the live keyboard.
func (g *NESGUI) update() {
	if g.movie != nil {
		if ev, ok := g.movie.Next(); ok {
			if ev.Power || ev.Reset {
				g.machine.Reset()
			}
			if ev.HasPort0 {
				g.machine.SetInput(1, ev.Port0)
			}
		} else {
			g.running = false
			return
		}
	} else {
		g.machine.SetInput(1, keysToButtons())
	}

	g.machine.RunFrame()
	g.flushAudio()
	g.updateFPS()
}

// resolveFrame applies the region's master palette and emphasis
// rotation to the PPU's packed index buffer. The PPU only ever hands
// out a 6-bit color index plus 3 emphasis bits; turning that into RGB
// (and deciding how emphasis dims the non-selected channels) is a
// region/host concern, not something the core bakes in.
func (g *NESGUI) resolveFrame() {
	profile := g.machine.Profile
	master := &profile.DefaultPalette
	order := profile.EmphasisOrder
	fb := &g.machine.PPU.FrameBuffer
	for i, packed := range fb {
		c := master[packed&0x3F]
		emphasis := uint8(packed >> 6)
		if emphasis == 0 {
			g.rgbFrame[i] = c
			continue
		}
		r := uint8(c >> 16)
		gc := uint8(c >> 8)
		b := uint8(c)
		bits := [3]bool{emphasis&0x1 != 0, emphasis&0x2 != 0, emphasis&0x4 != 0}
		dim := func(v uint8, emphasized bool) uint8 {
			if emphasized {
				return v
			}
			return uint8(uint16(v) * 3 / 4)
		}
		rOn, gOn, bOn := bits[order[0]], bits[order[1]], bits[order[2]]
		r, gc, b = dim(r, rOn), dim(gc, gOn), dim(b, bOn)
		g.rgbFrame[i] = 0xFF000000 | uint32(r)<<16 | uint32(gc)<<8 | uint32(b)
	}
}

func (g *NESGUI) render() {
	g.resolveFrame()
	g.texture.Update(nil, unsafe.Pointer(&g.rgbFrame[0]), 256*4)

	g.renderer.SetDrawColor(0, 0, 0, 255)
	g.renderer.Clear()
	g.renderer.Copy(g.texture, nil, nil)

	if g.showFPS {
		g.window.SetTitle(fmt.Sprintf("%s - FPS: %.1f", WindowTitle, g.currentFPS))
	}
	g.renderer.Present()
}

// initAudio opens the SDL audio device and installs the Machine's audio
// sink so every sample RunFrame produces lands straight in audioBuf,
// queued to the device once per frame in flushAudio.
func (g *NESGUI) initAudio() error {
	want := &sdl.AudioSpec{
		Freq:     AudioSampleRate,
		Format:   AudioFormat,
		Channels: AudioChannels,
		Samples:  AudioBufferSize,
	}
	var have sdl.AudioSpec
	device, err := sdl.OpenAudioDevice("", false, want, &have, 0)
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	g.audioDevice = device

	g.machine.ConfigureAudio(AudioSampleRate, func(sample float32) {
		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}
		g.audioBuf = append(g.audioBuf, int16(sample*32767))
	})

	sdl.PauseAudioDevice(device, false)
	return nil
}

func (g *NESGUI) flushAudio() {
	if g.audioDevice == 0 || len(g.audioBuf) == 0 {
		return
	}
	bytes := make([]byte, len(g.audioBuf)*2)
	for i, s := range g.audioBuf {
		bytes[i*2+0] = byte(s)
		bytes[i*2+1] = byte(s >> 8)
	}
	sdl.QueueAudio(g.audioDevice, bytes)
	g.audioBuf = g.audioBuf[:0]
}

func (g *NESGUI) updateFPS() {
	g.fpsCounter++
	elapsed := time.Since(g.fpsTimer)
	if elapsed >= 500*time.Millisecond {
		g.currentFPS = float64(g.fpsCounter) / elapsed.Seconds()
		g.fpsCounter = 0
		g.fpsTimer = time.Now()
	}
}
