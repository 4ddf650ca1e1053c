package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/kvance/nescore/pkg/gui"
	"github.com/kvance/nescore/pkg/input"
	"github.com/kvance/nescore/pkg/logger"
	"github.com/kvance/nescore/pkg/nes"
	"github.com/kvance/nescore/pkg/region"
)

func main() {
	var (
		logLevel   = flag.String("log-level", "info", "Log level (off, error, warn, info, debug, trace)")
		logFile    = flag.String("log-file", "", "Log file path (empty for stdout)")
		pal        = flag.Bool("pal", false, "Run in PAL 50Hz mode instead of NTSC")
		headless   = flag.Bool("headless", false, "Run in headless mode for testing")
		testFrames = flag.Int("test-frames", 600, "Number of frames to run in headless mode")
		movieFile  = flag.String("movie", "", "Play back an FM2 movie file instead of reading the keyboard")
	)

	flag.Usage = func() {
		fmt.Printf("Usage: %s [options] <rom_file>\n\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println("\nControls:")
		fmt.Println("  Z - A button")
		fmt.Println("  X - B button")
		fmt.Println("  A - Select")
		fmt.Println("  S - Start")
		fmt.Println("  Arrow keys - D-pad")
		fmt.Println("  F3 - toggle FPS display")
		fmt.Println("  ESC - Quit")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	romFile := flag.Arg(0)

	var log_ *logger.Logger
	if *logFile != "" {
		var err error
		log_, err = logger.NewFile(*logFile, logger.LevelFromString(*logLevel))
		if err != nil {
			log.Fatalf("failed to open log file: %v", err)
		}
	} else {
		log_ = logger.New(os.Stdout, logger.LevelFromString(*logLevel))
	}

	file, err := os.Open(romFile)
	if err != nil {
		log.Fatalf("failed to open ROM file: %v", err)
	}
	defer file.Close()

	reg := region.NTSC
	if *pal {
		reg = region.PAL
	}

	machine, err := nes.LoadROM(file, reg, nes.WithLogger(log_))
	if err != nil {
		log.Fatalf("failed to load ROM: %v", err)
	}
	log_.Log(logger.LevelInfo, "machine", "loaded %s (%s)", filepath.Base(romFile), reg)

	var movie *input.Movie
	if *movieFile != "" {
		mf, err := os.Open(*movieFile)
		if err != nil {
			log.Fatalf("failed to open movie file: %v", err)
		}
		movie, err = input.ParseFM2(mf)
		mf.Close()
		if err != nil {
			log.Fatalf("failed to parse movie: %v", err)
		}
		log_.Log(logger.LevelInfo, "machine", "loaded movie with %d events", movie.Len())
	}

	if *headless {
		runHeadless(machine, movie, *testFrames, log_)
		return
	}

	nesGUI, err := gui.New(machine, movie)
	if err != nil {
		log.Fatalf("failed to create GUI: %v", err)
	}
	defer nesGUI.Destroy()

	nesGUI.Run()
}

// runHeadless drives the machine without SDL, for scripted smoke tests
// and movie-replay verification without a display attached.
func runHeadless(m *nes.Machine, movie *input.Movie, maxFrames int, log_ *logger.Logger) {
	start := time.Now()

	for frame := 0; frame < maxFrames; frame++ {
		if movie != nil {
			ev, ok := movie.Next()
			if !ok {
				break
			}
			if ev.Power || ev.Reset {
				m.Reset()
			}
			if ev.HasPort0 {
				m.SetInput(1, ev.Port0)
			}
		}
		m.RunFrame()
	}

	log_.Log(logger.LevelInfo, "machine", "ran %d frames in %v", maxFrames, time.Since(start))
}
