package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/lixenwraith/ledcube/audio"
	"github.com/lixenwraith/ledcube/config"
	"github.com/lixenwraith/ledcube/display"
	"github.com/lixenwraith/ledcube/record"
	"github.com/lixenwraith/ledcube/source"
)

var (
	configFlag = flag.String("config", "", "TOML config file")
	sinkFlag   = flag.String("sink", "", "Output: "+strings.Join(display.Kinds, ", "))
	sourceFlag = flag.String("source", "", "Pattern: rain, shell, spectrum, sweep, wave")
	fpsFlag    = flag.Int("fps", 0, "Frames per second")
	framesFlag = flag.Int("frames", 0, "Stop after this many frames, 0 = until quit")
	recordFlag = flag.String("record", "", "Write frames to this recording")
	replayFlag = flag.String("replay", "", "Play this recording instead of a source")
	audioFlag  = flag.String("audio", "", "WAV file for the spectrum source")
	playFlag   = flag.String("play", "", "Audio playback: "+strings.Join(audio.Outputs, ", "))
	exportFlag = flag.String("export", "", "Write the first frame as GLB to this path and exit")
	debugFlag  = flag.Bool("debug", false, "Log to logs/ledcube.log")
)

// applyFlags copies explicitly set flags over file values
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "sink":
			cfg.Display.Sink = *sinkFlag
		case "source":
			cfg.Source.Name = *sourceFlag
		case "fps":
			cfg.Display.FPS = *fpsFlag
		case "frames":
			cfg.Display.Frames = *framesFlag
		case "record":
			cfg.Record.Path = *recordFlag
		case "replay":
			cfg.Record.Replay = *replayFlag
		case "audio":
			cfg.Source.Audio = *audioFlag
		case "play":
			cfg.Source.Output = *playFlag
		case "debug":
			cfg.Log.Debug = *debugFlag
		}
	})
}

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		if cfg, err = config.Load(*configFlag); err != nil {
			fmt.Fprintf(os.Stderr, "ledcube: %v\n", err)
			os.Exit(1)
		}
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "ledcube: %v\n", err)
		os.Exit(2)
	}

	logFile := setupLogging(cfg.Log.Debug)
	err := run(cfg)
	if err != nil && !errors.Is(err, errCrashed) {
		fmt.Fprintf(os.Stderr, "ledcube: %v\n", err)
	}
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

var errCrashed = errors.New("crashed")

// crashed closes the sink first so the terminal is usable for the trace, then reports the panic
func crashed(r any, stack []byte, sink display.Display, stderr io.Writer) error {
	sink.Close()
	log.Printf("ledcube: panic: %v\n%s", r, stack)
	fmt.Fprintf(stderr, "\n\x1b[31mLEDCUBE CRASHED: %v\x1b[0m\n", r)
	fmt.Fprintf(stderr, "Stack Trace:\n%s\n", stack)
	return errCrashed
}

func run(cfg config.Config) (err error) {
	source.RegisterBuiltins()

	tap, closeAudio, err := openAudio(cfg)
	if err != nil {
		return err
	}
	defer closeAudio()

	env := source.Env{
		Dims: cfg.Grid.Dims(),
		Seed: cfg.Source.Seed,
		Tap:  tap,
		Pull: cfg.Source.Output == "",
	}

	if *exportFlag != "" {
		return exportOnce(cfg, env, *exportFlag)
	}

	keys, err := cfg.Keymap()
	if err != nil {
		return err
	}
	w, h := cfg.WindowSize()
	sink, err := display.Open(cfg.Display.Sink, display.Options{
		Path:      cfg.Display.Path,
		FPS:       cfg.Display.FPS,
		MaxFrames: cfg.Display.Frames,
		Width:     w,
		Height:    h,
		Keys:      keys,
	})
	if err != nil {
		return err
	}

	// Panic Recovery: earlier defers still close the audio and main still closes the log
	defer func() {
		if r := recover(); r != nil {
			err = crashed(r, debug.Stack(), sink, os.Stderr)
		}
	}()
	defer func() {
		if cerr := sink.Close(); err == nil {
			err = cerr
		}
	}()

	a, err := newApp(cfg, env, sink)
	if err != nil {
		return err
	}

	if cfg.Record.Path != "" {
		if a.rec, err = record.Create(cfg.Record.Path, a.grid.Dims(), cfg.Display.FPS); err != nil {
			return err
		}
		defer func() {
			if cerr := a.rec.Close(); err == nil {
				err = cerr
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	realtime := !display.Headless(cfg.Display.Sink)
	log.Printf("ledcube: %s on %s at %d fps", a.src.Name(), cfg.Display.Sink, cfg.Display.FPS)
	return a.run(ctx, realtime)
}

// openAudio builds the tap feeding audio-reactive sources and starts playback if configured
func openAudio(cfg config.Config) (*audio.Tap, func(), error) {
	rate := audio.DefaultSampleRate
	var closers []func() error

	var tap *audio.Tap
	if cfg.Source.Audio != "" {
		clip, err := audio.OpenWAV(cfg.Source.Audio, rate, true)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, clip.Close)
		tap = audio.NewTap(clip, rate, cfg.Source.TapSize)
	} else {
		demo, err := audio.Demo(rate)
		if err != nil {
			return nil, nil, err
		}
		tap = audio.NewTap(demo, rate, cfg.Source.TapSize)
	}

	if cfg.Source.Output != "" {
		out, err := audio.Start(cfg.Source.Output, tap, rate)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, nil, err
		}
		closers = append([]func() error{out.Close}, closers...)
	}

	return tap, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Printf("ledcube: audio close: %v", err)
			}
		}
	}, nil
}
