// Package display presents composed frames.
//
// Every sink satisfies scene.Sink (Present + PumpEventsOnce). Application-level signals such as quit or
// pause never flow back through Present; they are published on Done and Commands for the main loop.
package display

import (
	"errors"
	"fmt"
	"image"
	"sync"
)

// Command is a user request raised by a sink's input handling
type Command uint8

const (
	CommandPause  Command = iota + 1 // toggle source updates
	CommandNext                      // switch to the next source
	CommandExport                    // snapshot the current grid
	CommandQuit                      // end the run, delivered through Done
)

func (c Command) String() string {
	switch c {
	case CommandPause:
		return "pause"
	case CommandNext:
		return "next"
	case CommandExport:
		return "export"
	case CommandQuit:
		return "quit"
	}
	return fmt.Sprintf("command(%d)", uint8(c))
}

// ErrUnsupported is returned for a sink kind not compiled into this binary
var ErrUnsupported = errors.New("display sink not supported")

// Display is a sink with a lifecycle
type Display interface {
	Present(title string, frame image.Image) error
	PumpEventsOnce()
	// Done is closed once the user or the sink asked to stop
	Done() <-chan struct{}
	// Commands delivers user requests, dropped if nobody reads in time
	Commands() <-chan Command
	// Close releases the output; safe to call more than once
	Close() error
}

// Kinds lists the sink names accepted by Open
var Kinds = []string{"terminal", "png", "gif", "sdl"}

// Headless reports whether kind writes files rather than showing frames to a user
func Headless(kind string) bool {
	return kind == "png" || kind == "gif"
}

// Options configures Open
type Options struct {
	Path      string // png: directory, gif: file
	FPS       int    // gif frame delay
	MaxFrames int    // headless sinks stop after this many frames, 0 = unlimited
	Width     int    // sdl window size
	Height    int
	Keys      Keymap // nil = DefaultKeymap
}

// Open builds a sink by name
func Open(kind string, opts Options) (Display, error) {
	switch kind {
	case "terminal":
		t, err := NewTerminal(opts.Keys)
		if err != nil {
			return nil, err
		}
		return t, nil
	case "png":
		s, err := NewPNGSequence(opts.Path, opts.MaxFrames)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "gif":
		s, err := NewGIF(opts.Path, opts.FPS, opts.MaxFrames)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sdl":
		w, err := NewSDL(opts.Width, opts.Height, opts.Keys)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupported, kind)
}

// signal is a close-once channel
type signal struct {
	ch   chan struct{}
	once sync.Once
}

func newSignal() *signal {
	return &signal{ch: make(chan struct{})}
}

func (s *signal) fire() {
	s.once.Do(func() { close(s.ch) })
}

// sendCommand delivers c without blocking the render loop
func sendCommand(ch chan Command, c Command) {
	select {
	case ch <- c:
	default:
	}
}

// dispatch routes a key binding: quit fires done, the rest go to the command channel
func dispatch(keys Keymap, r rune, done *signal, ch chan Command) {
	c, ok := keys[r]
	if !ok {
		return
	}
	if c == CommandQuit {
		done.fire()
		return
	}
	sendCommand(ch, c)
}

func keymapOrDefault(km Keymap) Keymap {
	if km == nil {
		return DefaultKeymap()
	}
	return km
}
