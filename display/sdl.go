//go:build sdl

package display

import (
	"fmt"
	"image"
	"image/draw"
	"log"
	"runtime"
	"sync"

	"github.com/veandco/go-sdl2/sdl"
)

const pixelDepth = 4

// SDL presents frames in a native window through a streaming texture
type SDL struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	width, height int32
	pixels        *image.RGBA

	commands chan Command
	done     *signal
	keys     Keymap

	closeOnce sync.Once
	closeErr  error
}

// NewSDL opens a window of w×h pixels; the window size is fixed for the run
// The calling goroutine is locked to its OS thread and must make every later call, Close included
func NewSDL(w, h int, keys Keymap) (*SDL, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("sdl: invalid window size %dx%d", w, h)
	}

	runtime.LockOSThread()
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}

	s := &SDL{
		width:    int32(w),
		height:   int32(h),
		pixels:   image.NewRGBA(image.Rect(0, 0, w, h)),
		commands: make(chan Command, 8),
		done:     newSignal(),
		keys:     keymapOrDefault(keys),
	}

	var err error
	s.window, err = sdl.CreateWindow("ledcube",
		int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED),
		s.width, s.height,
		uint32(sdl.WINDOW_SHOWN))
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdl window: %w", err)
	}

	s.renderer, err = sdl.CreateRenderer(s.window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		s.window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdl renderer: %w", err)
	}

	// RGBA bytes in memory order
	s.texture, err = s.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888),
		int(sdl.TEXTUREACCESS_STREAMING), s.width, s.height)
	if err != nil {
		s.renderer.Destroy()
		s.window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdl texture: %w", err)
	}

	log.Printf("display: sdl window %dx%d", w, h)
	return s, nil
}

// Present uploads frame and flips the window; frames of another size are clipped
func (s *SDL) Present(title string, frame image.Image) error {
	if s.window.GetTitle() != title {
		s.window.SetTitle(title)
	}

	draw.Draw(s.pixels, s.pixels.Bounds(), frame, frame.Bounds().Min, draw.Src)

	if err := s.texture.Update(nil, s.pixels.Pix, int(s.width)*pixelDepth); err != nil {
		return fmt.Errorf("sdl present: %w", err)
	}
	if err := s.renderer.Clear(); err != nil {
		return fmt.Errorf("sdl present: %w", err)
	}
	if err := s.renderer.Copy(s.texture, nil, nil); err != nil {
		return fmt.Errorf("sdl present: %w", err)
	}
	s.renderer.Present()
	return nil
}

// PumpEventsOnce services every queued event; leaving events queued makes the window unresponsive
func (s *SDL) PumpEventsOnce() {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			s.done.fire()

		case *sdl.KeyboardEvent:
			if ev.Type != sdl.KEYDOWN || ev.Repeat != 0 {
				continue
			}
			if ev.Keysym.Sym == sdl.K_ESCAPE {
				s.done.fire()
				continue
			}
			// printable keycodes are their ASCII values
			dispatch(s.keys, rune(ev.Keysym.Sym), s.done, s.commands)
		}
	}
}

func (s *SDL) Done() <-chan struct{} { return s.done.ch }

func (s *SDL) Commands() <-chan Command { return s.commands }

// Close destroys the window and shuts SDL down
func (s *SDL) Close() error {
	s.closeOnce.Do(func() {
		s.done.fire()
		if err := s.texture.Destroy(); err != nil {
			s.closeErr = err
		}
		if err := s.renderer.Destroy(); err != nil && s.closeErr == nil {
			s.closeErr = err
		}
		if err := s.window.Destroy(); err != nil && s.closeErr == nil {
			s.closeErr = err
		}
		sdl.Quit()
		runtime.UnlockOSThread()
		log.Printf("display: sdl window closed")
	})
	return s.closeErr
}
