package display

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// imageFormat selects how an ImageSink persists frames
type imageFormat uint8

const (
	formatPNG imageFormat = iota
	formatGIF
)

// ImageSink writes frames to disk instead of a screen; the title is not rendered
type ImageSink struct {
	format    imageFormat
	path      string
	maxFrames int
	frames    int

	anim  *gif.GIF
	delay int // 1/100 s

	commands chan Command
	done     *signal

	closeOnce sync.Once
	closeErr  error
}

// NewPNGSequence writes frame_00000.png, frame_00001.png, ... into dir
func NewPNGSequence(dir string, maxFrames int) (*ImageSink, error) {
	if dir == "" {
		dir = "frames"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("png sink: %w", err)
	}
	return newImageSink(formatPNG, dir, maxFrames), nil
}

// NewGIF collects frames in memory and encodes one animated GIF at Close
func NewGIF(path string, fps, maxFrames int) (*ImageSink, error) {
	if path == "" {
		path = "ledcube.gif"
	}
	if fps <= 0 {
		fps = 20
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("gif sink: %w", err)
		}
	}
	s := newImageSink(formatGIF, path, maxFrames)
	s.anim = &gif.GIF{LoopCount: 0}
	s.delay = max(1, 100/fps)
	return s, nil
}

func newImageSink(f imageFormat, path string, maxFrames int) *ImageSink {
	return &ImageSink{
		format:    f,
		path:      path,
		maxFrames: maxFrames,
		commands:  make(chan Command),
		done:      newSignal(),
	}
}

// Present stores one frame; frames past the limit are ignored
func (s *ImageSink) Present(_ string, frame image.Image) error {
	if s.limitReached() {
		return nil
	}

	switch s.format {
	case formatPNG:
		name := filepath.Join(s.path, fmt.Sprintf("frame_%05d.png", s.frames))
		if err := writePNG(name, frame); err != nil {
			return err
		}
	case formatGIF:
		pimg := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pimg, pimg.Bounds(), frame, frame.Bounds().Min)
		s.anim.Image = append(s.anim.Image, pimg)
		s.anim.Delay = append(s.anim.Delay, s.delay)
	}
	s.frames++
	return nil
}

// PumpEventsOnce has no input to read; it ends the run once the frame limit is hit
func (s *ImageSink) PumpEventsOnce() {
	if s.limitReached() {
		s.done.fire()
	}
}

// Frames returns the number of frames stored so far
func (s *ImageSink) Frames() int { return s.frames }

func (s *ImageSink) limitReached() bool {
	return s.maxFrames > 0 && s.frames >= s.maxFrames
}

func (s *ImageSink) Done() <-chan struct{} { return s.done.ch }

// Commands never delivers; headless runs have no user
func (s *ImageSink) Commands() <-chan Command { return s.commands }

// Close flushes the GIF, PNG frames are already on disk
func (s *ImageSink) Close() error {
	s.closeOnce.Do(func() {
		s.done.fire()
		if s.format != formatGIF || len(s.anim.Image) == 0 {
			return
		}
		s.closeErr = writeGIF(s.path, s.anim)
		log.Printf("display: wrote %d frames to %s", len(s.anim.Image), s.path)
	})
	return s.closeErr
}

func writePNG(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("png sink: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("png sink: encode %s: %w", name, err)
	}
	return f.Close()
}

func writeGIF(name string, anim *gif.GIF) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("gif sink: %w", err)
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return fmt.Errorf("gif sink: encode %s: %w", name, err)
	}
	return f.Close()
}
