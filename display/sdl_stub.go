//go:build !sdl

package display

import (
	"fmt"
	"image"
)

// SDL is unavailable in builds without the sdl tag
type SDL struct{}

// NewSDL always fails; rebuild with -tags sdl and a cgo toolchain
func NewSDL(w, h int, keys Keymap) (*SDL, error) {
	return nil, fmt.Errorf("%w: sdl (build with -tags sdl)", ErrUnsupported)
}

func (*SDL) Present(string, image.Image) error { return ErrUnsupported }
func (*SDL) PumpEventsOnce()                     {}
func (*SDL) Done() <-chan struct{}               { return nil }
func (*SDL) Commands() <-chan Command            { return nil }
func (*SDL) Close() error                        { return nil }
