package display

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
	xdraw "golang.org/x/image/draw"
)

// halfBlock paints the upper half of a cell in fg and the lower half in bg, two pixels per cell
const halfBlock = '▀'

// titleRows is reserved at the top of the screen for the frame title
const titleRows = 1

// Terminal presents frames as half-block pixels on a tcell screen
type Terminal struct {
	screen   tcell.Screen
	events   chan tcell.Event
	commands chan Command
	done     *signal
	keys     Keymap

	scaled *image.RGBA // reused between frames, resized with the screen

	closeOnce sync.Once
}

// NewTerminal opens the controlling terminal; nil keys selects DefaultKeymap
func NewTerminal(keys Keymap) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	return NewTerminalScreen(screen, keys)
}

// NewTerminalScreen takes ownership of screen, initializes it and starts the input reader
func NewTerminalScreen(screen tcell.Screen, keys Keymap) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal init: %w", err)
	}
	screen.HideCursor()
	screen.Clear()

	t := &Terminal{
		screen:   screen,
		events:   make(chan tcell.Event, 64),
		commands: make(chan Command, 8),
		done:     newSignal(),
		keys:     keymapOrDefault(keys),
	}
	go t.readInput()
	log.Printf("display: terminal opened")
	return t, nil
}

// readInput blocks on PollEvent; it ends when Fini makes PollEvent return nil
func (t *Terminal) readInput() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case t.events <- ev:
		default:
		}
	}
}

// Present scales frame into the screen below the title row, keeping its aspect ratio
func (t *Terminal) Present(title string, frame image.Image) error {
	cols, rows := t.screen.Size()
	t.drawTitle(title, cols)

	rows -= titleRows
	if cols < 1 || rows < 1 {
		t.screen.Show()
		return nil
	}

	pw, ph := cols, rows*2
	if t.scaled == nil || t.scaled.Bounds().Dx() != pw || t.scaled.Bounds().Dy() != ph {
		t.scaled = image.NewRGBA(image.Rect(0, 0, pw, ph))
	}
	fit := fitRect(frame.Bounds(), pw, ph)

	// letterbox with the frame's own corner color
	xdraw.Draw(t.scaled, t.scaled.Bounds(), image.NewUniform(frame.At(frame.Bounds().Min.X, frame.Bounds().Min.Y)), image.Point{}, xdraw.Src)
	xdraw.ApproxBiLinear.Scale(t.scaled, fit, frame, frame.Bounds(), xdraw.Src, nil)

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top := t.scaled.RGBAAt(col, row*2)
			bottom := t.scaled.RGBAAt(col, row*2+1)
			style := tcell.StyleDefault.Foreground(tcellColor(top)).Background(tcellColor(bottom))
			t.screen.SetContent(col, row+titleRows, halfBlock, nil, style)
		}
	}
	t.screen.Show()
	return nil
}

// drawTitle writes title by grapheme cluster; a cluster that would not fit ends the title
func (t *Terminal) drawTitle(title string, cols int) {
	style := tcell.StyleDefault.Bold(true)
	x := 0
	state := -1
	for rest := title; rest != ""; {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if width == 0 {
			continue
		}
		if x+width > cols {
			break
		}
		runes := []rune(cluster)
		t.screen.SetContent(x, 0, runes[0], runes[1:], style)
		x += width
	}
	for ; x < cols; x++ {
		t.screen.SetContent(x, 0, ' ', nil, tcell.StyleDefault)
	}
}

// PumpEventsOnce drains pending input without blocking
func (t *Terminal) PumpEventsOnce() {
	for {
		select {
		case ev := <-t.events:
			t.handle(ev)
		default:
			return
		}
	}
}

func (t *Terminal) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			t.done.fire()
		case tcell.KeyRune:
			dispatch(t.keys, ev.Rune(), t.done, t.commands)
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
}

func (t *Terminal) Done() <-chan struct{} { return t.done.ch }

func (t *Terminal) Commands() <-chan Command { return t.commands }

// Close restores the terminal
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() {
		t.done.fire()
		t.screen.Fini()
		log.Printf("display: terminal closed")
	})
	return nil
}

// fitRect returns the largest rectangle with src's aspect centered in w×h
func fitRect(src image.Rectangle, w, h int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw <= 0 || sh <= 0 {
		return image.Rect(0, 0, w, h)
	}
	dw, dh := w, w*sh/sw
	if dh > h {
		dw, dh = h*sw/sh, h
	}
	x0, y0 := (w-dw)/2, (h-dh)/2
	return image.Rect(x0, y0, x0+dw, y0+dh)
}

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
