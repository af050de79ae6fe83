// Package config loads run settings from TOML.
//
// Defaults are complete, a file overrides any subset of keys and unknown keys are rejected.
// Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/ledcube/audio"
	"github.com/lixenwraith/ledcube/display"
	"github.com/lixenwraith/ledcube/scene"
	"github.com/lixenwraith/ledcube/voxel"
)

var (
	ErrUnknownKey = errors.New("unknown config key")
	ErrInvalid    = errors.New("invalid config")
)

// Config is the full set of run settings
type Config struct {
	Grid    GridConfig        `toml:"grid"`
	Scene   scene.Params      `toml:"scene"`
	Display DisplayConfig     `toml:"display"`
	Source  SourceConfig      `toml:"source"`
	Record  RecordConfig      `toml:"record"`
	Log     LogConfig         `toml:"log"`
	Keys    map[string]string `toml:"keys"`
}

type GridConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
	Depth  int `toml:"depth"`
}

// Dims returns the grid size
func (g GridConfig) Dims() voxel.Dims {
	return voxel.Dims{W: g.Width, H: g.Height, D: g.Depth}
}

type DisplayConfig struct {
	Sink   string `toml:"sink"`
	Path   string `toml:"path"`   // png directory or gif file
	FPS    int    `toml:"fps"`    // frame loop rate
	Frames int    `toml:"frames"` // stop after this many frames, 0 = run until quit
	Width  int    `toml:"width"`  // sdl window, 0 = canvas size
	Height int    `toml:"height"`
}

type SourceConfig struct {
	Name    string `toml:"name"`
	Seed    int64  `toml:"seed"`
	Audio   string `toml:"audio"`    // wav file feeding the spectrum, empty = built-in demo tones
	Output  string `toml:"output"`   // audio playback: "", "speaker" or "pipe"
	TapSize int    `toml:"tap_size"` // samples kept for analysis
}

type RecordConfig struct {
	Path        string `toml:"path"`         // write frames here when set
	Replay      string `toml:"replay"`       // play this recording instead of a source
	SnapshotDir string `toml:"snapshot_dir"` // target of the export command
}

type LogConfig struct {
	Debug bool `toml:"debug"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Grid:  GridConfig{Width: 8, Height: 8, Depth: 8},
		Scene: scene.DefaultParams(),
		Display: DisplayConfig{
			Sink: "terminal",
			Path: "frames",
			FPS:  20,
		},
		Source: SourceConfig{
			Name:    "sweep",
			Seed:    1,
			TapSize: 4096,
		},
		Record: RecordConfig{SnapshotDir: "."},
	}
}

// Load reads path over the defaults and validates the result
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section
func (c Config) Validate() error {
	if err := c.Grid.Dims().Validate(); err != nil {
		return err
	}
	if err := c.Scene.Validate(); err != nil {
		return err
	}

	if !slices.Contains(display.Kinds, c.Display.Sink) {
		return fmt.Errorf("%w: display.sink %q (one of %v)", ErrInvalid, c.Display.Sink, display.Kinds)
	}
	if c.Display.FPS <= 0 || c.Display.FPS > 240 {
		return fmt.Errorf("%w: display.fps %d", ErrInvalid, c.Display.FPS)
	}
	if c.Display.Frames < 0 {
		return fmt.Errorf("%w: display.frames %d", ErrInvalid, c.Display.Frames)
	}
	if c.Display.Frames == 0 && display.Headless(c.Display.Sink) {
		return fmt.Errorf("%w: display.frames must be set for the %s sink", ErrInvalid, c.Display.Sink)
	}
	if c.Display.Width < 0 || c.Display.Height < 0 {
		return fmt.Errorf("%w: display size %dx%d", ErrInvalid, c.Display.Width, c.Display.Height)
	}

	if c.Source.Name == "" && c.Record.Replay == "" {
		return fmt.Errorf("%w: source.name is empty", ErrInvalid)
	}
	if c.Source.Output != "" && !slices.Contains(audio.Outputs, c.Source.Output) {
		return fmt.Errorf("%w: source.output %q (one of %v)", ErrInvalid, c.Source.Output, audio.Outputs)
	}
	if c.Source.TapSize < 1024 {
		return fmt.Errorf("%w: source.tap_size %d below 1024", ErrInvalid, c.Source.TapSize)
	}

	if _, err := c.Keymap(); err != nil {
		return fmt.Errorf("%w: keys: %v", ErrInvalid, err)
	}
	return nil
}

// Keymap resolves the [keys] overrides
func (c Config) Keymap() (display.Keymap, error) {
	return display.ParseKeymap(c.Keys)
}

// WindowSize returns the sdl window size, falling back to the canvas size
func (c Config) WindowSize() (int, int) {
	w, h := c.Scene.CanvasSize()
	if c.Display.Width > 0 {
		w = c.Display.Width
	}
	if c.Display.Height > 0 {
		h = c.Display.Height
	}
	return w, h
}
