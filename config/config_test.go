package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ledcube/display"
	"github.com/lixenwraith/ledcube/scene"
	"github.com/lixenwraith/ledcube/voxel"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledcube.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, voxel.Dims{W: 8, H: 8, D: 8}, cfg.Grid.Dims())

	w, h := cfg.WindowSize()
	assert.Equal(t, 480, w)
	assert.Equal(t, 540, h)
}

func TestLoadOverridesSubset(t *testing.T) {
	path := writeConfig(t, `
[grid]
width = 4
depth = 6

[scene]
ratio = 2.0
background = 0

[display]
sink = "gif"
path = "out/cube.gif"
frames = 120

[source]
name = "rain"
seed = 99

[keys]
space = "none"
p = "pause"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.Grid.Width = 4
	want.Grid.Depth = 6
	want.Scene.Ratio = 2.0
	want.Scene.Background = 0
	want.Display.Sink = "gif"
	want.Display.Path = "out/cube.gif"
	want.Display.Frames = 120
	want.Source.Name = "rain"
	want.Source.Seed = 99
	want.Keys = map[string]string{"space": "none", "p": "pause"}

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}

	km, err := cfg.Keymap()
	require.NoError(t, err)
	_, spaceBound := km[' ']
	assert.False(t, spaceBound)
	assert.Equal(t, display.CommandPause, km['p'])
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
[grid]
width = 4
colour = "red"

[extras]
x = 1
`)
	_, err := Load(path)
	require.ErrorIs(t, err, ErrUnknownKey)
	assert.Contains(t, err.Error(), "grid.colour")
	assert.Contains(t, err.Error(), "extras")
}

func TestLoadSyntaxError(t *testing.T) {
	_, err := Load(writeConfig(t, "[grid\nwidth = "))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"Zero width", func(c *Config) { c.Grid.Width = 0 }, voxel.ErrDimension},
		{"Oversized depth", func(c *Config) { c.Grid.Depth = 256 }, voxel.ErrDimension},
		{"Bad ratio", func(c *Config) { c.Scene.Ratio = -1 }, scene.ErrParams},
		{"Unknown sink", func(c *Config) { c.Display.Sink = "vga" }, ErrInvalid},
		{"Zero fps", func(c *Config) { c.Display.FPS = 0 }, ErrInvalid},
		{"Negative frames", func(c *Config) { c.Display.Frames = -1 }, ErrInvalid},
		{"Unbounded png", func(c *Config) { c.Display.Sink = "png" }, ErrInvalid},
		{"Unbounded gif", func(c *Config) { c.Display.Sink = "gif" }, ErrInvalid},
		{"Negative window", func(c *Config) { c.Display.Width = -5 }, ErrInvalid},
		{"No source", func(c *Config) { c.Source.Name = "" }, ErrInvalid},
		{"Unknown output", func(c *Config) { c.Source.Output = "hdmi" }, ErrInvalid},
		{"Tiny tap", func(c *Config) { c.Source.TapSize = 10 }, ErrInvalid},
		{"Bad key", func(c *Config) { c.Keys = map[string]string{"ctrl": "pause"} }, ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestReplayNeedsNoSource(t *testing.T) {
	cfg := Default()
	cfg.Source.Name = ""
	cfg.Record.Replay = "run.ledrec"
	assert.NoError(t, cfg.Validate())
}

func TestFrameLimitOnlyForHeadless(t *testing.T) {
	cfg := Default()
	cfg.Display.Sink = "sdl"
	assert.NoError(t, cfg.Validate(), "interactive sinks run until quit")

	cfg.Display.Sink = "png"
	cfg.Display.Frames = 30
	assert.NoError(t, cfg.Validate())
}

func TestWindowSizeOverride(t *testing.T) {
	cfg := Default()
	cfg.Display.Width = 1024
	w, h := cfg.WindowSize()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 540, h)
}
