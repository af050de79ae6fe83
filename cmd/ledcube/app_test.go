package main

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ledcube/audio"
	"github.com/lixenwraith/ledcube/config"
	"github.com/lixenwraith/ledcube/display"
	"github.com/lixenwraith/ledcube/export"
	"github.com/lixenwraith/ledcube/record"
	"github.com/lixenwraith/ledcube/source"
	"github.com/lixenwraith/ledcube/voxel"
)

// fakeSink records titles and lets tests inject commands
type fakeSink struct {
	titles   []string
	commands chan display.Command
	done     chan struct{}
	closed   bool
}

func newFakeSink() *fakeSink {
	return &fakeSink{commands: make(chan display.Command, 4), done: make(chan struct{})}
}

func (f *fakeSink) Present(title string, _ image.Image) error {
	f.titles = append(f.titles, title)
	return nil
}
func (f *fakeSink) PumpEventsOnce()                  {}
func (f *fakeSink) Done() <-chan struct{}            { return f.done }
func (f *fakeSink) Commands() <-chan display.Command { return f.commands }
func (f *fakeSink) Close() error                     { f.closed = true; return nil }

func testSetup(t *testing.T) (config.Config, source.Env) {
	t.Helper()
	source.RegisterBuiltins()

	cfg := config.Default()
	cfg.Grid = config.GridConfig{Width: 4, Height: 4, Depth: 4}
	cfg.Display.Sink = "png"
	cfg.Record.SnapshotDir = t.TempDir()

	demo, err := audio.Demo(audio.DefaultSampleRate)
	require.NoError(t, err)
	env := source.Env{
		Dims: cfg.Grid.Dims(),
		Seed: 1,
		Tap:  audio.NewTap(demo, audio.DefaultSampleRate, cfg.Source.TapSize),
		Pull: true,
	}
	return cfg, env
}

func TestRunStopsAtFrameLimit(t *testing.T) {
	cfg, env := testSetup(t)
	cfg.Display.Frames = 5
	sink := newFakeSink()

	a, err := newApp(cfg, env, sink)
	require.NoError(t, err)
	require.NoError(t, a.run(context.Background(), false))

	require.Len(t, sink.titles, 5)
	assert.Equal(t, "ledcube sweep 4x4x4", sink.titles[0])
	assert.Equal(t, 5*a.frameDur, a.clock)
}

func TestRunStopsOnDone(t *testing.T) {
	cfg, env := testSetup(t)
	sink := newFakeSink()
	close(sink.done)

	a, err := newApp(cfg, env, sink)
	require.NoError(t, err)
	require.NoError(t, a.run(context.Background(), true))
	assert.Empty(t, sink.titles)
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg, env := testSetup(t)
	cfg.Display.Frames = 1000
	a, err := newApp(cfg, env, newFakeSink())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, a.run(ctx, false))
}

func TestUnpacedRunNeedsFrameLimit(t *testing.T) {
	cfg, env := testSetup(t)
	cfg.Display.Frames = 0
	sink := newFakeSink()

	a, err := newApp(cfg, env, sink)
	require.NoError(t, err)
	assert.ErrorIs(t, a.run(context.Background(), false), errUnbounded)
	assert.Empty(t, sink.titles, "nothing rendered")
}

func TestPauseFreezesSource(t *testing.T) {
	cfg, env := testSetup(t)
	sink := newFakeSink()
	a, err := newApp(cfg, env, sink)
	require.NoError(t, err)

	var buf bytes.Buffer
	a.rec, err = record.NewWriter(&buf, a.grid.Dims(), cfg.Display.FPS)
	require.NoError(t, err)

	require.NoError(t, a.step())
	frozen := append([]voxel.Packed(nil), a.grid.Cells()...)
	clock := a.clock

	a.handle(display.CommandPause)
	for i := 0; i < 3; i++ {
		require.NoError(t, a.step())
	}
	assert.Equal(t, clock, a.clock)
	assert.Equal(t, frozen, a.grid.Cells())
	assert.Equal(t, 1, a.rec.Frames(), "paused frames are not recorded")
	assert.True(t, strings.HasSuffix(sink.titles[len(sink.titles)-1], "[paused]"))

	a.handle(display.CommandPause)
	require.NoError(t, a.step())
	assert.Equal(t, 2, a.rec.Frames())
}

func TestNextSource(t *testing.T) {
	cfg, env := testSetup(t)
	a, err := newApp(cfg, env, newFakeSink())
	require.NoError(t, err)

	var seen []string
	for i := 0; i < 5; i++ {
		a.handle(display.CommandNext)
		seen = append(seen, a.src.Name())
	}
	assert.Equal(t, []string{"wave", "rain", "shell", "spectrum", "sweep"}, seen)
}

func TestExportCommand(t *testing.T) {
	cfg, env := testSetup(t)
	a, err := newApp(cfg, env, newFakeSink())
	require.NoError(t, err)

	// nothing lit yet
	a.handle(display.CommandExport)
	assert.Equal(t, 0, a.snapshots)

	require.NoError(t, a.step())
	a.handle(display.CommandExport)
	a.handle(display.CommandExport)
	assert.Equal(t, 2, a.snapshots)

	for _, name := range []string{"snapshot_000.glb", "snapshot_001.glb"} {
		_, err := os.Stat(filepath.Join(cfg.Record.SnapshotDir, name))
		assert.NoError(t, err, name)
	}
}

func TestReplay(t *testing.T) {
	cfg, env := testSetup(t)

	dims := voxel.Dims{W: 2, H: 3, D: 2}
	path := filepath.Join(t.TempDir(), "in.ledrec")
	w, err := record.Create(path, dims, 10)
	require.NoError(t, err)
	g := voxel.MustGrid(dims)
	g.Set(1, 2, 1, voxel.Pack(9, 8, 7))
	require.NoError(t, w.WriteFrame(g))
	require.NoError(t, w.Close())

	cfg.Record.Replay = path
	sink := newFakeSink()
	a, err := newApp(cfg, env, sink)
	require.NoError(t, err)
	assert.Equal(t, dims, a.grid.Dims())

	require.NoError(t, a.step())
	assert.Equal(t, voxel.Pack(9, 8, 7), a.grid.At(1, 2, 1))
	assert.Equal(t, "ledcube replay 2x3x2", sink.titles[0])

	a.handle(display.CommandNext)
	assert.Equal(t, "replay", a.src.Name(), "no source switching during replay")
}

func TestExportOnce(t *testing.T) {
	cfg, env := testSetup(t)
	path := filepath.Join(t.TempDir(), "cube.glb")

	require.NoError(t, exportOnce(cfg, env, path))
	_, err := os.Stat(path)
	assert.NoError(t, err)

	cfg.Source.Name = "rain"
	err = exportOnce(cfg, env, filepath.Join(t.TempDir(), "empty.glb"))
	assert.ErrorIs(t, err, export.ErrEmpty)
}

func TestNewAppUnknownSource(t *testing.T) {
	cfg, env := testSetup(t)
	cfg.Source.Name = "lava"
	_, err := newApp(cfg, env, newFakeSink())
	assert.ErrorIs(t, err, source.ErrUnknown)
}
