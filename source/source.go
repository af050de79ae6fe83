// Package source produces voxel frames for the cube.
//
// A Source writes a complete frame into a grid for a point in time. Sources are created by name
// through factories registered here; RegisterBuiltins adds the demo patterns.
package source

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/lixenwraith/ledcube/audio"
	"github.com/lixenwraith/ledcube/voxel"
)

// Source fills a grid with one frame
type Source interface {
	Name() string
	// Frame overwrites every cell of g; t is the time since the run started
	Frame(g *voxel.Grid, t time.Duration)
}

// Env is what a factory may build a source from
type Env struct {
	Dims voxel.Dims
	Seed int64
	// Tap feeds audio-reactive sources; nil when no audio is configured
	Tap *audio.Tap
	// Pull makes audio sources advance the tap themselves, set when nothing plays it
	Pull bool
}

// Factory builds a source for env
type Factory func(env Env) (Source, error)

var (
	ErrUnknown = errors.New("unknown source")
	ErrNoAudio = errors.New("source needs an audio tap")
)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// Register adds a factory by name, replacing any previous one
func Register(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// Lookup retrieves a factory by name
func Lookup(name string) (Factory, bool) {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	f, ok := factories[name]
	return f, ok
}

// Names returns all registered names, sorted
func Names() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	return slices.Sorted(maps.Keys(factories))
}

// New builds the named source
func New(name string, env Env) (Source, error) {
	f, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknown, name, Names())
	}
	if err := env.Dims.Validate(); err != nil {
		return nil, err
	}
	return f(env)
}

// Next returns the name after current in sorted order, wrapping around
func Next(current string) string {
	names := Names()
	if len(names) == 0 {
		return current
	}
	i, found := slices.BinarySearch(names, current)
	if found {
		i++
	}
	return names[i%len(names)]
}

// RegisterBuiltins registers the demo sources
func RegisterBuiltins() {
	Register("sweep", func(env Env) (Source, error) { return NewSweep(), nil })
	Register("rain", func(env Env) (Source, error) { return NewRain(env.Seed), nil })
	Register("wave", func(env Env) (Source, error) { return NewWave(), nil })
	Register("shell", func(env Env) (Source, error) { return NewShell(), nil })
	Register("spectrum", func(env Env) (Source, error) {
		if env.Tap == nil {
			return nil, ErrNoAudio
		}
		return NewSpectrum(env.Tap, env.Pull), nil
	})
}
