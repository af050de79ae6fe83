package source

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ledcube/audio"
	"github.com/lixenwraith/ledcube/voxel"
)

var cube = voxel.Dims{W: 8, H: 8, D: 8}

func litCells(g *voxel.Grid) [][3]int {
	var out [][3]int
	d := g.Dims()
	for x := 0; x < d.W; x++ {
		for y := 0; y < d.H; y++ {
			for z := 0; z < d.D; z++ {
				if g.At(x, y, z) != voxel.Off {
					out = append(out, [3]int{x, y, z})
				}
			}
		}
	}
	return out
}

func toneTap(freq float64) *audio.Tap {
	return audio.NewTap(audio.NewTone(freq, audio.WaveSine, audio.DefaultSampleRate), audio.DefaultSampleRate, 4096)
}

func TestRegistryNamesSorted(t *testing.T) {
	RegisterBuiltins()
	assert.Equal(t, []string{"rain", "shell", "spectrum", "sweep", "wave"}, Names())
}

func TestNext(t *testing.T) {
	RegisterBuiltins()
	tests := []struct{ cur, want string }{
		{"rain", "shell"},
		{"wave", "rain"},
		{"missing", "rain"},
		{"sweepx", "wave"},
	}
	for _, tt := range tests {
		t.Run(tt.cur, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.cur))
		})
	}
}

func TestNewErrors(t *testing.T) {
	RegisterBuiltins()

	_, err := New("lava", Env{Dims: cube})
	assert.ErrorIs(t, err, ErrUnknown)

	_, err = New("spectrum", Env{Dims: cube})
	assert.ErrorIs(t, err, ErrNoAudio)

	_, err = New("sweep", Env{Dims: voxel.Dims{W: 0, H: 1, D: 1}})
	assert.ErrorIs(t, err, voxel.ErrDimension)
}

func TestBuiltinsProduceFrames(t *testing.T) {
	RegisterBuiltins()
	env := Env{Dims: cube, Seed: 7, Tap: toneTap(440), Pull: true}

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			src, err := New(name, env)
			require.NoError(t, err)
			assert.Equal(t, name, src.Name())

			g := voxel.MustGrid(cube)
			lit := false
			for i := 1; i <= 40; i++ {
				src.Frame(g, time.Duration(i)*50*time.Millisecond)
				if len(litCells(g)) > 0 {
					lit = true
				}
			}
			assert.True(t, lit, "source never lit a voxel")
		})
	}
}

func TestFrameOverwritesGrid(t *testing.T) {
	g := voxel.MustGrid(cube)
	g.Fill(voxel.Pack(1, 2, 3))

	NewSweep().Frame(g, 0)
	for _, c := range litCells(g) {
		assert.Equal(t, 0, c[2], "only slice z=0 lit at t=0")
	}
	assert.Len(t, litCells(g), cube.W*cube.H)
}

func TestSweepPingPong(t *testing.T) {
	s := NewSweep()
	g := voxel.MustGrid(voxel.Dims{W: 2, H: 2, D: 4})

	var zs []int
	for i := 0; i < 8; i++ {
		s.Frame(g, time.Duration(i)*s.Step)
		zs = append(zs, litCells(g)[0][2])
	}
	assert.Equal(t, []int{0, 1, 2, 3, 2, 1, 0, 1}, zs)
}

func TestSweepSingleSlice(t *testing.T) {
	g := voxel.MustGrid(voxel.Dims{W: 3, H: 3, D: 1})
	NewSweep().Frame(g, 5*time.Second)
	assert.Len(t, litCells(g), 9)
}

func TestRainDeterministic(t *testing.T) {
	a, b := NewRain(42), NewRain(42)
	ga, gb := voxel.MustGrid(cube), voxel.MustGrid(cube)

	for i := 1; i <= 30; i++ {
		at := time.Duration(i) * 100 * time.Millisecond
		a.Frame(ga, at)
		b.Frame(gb, at)
		if diff := cmp.Diff(ga.Cells(), gb.Cells()); diff != "" {
			t.Fatalf("frame %d differs (-a +b):\n%s", i, diff)
		}
	}
}

func TestRainRestartsWhenTimeRewinds(t *testing.T) {
	r := NewRain(1)
	g := voxel.MustGrid(cube)
	r.Frame(g, 5*time.Second)
	r.Frame(g, 0)
	assert.Empty(t, litCells(g))
}

func TestWaveOneVoxelPerColumn(t *testing.T) {
	w := NewWave()
	g := voxel.MustGrid(voxel.Dims{W: 5, H: 6, D: 3})
	w.Frame(g, 1300*time.Millisecond)

	counts := map[[2]int]int{}
	for _, c := range litCells(g) {
		counts[[2]int{c[0], c[2]}]++
	}
	assert.Len(t, counts, 5*3)
	for col, n := range counts {
		assert.Equal(t, 1, n, "column %v", col)
	}
}

func TestWaveHeightRange(t *testing.T) {
	w := NewWave()
	for x := 0; x < 10; x++ {
		for z := 0; z < 10; z++ {
			h := w.Height(x, z, time.Duration(x*z)*time.Millisecond)
			assert.GreaterOrEqual(t, h, 0.0)
			assert.LessOrEqual(t, h, 1.0)
		}
	}
}

func TestShellIsCubeSurface(t *testing.T) {
	s := NewShell()
	g := voxel.MustGrid(cube)
	// half period: radius 2.25, nearest shell is Chebyshev distance 2.5 from center 3.5
	s.Frame(g, s.Period/2)

	lit := litCells(g)
	require.NotEmpty(t, lit)
	for _, c := range lit {
		r := 0.0
		for _, v := range c {
			d := float64(v) - 3.5
			if d < 0 {
				d = -d
			}
			r = max(r, d)
		}
		assert.Equal(t, 2.5, r, "voxel %v", c)
	}
	// the 6×6×6 block minus its 4×4×4 core
	assert.Len(t, lit, 216-64)
}

func TestSpectrumPeakBand(t *testing.T) {
	tap := toneTap(1000)
	tap.Pull(4096)
	s := NewSpectrum(tap, false)

	levels := make([]float64, 8)
	s.Levels(levels)

	best := 0
	for i, l := range levels {
		assert.GreaterOrEqual(t, l, 0.0)
		assert.LessOrEqual(t, l, 1.0)
		if l > levels[best] {
			best = i
		}
	}
	// log bands from 40 Hz: 1 kHz falls in [939, 2068)
	assert.Equal(t, 4, best)
	assert.Greater(t, levels[best], 0.8)
}

func TestSpectrumWaterfall(t *testing.T) {
	rate := audio.DefaultSampleRate
	stream := beep.Seq(beep.Silence(rate.N(50*time.Millisecond)), audio.NewTone(1000, audio.WaveSine, rate))
	s := NewSpectrum(audio.NewTap(stream, rate, 4096), true)
	g := voxel.MustGrid(cube)

	s.Frame(g, 50*time.Millisecond)
	assert.Empty(t, litCells(g), "silence lights nothing")

	s.Frame(g, 100*time.Millisecond)
	for _, c := range litCells(g) {
		assert.Equal(t, 0, c[2], "newest spectrum at the front")
	}
	require.NotEmpty(t, litCells(g))

	s.Frame(g, 150*time.Millisecond)
	var back int
	for _, c := range litCells(g) {
		if c[2] == 1 {
			back++
		}
		assert.LessOrEqual(t, c[2], 1)
	}
	assert.Positive(t, back, "previous spectrum moved one slice back")
}

func TestPackNeverOff(t *testing.T) {
	assert.NotEqual(t, voxel.Off, hue(0, 0))
}
