package source

import (
	"math"
	"math/cmplx"
	"time"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"

	"github.com/lixenwraith/ledcube/audio"
	"github.com/lixenwraith/ledcube/voxel"
)

const (
	// fftSize samples per analysis window
	fftSize = 1024
	// floorDB is shown as an empty column
	floorDB = -60.0
	// bandLow is the lowest analyzed frequency in Hz
	bandLow = 40.0
)

// Spectrum is an FFT waterfall: x is frequency band, bar height is level, z is history
// The newest spectrum is drawn at z=0 and older rows move one slice back per frame
type Spectrum struct {
	tap  *audio.Tap
	pull bool

	fft     *fourier.FFT
	samples []float64
	coeffs  []complex128

	history [][]float64 // [z][band] levels in [0,1]
	dims    voxel.Dims
	last    time.Duration
}

// NewSpectrum analyzes tap; with pull set it advances the tap by the elapsed time on each frame
func NewSpectrum(tap *audio.Tap, pull bool) *Spectrum {
	return &Spectrum{
		tap:     tap,
		pull:    pull,
		fft:     fourier.NewFFT(fftSize),
		samples: make([]float64, fftSize),
		coeffs:  make([]complex128, fftSize/2+1),
	}
}

func (s *Spectrum) Name() string { return "spectrum" }

func (s *Spectrum) Frame(g *voxel.Grid, t time.Duration) {
	d := g.Dims()
	if d != s.dims {
		s.dims = d
		s.history = make([][]float64, d.D)
		for z := range s.history {
			s.history[z] = make([]float64, d.W)
		}
	}

	if s.pull && t > s.last {
		s.tap.Pull(s.tap.SampleRate().N(t - s.last))
	}
	s.last = t

	// shift back, recycling the oldest row as the newest
	oldest := s.history[len(s.history)-1]
	copy(s.history[1:], s.history[:len(s.history)-1])
	s.history[0] = oldest
	s.Levels(oldest)

	g.Clear()
	for z, row := range s.history {
		age := 1 - float64(z)/float64(d.D)*0.7
		for x, level := range row {
			bar := int(math.Round(level * float64(d.H)))
			for i := 0; i < bar; i++ {
				// bars rise from the bottom row
				y := d.H - 1 - i
				g.Set(x, y, z, hue(0.66*float64(i)/float64(d.H), age))
			}
		}
	}
}

// Levels fills dst with per-band levels in [0,1] from the newest tap window
// Bands are log-spaced from bandLow to Nyquist
func (s *Spectrum) Levels(dst []float64) {
	s.tap.Window(s.samples)
	window.Hann(s.samples)
	s.coeffs = s.fft.Coefficients(s.coeffs, s.samples)

	rate := float64(s.tap.SampleRate())
	nyquist := rate / 2
	lo := math.Min(bandLow, nyquist/2)
	ratio := math.Pow(nyquist/lo, 1/float64(len(dst)))

	mags := make([]float64, len(s.coeffs))
	for i, c := range s.coeffs {
		mags[i] = cmplx.Abs(c) / (fftSize / 4)
	}

	edge := lo
	for b := range dst {
		next := edge * ratio
		i0 := max(1, int(edge/rate*fftSize))
		i1 := min(len(mags)-1, max(i0, int(next/rate*fftSize)))
		peak := floats.Max(mags[i0 : i1+1])
		edge = next

		db := 20 * math.Log10(peak+1e-12)
		dst[b] = math.Max(0, math.Min(1, (db-floorDB)/-floorDB))
	}
}
