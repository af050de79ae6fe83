package audio

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates an endless wave whose frequency glides between lo and hi
type oscillator struct {
	lo, hi float64
	glide  int // samples per lo→hi→lo cycle, 0 = fixed at lo
	phase  float64
	pos    int
	wave   WaveType
	rate   beep.SampleRate
	rng    *rand.Rand
}

// NewTone returns an endless fixed-frequency oscillator
func NewTone(freq float64, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{lo: freq, hi: freq, wave: wave, rate: rate, rng: rand.New(rand.NewSource(1))}
}

// NewChirp returns an endless oscillator sweeping lo→hi→lo once per period
func NewChirp(lo, hi float64, period time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		lo:    lo,
		hi:    hi,
		glide: rate.N(period),
		wave:  wave,
		rate:  rate,
		rng:   rand.New(rand.NewSource(1)),
	}
}

func (o *oscillator) freq() float64 {
	if o.glide <= 0 {
		return o.lo
	}
	// triangle in [0,1]
	t := float64(o.pos%o.glide) / float64(o.glide)
	tri := 1 - math.Abs(2*t-1)
	return o.lo + (o.hi-o.lo)*tri
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq() / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase) // Keep in [0, 1)
		o.pos++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// WithVolume scales s linearly; 0 or less is silent
// math.Log2(0) is -Inf, so zero volume maps to Silent
func WithVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// Demo mixes a bass tone, two chirps and a little noise so the spectrum keeps moving without an input file
func Demo(rate beep.SampleRate) (beep.Streamer, error) {
	bass, err := generators.SineTone(rate, 110)
	if err != nil {
		return nil, fmt.Errorf("audio demo: %w", err)
	}
	return beep.Mix(
		WithVolume(bass, 0.4),
		WithVolume(NewChirp(220, 3520, 6*time.Second, WaveSine, rate), 0.3),
		WithVolume(NewChirp(440, 1760, 2500*time.Millisecond, WaveSaw, rate), 0.15),
		WithVolume(NewTone(0, WaveNoise, rate), 0.02), // floor so no band sits at -inf
	), nil
}
