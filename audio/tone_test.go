package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// TestToneSine verifies sine samples stay in range and start at zero
func TestToneSine(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewTone(440, WaveSine, rate)

	samples := make([][2]float64, 100)
	n, ok := osc.Stream(samples)
	if !ok || n != 100 {
		t.Fatalf("Expected 100 samples and ok, got %d %v", n, ok)
	}
	if samples[0][0] != 0 {
		t.Errorf("Expected first sine sample 0, got %f", samples[0][0])
	}
	for i := 0; i < n; i++ {
		if samples[i][0] < -1.0 || samples[i][0] > 1.0 {
			t.Errorf("Sample %d out of range: %f", i, samples[i][0])
		}
		if samples[i][0] != samples[i][1] {
			t.Errorf("Sample %d channels differ", i)
		}
	}
	if osc.Err() != nil {
		t.Errorf("Expected no error, got: %v", osc.Err())
	}
}

// TestToneNeverEnds verifies tones are endless
func TestToneNeverEnds(t *testing.T) {
	osc := NewTone(100, WaveSquare, 8000)
	samples := make([][2]float64, 4096)
	for i := 0; i < 10; i++ {
		if n, ok := osc.Stream(samples); !ok || n != len(samples) {
			t.Fatalf("Round %d: expected full stream, got %d %v", i, n, ok)
		}
	}
}

// TestToneSquareValues verifies square wave only produces ±1
func TestToneSquareValues(t *testing.T) {
	osc := NewTone(220, WaveSquare, 44100)
	samples := make([][2]float64, 500)
	osc.Stream(samples)
	for i, s := range samples {
		if s[0] != -1.0 && s[0] != 1.0 {
			t.Fatalf("Square wave sample %d should be -1.0 or 1.0, got %f", i, s[0])
		}
	}
}

// TestToneSawRange verifies saw output stays in [-1, 1)
func TestToneSawRange(t *testing.T) {
	osc := NewTone(330, WaveSaw, 44100)
	samples := make([][2]float64, 1000)
	osc.Stream(samples)
	for i, s := range samples {
		if s[0] < -1.0 || s[0] >= 1.0 {
			t.Fatalf("Saw sample %d out of range: %f", i, s[0])
		}
	}
}

// TestChirpGlide verifies the chirp frequency follows a triangle between lo and hi
func TestChirpGlide(t *testing.T) {
	rate := beep.SampleRate(1000)
	o := NewChirp(100, 300, time.Second, WaveSine, rate).(*oscillator)

	tests := []struct {
		pos  int
		want float64
	}{
		{0, 100},
		{250, 200},
		{500, 300},
		{750, 200},
		{1000, 100},
	}
	for _, tt := range tests {
		o.pos = tt.pos
		if got := o.freq(); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("pos %d: expected %f Hz, got %f", tt.pos, tt.want, got)
		}
	}
}

// TestWithVolumeZeroIsSilent verifies zero volume mutes
func TestWithVolumeZeroIsSilent(t *testing.T) {
	s := WithVolume(NewTone(440, WaveSquare, 44100), 0)
	samples := make([][2]float64, 64)
	s.Stream(samples)
	for i, v := range samples {
		if v[0] != 0 || v[1] != 0 {
			t.Fatalf("Sample %d should be silent, got %v", i, v)
		}
	}
}

// TestDemoBounded verifies the demo mix does not clip
func TestDemoBounded(t *testing.T) {
	s, err := Demo(DefaultSampleRate)
	if err != nil {
		t.Fatalf("Demo failed: %v", err)
	}
	samples := make([][2]float64, 4096)
	s.Stream(samples)
	for i, v := range samples {
		if math.Abs(v[0]) > 1.0 {
			t.Fatalf("Sample %d exceeds unity: %f", i, v[0])
		}
	}
}

// TestNoiseVaries verifies the noise wave stays in range and is not constant
func TestNoiseVaries(t *testing.T) {
	s := NewTone(0, WaveNoise, 44100)
	samples := make([][2]float64, 256)
	s.Stream(samples)
	distinct := make(map[float64]bool)
	for i, v := range samples {
		if v[0] < -1 || v[0] >= 1 {
			t.Fatalf("Sample %d out of range: %f", i, v[0])
		}
		distinct[v[0]] = true
	}
	if len(distinct) < 100 {
		t.Errorf("expected varied noise, got %d distinct values", len(distinct))
	}
}
