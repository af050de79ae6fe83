package audio

import (
	"sync"

	"github.com/gopxl/beep"
)

// Tap passes a stream through unchanged and keeps its most recent mono samples
// Stream runs on the playback goroutine while Window is read by the frame loop
type Tap struct {
	src  beep.Streamer
	rate beep.SampleRate

	mu    sync.Mutex
	ring  []float64
	head  int // next write index
	count int // valid samples, up to len(ring)

	scratch [][2]float64
}

// NewTap keeps the last size samples of src
func NewTap(src beep.Streamer, rate beep.SampleRate, size int) *Tap {
	if size < 1 {
		size = 1
	}
	return &Tap{
		src:  src,
		rate: rate,
		ring: make([]float64, size),
	}
}

// SampleRate of the tapped stream
func (t *Tap) SampleRate() beep.SampleRate { return t.rate }

// Size is the ring capacity in samples
func (t *Tap) Size() int { return len(t.ring) }

func (t *Tap) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = t.src.Stream(samples)

	t.mu.Lock()
	for i := 0; i < n; i++ {
		t.ring[t.head] = (samples[i][0] + samples[i][1]) / 2
		t.head = (t.head + 1) % len(t.ring)
	}
	t.count = min(t.count+n, len(t.ring))
	t.mu.Unlock()

	return n, ok
}

func (t *Tap) Err() error { return t.src.Err() }

// Pull advances the stream by n samples without playback, for silent runs
// It returns false once the source is exhausted
func (t *Tap) Pull(n int) bool {
	for n > 0 {
		chunk := min(n, 512)
		if cap(t.scratch) < chunk {
			t.scratch = make([][2]float64, chunk)
		}
		got, ok := t.Stream(t.scratch[:chunk])
		n -= got
		if !ok || got == 0 {
			return false
		}
	}
	return true
}

// Window copies the newest len(dst) samples into dst, oldest first
// Missing history is zero-filled at the front; the count of real samples is returned
func (t *Tap) Window(dst []float64) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	want := min(len(dst), len(t.ring))
	have := min(want, t.count)
	pad := len(dst) - have
	for i := 0; i < pad; i++ {
		dst[i] = 0
	}

	start := (t.head - have + len(t.ring)) % len(t.ring)
	for i := 0; i < have; i++ {
		dst[pad+i] = t.ring[(start+i)%len(t.ring)]
	}
	return have
}
