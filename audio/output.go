package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Output plays a stream until closed
type Output interface {
	Close() error
}

// Outputs lists the names accepted by Start
var Outputs = []string{"speaker", "pipe"}

// Start plays s through the named output
func Start(kind string, s beep.Streamer, rate beep.SampleRate) (Output, error) {
	switch kind {
	case "speaker":
		return StartSpeaker(s, rate)
	case "pipe":
		backend, err := DetectBackend(rate)
		if err != nil {
			return nil, err
		}
		cmd := exec.Command(backend.Path, backend.Args...)
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, fmt.Errorf("audio pipe: %w", err)
		}
		if err := cmd.Start(); err != nil {
			stdin.Close()
			return nil, fmt.Errorf("audio pipe %s: %w", backend.Name, err)
		}
		log.Printf("audio: piping to %s", backend.Name)
		return newPipe(s, rate, stdin, cmd), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrOutput, kind)
}

// speakerOutput drives beep's speaker
type speakerOutput struct {
	ctrl *beep.Ctrl
	once sync.Once
}

// StartSpeaker initializes the speaker at rate with a 100ms buffer and plays s
func StartSpeaker(s beep.Streamer, rate beep.SampleRate) (Output, error) {
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("audio speaker: %w", err)
	}
	ctrl := &beep.Ctrl{Streamer: s}
	speaker.Play(ctrl)
	log.Printf("audio: speaker at %d Hz", rate)
	return &speakerOutput{ctrl: ctrl}, nil
}

// Close stops playback and releases the audio device
func (o *speakerOutput) Close() error {
	o.once.Do(func() {
		speaker.Lock()
		o.ctrl.Paused = true
		speaker.Unlock()
		speaker.Clear()
		speaker.Close()
	})
	return nil
}

// pipeOutput writes s16le stereo to a writer at real-time pace
type pipeOutput struct {
	out  io.WriteCloser
	cmd  *exec.Cmd // nil when writing to a plain writer
	stop chan struct{}
	wg   sync.WaitGroup

	stopped atomic.Bool
	errChan chan error
}

// pipeChunk samples per tick, ~11.6ms at 44.1kHz
const pipeChunk = 512

func newPipe(s beep.Streamer, rate beep.SampleRate, out io.WriteCloser, cmd *exec.Cmd) *pipeOutput {
	p := &pipeOutput{
		out:     out,
		cmd:     cmd,
		stop:    make(chan struct{}),
		errChan: make(chan error, 1),
	}
	p.wg.Add(1)
	go p.loop(s, rate.D(pipeChunk))
	return p
}

func (p *pipeOutput) loop(s beep.Streamer, tick time.Duration) {
	defer p.wg.Done()

	samples := make([][2]float64, pipeChunk)
	outBytes := make([]byte, pipeChunk*4)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			n, ok := s.Stream(samples)
			// Silence tail keeps the pipe fed after the stream ends
			for i := n; i < len(samples); i++ {
				samples[i] = [2]float64{}
			}
			floatToBytes(samples, outBytes)

			if _, err := p.out.Write(outBytes); err != nil {
				select {
				case p.errChan <- fmt.Errorf("%w: %v", ErrPipeClosed, err):
				default:
				}
				return
			}
			if !ok {
				s = silence{}
			}
		}
	}
}

// Errors reports the first write failure
func (p *pipeOutput) Errors() <-chan error { return p.errChan }

// Close stops the writer and the backend process
func (p *pipeOutput) Close() error {
	if !p.stopped.CompareAndSwap(false, true) {
		return nil
	}
	close(p.stop)
	p.wg.Wait()

	err := p.out.Close()
	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Kill()
		p.cmd.Wait()
	}
	return err
}

type silence struct{}

func (silence) Stream(samples [][2]float64) (int, bool) {
	clear(samples)
	return len(samples), true
}

func (silence) Err() error { return nil }

// floatToBytes converts stereo float64 to interleaved int16 LE bytes
// Applies soft limiting before hard clip
func floatToBytes(in [][2]float64, out []byte) {
	for i, frame := range in {
		for ch, v := range frame {
			binary.LittleEndian.PutUint16(out[i*4+ch*2:], uint16(limit(v)))
		}
	}
}

func limit(v float64) int16 {
	// Soft limiter (tanh-style)
	if v > 0.8 {
		v = 0.8 + 0.2*(1.0-1.0/(1.0+(v-0.8)*5.0))
	} else if v < -0.8 {
		v = -0.8 - 0.2*(1.0-1.0/(1.0+(-v-0.8)*5.0))
	}

	// Hard clip
	if v > 1.0 {
		v = 1.0
	} else if v < -1.0 {
		v = -1.0
	}
	return int16(v * 32767)
}
