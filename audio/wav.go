package audio

import (
	"fmt"
	"log"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// Clip is a decoded WAV file resampled to a target rate
type Clip struct {
	beep.Streamer
	decoder beep.StreamSeekCloser
	Format  beep.Format
}

// OpenWAV decodes path and resamples it to rate; loop repeats it forever
func OpenWAV(path string, rate beep.SampleRate, loop bool) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}

	dec, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("audio: decode %s: %w", path, err)
	}

	var s beep.Streamer = dec
	if loop {
		s = beep.Loop(-1, dec)
	}
	if format.SampleRate != rate {
		s = beep.Resample(4, format.SampleRate, rate, s)
	}

	log.Printf("audio: opened %s (%d Hz, %d ch)", path, format.SampleRate, format.NumChannels)
	return &Clip{Streamer: s, decoder: dec, Format: format}, nil
}

// Close releases the underlying file
func (c *Clip) Close() error {
	return c.decoder.Close()
}
