// Package audio produces and taps sample streams for audio-reactive sources.
//
// Streams are beep.Streamers. A Tap sits between a stream and its consumer and keeps the most recent
// mono samples for analysis; the consumer is either a playback Output or Pull when running silent.
package audio

import (
	"errors"

	"github.com/gopxl/beep"
)

// DefaultSampleRate is used for generated tones and as the playback rate
const DefaultSampleRate = beep.SampleRate(44100)

// BackendType identifies a pipe playback backend
type BackendType int

const (
	BackendPulse BackendType = iota
	BackendPipeWire
	BackendALSA
	BackendSoX
	BackendFFplay
)

func (b BackendType) String() string {
	switch b {
	case BackendPulse:
		return "pulse"
	case BackendPipeWire:
		return "pipewire"
	case BackendALSA:
		return "alsa"
	case BackendSoX:
		return "sox"
	case BackendFFplay:
		return "ffplay"
	}
	return "unknown"
}

// BackendConfig describes a CLI audio backend reading raw s16le stereo on stdin
type BackendConfig struct {
	Type BackendType
	Name string
	Path string
	Args []string
}

// Sentinel errors
var (
	ErrNoAudioBackend = errors.New("no compatible audio backend found")
	ErrPipeClosed     = errors.New("audio pipe closed")
	ErrOutput         = errors.New("unknown audio output")
)
