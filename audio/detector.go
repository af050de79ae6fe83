package audio

import (
	"os/exec"
	"strconv"

	"github.com/gopxl/beep"
)

// lookPath is replaced in tests
var lookPath = exec.LookPath

// DetectBackend searches PATH for a player that accepts raw PCM on stdin
// Priority: pacat > pw-cat > aplay > play (sox) > ffplay
func DetectBackend(rate beep.SampleRate) (*BackendConfig, error) {
	r := strconv.Itoa(int(rate))

	candidates := []BackendConfig{
		{Type: BackendPulse, Name: "pacat", Args: []string{
			"--raw", "--format=s16le", "--rate=" + r, "--channels=2", "--latency-msec=50", "--playback",
		}},
		{Type: BackendPipeWire, Name: "pw-cat", Args: []string{
			"--playback", "--format=s16", "--rate=" + r, "--channels=2", "--latency=50ms", "-",
		}},
		{Type: BackendALSA, Name: "aplay", Args: []string{
			"-t", "raw", "-f", "S16_LE", "-r", r, "-c", "2", "-q",
		}},
		{Type: BackendSoX, Name: "play", Args: []string{
			"-t", "raw", "-e", "signed", "-b", "16", "-c", "2", "-r", r, "-", "-d", "-q",
		}},
		{Type: BackendFFplay, Name: "ffplay", Args: []string{
			"-nodisp", "-autoexit", "-f", "s16le", "-ac", "2", "-ar", r,
			"-probesize", "32", "-analyzeduration", "0", "-i", "pipe:0", "-loglevel", "quiet",
		}},
	}

	for _, c := range candidates {
		path, err := lookPath(c.Name)
		if err != nil {
			continue
		}
		c.Path = path
		return &c, nil
	}
	return nil, ErrNoAudioBackend
}
