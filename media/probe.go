package media

import (
	"os"

	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

// AudioInfo is what we learn about an extracted WAV file.
type AudioInfo struct {
	SampleRate uint32
	Channels   uint16
	BitDepth   uint16
	Duration   float64 // seconds
}

// IsTarget reports whether the audio is 16 kHz mono 16-bit PCM.
func (a AudioInfo) IsTarget() bool {
	return a.SampleRate == 16000 && a.Channels == 1 && a.BitDepth == 16
}

// Probe reads the WAV header of path.
func Probe(path string) (AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return AudioInfo{}, errors.Wrap(err, "open extracted audio")
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return AudioInfo{}, errors.Errorf("%s is not a valid wav file", path)
	}

	d, err := dec.Duration()
	if err != nil {
		return AudioInfo{}, errors.Wrap(err, "read wav duration")
	}

	return AudioInfo{
		SampleRate: dec.SampleRate,
		Channels:   dec.NumChans,
		BitDepth:   dec.BitDepth,
		Duration:   d.Seconds(),
	}, nil
}
