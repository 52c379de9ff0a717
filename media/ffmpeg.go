package media

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const maxStderr = 500

// FFmpeg extracts a 16 kHz mono PCM WAV from any audio or video input.
type FFmpeg struct {
	resolver *Resolver
}

func NewFFmpeg(resolver *Resolver) *FFmpeg {
	return &FFmpeg{resolver: resolver}
}

// Args returns the argument list passed to the tool.
func Args(input, output string) []string {
	return []string{
		"-y",
		"-i", input,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		output,
	}
}

// ExtractAudio writes the audio track of input to output.
// Returns ErrToolNotFound (unwrapped) if the tool cannot be resolved.
func (f *FFmpeg) ExtractAudio(ctx context.Context, input, output string) error {
	exe, err := f.resolver.Executable(ctx)
	if err != nil {
		return err
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, exe, Args(input, output)...)
	cmd.Stderr = &stderr

	log.Debug().Str("exe", exe).Str("input", input).Msg("extracting audio")
	if err := cmd.Run(); err != nil {
		msg := stderr.String()
		if len(msg) > maxStderr {
			msg = msg[:maxStderr]
		}
		return errors.Wrapf(err, "ffmpeg failed (cmd: %s): %s", exe, msg)
	}
	return nil
}
