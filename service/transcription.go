package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mrsingh-rishi/sign-captions/media"
	"github.com/mrsingh-rishi/sign-captions/model"
	"github.com/mrsingh-rishi/sign-captions/stt"
	"github.com/mrsingh-rishi/sign-captions/transcript"
)

// Client errors.
var (
	ErrMissingFile      = errors.New("No file uploaded")
	ErrUnsupportedType  = errors.New("Unsupported file type")
	ErrUnreadableUpload = errors.New("Uploaded file could not be read")
)

// ErrExtractorUnavailable is the configuration error reported when the
// extraction tool cannot be resolved.
var ErrExtractorUnavailable = media.ErrToolNotFound

// AllowedExtensions are the upload suffixes accepted, lowercase, without the dot.
var AllowedExtensions = map[string]struct{}{
	"mp4": {}, "mov": {}, "mkv": {}, "webm": {}, "mp3": {}, "wav": {}, "m4a": {},
}

// Extractor produces a 16 kHz mono WAV at output from the media at input.
type Extractor interface {
	ExtractAudio(ctx context.Context, input, output string) error
}

// Result is one finished transcription.
type Result struct {
	Text     string
	Words    []model.Word
	Duration *float64
}

// Response converts the result into the API body.
func (r *Result) Response() model.TranscribeResponse {
	return model.TranscribeResponse{Text: r.Text, Words: r.Words, Duration: r.Duration}
}

// Transcription runs upload → extract → transcribe → tokenize. It keeps no
// state between calls; every call owns its own scratch directory.
type Transcription struct {
	extractor   Extractor
	transcriber stt.Transcriber
	scratchRoot string
	probe       func(path string) (media.AudioInfo, error)
}

func NewTranscription(extractor Extractor, transcriber stt.Transcriber) (*Transcription, error) {
	if extractor == nil {
		return nil, errors.New("extractor is required")
	}
	if transcriber == nil {
		return nil, errors.New("transcriber is required")
	}
	return &Transcription{
		extractor:   extractor,
		transcriber: transcriber,
		probe:       media.Probe,
	}, nil
}

// Extension returns the lowercase text after the last dot of filename, or the
// whole name when there is no dot, and whether that suffix is allowed.
func Extension(filename string) (string, bool) {
	if filename == "" {
		filename = "upload"
	}
	ext := strings.ToLower(filename[strings.LastIndex(filename, ".")+1:])
	_, ok := AllowedExtensions[ext]
	return ext, ok
}

// Transcribe processes one upload. Scratch files are removed before it returns.
func (s *Transcription) Transcribe(ctx context.Context, filename string, upload io.Reader) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	if upload == nil {
		return nil, ErrMissingFile
	}
	ext, ok := Extension(filename)
	if !ok {
		return nil, ErrUnsupportedType
	}

	dir, err := os.MkdirTemp(s.scratchRoot, "upload-"+uuid.NewString()+"-")
	if err != nil {
		return nil, errors.Wrap(err, "create scratch dir")
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn().Err(err).Str("dir", dir).Msg("scratch cleanup failed")
		}
	}()

	input := filepath.Join(dir, "input."+ext)
	if err := save(input, upload); err != nil {
		return nil, errors.Wrap(ErrUnreadableUpload, err.Error())
	}
	logger.Debug().Str("path", input).Msg("upload saved")

	audio := filepath.Join(dir, "audio.wav")
	if err := s.extractor.ExtractAudio(ctx, input, audio); err != nil {
		if errors.Is(err, ErrExtractorUnavailable) {
			return nil, err
		}
		return nil, errors.Wrap(err, "extract audio")
	}

	var duration *float64
	if info, err := s.probe(audio); err != nil {
		logger.Debug().Err(err).Msg("could not read extracted audio duration")
	} else {
		if !info.IsTarget() {
			logger.Warn().
				Uint32("sample_rate", info.SampleRate).
				Uint16("channels", info.Channels).
				Uint16("bit_depth", info.BitDepth).
				Msg("extracted audio is not 16 kHz mono 16-bit")
		}
		d := info.Duration
		duration = &d
	}

	tr, err := s.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return nil, errors.Wrap(err, "transcribe")
	}
	logger.Info().Str("source", string(tr.Source)).Str("model", tr.Model).Msg("transcribed")

	return &Result{
		Text:     tr.Text,
		Words:    transcript.Tokenize(tr.Text),
		Duration: duration,
	}, nil
}

func save(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
