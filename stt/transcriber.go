package stt

import (
	"context"

	"github.com/mrsingh-rishi/sign-captions/config"
)

// Texts returned when no real transcription is produced.
const (
	StubText        = "hello world this is a sample transcription for sign translation demo"
	UnavailableText = "transcription unavailable (OpenAI models not reachable)"
)

// Models are tried in order until one returns text.
var Models = []string{"gpt-4o-transcribe", "whisper-1"}

// Source tells where a transcript came from.
type Source string

const (
	SourceAPI      Source = "api"
	SourceFallback Source = "fallback"
	SourceStub     Source = "stub"
)

// Result of a transcription. Text is never empty.
type Result struct {
	Text   string
	Source Source
	Model  string
}

// Transcriber turns an extracted WAV into text. Implementations degrade
// to placeholder text instead of failing; the error return is reserved
// for conditions the caller must surface.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (Result, error)
}

// New picks the OpenAI backend when a credential is configured, the stub otherwise.
func New(cfg *config.Config) Transcriber {
	if !cfg.HasCredential() {
		return Stub{}
	}
	return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, Models...)
}

// Stub always returns StubText.
type Stub struct{}

func (Stub) Transcribe(context.Context, string) (Result, error) {
	return Result{Text: StubText, Source: SourceStub}, nil
}
