package stt

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/mrsingh-rishi/sign-captions/queue"
)

// OpenAI transcribes through the audio transcriptions endpoint, falling
// back through Models and finally to UnavailableText.
type OpenAI struct {
	Client *openai.Client
	Models []string
}

func NewOpenAI(apiKey, baseURL string, models ...string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if len(models) == 0 {
		models = Models
	}
	return &OpenAI{
		Client: openai.NewClientWithConfig(cfg),
		Models: models,
	}
}

func (o *OpenAI) Transcribe(ctx context.Context, audioPath string) (Result, error) {
	candidates := queue.New(o.Models...)
	for {
		model, ok := candidates.Dequeue()
		if !ok {
			break
		}
		text, err := o.transcribeWith(ctx, model, audioPath)
		if err != nil {
			log.Warn().Err(err).Str("model", model).Msg("transcription attempt failed")
			continue
		}
		return Result{Text: text, Source: SourceAPI, Model: model}, nil
	}
	return Result{Text: UnavailableText, Source: SourceFallback}, nil
}

func (o *OpenAI) transcribeWith(ctx context.Context, model, audioPath string) (string, error) {
	resp, err := o.Client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: audioPath,
	})
	if err != nil {
		return "", errors.Wrapf(err, "create transcription with %s", model)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", errors.Errorf("%s returned an empty transcript", model)
	}
	return resp.Text, nil
}
