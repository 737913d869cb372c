// Package transcribe converts recorded testimony audio into text.
package transcribe

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Transcriber turns an audio stream into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename, contentType string) (string, error)
}

// Disabled rejects every request. Used when no API key is configured.
type Disabled struct{}

func (Disabled) Transcribe(context.Context, io.Reader, string, string) (string, error) {
	return "", fmt.Errorf("%w: transcription", common.ErrorFeatureDisabled)
}

type transcriptionAPI interface {
	New(ctx context.Context, body openai.AudioTranscriptionNewParams, opts ...option.RequestOption) (*openai.Transcription, error)
}

// OpenAI transcribes audio with the Whisper API.
type OpenAI struct {
	api      transcriptionAPI
	model    string
	language string
	timeout  time.Duration
}

type Options struct {
	APIKey   string
	Model    string
	Language string
	Timeout  time.Duration
}

func NewOpenAI(opts Options) *OpenAI {
	client := openai.NewClient(option.WithAPIKey(opts.APIKey))
	if opts.Model == "" {
		opts.Model = string(openai.AudioModelWhisper1)
	}
	return &OpenAI{
		api:      &client.Audio.Transcriptions,
		model:    opts.Model,
		language: opts.Language,
		timeout:  opts.Timeout,
	}
}

// Transcribe returns the recognized text. Any upstream failure or timeout
// is reported as common.ErrorTranscriptionFailed.
func (o *OpenAI) Transcribe(ctx context.Context, audio io.Reader, filename, contentType string) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(audio, filename, contentType),
		Model: openai.AudioModel(o.model),
	}
	if o.language != "" {
		params.Language = openai.String(o.language)
	}

	res, err := o.api.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorTranscriptionFailed, err)
	}
	return strings.TrimSpace(res.Text), nil
}
