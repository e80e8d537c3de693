package asr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI implements Backend using an OpenAI-compatible
// /audio/transcriptions endpoint (Whisper and friends).
//
// Any compatible provider works by setting WithBaseURL.
type OpenAI struct {
	client *openai.Client
	model  string
}

var _ Backend = (*OpenAI)(nil)

// OpenAIOption configures the OpenAI backend.
type OpenAIOption func(*openaiConfig)

type openaiConfig struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// WithBaseURL points the backend at a compatible non-OpenAI provider.
func WithBaseURL(url string) OpenAIOption {
	return func(c *openaiConfig) { c.baseURL = url }
}

// WithModel overrides the default whisper-1 model.
func WithModel(model string) OpenAIOption {
	return func(c *openaiConfig) { c.model = model }
}

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) OpenAIOption {
	return func(c *openaiConfig) { c.httpClient = hc }
}

// NewOpenAI creates the backend. The apiKey is required.
func NewOpenAI(apiKey string, opts ...OpenAIOption) *OpenAI {
	cfg := openaiConfig{
		model:      string(openai.AudioModelWhisper1),
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(&cfg)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(cfg.httpClient),
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}
	client := openai.NewClient(clientOpts...)

	return &OpenAI{client: &client, model: cfg.model}
}

// Transcribe sends the WAV bytes for recognition and classifies failures
// into the backend error taxonomy.
func (o *OpenAI) Transcribe(ctx context.Context, wavData []byte) (string, error) {
	resp, err := o.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(o.model),
		File:  openai.File(bytes.NewReader(wavData), "audio.wav", "audio/wav"),
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	return resp.Text, nil
}

func classifyOpenAIError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch {
		case apierr.StatusCode == http.StatusTooManyRequests || apierr.StatusCode >= 500:
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		case apierr.StatusCode == http.StatusBadRequest || apierr.StatusCode == http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: %v", ErrUnintelligible, err)
		default:
			return err
		}
	}
	// No HTTP response at all: connection refused, DNS failure, etc.
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
