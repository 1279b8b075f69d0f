// Package gemini implements port.TextModel on the Gemini API.
package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"

	"draftwise/internal/config"
	"draftwise/internal/llm"
	"draftwise/internal/port"
)

// Name is the provider name used in configuration.
const Name = "gemini"

const defaultModel = "gemini-2.5-flash"

// Model implements port.TextModel using google.golang.org/genai.
type Model struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// New creates a Gemini model from a provider config.
func New(ctx context.Context, cfg *config.ProviderConfig) (*Model, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, eris.New("gemini: api key is required")
	}
	model := strings.TrimSpace(cfg.DefaultModel)
	if model == "" {
		model = defaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}

	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Model{client: client, model: model, timeout: timeout}, nil
}

// Factory adapts New to llm.ProviderFactory.
func Factory(cfg *config.ProviderConfig) (port.TextModel, error) {
	return New(context.Background(), cfg)
}

func (m *Model) Complete(ctx context.Context, prompt string, format port.ResponseFormat) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	gc := &genai.GenerateContentConfig{CandidateCount: 1}
	if format == port.FormatJSON {
		gc.ResponseMIMEType = "application/json"
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), gc)
	if err != nil {
		return "", classify(err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", eris.New("gemini: empty response")
	}
	return text, nil
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return llm.FromStatus(Name, apiErr.Code, http.Header{}, apiErr.Message)
	}
	return eris.Wrap(err, "gemini: generate content")
}
