// Package openai implements port.TextModel on the OpenAI Chat Completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"draftwise/internal/config"
	"draftwise/internal/llm"
	"draftwise/internal/port"
)

// Name is the provider name used in configuration.
const Name = "openai"

const (
	apiURL       = "https://api.openai.com/v1/chat/completions"
	defaultModel = "gpt-4o"
	maxBodyShown = 500
)

// Model implements port.TextModel over plain HTTP.
type Model struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// New creates an OpenAI model from a provider config. BaseURL, when set,
// replaces the chat completions endpoint.
func New(cfg *config.ProviderConfig) *Model {
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	endpoint := apiURL
	if cfg.BaseURL != "" {
		endpoint = cfg.BaseURL
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Model{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Factory adapts New to llm.ProviderFactory.
func Factory(cfg *config.ProviderConfig) (port.TextModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, eris.New("openai: api key is required")
	}
	return New(cfg), nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

// chatResponse models the Chat Completions API response.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (m *Model) Complete(ctx context.Context, prompt string, format port.ResponseFormat) (string, error) {
	reqBody := chatRequest{
		Model:    m.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	if format == port.FormatJSON {
		reqBody.ResponseFormat = map[string]string{"type": "json_object"}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", eris.Wrap(err, "openai: marshal request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", eris.Wrap(err, "openai: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "openai: call API")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "openai: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", llm.FromStatus(Name, resp.StatusCode, resp.Header, truncate(string(respBody), maxBodyShown))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", eris.Wrap(err, "openai: unmarshal response")
	}
	if len(parsed.Choices) == 0 {
		return "", eris.New("openai: empty response, no choices")
	}
	if parsed.Choices[0].FinishReason == "length" {
		return "", eris.New("openai: output truncated (finish_reason: length)")
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
