// Package claude implements port.TextModel on the Anthropic Messages API.
package claude

import (
	"context"
	"errors"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"draftwise/internal/config"
	"draftwise/internal/llm"
	"draftwise/internal/port"
)

// Name is the provider name used in configuration.
const Name = "claude"

const (
	defaultModel = "claude-sonnet-4-5"
	maxTokens    = 8192
)

// Model implements port.TextModel using anthropic-sdk-go.
type Model struct {
	client sdk.Client
	model  string
}

// New creates a Claude model from a provider config. Retries are left to
// llm.Retrying, so the SDK's own retries are disabled.
func New(cfg *config.ProviderConfig) (*Model, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, eris.New("claude: api key is required")
	}
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Model{client: sdk.NewClient(opts...), model: model}, nil
}

// Factory adapts New to llm.ProviderFactory.
func Factory(cfg *config.ProviderConfig) (port.TextModel, error) {
	return New(cfg)
}

func (m *Model) Complete(ctx context.Context, prompt string, format port.ResponseFormat) (string, error) {
	if format == port.FormatJSON {
		prompt += "\n\nRespond with the JSON object only."
	}

	msg, err := m.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(m.model),
		MaxTokens: maxTokens,
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(prompt))},
	})
	if err != nil {
		return "", classify(err)
	}
	if msg.StopReason == sdk.StopReasonMaxTokens {
		return "", eris.New("claude: output truncated at max tokens")
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", eris.New("claude: empty response")
	}
	return b.String(), nil
}

func classify(err error) error {
	var apiErr *sdk.Error
	if !errors.As(err, &apiErr) {
		return eris.Wrap(err, "claude: create message")
	}
	var header map[string][]string
	if apiErr.Response != nil {
		header = apiErr.Response.Header
	}
	return llm.FromStatus(Name, apiErr.StatusCode, header, apiErr.Error())
}
