// Package providers registers the built-in text model providers and
// assembles the configured fallback chain.
package providers

import (
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"draftwise/internal/config"
	"draftwise/internal/llm"
	"draftwise/internal/llm/claude"
	"draftwise/internal/llm/gemini"
	"draftwise/internal/llm/openai"
	"draftwise/internal/port"
)

var registerOnce sync.Once

// Register adds claude, gemini and openai to the llm registry.
func Register() {
	registerOnce.Do(func() {
		llm.RegisterProvider(claude.Name, claude.Factory)
		llm.RegisterProvider(gemini.Name, gemini.Factory)
		llm.RegisterProvider(openai.Name, openai.Factory)
	})
}

// Build creates the model chain described by cfg. Each provider is rate
// limited and retried on its own; several providers are tried in order.
func Build(cfg *config.ModelConfig) (port.TextModel, error) {
	Register()

	chain := cfg.Chain()
	models := make([]port.TextModel, 0, len(chain))
	names := make([]string, 0, len(chain))
	for _, pc := range chain {
		m, err := llm.NewModel(pc)
		if err != nil {
			return nil, eris.Wrapf(err, "build %s model", pc.Provider)
		}
		if pc.RequestsPerMinute > 0 {
			m = llm.NewRateLimited(m, pc.RequestsPerMinute)
		}
		retry := llm.DefaultRetryConfig()
		retry.MaxAttempts = pc.MaxRetries + 1
		models = append(models, llm.NewRetrying(m, pc.Provider, retry))
		names = append(names, pc.Provider)
	}

	zap.L().Info("text model chain configured", zap.Strings("providers", names))
	if len(models) == 1 {
		return models[0], nil
	}
	return llm.NewFallbackModel(models, names), nil
}
