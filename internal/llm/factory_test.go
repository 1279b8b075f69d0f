package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftwise/internal/config"
	"draftwise/internal/llm"
	"draftwise/internal/port"
	"draftwise/mocks"
)

func TestNewModel(t *testing.T) {
	stub := new(mocks.MockTextModel)
	llm.RegisterProvider("stub", func(cfg *config.ProviderConfig) (port.TextModel, error) {
		return stub, nil
	})

	m, err := llm.NewModel(&config.ProviderConfig{Provider: "stub"})
	require.NoError(t, err)
	assert.Same(t, stub, m)
	assert.Contains(t, llm.Providers(), "stub")

	_, err = llm.NewModel(&config.ProviderConfig{Provider: "nope"})
	assert.Error(t, err)
}
