package llm

import (
	"sort"
	"sync"

	"github.com/rotisserie/eris"

	"draftwise/internal/config"
	"draftwise/internal/port"
)

// ProviderFactory creates a TextModel from a provider config.
type ProviderFactory func(cfg *config.ProviderConfig) (port.TextModel, error)

var (
	mu        sync.RWMutex
	providers = map[string]ProviderFactory{}
)

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	mu.Lock()
	defer mu.Unlock()
	providers[name] = factory
}

// Providers lists the registered provider names.
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewModel creates a TextModel from a provider config using the registered factory.
func NewModel(cfg *config.ProviderConfig) (port.TextModel, error) {
	mu.RLock()
	factory, ok := providers[cfg.Provider]
	mu.RUnlock()
	if !ok {
		return nil, eris.Errorf("unknown model provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
