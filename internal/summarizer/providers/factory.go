package providers

import (
	"sync"

	"github.com/localrivet/pagesummary/internal/settings"
)

// Registry maps provider kinds to adapters
type Registry struct {
	mu       sync.RWMutex
	adapters map[settings.ProviderKind]Adapter
}

// NewRegistry creates a registry holding the OpenAI, Gemini and DeepSeek
// adapters. Options.Endpoint is ignored here since each provider has its own
// URL; register a custom adapter to point one kind at a test server.
func NewRegistry(opts Options) *Registry {
	shared := Options{HTTPClient: opts.client()}

	r := &Registry{adapters: make(map[settings.ProviderKind]Adapter)}
	r.Register(NewOpenAIProvider(shared))
	r.Register(NewGeminiProvider(shared))
	r.Register(NewDeepSeekProvider(shared))
	return r
}

// NewEmptyRegistry creates a registry with no adapters
func NewEmptyRegistry() *Registry {
	return &Registry{adapters: make(map[settings.ProviderKind]Adapter)}
}

// Register adds or replaces the adapter for a.Kind()
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Kind()] = a
}

// Get returns the adapter registered for kind
func (r *Registry) Get(kind settings.ProviderKind) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[kind]
	return a, ok
}
