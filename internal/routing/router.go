package routing

import (
	"sort"
	"sync"

	"github.com/ai-gateway/domain-analyst/internal/provider"
)

// Model describes a routable model.
type Model struct {
	Name    string `json:"name"`
	Default bool   `json:"default"`
}

// Router maps models to providers.
type Router struct {
	mu           sync.RWMutex
	providers    map[string]provider.Provider
	defaultModel string
}

func New() *Router {
	return &Router{providers: make(map[string]provider.Provider)}
}

// Register associates a model with a provider implementation. The first
// registered model becomes the default.
func (r *Router) Register(model string, p provider.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[model] = p
	if r.defaultModel == "" {
		r.defaultModel = model
	}
}

// Resolve returns the model that serves a request for model, falling back
// to the default for unknown or empty names, and its provider.
func (r *Router) Resolve(model string) (string, provider.Provider) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.providers[model]; ok {
		return model, p
	}
	return r.defaultModel, r.providers[r.defaultModel]
}

// ProviderFor returns the provider for a model or the default provider.
func (r *Router) ProviderFor(model string) provider.Provider {
	_, p := r.Resolve(model)
	return p
}

// Models lists the registered models sorted by name.
func (r *Router) Models() []Model {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Model, 0, len(r.providers))
	for name := range r.providers {
		out = append(out, Model{Name: name, Default: name == r.defaultModel})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
