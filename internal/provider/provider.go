package provider

import (
	"fmt"
	"strings"

	"HNSummarizer/internal/config"
	"HNSummarizer/internal/ports"
)

// Factory builds a provider from the summarizer configuration.
type Factory func(cfg config.SummarizerConfig) (ports.SummaryProvider, error)

// Registry keeps a mapping from provider names to their factories.
// Adding a backend means registering a factory, not touching dispatch.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds or replaces a provider factory under name.
func (r *Registry) Register(name string, factory Factory) {
	if r.factories == nil {
		r.factories = map[string]Factory{}
	}
	r.factories[strings.ToLower(name)] = factory
}

// Resolve constructs the provider selected by the configuration. An
// unknown provider name is a configuration error raised at startup.
func (r *Registry) Resolve(cfg config.SummarizerConfig) (ports.SummaryProvider, error) {
	factory, ok := r.factories[strings.ToLower(strings.TrimSpace(cfg.Provider))]
	if !ok {
		return nil, fmt.Errorf("unsupported summarizer provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
