package provider

import (
	"fmt"

	"thinky/model"
)

// NewProvider creates a provider based on configuration.
//
// Returns an error if the provider type is unknown or the
// provider-specific constructor fails (e.g. missing API key).
func NewProvider(cfg Config) (model.Provider, error) {
	var (
		p   model.Provider
		err error
	)
	// Each case assigns only on success so a failed constructor never
	// leaves a typed nil inside the interface.
	switch cfg.Type {
	case ProviderTypeOllama:
		var op *OllamaProvider
		if op, err = NewOllamaProvider(cfg.BaseURL, cfg.Model); err == nil {
			p = op
		}
	case ProviderTypeOpenRouter:
		var op *OpenAIProvider
		if op, err = NewOpenRouterProvider(cfg.BaseURL, cfg.APIKey, cfg.Model); err == nil {
			p = op
		}
	case ProviderTypeOpenAI:
		var op *OpenAIProvider
		if op, err = NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model); err == nil {
			p = op
		}
	case ProviderTypeAnthropic:
		var ap *AnthropicProvider
		if ap, err = NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model); err == nil {
			p = ap
		}
	default:
		err = fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// MapProviderIDToType converts a config provider ID to a ProviderType.
// Unknown IDs pass through unchanged so the factory reports them.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "ollama":
		return ProviderTypeOllama
	case "openrouter":
		return ProviderTypeOpenRouter
	case "openai":
		return ProviderTypeOpenAI
	case "anthropic":
		return ProviderTypeAnthropic
	default:
		return ProviderType(id)
	}
}
