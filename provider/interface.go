// Package provider implements the remote completion service behind the
// chat assistant.
//
// Every backend satisfies model.Provider, so the chat session stays
// provider-agnostic:
//
//   - OpenAIProvider talks to OpenAI (and OpenRouter, which is OpenAI-compatible)
//   - AnthropicProvider talks to Claude
//   - OllamaProvider talks to a local Ollama server
//
// Requests are single-shot (no streaming) and carry the model identifier,
// the system instruction, the role-tagged history, a token cap and a
// temperature. SDK retries are disabled: a failed exchange is reported once
// and the caller decides what to do with it.
//
// # Usage
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:   provider.ProviderTypeOpenAI,
//	    Model:  "gpt-4o-mini",
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	})
//	if err != nil {
//	    // handle error
//	}
//	reply, err := p.Complete(ctx, req)
package provider

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama     ProviderType = "ollama"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeAnthropic  ProviderType = "anthropic"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // unused for Ollama
}
